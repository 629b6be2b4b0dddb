package cmd

import (
	"errors"
	"io/fs"

	"github.com/chris-regnier/termdiary/internal/export"
	"github.com/chris-regnier/termdiary/internal/storage"
)

// Exit codes.
const (
	ExitOK        = 0
	ExitUserError = 1
	ExitIOError   = 2
)

// errUsage marks invocations that are rejected before touching storage.
var errUsage = errors.New("usage error")

// ExitCode maps an error returned by Execute to the process exit status.
// Storage and file system failures exit 2; everything else a user can fix
// by changing the input exits 1.
func ExitCode(err error) int {
	var pathErr *fs.PathError
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, storage.ErrStorage),
		errors.Is(err, storage.ErrMalformed),
		errors.Is(err, export.ErrIO),
		errors.As(err, &pathErr):
		return ExitIOError
	default:
		return ExitUserError
	}
}
