package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/chris-regnier/termdiary/internal/export"
	"github.com/chris-regnier/termdiary/internal/storage"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"not found", fmt.Errorf("%w: 2026-01-01", storage.ErrNotFound), ExitUserError},
		{"validation", fmt.Errorf("%w: bad date", storage.ErrValidation), ExitUserError},
		{"usage", fmt.Errorf("%w: need --yes", errUsage), ExitUserError},
		{"format", export.ErrUnsupportedFormat, ExitUserError},
		{"storage", fmt.Errorf("initializing sqlite storage: %w", storage.ErrStorage), ExitIOError},
		{"malformed", storage.ErrMalformed, ExitIOError},
		{"export io", fmt.Errorf("%w: disk full", export.ErrIO), ExitIOError},
		{"path error", &fs.PathError{Op: "open", Path: "x", Err: fs.ErrPermission}, ExitIOError},
		{"other", errors.New("boom"), ExitUserError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
