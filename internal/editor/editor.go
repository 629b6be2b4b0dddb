// Package editor opens entry bodies in the user's external editor.
package editor

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// ErrEmptyCommand is returned when no editor command is configured.
var ErrEmptyCommand = errors.New("empty editor command")

// ResolveEditor determines which editor to use based on config, env vars, and fallback.
func ResolveEditor(configEditor string) string {
	if configEditor != "" {
		return configEditor
	}
	if ed := os.Getenv("EDITOR"); ed != "" {
		return ed
	}
	if ed := os.Getenv("VISUAL"); ed != "" {
		return ed
	}
	return "vi"
}

// Editor runs an external editor command attached to the given streams.
type Editor struct {
	Command string
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
}

// New returns an Editor for the resolved command on the process's terminal.
func New(configEditor string) *Editor {
	return &Editor{
		Command: ResolveEditor(configEditor),
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

// Edit opens initial in the editor and returns the saved text with
// surrounding whitespace trimmed. changed is false when the result is empty
// or equal to the input, in which case initial is returned.
func (e *Editor) Edit(initial string) (body string, changed bool, err error) {
	parts := strings.Fields(e.Command)
	if len(parts) == 0 {
		return "", false, ErrEmptyCommand
	}

	tmp, err := os.CreateTemp("", "termdiary-*.md")
	if err != nil {
		return "", false, fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.WriteString(initial); err != nil {
		tmp.Close()
		return "", false, fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", false, fmt.Errorf("closing temp file: %w", err)
	}

	cmd := exec.Command(parts[0], append(parts[1:], tmpName)...)
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr
	if err := cmd.Run(); err != nil {
		return "", false, fmt.Errorf("editor exited with error: %w", err)
	}

	data, err := os.ReadFile(tmpName)
	if err != nil {
		return "", false, fmt.Errorf("reading edited file: %w", err)
	}

	result := strings.TrimSpace(string(data))
	if result == "" || result == strings.TrimSpace(initial) {
		return initial, false, nil
	}
	return result, true, nil
}
