package menu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
)

// ErrCanceled is returned by a Prompter when the user interrupts input.
var ErrCanceled = errors.New("canceled")

// Prompter reads one line of input after showing a prompt. The returned
// line has no trailing newline. io.EOF signals the end of input.
type Prompter interface {
	ReadLine(prompt string) (string, error)
	Close() error
}

// LinePrompter reads lines from any reader. It is used when stdin is not a
// terminal and in tests.
type LinePrompter struct {
	r *bufio.Reader
	w io.Writer
}

// NewLinePrompter returns a prompter reading from r and echoing prompts to w.
func NewLinePrompter(r io.Reader, w io.Writer) *LinePrompter {
	return &LinePrompter{r: bufio.NewReader(r), w: w}
}

func (p *LinePrompter) ReadLine(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(p.w, prompt)
	}
	line, err := p.r.ReadString('\n')
	if err != nil {
		// A final line without a newline still counts.
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (p *LinePrompter) Close() error { return nil }

// ReadlinePrompter provides line editing and persistent history on a
// terminal.
type ReadlinePrompter struct {
	rl *readline.Instance
}

// NewReadlinePrompter opens a readline instance on the process terminal.
// An empty historyFile disables history persistence.
func NewReadlinePrompter(historyFile string) (*ReadlinePrompter, error) {
	if historyFile != "" {
		if err := os.MkdirAll(filepath.Dir(historyFile), 0755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}
	rl, err := readline.NewEx(&readline.Config{
		HistoryFile:       historyFile,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
		Stdin:             readline.NewCancelableStdin(os.Stdin),
		Stdout:            os.Stdout,
		Stderr:            os.Stderr,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize readline: %w", err)
	}
	return &ReadlinePrompter{rl: rl}, nil
}

func (p *ReadlinePrompter) ReadLine(prompt string) (string, error) {
	p.rl.SetPrompt(prompt)
	line, err := p.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", ErrCanceled
	}
	if err != nil {
		return "", err
	}
	return line, nil
}

func (p *ReadlinePrompter) Close() error {
	return p.rl.Close()
}
