package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// BodyDiff is a line-oriented comparison of two entry bodies.
type BodyDiff struct {
	Lines   []DiffLine
	Added   int
	Deleted int
}

// DiffLine is one line of a BodyDiff. Op is '+', '-' or ' '.
type DiffLine struct {
	Op   byte
	Text string
}

// Changed reports whether the bodies differ.
func (d BodyDiff) Changed() bool {
	return d.Added > 0 || d.Deleted > 0
}

// DiffBodies compares old and new line by line.
func DiffBodies(oldBody, newBody string) BodyDiff {
	var out BodyDiff
	if oldBody == newBody {
		return out
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(withNewline(oldBody), withNewline(newBody))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	for _, d := range diffs {
		text := strings.TrimSuffix(d.Text, "\n")
		for _, line := range strings.Split(text, "\n") {
			switch d.Type {
			case diffmatchpatch.DiffInsert:
				out.Lines = append(out.Lines, DiffLine{Op: '+', Text: line})
				out.Added++
			case diffmatchpatch.DiffDelete:
				out.Lines = append(out.Lines, DiffLine{Op: '-', Text: line})
				out.Deleted++
			default:
				out.Lines = append(out.Lines, DiffLine{Op: ' ', Text: line})
			}
		}
	}
	return out
}

// withNewline terminates the last line so an appended line does not show
// up as a change to its predecessor.
func withNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

// FormatBodyDiff renders the diff of two bodies with +/- prefixes. When
// styled is set, added and removed lines are colored from the theme.
func FormatBodyDiff(oldBody, newBody string, styled bool, theme Theme) string {
	d := DiffBodies(oldBody, newBody)
	if !d.Changed() {
		return ""
	}

	added := lipgloss.NewStyle().Foreground(theme.Accent)
	removed := lipgloss.NewStyle().Foreground(theme.Danger)

	var b strings.Builder
	for _, l := range d.Lines {
		line := string(l.Op) + l.Text
		if styled {
			switch l.Op {
			case '+':
				line = added.Render(line)
			case '-':
				line = removed.Render(line)
			}
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
