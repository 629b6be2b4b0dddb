// Package export renders diary entries as plain text or Markdown and writes
// them to files.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"
	"unicode"

	"github.com/chris-regnier/termdiary/internal/entry"
	"gopkg.in/yaml.v3"
)

// Format selects the export representation.
type Format string

const (
	Text     Format = "txt"
	Markdown Format = "md"
)

var (
	// ErrUnsupportedFormat is returned for any format other than txt or md.
	ErrUnsupportedFormat = errors.New("unsupported export format")
	// ErrIO wraps file system failures while exporting or importing.
	ErrIO = errors.New("export I/O failure")
	// ErrInvalidExport is returned when a file is not a readable entry export.
	ErrInvalidExport = errors.New("not a diary entry export")
)

// ParseFormat accepts "txt" or "md" in any case, with or without a leading dot.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "."))
	switch f {
	case Text, Markdown:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q (use txt or md)", ErrUnsupportedFormat, s)
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// frontMatter is the YAML header of a Markdown export. Field order is the
// order written to disk.
type frontMatter struct {
	Date      string   `yaml:"date"`
	Title     string   `yaml:"title,omitempty"`
	Mood      string   `yaml:"mood,omitempty"`
	Tags      []string `yaml:"tags,omitempty"`
	ID        string   `yaml:"id,omitempty"`
	CreatedAt string   `yaml:"created_at,omitempty"`
	UpdatedAt string   `yaml:"updated_at,omitempty"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// WriteEntry renders a single entry.
func WriteEntry(w io.Writer, e entry.Entry, f Format) error {
	var data []byte
	var err error
	switch f {
	case Text:
		data = []byte(renderText(e))
	case Markdown:
		data, err = renderMarkdown(e)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(f))
	}
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func renderText(e entry.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s - %s\n", e.DisplayTitle(), e.Date)
	fmt.Fprintf(&b, "Mood: %s\n", e.Mood)
	fmt.Fprintf(&b, "Tags: %s\n", strings.Join(e.Tags, ", "))
	b.WriteString("\n")
	b.WriteString(e.Body)
	if e.Body != "" {
		b.WriteString("\n")
	}
	return b.String()
}

func renderMarkdown(e entry.Entry) ([]byte, error) {
	fm := frontMatter{
		Date:      e.Date,
		Title:     e.Title,
		Mood:      e.Mood,
		Tags:      e.Tags,
		ID:        e.ID,
		CreatedAt: formatTime(e.CreatedAt),
		UpdatedAt: formatTime(e.UpdatedAt),
	}

	var b bytes.Buffer
	b.WriteString("---\n")
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return nil, fmt.Errorf("encoding front matter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding front matter: %w", err)
	}
	b.WriteString("---\n")
	if e.Title != "" {
		fmt.Fprintf(&b, "\n# %s\n", e.Title)
	}
	if e.Body != "" {
		b.WriteString("\n")
		b.WriteString(e.Body)
		b.WriteString("\n")
	}
	return b.Bytes(), nil
}

const textRule = "========================================"

// section is the view of one entry inside a collection document.
type section struct {
	Heading string
	Meta    []string
	Body    string
}

var collectionTmpl = template.Must(template.New("collection").Parse(`# Diary
{{range .}}
## {{.Heading}}
{{if .Meta}}
{{range .Meta}}- {{.}}
{{end}}{{end}}{{if .Body}}
{{.Body}}
{{end}}{{end}}`))

// WriteAll renders a collection of entries as one document with a section
// per entry.
func WriteAll(w io.Writer, entries []entry.Entry, f Format) error {
	switch f {
	case Markdown:
		sections := make([]section, 0, len(entries))
		for _, e := range entries {
			s := section{Heading: e.Date + ": " + e.DisplayTitle(), Body: e.Body}
			if e.Mood != "" {
				s.Meta = append(s.Meta, "**Mood:** "+e.Mood)
			}
			if len(e.Tags) > 0 {
				s.Meta = append(s.Meta, "**Tags:** "+strings.Join(e.Tags, ", "))
			}
			sections = append(sections, s)
		}
		if err := collectionTmpl.Execute(w, sections); err != nil {
			return fmt.Errorf("rendering collection: %w", err)
		}
		return nil
	case Text:
		for i, e := range entries {
			if i > 0 {
				if _, err := fmt.Fprintf(w, "\n%s\n\n", textRule); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, renderText(e)); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(f))
}

// SafeName keeps letters, digits, spaces, dashes and underscores and trims
// trailing spaces.
func SafeName(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// FileName returns the default export name for e, without extension.
func FileName(e entry.Entry) string {
	safe := strings.TrimSpace(SafeName(e.Title))
	if safe == "" {
		return e.Date
	}
	return e.Date + "-" + safe
}

// EntryToFile writes e to path, appending the format's extension when it is
// missing. The written path is returned.
func EntryToFile(e entry.Entry, path string, f Format) (string, error) {
	if _, err := ParseFormat(string(f)); err != nil {
		return "", err
	}
	if !strings.HasSuffix(strings.ToLower(path), f.Ext()) {
		path += f.Ext()
	}

	var buf bytes.Buffer
	if err := WriteEntry(&buf, e, f); err != nil {
		return "", err
	}
	if err := atomicWrite(path, buf.Bytes()); err != nil {
		return "", err
	}
	return path, nil
}

// CollectionToFile writes entries as a single document to path, appending
// the extension when it is missing.
func CollectionToFile(entries []entry.Entry, path string, f Format) (string, error) {
	if _, err := ParseFormat(string(f)); err != nil {
		return "", err
	}
	if !strings.HasSuffix(strings.ToLower(path), f.Ext()) {
		path += f.Ext()
	}

	var buf bytes.Buffer
	if err := WriteAll(&buf, entries, f); err != nil {
		return "", err
	}
	if err := atomicWrite(path, buf.Bytes()); err != nil {
		return "", err
	}
	return path, nil
}

// AllToFolder writes one file per entry into dir and returns the paths in
// the order of entries.
func AllToFolder(entries []entry.Entry, dir string, f Format) ([]string, error) {
	if _, err := ParseFormat(string(f)); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("%w: creating %s: %v", ErrIO, dir, err)
	}
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		p, err := EntryToFile(e, filepath.Join(dir, FileName(e)), f)
		if err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// atomicWrite writes data to a temp file then renames it to the target path.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: creating directory: %v", ErrIO, err)
	}

	tmp, err := os.CreateTemp(dir, ".export-*")
	if err != nil {
		return fmt.Errorf("%w: creating temp file: %v", ErrIO, err)
	}
	tmpName := tmp.Name()

	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: setting permissions: %v", ErrIO, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: writing %s: %v", ErrIO, path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: closing temp file: %v", ErrIO, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: renaming file: %v", ErrIO, err)
	}
	return nil
}
