package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/chris-regnier/termdiary/internal/entry"
)

// ReadFile reads a single-entry export back, choosing the parser from the
// file extension.
func ReadFile(path string) (entry.Entry, error) {
	f, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return entry.Entry{}, err
	}
	file, err := os.Open(path)
	if err != nil {
		return entry.Entry{}, fmt.Errorf("%w: opening %s: %v", ErrIO, path, err)
	}
	defer file.Close()

	e, err := Parse(file, f)
	if err != nil {
		return entry.Entry{}, fmt.Errorf("%s: %w", path, err)
	}
	return e, nil
}

// Parse reads one entry in the given format. The result is normalised but
// not validated beyond its date.
func Parse(r io.Reader, f Format) (entry.Entry, error) {
	switch f {
	case Markdown:
		return parseMarkdown(r)
	case Text:
		return parseText(r)
	}
	return entry.Entry{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(f))
}

func parseMarkdown(r io.Reader) (entry.Entry, error) {
	var fm frontMatter
	rest, err := frontmatter.Parse(r, &fm)
	if err != nil {
		return entry.Entry{}, fmt.Errorf("%w: parsing front matter: %v", ErrInvalidExport, err)
	}
	if fm.Date == "" {
		return entry.Entry{}, fmt.Errorf("%w: front matter has no date", ErrInvalidExport)
	}
	date, err := entry.ParseDate(fm.Date)
	if err != nil {
		return entry.Entry{}, fmt.Errorf("%w: %v", ErrInvalidExport, err)
	}

	body := strings.TrimLeft(string(rest), "\r\n")
	if fm.Title != "" {
		heading := "# " + fm.Title
		if body == heading || strings.HasPrefix(body, heading+"\n") {
			body = strings.TrimPrefix(body, heading)
		}
	}

	e := entry.Entry{
		ID:    fm.ID,
		Date:  date,
		Title: fm.Title,
		Body:  body,
		Mood:  fm.Mood,
		Tags:  fm.Tags,
	}
	if e.CreatedAt, err = parseTime(fm.CreatedAt); err != nil {
		return entry.Entry{}, err
	}
	if e.UpdatedAt, err = parseTime(fm.UpdatedAt); err != nil {
		return entry.Entry{}, err
	}
	return entry.Normalize(e), nil
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: timestamp %q: %v", ErrInvalidExport, s, err)
	}
	return t.UTC(), nil
}

func parseText(r io.Reader) (entry.Entry, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var header []string
	for len(header) < 3 && sc.Scan() {
		header = append(header, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return entry.Entry{}, fmt.Errorf("%w: %v", ErrIO, err)
	}
	if len(header) < 3 {
		return entry.Entry{}, fmt.Errorf("%w: missing header lines", ErrInvalidExport)
	}

	sep := strings.LastIndex(header[0], " - ")
	if sep < 0 {
		return entry.Entry{}, fmt.Errorf("%w: first line must be \"<title> - <date>\"", ErrInvalidExport)
	}
	title := header[0][:sep]
	if title == "(No Title)" {
		title = ""
	}
	date, err := entry.ParseDate(header[0][sep+3:])
	if err != nil {
		return entry.Entry{}, fmt.Errorf("%w: %v", ErrInvalidExport, err)
	}

	mood, ok := strings.CutPrefix(header[1], "Mood:")
	if !ok {
		return entry.Entry{}, fmt.Errorf("%w: expected \"Mood:\" line", ErrInvalidExport)
	}
	tags, ok := strings.CutPrefix(header[2], "Tags:")
	if !ok {
		return entry.Entry{}, fmt.Errorf("%w: expected \"Tags:\" line", ErrInvalidExport)
	}

	var body []string
	for sc.Scan() {
		body = append(body, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return entry.Entry{}, fmt.Errorf("%w: %v", ErrIO, err)
	}

	return entry.Normalize(entry.Entry{
		Date:  date,
		Title: title,
		Body:  strings.Join(body, "\n"),
		Mood:  mood,
		Tags:  entry.ParseTags(tags),
	}), nil
}
