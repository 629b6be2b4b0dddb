package entry

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	idLength   = 8

	// DateLayout is the canonical on-disk and on-screen date format.
	DateLayout = "2006-01-02"

	maxMoodLength = 40
	maxTagLength  = 40
)

// ErrInvalidDate is returned when a date is not in YYYY-MM-DD form.
var ErrInvalidDate = errors.New("date should be in YYYY-MM-DD format")

var idPattern = regexp.MustCompile(`^[a-z0-9]{8}$`)

// Entry represents a single diary entry. Date is the identifying key.
type Entry struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Mood      string    `json:"mood"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewID generates a new nanoid for an entry.
func NewID() (string, error) {
	return gonanoid.Generate(idAlphabet, idLength)
}

// ValidateID checks whether an ID matches the expected pattern.
func ValidateID(id string) error {
	if !idPattern.MatchString(id) {
		return fmt.Errorf("invalid entry ID: %q (must be 8 lowercase alphanumeric characters)", id)
	}
	return nil
}

// ParseDate validates s as a calendar date and returns it in canonical form.
func ParseDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t.Format(DateLayout), nil
}

// DateOf returns the local calendar date of t.
func DateOf(t time.Time) string {
	return t.Local().Format(DateLayout)
}

// Today returns today's local calendar date.
func Today() string {
	return DateOf(time.Now())
}

// ParseTags splits comma-separated input into a normalised tag set.
func ParseTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	return NormalizeTags(strings.Split(s, ","))
}

// NormalizeTags trims, drops empty labels, removes duplicates and sorts.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Normalize returns a copy of e with trimmed fields and a normalised tag set.
// The body loses leading blank lines and trailing whitespace; indentation on
// its first line is kept.
func Normalize(e Entry) Entry {
	e.Date = strings.TrimSpace(e.Date)
	e.Title = strings.TrimSpace(e.Title)
	e.Body = trimBody(e.Body)
	e.Mood = strings.TrimSpace(e.Mood)
	e.Tags = NormalizeTags(e.Tags)
	return e
}

func trimBody(body string) string {
	body = strings.TrimRight(body, " \t\r\n")
	for {
		i := strings.IndexByte(body, '\n')
		if i < 0 || strings.TrimSpace(body[:i]) != "" {
			return body
		}
		body = body[i+1:]
	}
}

// ValidateTitle checks that a title fits on one line.
func ValidateTitle(title string) error {
	if strings.ContainsAny(title, "\r\n") {
		return fmt.Errorf("title must be a single line")
	}
	return nil
}

// ValidateMood checks that a mood is a short single-line label.
func ValidateMood(mood string) error {
	if strings.ContainsAny(mood, "\r\n") {
		return fmt.Errorf("mood must be a single line")
	}
	if utf8.RuneCountInString(mood) > maxMoodLength {
		return fmt.Errorf("mood must be at most %d characters", maxMoodLength)
	}
	return nil
}

// ValidateTag checks a single tag label.
func ValidateTag(tag string) error {
	if strings.ContainsAny(tag, ",\r\n") {
		return fmt.Errorf("invalid tag %q: must not contain commas or newlines", tag)
	}
	if utf8.RuneCountInString(tag) > maxTagLength {
		return fmt.Errorf("invalid tag %q: must be at most %d characters", tag, maxTagLength)
	}
	return nil
}

// Validate checks every field of a normalised entry.
func Validate(e Entry) error {
	if _, err := ParseDate(e.Date); err != nil {
		return err
	}
	if strings.TrimSpace(e.Title) == "" && strings.TrimSpace(e.Body) == "" {
		return fmt.Errorf("entry needs a title or a body")
	}
	if err := ValidateTitle(e.Title); err != nil {
		return err
	}
	if err := ValidateMood(e.Mood); err != nil {
		return err
	}
	for _, t := range e.Tags {
		if err := ValidateTag(t); err != nil {
			return err
		}
	}
	return nil
}

// Matches reports whether keyword occurs, ignoring case, in the title, the
// body, or any tag.
func (e *Entry) Matches(keyword string) bool {
	k := strings.ToLower(strings.TrimSpace(keyword))
	if k == "" {
		return false
	}
	if strings.Contains(strings.ToLower(e.Title), k) || strings.Contains(strings.ToLower(e.Body), k) {
		return true
	}
	for _, t := range e.Tags {
		if strings.Contains(strings.ToLower(t), k) {
			return true
		}
	}
	return false
}

// HasTag reports whether the entry carries tag exactly.
func (e *Entry) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Preview returns a truncated single-line preview of the body, falling back
// to the title for body-less entries.
func (e *Entry) Preview(maxLen int) string {
	content := e.Body
	if strings.TrimSpace(content) == "" {
		content = e.Title
	}
	content = strings.Join(strings.Fields(content), " ")
	if utf8.RuneCountInString(content) <= maxLen {
		return content
	}
	runes := []rune(content)
	if maxLen <= 3 {
		return string(runes[:max(maxLen, 0)])
	}
	return string(runes[:maxLen-3]) + "..."
}

// DisplayTitle returns the title or a placeholder.
func (e *Entry) DisplayTitle() string {
	if e.Title == "" {
		return "(No Title)"
	}
	return e.Title
}

// Patch describes a partial edit. Nil fields are left untouched.
type Patch struct {
	Title *string
	Body  *string
	Mood  *string
	Tags  []string
	// SetTags distinguishes "clear all tags" from "leave tags alone".
	SetTags bool
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Body == nil && p.Mood == nil && !p.SetTags
}

// WithTags returns a copy of p that replaces the tag set.
func (p Patch) WithTags(tags []string) Patch {
	p.Tags = tags
	p.SetTags = true
	return p
}

// Apply returns a normalised copy of e with the patch applied. The date is
// never changed.
func (e Entry) Apply(p Patch) Entry {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Body != nil {
		e.Body = *p.Body
	}
	if p.Mood != nil {
		e.Mood = *p.Mood
	}
	if p.SetTags {
		e.Tags = append([]string(nil), p.Tags...)
	}
	return Normalize(e)
}

// Changed reports whether a and b differ in any user-editable field.
func Changed(a, b Entry) bool {
	if a.Title != b.Title || a.Body != b.Body || a.Mood != b.Mood {
		return true
	}
	if len(a.Tags) != len(b.Tags) {
		return true
	}
	for i := range a.Tags {
		if a.Tags[i] != b.Tags[i] {
			return true
		}
	}
	return false
}
