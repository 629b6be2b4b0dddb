package storage

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/chris-regnier/termdiary/internal/entry"
)

// Sentinel errors for storage operations.
var (
	ErrNotFound   = errors.New("entry not found")
	ErrStorage    = errors.New("storage error")
	ErrValidation = errors.New("validation error")
	ErrMalformed  = errors.New("malformed storage file")
)

// ListOptions controls filtering and ordering for List operations.
type ListOptions struct {
	From      string // inclusive lower bound, YYYY-MM-DD ("" = none)
	To        string // inclusive upper bound, YYYY-MM-DD ("" = none)
	Tag       string // exact tag match
	Mood      string // case-insensitive mood match
	Ascending bool   // oldest first (default newest first)
	Limit     int    // 0 = no limit
	Offset    int    // pagination offset
}

// Storage defines the interface for diary entry persistence.
type Storage interface {
	// Add writes e under its date. An existing entry for that date is
	// overwritten, keeping its ID and creation time; replaced reports that.
	Add(e entry.Entry) (saved entry.Entry, replaced bool, err error)
	Get(date string) (entry.Entry, error)
	Search(keyword string) ([]entry.Entry, error)
	List(opts ListOptions) ([]entry.Entry, error)
	Edit(date string, p entry.Patch) (entry.Entry, error)
	Delete(date string) error
	// ExportAll returns every entry, oldest first.
	ExportAll() ([]entry.Entry, error)
	Close() error
}

// PrepareEntry normalises and validates an entry before it is written.
func PrepareEntry(e entry.Entry) (entry.Entry, error) {
	e = entry.Normalize(e)
	date, err := entry.ParseDate(e.Date)
	if err != nil {
		return entry.Entry{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	e.Date = date
	if err := entry.Validate(e); err != nil {
		return entry.Entry{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return e, nil
}

// ParseKey validates a date used as a lookup key.
func ParseKey(date string) (string, error) {
	d, err := entry.ParseDate(date)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return d, nil
}

// ValidateListOptions canonicalises the date bounds in opts.
func ValidateListOptions(opts ListOptions) (ListOptions, error) {
	var err error
	if opts.From != "" {
		if opts.From, err = ParseKey(opts.From); err != nil {
			return opts, err
		}
	}
	if opts.To != "" {
		if opts.To, err = ParseKey(opts.To); err != nil {
			return opts, err
		}
	}
	if opts.Limit < 0 || opts.Offset < 0 {
		return opts, fmt.Errorf("%w: limit and offset must not be negative", ErrValidation)
	}
	return opts, nil
}

// Keyword validates a search keyword.
func Keyword(keyword string) (string, error) {
	k := strings.TrimSpace(keyword)
	if k == "" {
		return "", fmt.Errorf("%w: empty keyword", ErrValidation)
	}
	return k, nil
}

// SortByDate orders entries by date, newest first unless ascending.
func SortByDate(entries []entry.Entry, ascending bool) {
	sort.SliceStable(entries, func(i, j int) bool {
		if ascending {
			return entries[i].Date < entries[j].Date
		}
		return entries[i].Date > entries[j].Date
	})
}

// FilterEntries applies opts to an in-memory slice: filters, ordering, then
// offset and limit.
func FilterEntries(entries []entry.Entry, opts ListOptions) []entry.Entry {
	out := make([]entry.Entry, 0, len(entries))
	for _, e := range entries {
		if opts.From != "" && e.Date < opts.From {
			continue
		}
		if opts.To != "" && e.Date > opts.To {
			continue
		}
		if opts.Tag != "" && !e.HasTag(opts.Tag) {
			continue
		}
		if opts.Mood != "" && !strings.EqualFold(e.Mood, opts.Mood) {
			continue
		}
		out = append(out, e)
	}
	SortByDate(out, opts.Ascending)

	if opts.Offset > 0 {
		if opts.Offset >= len(out) {
			return []entry.Entry{}
		}
		out = out[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(out) {
		out = out[:opts.Limit]
	}
	return out
}

// MatchKeyword returns the entries matching keyword, newest first.
func MatchKeyword(entries []entry.Entry, keyword string) []entry.Entry {
	out := []entry.Entry{}
	for _, e := range entries {
		if e.Matches(keyword) {
			out = append(out, e)
		}
	}
	SortByDate(out, false)
	return out
}
