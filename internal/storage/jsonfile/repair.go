package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/chris-regnier/termdiary/internal/entry"
	"github.com/chris-regnier/termdiary/internal/storage"
	"github.com/kaptinlin/jsonrepair"
)

// RepairReport describes what Repair changed.
type RepairReport struct {
	Path            string   `json:"path"`
	BackupPath      string   `json:"backup_path,omitempty"`
	SyntaxRepaired  bool     `json:"syntax_repaired"`
	DroppedEntries  []string `json:"dropped_entries,omitempty"`
	MergedDuplicate []string `json:"merged_duplicates,omitempty"`
	FixedTimestamps int      `json:"fixed_timestamps,omitempty"`
	Kept            int      `json:"kept"`
}

// Changed reports whether the file had to be rewritten.
func (r RepairReport) Changed() bool {
	return r.SyntaxRepaired || len(r.DroppedEntries) > 0 || len(r.MergedDuplicate) > 0 || r.FixedTimestamps > 0
}

// looseEntry accepts entries whose timestamps or tags are damaged.
type looseEntry struct {
	ID        string          `json:"id"`
	Date      string          `json:"date"`
	Title     string          `json:"title"`
	Body      string          `json:"body"`
	Mood      string          `json:"mood"`
	Tags      json.RawMessage `json:"tags"`
	CreatedAt json.RawMessage `json:"created_at"`
	UpdatedAt json.RawMessage `json:"updated_at"`
}

type looseDocument struct {
	Entries []looseEntry `json:"entries"`
}

// Repair rewrites a damaged diary file into a valid document. Broken JSON
// syntax is repaired, entries with unusable dates are dropped and duplicate
// dates collapse to the most recently updated record. The original file is
// kept next to it with a .bak suffix whenever something changes.
func Repair(path string) (RepairReport, error) {
	report := RepairReport{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		return report, fmt.Errorf("%w: reading diary file: %v", storage.ErrStorage, err)
	}

	text := string(data)
	if strings.TrimSpace(text) == "" {
		text = `{"entries": []}`
		report.SyntaxRepaired = true
	} else if !json.Valid(data) {
		fixed, err := jsonrepair.JSONRepair(text)
		if err != nil {
			return report, fmt.Errorf("%w: unrepairable JSON: %v", storage.ErrMalformed, err)
		}
		text = fixed
		report.SyntaxRepaired = true
	}

	var loose looseDocument
	if err := json.Unmarshal([]byte(text), &loose); err != nil {
		return report, fmt.Errorf("%w: unexpected document shape: %v", storage.ErrMalformed, err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	byDate := make(map[string]entry.Entry)
	for i, le := range loose.Entries {
		date, err := entry.ParseDate(le.Date)
		if err != nil {
			report.DroppedEntries = append(report.DroppedEntries, fmt.Sprintf("#%d (%q)", i, le.Date))
			continue
		}
		e := entry.Normalize(entry.Entry{
			ID:    le.ID,
			Date:  date,
			Title: le.Title,
			Body:  le.Body,
			Mood:  le.Mood,
			Tags:  looseTags(le.Tags),
		})
		var ok bool
		if e.CreatedAt, ok = looseTime(le.CreatedAt, now); !ok {
			report.FixedTimestamps++
		}
		if e.UpdatedAt, ok = looseTime(le.UpdatedAt, e.CreatedAt); !ok {
			report.FixedTimestamps++
		}
		if e.UpdatedAt.Before(e.CreatedAt) {
			e.UpdatedAt = e.CreatedAt
		}
		if entry.ValidateID(e.ID) != nil {
			if e.ID, err = entry.NewID(); err != nil {
				return report, fmt.Errorf("%w: generating ID: %v", storage.ErrStorage, err)
			}
		}
		if entry.Validate(e) != nil {
			report.DroppedEntries = append(report.DroppedEntries, fmt.Sprintf("#%d (%s)", i, date))
			continue
		}

		if prev, ok := byDate[date]; ok {
			report.MergedDuplicate = append(report.MergedDuplicate, date)
			if prev.UpdatedAt.After(e.UpdatedAt) {
				continue
			}
		}
		byDate[date] = e
	}

	doc := document{Version: documentVersion, Entries: make([]entry.Entry, 0, len(byDate))}
	for _, e := range byDate {
		doc.Entries = append(doc.Entries, e)
	}
	report.Kept = len(doc.Entries)

	if !report.Changed() {
		return report, nil
	}

	report.BackupPath = path + ".bak"
	if err := os.WriteFile(report.BackupPath, data, 0600); err != nil {
		return report, fmt.Errorf("%w: writing backup: %v", storage.ErrStorage, err)
	}

	out, err := encode(doc)
	if err != nil {
		return report, fmt.Errorf("%w: encoding diary: %v", storage.ErrStorage, err)
	}
	if err := atomicWrite(path, out); err != nil {
		return report, err
	}
	return report, nil
}

// looseTime parses an RFC 3339 timestamp, substituting fallback when the
// value is missing or unparseable.
func looseTime(raw json.RawMessage, fallback time.Time) (time.Time, bool) {
	var t time.Time
	if len(raw) == 0 || json.Unmarshal(raw, &t) != nil || t.IsZero() {
		return fallback, false
	}
	return t.UTC().Truncate(time.Second), true
}

// looseTags accepts either a JSON list or a comma-separated string.
func looseTags(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return entry.ParseTags(s)
	}
	return []string{}
}

// IsMalformed reports whether err stems from a malformed diary file.
func IsMalformed(err error) bool {
	return errors.Is(err, storage.ErrMalformed)
}
