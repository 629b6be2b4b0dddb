package jsonfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/chris-regnier/termdiary/internal/entry"
	"github.com/chris-regnier/termdiary/internal/storage"
)

const documentVersion = 1

// document is the on-disk layout of the diary file.
type document struct {
	Version int           `json:"version"`
	Entries []entry.Entry `json:"entries"`
}

// Store implements storage.Storage on a single JSON document that is read
// and rewritten in full on every operation.
type Store struct {
	path string
	now  func() time.Time
}

// New opens the JSON diary at path, creating an empty document if the file
// does not exist yet.
func New(path string) (*Store, error) {
	s := &Store{path: path, now: time.Now}
	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: checking diary file: %v", storage.ErrStorage, err)
		}
		if err := s.write(document{Version: documentVersion, Entries: []entry.Entry{}}); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Path returns the location of the diary file.
func (s *Store) Path() string {
	return s.path
}

// Close is a no-op for the JSON backend.
func (s *Store) Close() error {
	return nil
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Second)
}

// read loads and validates the whole document.
func (s *Store) read() (document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return document{}, fmt.Errorf("%w: reading diary file: %v", storage.ErrStorage, err)
	}
	return decode(data)
}

func decode(data []byte) (document, error) {
	var doc document
	if len(bytes.TrimSpace(data)) == 0 {
		return document{Version: documentVersion, Entries: []entry.Entry{}}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return document{}, fmt.Errorf("%w: %v", storage.ErrMalformed, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return document{}, fmt.Errorf("%w: unexpected data after the document", storage.ErrMalformed)
	}
	if doc.Entries == nil {
		doc.Entries = []entry.Entry{}
	}

	seen := make(map[string]bool, len(doc.Entries))
	for i, e := range doc.Entries {
		date, err := entry.ParseDate(e.Date)
		if err != nil {
			return document{}, fmt.Errorf("%w: entry %d: %v", storage.ErrMalformed, i, err)
		}
		if seen[date] {
			return document{}, fmt.Errorf("%w: duplicate entry for %s", storage.ErrMalformed, date)
		}
		seen[date] = true
		doc.Entries[i].Date = date
		if doc.Entries[i].Tags == nil {
			doc.Entries[i].Tags = []string{}
		}
	}
	return doc, nil
}

func encode(doc document) ([]byte, error) {
	doc.Version = documentVersion
	storage.SortByDate(doc.Entries, true)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Store) write(doc document) error {
	data, err := encode(doc)
	if err != nil {
		return fmt.Errorf("%w: encoding diary: %v", storage.ErrStorage, err)
	}
	return atomicWrite(s.path, data)
}

// atomicWrite writes data to a temp file then renames it to the target path.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: creating directory: %v", storage.ErrStorage, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: creating temp file: %v", storage.ErrStorage, err)
	}
	tmpName := tmp.Name()

	// Lock the temp file during write
	if err := syscall.Flock(int(tmp.Fd()), syscall.LOCK_EX); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: acquiring lock: %v", storage.ErrStorage, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: writing temp file: %v", storage.ErrStorage, err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: closing temp file: %v", storage.ErrStorage, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: renaming file: %v", storage.ErrStorage, err)
	}

	return nil
}

func indexOf(doc document, date string) int {
	for i, e := range doc.Entries {
		if e.Date == date {
			return i
		}
	}
	return -1
}

func hasID(doc document, id string) bool {
	for _, e := range doc.Entries {
		if e.ID == id {
			return true
		}
	}
	return false
}

// Add writes e, overwriting any entry that already has its date.
func (s *Store) Add(e entry.Entry) (entry.Entry, bool, error) {
	e, err := storage.PrepareEntry(e)
	if err != nil {
		return entry.Entry{}, false, err
	}

	doc, err := s.read()
	if err != nil {
		return entry.Entry{}, false, err
	}

	now := s.timestamp()
	idx := indexOf(doc, e.Date)
	replaced := idx >= 0
	if replaced {
		e.ID = doc.Entries[idx].ID
		e.CreatedAt = doc.Entries[idx].CreatedAt
	} else {
		if e.ID != "" && hasID(doc, e.ID) {
			e.ID = ""
		}
		if e.ID == "" {
			if e.ID, err = entry.NewID(); err != nil {
				return entry.Entry{}, false, fmt.Errorf("%w: generating ID: %v", storage.ErrStorage, err)
			}
		}
		if e.CreatedAt.IsZero() {
			e.CreatedAt = now
		}
	}
	e.CreatedAt = e.CreatedAt.UTC().Truncate(time.Second)
	e.UpdatedAt = now
	if e.UpdatedAt.Before(e.CreatedAt) {
		e.UpdatedAt = e.CreatedAt
	}

	if replaced {
		doc.Entries[idx] = e
	} else {
		doc.Entries = append(doc.Entries, e)
	}
	if err := s.write(doc); err != nil {
		return entry.Entry{}, false, err
	}
	return e, replaced, nil
}

// Get retrieves the entry for a date.
func (s *Store) Get(date string) (entry.Entry, error) {
	date, err := storage.ParseKey(date)
	if err != nil {
		return entry.Entry{}, err
	}
	doc, err := s.read()
	if err != nil {
		return entry.Entry{}, err
	}
	idx := indexOf(doc, date)
	if idx < 0 {
		return entry.Entry{}, storage.ErrNotFound
	}
	return doc.Entries[idx], nil
}

// List returns entries matching the given options.
func (s *Store) List(opts storage.ListOptions) ([]entry.Entry, error) {
	opts, err := storage.ValidateListOptions(opts)
	if err != nil {
		return nil, err
	}
	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	return storage.FilterEntries(doc.Entries, opts), nil
}

// Search scans every entry for keyword.
func (s *Store) Search(keyword string) ([]entry.Entry, error) {
	k, err := storage.Keyword(keyword)
	if err != nil {
		return nil, err
	}
	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	return storage.MatchKeyword(doc.Entries, k), nil
}

// Edit applies a partial update to the entry for date.
func (s *Store) Edit(date string, p entry.Patch) (entry.Entry, error) {
	date, err := storage.ParseKey(date)
	if err != nil {
		return entry.Entry{}, err
	}
	doc, err := s.read()
	if err != nil {
		return entry.Entry{}, err
	}
	idx := indexOf(doc, date)
	if idx < 0 {
		return entry.Entry{}, storage.ErrNotFound
	}

	current := doc.Entries[idx]
	updated := current.Apply(p)
	if err := entry.Validate(updated); err != nil {
		return entry.Entry{}, fmt.Errorf("%w: %v", storage.ErrValidation, err)
	}
	if !entry.Changed(current, updated) {
		return current, nil
	}
	updated.UpdatedAt = s.timestamp()
	if updated.UpdatedAt.Before(updated.CreatedAt) {
		updated.UpdatedAt = updated.CreatedAt
	}

	doc.Entries[idx] = updated
	if err := s.write(doc); err != nil {
		return entry.Entry{}, err
	}
	return updated, nil
}

// Delete removes the entry for date permanently.
func (s *Store) Delete(date string) error {
	date, err := storage.ParseKey(date)
	if err != nil {
		return err
	}
	doc, err := s.read()
	if err != nil {
		return err
	}
	idx := indexOf(doc, date)
	if idx < 0 {
		return storage.ErrNotFound
	}
	doc.Entries = append(doc.Entries[:idx], doc.Entries[idx+1:]...)
	return s.write(doc)
}

// ExportAll returns every entry, oldest first.
func (s *Store) ExportAll() ([]entry.Entry, error) {
	return s.List(storage.ListOptions{Ascending: true})
}
