package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chris-regnier/termdiary/internal/entry"
	"github.com/chris-regnier/termdiary/internal/storage"
	_ "github.com/tursodatabase/go-libsql"
)

// Store implements storage.Storage using SQLite via Turso/libSQL.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// New opens (creating if needed) the SQLite database at path.
func New(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("%w: creating data directory: %v", storage.ErrStorage, err)
		}
	}

	db, err := sql.Open("libsql", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %v", storage.ErrStorage, err)
	}

	// The pragma reports the resulting mode as a row, so it must be queried.
	var mode string
	if err := db.QueryRow("PRAGMA journal_mode=WAL").Scan(&mode); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: enabling WAL mode: %v", storage.ErrStorage, err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, now: time.Now}, nil
}

// schema is applied one statement per Exec.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS entries (
		date       TEXT PRIMARY KEY,
		id         TEXT NOT NULL UNIQUE,
		title      TEXT NOT NULL DEFAULT '',
		body       TEXT NOT NULL DEFAULT '',
		mood       TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		CHECK(length(trim(title)) > 0 OR length(trim(body)) > 0),
		CHECK(created_at <= updated_at)
	)`,
	`CREATE TABLE IF NOT EXISTS entry_tags (
		date TEXT NOT NULL,
		tag  TEXT NOT NULL,
		PRIMARY KEY (date, tag)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_entry_tags_tag ON entry_tags(tag)`,
}

func createSchema(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("%w: creating schema: %v", storage.ErrStorage, err)
		}
	}
	return nil
}

// dateColumn scans a stored date. The driver may hand back a date-like TEXT
// value as a time.Time, so both forms are reduced to YYYY-MM-DD.
type dateColumn string

func (d *dateColumn) Scan(src interface{}) error {
	var s string
	switch v := src.(type) {
	case time.Time:
		s = v.Format(entry.DateLayout)
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("unexpected date value of type %T", src)
	}
	if len(s) > len(entry.DateLayout) {
		s = s[:len(entry.DateLayout)]
	}
	date, err := entry.ParseDate(s)
	if err != nil {
		return err
	}
	*d = dateColumn(date)
	return nil
}

// timeColumn scans an RFC 3339 timestamp stored as TEXT or returned by the
// driver as a time.Time.
type timeColumn time.Time

func (c *timeColumn) Scan(src interface{}) error {
	var s string
	switch v := src.(type) {
	case time.Time:
		*c = timeColumn(v.UTC())
		return nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("unexpected timestamp value of type %T", src)
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return err
	}
	*c = timeColumn(t.UTC())
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Second)
}

// Add inserts e, or overwrites the entry already stored under its date.
func (s *Store) Add(e entry.Entry) (entry.Entry, bool, error) {
	e, err := storage.PrepareEntry(e)
	if err != nil {
		return entry.Entry{}, false, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return entry.Entry{}, false, fmt.Errorf("%w: beginning transaction: %v", storage.ErrStorage, err)
	}
	defer tx.Rollback()

	now := s.timestamp()
	var existingID string
	var created timeColumn
	err = tx.QueryRow("SELECT id, created_at FROM entries WHERE date = ?", e.Date).Scan(&existingID, &created)
	replaced := err == nil
	switch {
	case replaced:
		e.ID = existingID
		e.CreatedAt = time.Time(created)
	case errors.Is(err, sql.ErrNoRows):
		if e.ID != "" {
			// An ID already held by another date is not reused.
			var one int
			switch err := tx.QueryRow("SELECT 1 FROM entries WHERE id = ?", e.ID).Scan(&one); {
			case err == nil:
				e.ID = ""
			case !errors.Is(err, sql.ErrNoRows):
				return entry.Entry{}, false, fmt.Errorf("%w: checking id: %v", storage.ErrStorage, err)
			}
		}
		if e.ID == "" {
			if e.ID, err = entry.NewID(); err != nil {
				return entry.Entry{}, false, fmt.Errorf("%w: generating ID: %v", storage.ErrStorage, err)
			}
		}
		if e.CreatedAt.IsZero() {
			e.CreatedAt = now
		}
	default:
		return entry.Entry{}, false, fmt.Errorf("%w: checking entry: %v", storage.ErrStorage, err)
	}
	e.CreatedAt = e.CreatedAt.UTC().Truncate(time.Second)
	e.UpdatedAt = now
	if e.UpdatedAt.Before(e.CreatedAt) {
		e.UpdatedAt = e.CreatedAt
	}

	if _, err := tx.Exec(
		`INSERT INTO entries (date, id, title, body, mood, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(date) DO UPDATE SET
		   title = excluded.title,
		   body = excluded.body,
		   mood = excluded.mood,
		   updated_at = excluded.updated_at`,
		e.Date, e.ID, e.Title, e.Body, e.Mood,
		e.CreatedAt.Format(time.RFC3339),
		e.UpdatedAt.Format(time.RFC3339),
	); err != nil {
		return entry.Entry{}, false, fmt.Errorf("%w: writing entry: %v", storage.ErrStorage, err)
	}

	if err := replaceTags(tx, e.Date, e.Tags); err != nil {
		return entry.Entry{}, false, err
	}

	if err := tx.Commit(); err != nil {
		return entry.Entry{}, false, fmt.Errorf("%w: committing: %v", storage.ErrStorage, err)
	}
	return e, replaced, nil
}

func replaceTags(tx *sql.Tx, date string, tags []string) error {
	if _, err := tx.Exec("DELETE FROM entry_tags WHERE date = ?", date); err != nil {
		return fmt.Errorf("%w: clearing tags: %v", storage.ErrStorage, err)
	}
	for _, tag := range tags {
		if _, err := tx.Exec("INSERT INTO entry_tags (date, tag) VALUES (?, ?)", date, tag); err != nil {
			return fmt.Errorf("%w: inserting tag: %v", storage.ErrStorage, err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

const selectColumns = "SELECT date, id, title, body, mood, created_at, updated_at FROM entries"

func scanEntry(row rowScanner) (entry.Entry, error) {
	var e entry.Entry
	var date dateColumn
	var created, updated timeColumn
	if err := row.Scan(&date, &e.ID, &e.Title, &e.Body, &e.Mood, &created, &updated); err != nil {
		return entry.Entry{}, err
	}
	e.Date = string(date)
	e.CreatedAt = time.Time(created)
	e.UpdatedAt = time.Time(updated)
	e.Tags = []string{}
	return e, nil
}

// Get retrieves the entry for a date.
func (s *Store) Get(date string) (entry.Entry, error) {
	date, err := storage.ParseKey(date)
	if err != nil {
		return entry.Entry{}, err
	}
	return getEntry(s.db, date)
}

type queryer interface {
	QueryRow(query string, args ...interface{}) *sql.Row
	Query(query string, args ...interface{}) (*sql.Rows, error)
}

func getEntry(q queryer, date string) (entry.Entry, error) {
	e, err := scanEntry(q.QueryRow(selectColumns+" WHERE date = ?", date))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entry.Entry{}, storage.ErrNotFound
		}
		return entry.Entry{}, fmt.Errorf("%w: querying entry: %v", storage.ErrStorage, err)
	}
	tags, err := loadTags(q, []string{date})
	if err != nil {
		return entry.Entry{}, err
	}
	e.Tags = tags[date]
	if e.Tags == nil {
		e.Tags = []string{}
	}
	return e, nil
}

// loadTags returns the tag sets for the given dates, or for all dates when
// dates is nil.
func loadTags(q queryer, dates []string) (map[string][]string, error) {
	query := "SELECT date, tag FROM entry_tags"
	var args []interface{}
	if dates != nil {
		if len(dates) == 0 {
			return map[string][]string{}, nil
		}
		query += " WHERE date IN (?" + strings.Repeat(", ?", len(dates)-1) + ")"
		for _, d := range dates {
			args = append(args, d)
		}
	}
	query += " ORDER BY date, tag"

	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: loading tags: %v", storage.ErrStorage, err)
	}
	defer rows.Close()

	tags := make(map[string][]string)
	for rows.Next() {
		var date dateColumn
		var tag string
		if err := rows.Scan(&date, &tag); err != nil {
			return nil, fmt.Errorf("%w: scanning tag: %v", storage.ErrStorage, err)
		}
		tags[string(date)] = append(tags[string(date)], tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: loading tags: %v", storage.ErrStorage, err)
	}
	return tags, nil
}

// List returns entries matching the given options.
func (s *Store) List(opts storage.ListOptions) ([]entry.Entry, error) {
	opts, err := storage.ValidateListOptions(opts)
	if err != nil {
		return nil, err
	}

	query := selectColumns + " e"
	var where []string
	var args []interface{}

	if opts.From != "" {
		where = append(where, "e.date >= ?")
		args = append(args, opts.From)
	}
	if opts.To != "" {
		where = append(where, "e.date <= ?")
		args = append(args, opts.To)
	}
	if opts.Tag != "" {
		where = append(where, "EXISTS (SELECT 1 FROM entry_tags t WHERE t.date = e.date AND t.tag = ?)")
		args = append(args, opts.Tag)
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	if opts.Ascending {
		query += " ORDER BY e.date ASC"
	} else {
		query += " ORDER BY e.date DESC"
	}

	// NOCASE only folds ASCII, so a mood filter is applied after the scan
	// along with the page window.
	if opts.Mood == "" {
		if opts.Limit > 0 {
			query += fmt.Sprintf(" LIMIT %d", opts.Limit)
		} else if opts.Offset > 0 {
			query += " LIMIT -1"
		}
		if opts.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", opts.Offset)
		}
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listing entries: %v", storage.ErrStorage, err)
	}
	defer rows.Close()

	entries := []entry.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning row: %v", storage.ErrStorage, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: listing entries: %v", storage.ErrStorage, err)
	}

	tags, err := loadTags(s.db, nil)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if t, ok := tags[entries[i].Date]; ok {
			entries[i].Tags = t
		}
	}
	if opts.Mood != "" {
		entries = storage.FilterEntries(entries, opts)
	}
	return entries, nil
}

// Search scans every entry for keyword.
func (s *Store) Search(keyword string) ([]entry.Entry, error) {
	k, err := storage.Keyword(keyword)
	if err != nil {
		return nil, err
	}
	all, err := s.List(storage.ListOptions{})
	if err != nil {
		return nil, err
	}
	return storage.MatchKeyword(all, k), nil
}

// Edit applies a partial update to the entry for date.
func (s *Store) Edit(date string, p entry.Patch) (entry.Entry, error) {
	date, err := storage.ParseKey(date)
	if err != nil {
		return entry.Entry{}, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return entry.Entry{}, fmt.Errorf("%w: beginning transaction: %v", storage.ErrStorage, err)
	}
	defer tx.Rollback()

	current, err := getEntry(tx, date)
	if err != nil {
		return entry.Entry{}, err
	}

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

	if _, err := tx.Exec(
		"UPDATE entries SET title = ?, body = ?, mood = ?, updated_at = ? WHERE date = ?",
		updated.Title, updated.Body, updated.Mood, updated.UpdatedAt.Format(time.RFC3339), date,
	); err != nil {
		return entry.Entry{}, fmt.Errorf("%w: updating entry: %v", storage.ErrStorage, err)
	}
	if p.SetTags {
		if err := replaceTags(tx, date, updated.Tags); err != nil {
			return entry.Entry{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return entry.Entry{}, fmt.Errorf("%w: committing: %v", storage.ErrStorage, err)
	}
	return updated, nil
}

// Delete removes the entry for date permanently.
func (s *Store) Delete(date string) error {
	date, err := storage.ParseKey(date)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: beginning transaction: %v", storage.ErrStorage, err)
	}
	defer tx.Rollback()

	result, err := tx.Exec("DELETE FROM entries WHERE date = ?", date)
	if err != nil {
		return fmt.Errorf("%w: deleting entry: %v", storage.ErrStorage, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: checking rows affected: %v", storage.ErrStorage, err)
	}
	if rows == 0 {
		return storage.ErrNotFound
	}

	if _, err := tx.Exec("DELETE FROM entry_tags WHERE date = ?", date); err != nil {
		return fmt.Errorf("%w: deleting tags: %v", storage.ErrStorage, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing: %v", storage.ErrStorage, err)
	}
	return nil
}

// ExportAll returns every entry, oldest first.
func (s *Store) ExportAll() ([]entry.Entry, error) {
	return s.List(storage.ListOptions{Ascending: true})
}
