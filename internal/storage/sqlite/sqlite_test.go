package sqlite

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/chris-regnier/termdiary/internal/entry"
	"github.com/chris-regnier/termdiary/internal/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "nested", "diary.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewCreatesSchema(t *testing.T) {
	s := newTestStore(t)

	var mode string
	if err := s.db.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}

	for _, name := range []string{"entries", "entry_tags", "idx_entry_tags_tag"} {
		var n int
		if err := s.db.QueryRow("SELECT count(*) FROM sqlite_master WHERE name = ?", name).Scan(&n); err != nil {
			t.Fatalf("sqlite_master: %v", err)
		}
		if n != 1 {
			t.Errorf("schema object %s missing", name)
		}
	}
}

func TestReopenKeepsSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diary.db")
	for i := 0; i < 2; i++ {
		s, err := New(path)
		if err != nil {
			t.Fatalf("open %d: %v", i, err)
		}
		s.Close()
	}
}

func TestTagsAndDatesRoundTrip(t *testing.T) {
	s := newTestStore(t)
	if _, _, err := s.Add(entry.Entry{Date: "2026-01-15", Title: "tagged", Tags: []string{"work", "life"}}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	got, err := s.Get("2026-01-15")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Date != "2026-01-15" {
		t.Errorf("date = %q", got.Date)
	}
	if !reflect.DeepEqual(got.Tags, []string{"life", "work"}) {
		t.Errorf("tags = %v", got.Tags)
	}

	list, err := s.List(storage.ListOptions{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].Date != "2026-01-15" || len(list[0].Tags) != 2 {
		t.Errorf("List = %+v", list)
	}

	body := "edited"
	edited, err := s.Edit("2026-01-15", entry.Patch{Body: &body})
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if edited.Body != "edited" || !reflect.DeepEqual(edited.Tags, []string{"life", "work"}) {
		t.Errorf("Edit = %+v", edited)
	}
}

func TestDateColumnScan(t *testing.T) {
	tests := []struct {
		name    string
		src     interface{}
		want    string
		wantErr bool
	}{
		{"text", "2026-01-15", "2026-01-15", false},
		{"bytes", []byte("2026-01-15"), "2026-01-15", false},
		{"timestamp text", "2026-01-15T00:00:00Z", "2026-01-15", false},
		{"time value", time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), "2026-01-15", false},
		{"garbage", "soon", "", true},
		{"number", int64(3), "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d dateColumn
			err := d.Scan(tt.src)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Scan error = %v, wantErr %v", err, tt.wantErr)
			}
			if string(d) != tt.want {
				t.Errorf("Scan = %q, want %q", d, tt.want)
			}
		})
	}
}

func TestTimeColumnScan(t *testing.T) {
	want := time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)
	for _, src := range []interface{}{"2026-01-15T09:30:00Z", []byte("2026-01-15T10:30:00+01:00"), want} {
		var c timeColumn
		if err := c.Scan(src); err != nil {
			t.Fatalf("Scan(%v): %v", src, err)
		}
		if !time.Time(c).Equal(want) {
			t.Errorf("Scan(%v) = %v, want %v", src, time.Time(c), want)
		}
	}
	var c timeColumn
	if err := c.Scan("yesterday"); err == nil {
		t.Error("expected error for unparsable timestamp")
	}
}
