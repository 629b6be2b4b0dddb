package shell

import (
	"github.com/chris-regnier/termdiary/internal/stats"
	"github.com/chris-regnier/termdiary/internal/storage"
)

// Status is what the shell prompt shows about the diary.
type Status struct {
	Today  bool
	Streak int
	// Mood is the mood of the most recent entry, if any.
	Mood string
}

// ComputeStatus queries the storage backend for today's entry, the current
// writing streak and the latest mood. today is YYYY-MM-DD.
func ComputeStatus(store storage.Storage, today string) (Status, error) {
	summary, err := stats.FromStore(store, today)
	if err != nil {
		return Status{}, err
	}
	st := Status{Today: summary.TodayWritten, Streak: summary.CurrentStreak}

	latest, err := store.List(storage.ListOptions{Limit: 1})
	if err != nil {
		return Status{}, err
	}
	if len(latest) > 0 {
		st.Mood = latest[0].Mood
	}
	return st, nil
}
