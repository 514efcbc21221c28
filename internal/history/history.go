// Package history keeps the recent-search list shown next to a summary. It is
// application state owned by whoever presents summaries; nothing here is
// global.
package history

import (
	"context"
	"sync"
	"time"

	"github.com/spacesedan/socialinsight/internal/models"
)

// MaxEntries caps the number of remembered searches.
const MaxEntries = 10

type Store interface {
	Record(ctx context.Context, summary models.SentimentSummary) error
	List(ctx context.Context) ([]models.HistoryEntry, error)
	Clear(ctx context.Context) error
}

// Push returns a new list with entry first, any older entry for the same post
// removed, and at most MaxEntries items. entries is not modified.
func Push(entries []models.HistoryEntry, entry models.HistoryEntry) []models.HistoryEntry {
	out := make([]models.HistoryEntry, 0, min(len(entries)+1, MaxEntries))
	out = append(out, entry)
	for _, existing := range entries {
		if len(out) == MaxEntries {
			break
		}
		if existing.PostID == entry.PostID {
			continue
		}
		out = append(out, existing)
	}
	return out
}

// NewEntry wraps a summary for the history list.
func NewEntry(summary models.SentimentSummary, at time.Time) models.HistoryEntry {
	return models.HistoryEntry{
		PostID:     summary.PostID,
		Total:      summary.Total,
		SearchedAt: at,
		Summary:    summary,
	}
}

type MemoryStore struct {
	mu      sync.Mutex
	entries []models.HistoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (m *MemoryStore) Record(_ context.Context, summary models.SentimentSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = Push(m.entries, NewEntry(summary, m.now()))
	return nil
}

func (m *MemoryStore) List(_ context.Context) ([]models.HistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.HistoryEntry{}, m.entries...), nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
	return nil
}
