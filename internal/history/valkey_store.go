package history

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/spacesedan/socialinsight/internal/models"
	"github.com/valkey-io/valkey-go"
)

const (
	VALKEY_HISTORY_KEY = "insight:history"
	VALKEY_HISTORY_TTL = 30 * 24 * time.Hour
)

// ValkeyStore keeps the history list as one JSON value so it survives
// between CLI runs.
type ValkeyStore struct {
	client valkey.Client
	key    string
	now    func() time.Time
}

func NewValkeyStore(client valkey.Client) *ValkeyStore {
	return &ValkeyStore{client: client, key: VALKEY_HISTORY_KEY, now: time.Now}
}

func (v *ValkeyStore) Record(ctx context.Context, summary models.SentimentSummary) error {
	entries, err := v.List(ctx)
	if err != nil {
		return err
	}
	entries = Push(entries, NewEntry(summary, v.now()))

	payload, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("[ValkeyStore] Failed to marshal history: %w", err)
	}

	cmd := v.client.B().Set().Key(v.key).Value(string(payload)).ExSeconds(int64(VALKEY_HISTORY_TTL / time.Second)).Build()
	if err := v.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("[ValkeyStore] Failed to store history: %w", err)
	}

	slog.Debug("[ValkeyStore] Recorded search",
		slog.String("post_id", summary.PostID),
		slog.Int("entries", len(entries)))
	return nil
}

func (v *ValkeyStore) List(ctx context.Context) ([]models.HistoryEntry, error) {
	raw, err := v.client.Do(ctx, v.client.B().Get().Key(v.key).Build()).ToString()
	if valkey.IsValkeyNil(err) {
		return []models.HistoryEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("[ValkeyStore] Failed to load history: %w", err)
	}

	var entries []models.HistoryEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		slog.Warn("[ValkeyStore] Discarding unreadable history",
			slog.String("error", err.Error()))
		return []models.HistoryEntry{}, nil
	}
	return entries, nil
}

func (v *ValkeyStore) Clear(ctx context.Context) error {
	if err := v.client.Do(ctx, v.client.B().Del().Key(v.key).Build()).Error(); err != nil {
		return fmt.Errorf("[ValkeyStore] Failed to clear history: %w", err)
	}
	return nil
}
