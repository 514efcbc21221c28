package history

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/spacesedan/socialinsight/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valkey-io/valkey-go/mock"
	"go.uber.org/mock/gomock"
)

func newMockStore(t *testing.T) (*ValkeyStore, *mock.Client) {
	t.Helper()
	ctrl := gomock.NewController(t)
	client := mock.NewClient(ctrl)
	store := NewValkeyStore(client)
	return store, client
}

func encodeEntries(t *testing.T, entries []models.HistoryEntry) string {
	t.Helper()
	raw, err := json.Marshal(entries)
	require.NoError(t, err)
	return string(raw)
}

func TestValkeyStore_ListMissingKey(t *testing.T) {
	store, client := newMockStore(t)
	client.EXPECT().
		Do(gomock.Any(), mock.Match("GET", VALKEY_HISTORY_KEY)).
		Return(mock.Result(mock.ValkeyNil()))

	entries, err := store.List(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestValkeyStore_ListUnreadableValue(t *testing.T) {
	store, client := newMockStore(t)
	client.EXPECT().
		Do(gomock.Any(), mock.Match("GET", VALKEY_HISTORY_KEY)).
		Return(mock.Result(mock.ValkeyString("{not json")))

	entries, err := store.List(context.Background())

	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestValkeyStore_ListDecodesEntries(t *testing.T) {
	store, client := newMockStore(t)
	stored := []models.HistoryEntry{entry("a", 3), entry("b", 1)}
	client.EXPECT().
		Do(gomock.Any(), mock.Match("GET", VALKEY_HISTORY_KEY)).
		Return(mock.Result(mock.ValkeyString(encodeEntries(t, stored))))

	entries, err := store.List(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, postIDs(entries))
	assert.Equal(t, 3, entries[0].Total)
}

func TestValkeyStore_ListConnectionError(t *testing.T) {
	store, client := newMockStore(t)
	client.EXPECT().
		Do(gomock.Any(), mock.Match("GET", VALKEY_HISTORY_KEY)).
		Return(mock.ErrorResult(errors.New("connection refused")))

	_, err := store.List(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestValkeyStore_RecordReadModifyWrite(t *testing.T) {
	store, client := newMockStore(t)
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return at }

	stored := []models.HistoryEntry{entry("a", 3), entry("b", 1)}
	ttl := strconv.FormatInt(int64(VALKEY_HISTORY_TTL/time.Second), 10)

	var written []models.HistoryEntry
	gomock.InOrder(
		client.EXPECT().
			Do(gomock.Any(), mock.Match("GET", VALKEY_HISTORY_KEY)).
			Return(mock.Result(mock.ValkeyString(encodeEntries(t, stored)))),
		client.EXPECT().
			Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
				if len(cmd) != 5 || cmd[0] != "SET" || cmd[1] != VALKEY_HISTORY_KEY {
					return false
				}
				if cmd[3] != "EX" || cmd[4] != ttl {
					return false
				}
				return json.Unmarshal([]byte(cmd[2]), &written) == nil
			}, "SET history with TTL")).
			Return(mock.Result(mock.ValkeyString("OK"))),
	)

	err := store.Record(context.Background(), models.SentimentSummary{PostID: "b", Total: 7})

	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, postIDs(written))
	assert.Equal(t, 7, written[0].Total)
	assert.True(t, at.Equal(written[0].SearchedAt))
}

func TestValkeyStore_RecordStartsFromEmpty(t *testing.T) {
	store, client := newMockStore(t)

	var written []models.HistoryEntry
	gomock.InOrder(
		client.EXPECT().
			Do(gomock.Any(), mock.Match("GET", VALKEY_HISTORY_KEY)).
			Return(mock.Result(mock.ValkeyNil())),
		client.EXPECT().
			Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
				return len(cmd) == 5 && cmd[0] == "SET" &&
					json.Unmarshal([]byte(cmd[2]), &written) == nil
			})).
			Return(mock.Result(mock.ValkeyString("OK"))),
	)

	require.NoError(t, store.Record(context.Background(), models.SentimentSummary{PostID: "a", Total: 1}))
	assert.Equal(t, []string{"a"}, postIDs(written))
}

func TestValkeyStore_RecordStopsOnReadError(t *testing.T) {
	store, client := newMockStore(t)
	client.EXPECT().
		Do(gomock.Any(), mock.Match("GET", VALKEY_HISTORY_KEY)).
		Return(mock.ErrorResult(errors.New("timeout")))

	err := store.Record(context.Background(), models.SentimentSummary{PostID: "a"})

	require.Error(t, err)
}

func TestValkeyStore_RecordWriteError(t *testing.T) {
	store, client := newMockStore(t)
	gomock.InOrder(
		client.EXPECT().
			Do(gomock.Any(), mock.Match("GET", VALKEY_HISTORY_KEY)).
			Return(mock.Result(mock.ValkeyNil())),
		client.EXPECT().
			Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool { return cmd[0] == "SET" })).
			Return(mock.ErrorResult(errors.New("READONLY"))),
	)

	err := store.Record(context.Background(), models.SentimentSummary{PostID: "a"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to store history")
}

func TestValkeyStore_Clear(t *testing.T) {
	store, client := newMockStore(t)
	client.EXPECT().
		Do(gomock.Any(), mock.Match("DEL", VALKEY_HISTORY_KEY)).
		Return(mock.Result(mock.ValkeyInt64(1)))

	require.NoError(t, store.Clear(context.Background()))
}
