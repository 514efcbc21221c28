package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spacesedan/socialinsight/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClassifierClient(url string) *ClassifierClient {
	c := NewClassifierClient(url, 2*time.Second)
	c.initialBackoff = time.Millisecond
	c.maxRetries = 3
	return c
}

func TestClassifierClient_ClassifyComments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, ANALYZE_BATCH_PATH, r.URL.Path)
		var req models.SentimentAnalysisBatchRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Len(t, req, 3)

		// results out of order and one missing
		_ = json.NewEncoder(w).Encode(models.SentimentAnalysisBatchResponse{
			{ContentID: "2", SentimentLabel: "negative", SentimentScore: -0.8},
			{ContentID: "0", SentimentLabel: "positive", SentimentScore: 0.9},
		})
	}))
	defer srv.Close()

	rows, err := newTestClassifierClient(srv.URL).ClassifyComments(context.Background(), []string{"yay", "hm", "boo"})

	require.NoError(t, err)
	assert.Equal(t, []models.ClassifiedComment{
		{Comment: "yay", Sentiment: "positive"},
		{Comment: "hm", Sentiment: ""},
		{Comment: "boo", Sentiment: "negative"},
	}, rows)
}

func TestClassifierClient_EmptyInputSkipsRequest(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	rows, err := newTestClassifierClient(srv.URL).ClassifyComments(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Zero(t, calls.Load())
}

func TestClassifierClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req models.SentimentAnalysisBatchRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`[{"content_id":"0","sentiment_label":"neutral"}]`))
	}))
	defer srv.Close()

	rows, err := newTestClassifierClient(srv.URL).ClassifyComments(context.Background(), []string{"ok"})

	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, "neutral", rows[0].Sentiment)
}

func TestClassifierClient_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClassifierClient(srv.URL).ClassifyComments(context.Background(), []string{"ok"})

	require.Error(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClassifierClient_ClientErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := newTestClassifierClient(srv.URL).ClassifyComments(context.Background(), []string{"ok"})

	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClassifierClient_HealthCheck(t *testing.T) {
	var healthy atomic.Bool
	healthy.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, HEALTH_PATH, r.URL.Path)
		if !healthy.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	defer srv.Close()
	client := newTestClassifierClient(srv.URL)

	assert.True(t, client.HealthCheck(context.Background()))

	healthy.Store(false)
	assert.False(t, client.HealthCheck(context.Background()))

	srv.Close()
	assert.False(t, client.HealthCheck(context.Background()))
}

func TestClassifierClient_SplitsIntoBatches(t *testing.T) {
	var mu sync.Mutex
	var sizes []int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req models.SentimentAnalysisBatchRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		mu.Lock()
		sizes = append(sizes, len(req))
		mu.Unlock()

		resp := make(models.SentimentAnalysisBatchResponse, 0, len(req))
		for _, item := range req {
			resp = append(resp, models.SentimentAnalysisResponse{ContentID: item.ContentID, SentimentLabel: "positive"})
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()
	client := newTestClassifierClient(srv.URL)
	client.batchSize = 2

	rows, err := client.ClassifyComments(context.Background(), []string{"a", "b", "c", "d", "e"})

	require.NoError(t, err)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{2, 2, 1}, sizes)
	require.Len(t, rows, 5)
	for _, row := range rows {
		assert.Equal(t, "positive", row.Sentiment)
	}
}
