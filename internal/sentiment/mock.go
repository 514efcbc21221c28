package sentiment

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/spacesedan/socialinsight/internal/models"
)

const (
	defaultSeed       = "default"
	minMockComments   = 20
	mockCommentRange  = 80
	maxSampleComments = 5
	minMockLatency    = 500 * time.Millisecond
	mockLatencyRange  = 800
)

var mockCommentPool = map[models.SentimentLabel][]string{
	models.LabelPositive: {
		"Loved this! Super insightful.",
		"Great post, very helpful.",
		"Absolutely agree, well said.",
		"This made my day!",
		"Positive vibes only.",
	},
	models.LabelNeutral: {
		"Interesting point.",
		"Thanks for sharing.",
		"Noted.",
		"Okay.",
		"Neutral on this.",
	},
	models.LabelNegative: {
		"Not convinced about this.",
		"I don't agree.",
		"This seems off.",
		"Disappointed with the take.",
		"Could be better.",
	},
}

// MockGenerator fabricates summaries for demos and UI testing without any
// network access.
type MockGenerator struct {
	// SkipLatency disables the simulated round trip in Fetch.
	SkipLatency bool
}

func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Generate derives a summary and a simulated latency from seed. The seed is
// trimmed and lower-cased; an empty seed falls back to "default". The result
// is a pure function of the normalized seed.
func (g *MockGenerator) Generate(seed string) (models.SentimentSummary, time.Duration) {
	normalized := strings.ToLower(strings.TrimSpace(seed))
	if normalized == "" {
		normalized = defaultSeed
	}
	rand := NewStream(normalized)

	total := minMockComments + rand.Intn(mockCommentRange)

	// pPos + pNeg < 1, so neutral never goes negative
	pPos := 0.2 + rand.Float()*0.6
	pNeg := 0.1 + rand.Float()*(0.9-pPos)

	counts := models.LabelCounts{
		Positive: int(float64(total) * pPos),
		Negative: int(float64(total) * pNeg),
	}
	counts.Neutral = total - counts.Positive - counts.Negative

	var comments models.LabelComments
	for _, label := range models.Labels {
		limit := min(maxSampleComments, max(1, counts.Get(label)/3))
		pool := mockCommentPool[label]
		sample := make([]string, 0, limit)
		for i := 0; i < limit; i++ {
			sample = append(sample, pool[rand.Intn(len(pool))])
		}
		switch label {
		case models.LabelPositive:
			comments.Positive = sample
		case models.LabelNeutral:
			comments.Neutral = sample
		case models.LabelNegative:
			comments.Negative = sample
		}
	}

	latency := minMockLatency + time.Duration(rand.Intn(mockLatencyRange))*time.Millisecond

	return models.SentimentSummary{
		PostID:      seed,
		Total:       total,
		Counts:      counts,
		Percentages: Percentages(counts, total),
		Comments:    comments,
	}, latency
}

// Fetch generates the summary for postID and waits out the simulated latency.
func (g *MockGenerator) Fetch(ctx context.Context, postID string) (models.SentimentSummary, error) {
	summary, latency := g.Generate(postID)

	slog.Debug("[MockGenerator] Generated mock summary",
		slog.String("post_id", postID),
		slog.Int("total", summary.Total),
		slog.Duration("latency", latency))

	if g.SkipLatency {
		return summary, nil
	}

	timer := time.NewTimer(latency)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return models.SentimentSummary{}, ctx.Err()
	case <-timer.C:
		return summary, nil
	}
}
