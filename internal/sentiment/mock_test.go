package sentiment

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/spacesedan/socialinsight/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_GoldenSeed(t *testing.T) {
	g := NewMockGenerator()

	summary, latency := g.Generate("12345")

	assert.Equal(t, "12345", summary.PostID)
	assert.Equal(t, 78, summary.Total)
	assert.Equal(t, models.LabelCounts{Positive: 48, Neutral: 1, Negative: 29}, summary.Counts)
	assert.Equal(t, models.LabelPercentages{Positive: 61.54, Neutral: 1.28, Negative: 37.18}, summary.Percentages)
	assert.Equal(t, 1202*time.Millisecond, latency)

	assert.Equal(t, []string{
		"This made my day!",
		"Great post, very helpful.",
		"Absolutely agree, well said.",
		"Positive vibes only.",
		"Loved this! Super insightful.",
	}, summary.Comments.Positive)
	assert.Equal(t, []string{"Neutral on this."}, summary.Comments.Neutral)
	assert.Equal(t, []string{
		"This seems off.",
		"Not convinced about this.",
		"Disappointed with the take.",
		"Disappointed with the take.",
		"This seems off.",
	}, summary.Comments.Negative)
}

func TestGenerate_Deterministic(t *testing.T) {
	g := NewMockGenerator()

	for _, seed := range []string{"12345", "abc", "post_9981", "", "héllo", "😀x"} {
		first, firstLatency := g.Generate(seed)
		second, secondLatency := g.Generate(seed)

		assert.Equal(t, first, second, "seed %q", seed)
		assert.Equal(t, firstLatency, secondLatency, "seed %q", seed)
	}
}

func TestGenerate_SeedIsTrimmedAndCaseInsensitive(t *testing.T) {
	g := NewMockGenerator()

	padded, _ := g.Generate("  ABC-123 ")
	plain, _ := g.Generate("abc-123")

	assert.Equal(t, 94, plain.Total)
	assert.Equal(t, models.LabelCounts{Positive: 50, Neutral: 34, Negative: 10}, plain.Counts)
	assert.Equal(t, plain.Counts, padded.Counts)
	assert.Equal(t, plain.Comments, padded.Comments)
	assert.Equal(t, "  ABC-123 ", padded.PostID, "post id is echoed as supplied")
}

func TestGenerate_EmptySeedUsesDefault(t *testing.T) {
	g := NewMockGenerator()

	empty, _ := g.Generate("   ")
	def, _ := g.Generate("default")

	assert.Equal(t, 31, empty.Total)
	assert.Equal(t, def.Counts, empty.Counts)
	assert.Equal(t, def.Comments, empty.Comments)
}

func TestGenerate_NonASCIISeeds(t *testing.T) {
	g := NewMockGenerator()

	accented, _ := g.Generate("héllo")
	assert.Equal(t, 63, accented.Total)
	assert.Equal(t, models.LabelCounts{Positive: 38, Neutral: 7, Negative: 18}, accented.Counts)

	emoji, latency := g.Generate("😀x")
	assert.Equal(t, 90, emoji.Total)
	assert.Equal(t, models.LabelCounts{Positive: 40, Neutral: 8, Negative: 42}, emoji.Counts)
	assert.Equal(t, 792*time.Millisecond, latency)
}

func TestGenerate_Invariants(t *testing.T) {
	g := NewMockGenerator()

	for i := 0; i < 500; i++ {
		seed := fmt.Sprintf("post-%d", i)
		summary, latency := g.Generate(seed)

		require.GreaterOrEqual(t, summary.Total, 20, seed)
		require.LessOrEqual(t, summary.Total, 99, seed)
		require.Equal(t, summary.Total, summary.Counts.Sum(), seed)

		for _, label := range models.Labels {
			count := summary.Counts.Get(label)
			require.GreaterOrEqual(t, count, 0, seed)

			expected := Round2(float64(count) / float64(summary.Total) * 100)
			require.Equal(t, expected, summary.Percentages.Get(label), seed)

			sample := summary.Comments.Get(label)
			require.Len(t, sample, min(5, max(1, count/3)), seed)
			for _, text := range sample {
				require.Contains(t, mockCommentPool[label], text, seed)
			}
		}

		require.GreaterOrEqual(t, latency, 500*time.Millisecond, seed)
		require.Less(t, latency, 1300*time.Millisecond, seed)
	}
}

func TestMockGenerator_FetchSkipLatency(t *testing.T) {
	g := &MockGenerator{SkipLatency: true}

	summary, err := g.Fetch(context.Background(), "12345")

	require.NoError(t, err)
	assert.Equal(t, 78, summary.Total)
}

func TestMockGenerator_FetchHonoursContext(t *testing.T) {
	g := NewMockGenerator()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Fetch(ctx, "12345")

	assert.ErrorIs(t, err, context.Canceled)
}

func TestMockGenerator_FetchWaitsLatency(t *testing.T) {
	g := NewMockGenerator()

	start := time.Now()
	summary, err := g.Fetch(context.Background(), "12345")

	require.NoError(t, err)
	assert.Equal(t, 78, summary.Total)
	assert.GreaterOrEqual(t, time.Since(start), 1202*time.Millisecond)
}

func TestMockGenerator_ImplementsProvider(t *testing.T) {
	var _ Provider = NewMockGenerator()
}
