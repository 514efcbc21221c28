package sentiment

import (
	"math"

	"github.com/spacesedan/socialinsight/internal/models"
)

// DefaultSampleLimit caps how many example comments are kept per label.
const DefaultSampleLimit = 100

// Round2 rounds n to two decimal places, halves away from zero.
func Round2(n float64) float64 {
	return math.Round(n*100) / 100
}

// Percentages derives the per-label share of total. All values are zero when
// total is zero.
func Percentages(counts models.LabelCounts, total int) models.LabelPercentages {
	if total <= 0 {
		return models.LabelPercentages{}
	}
	pct := func(n int) float64 {
		return Round2(float64(n) / float64(total) * 100)
	}
	return models.LabelPercentages{
		Positive: pct(counts.Positive),
		Neutral:  pct(counts.Neutral),
		Negative: pct(counts.Negative),
	}
}

// Aggregate buckets already classified rows into a summary. Every row is
// counted; at most sampleLimit non-empty texts are kept per label, in input
// order. A sampleLimit <= 0 keeps every text.
func Aggregate(postID string, rows []models.ClassifiedComment, sampleLimit int) models.SentimentSummary {
	summary := models.SentimentSummary{
		PostID: postID,
		Total:  len(rows),
		Comments: models.LabelComments{
			Positive: []string{},
			Neutral:  []string{},
			Negative: []string{},
		},
	}

	for _, row := range rows {
		label := NormalizeLabel(row.Sentiment)
		summary.Counts.Add(label, 1)

		if row.Comment == "" {
			continue
		}
		if sampleLimit > 0 && summary.Comments.Len(label) >= sampleLimit {
			continue
		}
		summary.Comments.Append(label, row.Comment)
	}

	summary.Percentages = Percentages(summary.Counts, summary.Total)
	return summary
}
