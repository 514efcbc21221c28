package sentiment

import (
	"strings"

	"github.com/spacesedan/socialinsight/internal/models"
)

// NormalizeLabel maps a backend label to one of the three sentiment labels.
// Both the three letter and the full spelling are accepted in any case.
// Anything else is treated as neutral.
func NormalizeLabel(raw string) models.SentimentLabel {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "pos", "positive":
		return models.LabelPositive
	case "neg", "negative":
		return models.LabelNegative
	default:
		return models.LabelNeutral
	}
}
