package models

type SentimentLabel string

const (
	LabelPositive SentimentLabel = "positive"
	LabelNeutral  SentimentLabel = "neutral"
	LabelNegative SentimentLabel = "negative"
)

// Labels lists every sentiment label in display order.
var Labels = []SentimentLabel{LabelPositive, LabelNeutral, LabelNegative}

// SentimentSummary is the aggregated view of all comments under one post.
// Counts always sum to Total. Percentages are rounded independently and are
// not renormalized, so they may not add up to exactly 100.
type SentimentSummary struct {
	PostID      string           `json:"postId"`
	Total       int              `json:"total"`
	Counts      LabelCounts      `json:"counts"`
	Percentages LabelPercentages `json:"percentages"`
	Comments    LabelComments    `json:"comments"`
}

type LabelCounts struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

func (c LabelCounts) Get(label SentimentLabel) int {
	switch label {
	case LabelPositive:
		return c.Positive
	case LabelNegative:
		return c.Negative
	default:
		return c.Neutral
	}
}

func (c *LabelCounts) Add(label SentimentLabel, n int) {
	switch label {
	case LabelPositive:
		c.Positive += n
	case LabelNegative:
		c.Negative += n
	default:
		c.Neutral += n
	}
}

func (c LabelCounts) Sum() int {
	return c.Positive + c.Neutral + c.Negative
}

type LabelPercentages struct {
	Positive float64 `json:"positive"`
	Neutral  float64 `json:"neutral"`
	Negative float64 `json:"negative"`
}

func (p LabelPercentages) Get(label SentimentLabel) float64 {
	switch label {
	case LabelPositive:
		return p.Positive
	case LabelNegative:
		return p.Negative
	default:
		return p.Neutral
	}
}

type LabelComments struct {
	Positive []string `json:"positive"`
	Neutral  []string `json:"neutral"`
	Negative []string `json:"negative"`
}

// Get returns a copy of the sample for label so callers cannot mutate a
// returned summary.
func (c LabelComments) Get(label SentimentLabel) []string {
	var src []string
	switch label {
	case LabelPositive:
		src = c.Positive
	case LabelNegative:
		src = c.Negative
	default:
		src = c.Neutral
	}
	return append([]string{}, src...)
}

func (c *LabelComments) Append(label SentimentLabel, text string) {
	switch label {
	case LabelPositive:
		c.Positive = append(c.Positive, text)
	case LabelNegative:
		c.Negative = append(c.Negative, text)
	default:
		c.Neutral = append(c.Neutral, text)
	}
}

// Len reports the sample size for label.
func (c LabelComments) Len(label SentimentLabel) int {
	switch label {
	case LabelPositive:
		return len(c.Positive)
	case LabelNegative:
		return len(c.Negative)
	default:
		return len(c.Neutral)
	}
}
