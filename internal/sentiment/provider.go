// Package sentiment produces SentimentSummary values, either synthesized from
// a seed or aggregated from classified comments.
package sentiment

import (
	"context"

	"github.com/spacesedan/socialinsight/internal/models"
)

// Provider fetches the sentiment summary for a post.
type Provider interface {
	Fetch(ctx context.Context, postID string) (models.SentimentSummary, error)
}
