package models

import "time"

type HistoryEntry struct {
	PostID     string           `json:"post_id"`
	Total      int              `json:"total"`
	SearchedAt time.Time        `json:"searched_at"`
	Summary    SentimentSummary `json:"summary"`
}
