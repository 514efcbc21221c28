package models

// ClassifiedComment is one row returned by the classification backend.
// Sentiment is kept as received; use sentiment.NormalizeLabel to map it.
type ClassifiedComment struct {
	Comment   string `json:"comment"`
	Sentiment string `json:"sentiment"`
}

type ScrapeRequest struct {
	PostID string `json:"post_id"`
}

type ScrapeResponse struct {
	Message       string `json:"message"`
	TotalComments int    `json:"total_comments"`
}

type ClassifyResponse struct {
	Message string              `json:"message"`
	Data    []ClassifiedComment `json:"data"`
}

type TakeawaysRequest struct {
	PostID string `json:"post_id"`
}

type Takeaways struct {
	Positive []string `json:"positive"`
	Negative []string `json:"negative"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
