package models

type Post struct {
	ID           string `json:"id"`
	Message      string `json:"message"`
	CreatedTime  string `json:"created_time"`
	PermalinkURL string `json:"permalink_url"`
}

type PostsResponse struct {
	Posts []Post `json:"posts"`
	Total int    `json:"total"`
}

// Graph API payloads

type FacebookPostsResponse struct {
	Data []Post `json:"data"`
}

type FacebookPostCommentsResponse struct {
	ID       string `json:"id"`
	Comments struct {
		Data []FacebookComment `json:"data"`
	} `json:"comments"`
}

type FacebookComment struct {
	ID          string `json:"id"`
	Message     string `json:"message"`
	CreatedTime string `json:"created_time"`
	LikeCount   int    `json:"like_count"`
}
