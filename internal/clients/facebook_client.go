package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spacesedan/socialinsight/internal/models"
)

const (
	FACEBOOK_GRAPH_URL         = "https://graph.facebook.com"
	FACEBOOK_DEFAULT_VERSION   = "v24.0"
	FACEBOOK_POST_FIELDS       = "id,message,created_time,permalink_url"
	FACEBOOK_MESSAGE_PREVIEW   = 100
	FACEBOOK_DEFAULT_POSTS     = 20
	FACEBOOK_DEFAULT_COMMENTS  = 100
	FACEBOOK_REQUEST_TIMEOUT   = 10 * time.Second
	facebookCommentFieldFormat = "comments.limit(%d){from{id,name,link},message,created_time,like_count}"
)

var ErrFacebookNotConfigured = errors.New("facebook credentials not configured, check FB_PAGE_ID and FB_ACCESS_TOKEN")

type FacebookConfig struct {
	PageID      string
	AccessToken string
	APIVersion  string
	GraphURL    string
}

// FacebookClient reads page posts and their comments from the Graph API.
type FacebookClient struct {
	Client      *http.Client
	baseURL     string
	pageID      string
	accessToken string
}

func NewFacebookClient(cfg FacebookConfig) (*FacebookClient, error) {
	if cfg.PageID == "" || cfg.AccessToken == "" {
		return nil, ErrFacebookNotConfigured
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = FACEBOOK_DEFAULT_VERSION
	}
	if cfg.GraphURL == "" {
		cfg.GraphURL = FACEBOOK_GRAPH_URL
	}

	return &FacebookClient{
		Client:      &http.Client{Timeout: FACEBOOK_REQUEST_TIMEOUT},
		baseURL:     strings.TrimRight(cfg.GraphURL, "/") + "/" + cfg.APIVersion,
		pageID:      cfg.PageID,
		accessToken: cfg.AccessToken,
	}, nil
}

// RecentPosts lists the page's latest posts. Post ids are returned without
// the page prefix and messages are cut to a short preview.
func (f *FacebookClient) RecentPosts(ctx context.Context, limit int) ([]models.Post, error) {
	if limit <= 0 {
		limit = FACEBOOK_DEFAULT_POSTS
	}
	params := url.Values{
		"fields": {FACEBOOK_POST_FIELDS},
		"limit":  {strconv.Itoa(limit)},
	}

	var resp models.FacebookPostsResponse
	if err := f.get(ctx, f.pageID+"/posts", params, &resp); err != nil {
		return nil, err
	}

	posts := make([]models.Post, 0, len(resp.Data))
	for _, post := range resp.Data {
		post.ID = StripPagePrefix(post.ID)
		post.Message = truncateRunes(post.Message, FACEBOOK_MESSAGE_PREVIEW)
		posts = append(posts, post)
	}

	slog.Info("[FacebookClient] Fetched recent posts", slog.Int("count", len(posts)))
	return posts, nil
}

// PostComments returns the non-empty comment messages of a page post.
func (f *FacebookClient) PostComments(ctx context.Context, postID string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = FACEBOOK_DEFAULT_COMMENTS
	}
	params := url.Values{
		"fields": {fmt.Sprintf(facebookCommentFieldFormat, limit)},
	}

	var resp models.FacebookPostCommentsResponse
	if err := f.get(ctx, f.pageID+"_"+StripPagePrefix(postID), params, &resp); err != nil {
		return nil, err
	}

	comments := make([]string, 0, len(resp.Comments.Data))
	for _, comment := range resp.Comments.Data {
		if strings.TrimSpace(comment.Message) == "" {
			continue
		}
		comments = append(comments, comment.Message)
	}

	slog.Info("[FacebookClient] Fetched post comments",
		slog.String("post_id", postID),
		slog.Int("count", len(comments)))
	return comments, nil
}

func (f *FacebookClient) get(ctx context.Context, path string, params url.Values, output any) error {
	params.Set("access_token", f.accessToken)
	endpoint := f.baseURL + "/" + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("[FacebookClient] Failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", USER_AGENT)

	resp, err := f.Client.Do(req)
	if err != nil {
		return fmt.Errorf("[FacebookClient] Request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("[FacebookClient] Failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		slog.Error("[FacebookClient] Graph API returned an error",
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
			getPreview(body))
		return fmt.Errorf("[FacebookClient] Graph API returned status code %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, output); err != nil {
		return fmt.Errorf("[FacebookClient] Failed to parse JSON response: %w", err)
	}
	return nil
}

// StripPagePrefix turns a "<page>_<post>" id into "<post>". Only the second
// underscore-separated segment is kept; anything after a further underscore
// is dropped.
func StripPagePrefix(id string) string {
	parts := strings.Split(id, "_")
	if len(parts) < 2 {
		return id
	}
	return parts[1]
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
