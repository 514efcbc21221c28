package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spacesedan/socialinsight/internal/models"
	"github.com/spacesedan/socialinsight/internal/sentiment"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	opScrape    = "scrape"
	opClassify  = "classify"
	opPosts     = "posts"
	opTakeaways = "takeaways"

	DEFAULT_BACKEND_URL = "http://localhost:8000"
)

var (
	// keys that may wrap the row list in an object payload
	rowEnvelopeKeys = []string{"data", "rows", "comments", "results"}
	commentTextKeys = []string{"comment", "comments", "text", "message", "content"}
	sentimentKeys   = []string{"sentiment", "label", "sentiment_label", "classification"}
)

// Credentials are optional. A client ID takes precedence over a static token.
type Credentials struct {
	Token        string
	ClientID     string
	ClientSecret string
	TokenURL     string
	Headers      map[string]string
}

type InsightClientConfig struct {
	BaseURL       string
	TriggerScrape bool
	Timeout       time.Duration
	SampleLimit   int
	Credentials   Credentials
}

// InsightClient talks to the scraping and classification backend and turns
// its per-comment rows into a SentimentSummary.
type InsightClient struct {
	baseURL       *url.URL
	client        *http.Client
	triggerScrape bool
	sampleLimit   int
	headers       map[string]string
}

func NewInsightClient(cfg InsightClientConfig) (*InsightClient, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DEFAULT_BACKEND_URL
	}
	baseURL, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("[InsightClient] Failed to parse backend URL: %w", err)
	}
	if baseURL.Scheme == "" || baseURL.Host == "" {
		return nil, fmt.Errorf("[InsightClient] Backend URL must be absolute: %q", cfg.BaseURL)
	}

	sampleLimit := cfg.SampleLimit
	if sampleLimit == 0 {
		sampleLimit = sentiment.DefaultSampleLimit
	}

	slog.Info("[InsightClient] Initializing Client",
		slog.String("backend", baseURL.String()),
		slog.Bool("trigger_scrape", cfg.TriggerScrape),
		slog.Duration("timeout", cfg.Timeout))

	return &InsightClient{
		baseURL:       baseURL,
		client:        newAuthorizedHTTPClient(cfg.Credentials, cfg.Timeout),
		triggerScrape: cfg.TriggerScrape,
		sampleLimit:   sampleLimit,
		headers:       cfg.Credentials.Headers,
	}, nil
}

func newAuthorizedHTTPClient(creds Credentials, timeout time.Duration) *http.Client {
	base := &http.Client{Timeout: timeout}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)

	var client *http.Client
	switch {
	case creds.ClientID != "":
		conf := &clientcredentials.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			TokenURL:     creds.TokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		}
		client = conf.Client(ctx)
	case creds.Token != "":
		client = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: creds.Token,
			TokenType:   "Bearer",
		}))
	default:
		return base
	}

	client.Timeout = timeout
	return client
}

// Fetch optionally triggers a scrape of postID and then fetches and
// aggregates its classified comments. A non-success response from either
// call is a *RequestError. An unreadable classify payload counts as zero rows.
func (c *InsightClient) Fetch(ctx context.Context, postID string) (models.SentimentSummary, error) {
	start := time.Now()

	if c.triggerScrape {
		if err := c.Scrape(ctx, postID); err != nil {
			return models.SentimentSummary{}, err
		}
	}

	rows, err := c.Classify(ctx, postID)
	if err != nil {
		return models.SentimentSummary{}, err
	}

	summary := sentiment.Aggregate(postID, rows, c.sampleLimit)

	slog.Info("[InsightClient] Sentiment summary ready",
		slog.String("post_id", postID),
		slog.Int("total", summary.Total),
		slog.Duration("elapsed", time.Since(start)))

	return summary, nil
}

// Scrape asks the backend to collect the comments of postID.
func (c *InsightClient) Scrape(ctx context.Context, postID string) error {
	_, err := c.do(ctx, opScrape, http.MethodPost, "/scrape", nil, models.ScrapeRequest{PostID: postID})
	return err
}

// Classify fetches the raw classified rows for postID.
func (c *InsightClient) Classify(ctx context.Context, postID string) ([]models.ClassifiedComment, error) {
	query := url.Values{"post_id": {postID}}
	body, err := c.do(ctx, opClassify, http.MethodGet, "/classify", query, nil)
	if err != nil {
		return nil, err
	}

	rows := ParseClassifiedRows(body)
	if len(rows) == 0 && len(bytes.TrimSpace(body)) > 0 {
		slog.Warn("[InsightClient] Classify payload held no usable rows",
			slog.String("post_id", postID),
			getPreview(body))
	}
	return rows, nil
}

func (c *InsightClient) ListPosts(ctx context.Context, limit int) ([]models.Post, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	body, err := c.do(ctx, opPosts, http.MethodGet, "/posts", query, nil)
	if err != nil {
		return nil, err
	}

	var resp models.PostsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &RequestError{Op: opPosts, Err: fmt.Errorf("failed to unmarshal response: %w", err)}
	}
	return resp.Posts, nil
}

func (c *InsightClient) Takeaways(ctx context.Context, postID string) (models.Takeaways, error) {
	body, err := c.do(ctx, opTakeaways, http.MethodPost, "/takeaways", nil, models.TakeawaysRequest{PostID: postID})
	if err != nil {
		return models.Takeaways{}, err
	}

	var resp models.Takeaways
	if err := json.Unmarshal(body, &resp); err != nil {
		return models.Takeaways{}, &RequestError{Op: opTakeaways, Err: fmt.Errorf("failed to unmarshal response: %w", err)}
	}
	return resp, nil
}

func (c *InsightClient) do(ctx context.Context, op, method, path string, query url.Values, input any) ([]byte, error) {
	endpoint := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		endpoint.RawQuery = query.Encode()
	}

	var reqBody io.Reader
	if input != nil {
		payload, err := json.Marshal(input)
		if err != nil {
			return nil, &RequestError{Op: op, Err: fmt.Errorf("failed to marshal input: %w", err)}
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reqBody)
	if err != nil {
		return nil, &RequestError{Op: op, Err: fmt.Errorf("failed to build request: %w", err)}
	}
	if input != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", USER_AGENT)
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		reqErr := &RequestError{Op: op, Err: err}
		slog.Error("[InsightClient] Request failed",
			slog.String("endpoint", endpoint.Path),
			slog.String("error", reqErr.Detail()))
		return nil, reqErr
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		reqErr := &RequestError{Op: op, StatusCode: resp.StatusCode}
		slog.Error("[InsightClient] Backend returned non-success status",
			slog.String("endpoint", endpoint.Path),
			slog.Int("status", resp.StatusCode))
		return nil, reqErr
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		reqErr := &RequestError{Op: op, Err: err}
		slog.Error("[InsightClient] Failed to read response body",
			slog.String("endpoint", endpoint.Path),
			slog.String("error", reqErr.Detail()))
		return nil, reqErr
	}
	return body, nil
}

// ParseClassifiedRows reads classified rows from a backend payload. It
// accepts a bare array or an object wrapping the array, and several
// spellings of the text and label fields. Anything it cannot read yields no
// rows.
func ParseClassifiedRows(body []byte) []models.ClassifiedComment {
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil
	}

	items := rowItems(payload)
	rows := make([]models.ClassifiedComment, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		rows = append(rows, models.ClassifiedComment{
			Comment:   lookupString(obj, commentTextKeys),
			Sentiment: lookupString(obj, sentimentKeys),
		})
	}
	return rows
}

func rowItems(payload any) []any {
	switch v := payload.(type) {
	case []any:
		return v
	case map[string]any:
		for _, key := range rowEnvelopeKeys {
			if items, ok := lookup(v, key).([]any); ok {
				return items
			}
		}
		if data, ok := lookup(v, "data").(map[string]any); ok {
			return rowItems(data)
		}
		if grouped, ok := lookup(v, "comments").(map[string]any); ok {
			return groupedItems(grouped)
		}
	}
	return nil
}

// groupedItems flattens a summary-shaped {label: [text, ...]} object into
// rows so a backend that returns its own summary can still be re-counted.
func groupedItems(grouped map[string]any) []any {
	var items []any
	for _, label := range slices.Sorted(maps.Keys(grouped)) {
		texts, ok := grouped[label].([]any)
		if !ok {
			continue
		}
		for _, text := range texts {
			if s, ok := text.(string); ok {
				items = append(items, map[string]any{"comment": s, "sentiment": label})
			}
		}
	}
	return items
}

func lookupString(obj map[string]any, keys []string) string {
	for _, key := range keys {
		if s, ok := lookup(obj, key).(string); ok {
			return s
		}
	}
	return ""
}

// lookup prefers an exact key match and falls back to a case-insensitive
// one. Keys are tried in sorted order so the fallback is stable.
func lookup(obj map[string]any, key string) any {
	if v, ok := obj[key]; ok {
		return v
	}
	for _, k := range slices.Sorted(maps.Keys(obj)) {
		if strings.EqualFold(k, key) {
			return obj[k]
		}
	}
	return nil
}

func getPreview(respBody []byte) slog.Attr {
	raw := string(respBody)
	if len(raw) > 50 {
		raw = raw[:50]
	}
	return slog.String("raw_response", raw)
}
