package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/spacesedan/socialinsight/internal/models"
	"github.com/spacesedan/socialinsight/internal/utils"
)

const (
	ANALYZE_BATCH_PATH = "/analyze_batch"
	HEALTH_PATH        = "/health"
)

// ClassifierClient calls a remote batch sentiment service.
type ClassifierClient struct {
	Client         *http.Client
	baseURL        string
	initialBackoff time.Duration
	maxRetries     int
	batchSize      int
}

func NewClassifierClient(baseURL string, timeout time.Duration) *ClassifierClient {
	slog.Info("[ClassifierClient] Initializing Client",
		slog.String("url", baseURL),
		slog.Duration("timeout", timeout))

	return &ClassifierClient{
		Client:         &http.Client{Timeout: timeout},
		baseURL:        strings.TrimRight(baseURL, "/"),
		initialBackoff: INITIAL_BACKOFF,
		maxRetries:     MAX_RETRIES,
		batchSize:      utils.BATCH_SIZE,
	}
}

// DoWithRetry retries transport errors and 5xx responses with a doubling
// backoff. newReq is called once per attempt so request bodies are fresh.
func (h *ClassifierClient) DoWithRetry(ctx context.Context, newReq func() (*http.Request, error)) (*http.Response, error) {
	var resp *http.Response
	var err error
	backoff := h.initialBackoff

	for attempt := 0; attempt < h.maxRetries; attempt++ {
		req, buildErr := newReq()
		if buildErr != nil {
			return nil, buildErr
		}

		resp, err = h.Client.Do(req)
		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}

		slog.Warn("[ClassifierClient] Request failed, will retry",
			slog.Int("attempt", attempt+1),
			slog.String("error", errMsg(err, resp)))

		if resp != nil {
			resp.Body.Close()
		}
		if err == nil {
			err = fmt.Errorf("status code %d", resp.StatusCode)
		}

		if attempt == h.maxRetries-1 {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > MAX_BACKOFF {
			backoff = MAX_BACKOFF
		}
	}

	return nil, err
}

func (h *ClassifierClient) AnalyzeBatch(ctx context.Context, input models.SentimentAnalysisBatchRequest) (models.SentimentAnalysisBatchResponse, error) {
	var result models.SentimentAnalysisBatchResponse
	slog.Info("[ClassifierClient] Requesting sentiment analysis",
		slog.Int("batch_size", len(input)))
	start := time.Now()

	err := h.postJSON(ctx, h.baseURL+ANALYZE_BATCH_PATH, input, &result)
	if err != nil {
		slog.Error("[ClassifierClient] Sentiment Analysis request failed",
			slog.Duration("elapsed", time.Since(start)))
		return result, err
	}

	slog.Info("[ClassifierClient] Sentiment Analysis request successful",
		slog.Duration("elapsed", time.Since(start)))
	return result, nil
}

// ClassifyComments labels comments through the remote service, one request
// per batch. Comments the service returns no result for get an empty label,
// which aggregates as neutral.
func (h *ClassifierClient) ClassifyComments(ctx context.Context, comments []string) ([]models.ClassifiedComment, error) {
	if len(comments) == 0 {
		return []models.ClassifiedComment{}, nil
	}

	request := make(models.SentimentAnalysisBatchRequest, 0, len(comments))
	for i, comment := range comments {
		request = append(request, models.SentimentAnalysisRequest{
			ContentID: strconv.Itoa(i),
			Text:      comment,
		})
	}

	mapped := make(map[string]models.SentimentAnalysisResponse, len(request))
	for _, batch := range utils.Batches(request, h.batchSize) {
		scores, err := h.AnalyzeBatch(ctx, batch)
		if err != nil {
			return nil, err
		}
		for id, score := range mapSentimentScoreToContentID(scores) {
			mapped[id] = score
		}
	}

	rows := make([]models.ClassifiedComment, 0, len(comments))
	for _, req := range request {
		score, ok := mapped[req.ContentID]
		if !ok {
			slog.Warn("[ClassifierClient] No sentiment result for content ID",
				slog.String("content_id", req.ContentID))
		}
		rows = append(rows, models.ClassifiedComment{
			Comment:   req.Text,
			Sentiment: score.SentimentLabel,
		})
	}
	return rows, nil
}

// HealthCheck reports whether the service answers its health endpoint.
func (h *ClassifierClient) HealthCheck(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+HEALTH_PATH, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", USER_AGENT)

	resp, err := h.Client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode == http.StatusOK
}

// helper function for posting data to the classification service
func (h *ClassifierClient) postJSON(ctx context.Context, endpoint string, input any, output any) error {
	body, err := json.Marshal(input)
	if err != nil {
		slog.Error("[ClassifierClient] Failed to marshal input",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to marshal input: %w", err)
	}

	resp, err := h.DoWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", USER_AGENT)
		return req, nil
	})
	if err != nil {
		slog.Error("[ClassifierClient] Failed request after retries",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))
		return fmt.Errorf("request failed after retries: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Error("[ClassifierClient] Failed to read response",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to read response: %w", err)
	}

	if err := json.Unmarshal(respBody, output); err != nil {
		slog.Error("[ClassifierClient] Failed to unmarshal response",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()),
			getPreview(respBody),
			slog.Int("raw_response_length", len(respBody)))

		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}

// mapSentimentScoreToContentID Creates a map of sentiment scores to avoid nested loops
func mapSentimentScoreToContentID(scores models.SentimentAnalysisBatchResponse) map[string]models.SentimentAnalysisResponse {
	scoreMap := make(map[string]models.SentimentAnalysisResponse, len(scores))

	for _, score := range scores {
		scoreMap[score.ContentID] = score
	}

	return scoreMap
}

func errMsg(err error, resp *http.Response) string {
	if err != nil {
		return err.Error()
	}
	if resp != nil {
		return fmt.Sprintf("status code %d", resp.StatusCode)
	}
	return "unknown error"
}
