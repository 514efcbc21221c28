package clients

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	openAIRequestTimeout = 60 * time.Second // Timeout for individual OpenAI API requests
	DEFAULT_OPENAI_MODEL = openai.GPT4oMini
)

var ErrOpenAINotConfigured = errors.New("openai api key not configured, check OPENAI_API_KEY")

type OpenAIConfig struct {
	APIKey string
	Model  string
	// BaseURL overrides the public endpoint, e.g. for an Azure or local
	// OpenAI-compatible gateway. It should include the /v1 suffix.
	BaseURL string
}

type OpenAIClient struct {
	Client *openai.Client
	model  string
}

func NewOpenAIClient(cfg OpenAIConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		slog.Error("[OpenAIClient] Missing OPENAI_API_KEY in environment variables")
		return nil, ErrOpenAINotConfigured
	}
	model := cfg.Model
	if model == "" {
		model = DEFAULT_OPENAI_MODEL
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	config.HTTPClient = &http.Client{
		Timeout: openAIRequestTimeout,
	}

	slog.Info("[OpenAIClient] OpenAI client initialized",
		slog.String("model", model),
		slog.String("base_url", config.BaseURL),
		slog.Duration("timeout", openAIRequestTimeout))

	return &OpenAIClient{
		Client: openai.NewClientWithConfig(config),
		model:  model,
	}, nil
}

// Complete sends a single user prompt and returns the first choice's text.
func (o *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	resp, err := o.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("[OpenAIClient] Chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("[OpenAIClient] Chat completion returned no choices")
	}

	slog.Info("[OpenAIClient] Chat completion successful",
		slog.Duration("elapsed", time.Since(start)),
		slog.Int("total_tokens", resp.Usage.TotalTokens))

	return resp.Choices[0].Message.Content, nil
}
