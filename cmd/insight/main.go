package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spacesedan/socialinsight/config"
	"github.com/spacesedan/socialinsight/internal/clients"
	"github.com/spacesedan/socialinsight/internal/history"
	"github.com/spacesedan/socialinsight/internal/logging"
	"github.com/spacesedan/socialinsight/internal/sentiment"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("[Main] Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	// stdout is reserved for command output
	slog.SetDefault(slog.New(logging.NewHandler(os.Stderr, cfg.LogLevel)))

	ctx := context.Background()
	store, closeStore := newHistoryStore(ctx, cfg)
	defer closeStore()

	app := &cli{
		history: store,
		newProvider: func(mock bool) (sentiment.Provider, error) {
			if mock || cfg.Insight.Source == config.SourceMock {
				return sentiment.NewMockGenerator(), nil
			}
			return clients.NewInsightClient(clients.InsightClientConfig{
				BaseURL:       cfg.Insight.BackendURL,
				TriggerScrape: cfg.Insight.TriggerScrape,
				Timeout:       cfg.Insight.Timeout,
				Credentials: clients.Credentials{
					Token:        cfg.Insight.APIToken,
					ClientID:     cfg.Insight.ClientID,
					ClientSecret: cfg.Insight.ClientSecret,
					TokenURL:     cfg.Insight.TokenURL,
				},
			})
		},
	}

	if err := newRootCmd(app).ExecuteContext(ctx); err != nil {
		closeStore()
		os.Exit(1)
	}
}

// newHistoryStore prefers Valkey so history outlives a single run.
func newHistoryStore(ctx context.Context, cfg config.Config) (history.Store, func()) {
	if cfg.Valkey.Address == "" {
		return history.NewMemoryStore(), func() {}
	}

	client, err := clients.NewValkeyClient(ctx, clients.ValkeyConfig{
		Address:  cfg.Valkey.Address,
		Password: cfg.Valkey.Password,
		UseTLS:   cfg.Valkey.UseTLS,
	})
	if err != nil {
		slog.Warn("[Main] Valkey unavailable, history will not persist",
			slog.String("error", err.Error()))
		return history.NewMemoryStore(), func() {}
	}
	return history.NewValkeyStore(client), client.Close
}
