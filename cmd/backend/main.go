package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spacesedan/socialinsight/config"
	"github.com/spacesedan/socialinsight/internal/clients"
	"github.com/spacesedan/socialinsight/internal/clients/kafka_client"
	"github.com/spacesedan/socialinsight/internal/db"
	"github.com/spacesedan/socialinsight/internal/logging"
	"github.com/spacesedan/socialinsight/internal/monitoring"
	"github.com/spacesedan/socialinsight/internal/sentiment"
	"github.com/spacesedan/socialinsight/internal/server"
	"github.com/spacesedan/socialinsight/internal/takeaways"
)

const (
	classifierTimeout = 30 * time.Second
	shutdownTimeout   = 10 * time.Second
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
	logging.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := server.Deps{Fallback: sentiment.NewVaderClassifier()}

	if fb, err := clients.NewFacebookClient(clients.FacebookConfig{
		PageID:      cfg.Facebook.PageID,
		AccessToken: cfg.Facebook.AccessToken,
		APIVersion:  cfg.Facebook.APIVersion,
	}); err != nil {
		slog.Warn("[Main] Facebook client disabled", slog.String("reason", err.Error()))
	} else {
		deps.Facebook = fb
	}

	deps.Comments, err = newCommentStore(ctx, cfg)
	if err != nil {
		slog.Error("[Main] Failed to set up comment store", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if openAI, err := clients.NewOpenAIClient(clients.OpenAIConfig{
		APIKey:  cfg.OpenAI.APIKey,
		Model:   cfg.OpenAI.Model,
		BaseURL: cfg.OpenAI.BaseURL,
	}); err != nil {
		slog.Warn("[Main] Takeaways disabled", slog.String("reason", err.Error()))
	} else {
		deps.Takeaways = takeaways.NewExtractor(openAI)
	}

	if cfg.ClassifierURL != "" {
		classifier := clients.NewClassifierClient(cfg.ClassifierURL, classifierTimeout)
		healthy := &atomic.Bool{}
		healthy.Store(classifier.HealthCheck(ctx))
		go monitoring.MonitorClassifierHealth(ctx, classifier, healthy, monitoring.HEALTHCHECK_INTERVAL)

		deps.Remote = classifier
		deps.RemoteHealthy = healthy
	}

	if cfg.Kafka.Broker != "" {
		producer, err := kafka_client.NewSummaryProducer(kafka_client.KafkaConfig{
			Broker:         cfg.Kafka.Broker,
			Topic:          cfg.Kafka.Topic,
			MessageTimeout: cfg.Kafka.MessageTimeout,
		})
		if err != nil {
			slog.Warn("[Main] Summary events disabled", slog.String("error", err.Error()))
		} else {
			defer producer.Close()
			deps.Publisher = producer
		}
	}

	srv := server.NewServer(cfg.Port, deps)
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("[Main] Server stopped", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("[Main] Graceful shutdown failed", slog.String("error", err.Error()))
	}
}

func newCommentStore(ctx context.Context, cfg config.Config) (db.CommentStore, error) {
	if cfg.AWS.CommentsStore != config.StoreDynamoDB {
		slog.Info("[Main] Using in-memory comment store")
		return db.NewMemoryCommentStore(), nil
	}

	awsCfg, err := clients.LoadAWSConfig(ctx, cfg.AWS.Region)
	if err != nil {
		return nil, err
	}
	client := clients.NewDynamoDBClient(awsCfg, cfg.AWS.Endpoint)

	slog.Info("[Main] Using DynamoDB comment store", slog.String("table", cfg.AWS.CommentsTable))
	return db.NewDynamoCommentStore(client, cfg.AWS.CommentsTable), nil
}
