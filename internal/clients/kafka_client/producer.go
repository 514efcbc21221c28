package kafka_client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/spacesedan/socialinsight/internal/models"
)

// SummaryProducer publishes classified summaries for downstream consumers.
// Publishing never waits on the broker; delivery reports are drained in the
// background and failures are logged.
type SummaryProducer struct {
	producer  *kafka.Producer
	topic     string
	delivered atomic.Int64
	failed    atomic.Int64
	drained   chan struct{}
}

func NewSummaryProducer(cfg KafkaConfig) (*SummaryProducer, error) {
	cfg = cfg.withDefaults()
	slog.Info("[KafkaClient] Initializing Kafka Producer...",
		slog.String("broker", cfg.Broker),
		slog.String("topic", cfg.Topic))

	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":   cfg.Broker,
		"security.protocol":   "PLAINTEXT",
		"api.version.request": "true",
		"enable.idempotence":  true,
		"acks":                "all",
		"message.timeout.ms":  int(cfg.MessageTimeout / time.Millisecond),
	})
	if err != nil {
		return nil, fmt.Errorf("[KafkaClient] Failed to create producer: %w", err)
	}

	s := &SummaryProducer{
		producer: p,
		topic:    cfg.Topic,
		drained:  make(chan struct{}),
	}
	go s.handleEvents()

	slog.Info("[KafkaClient] Kafka Producer initialized successfully")
	return s, nil
}

// PublishSummary enqueues summary keyed by post id and returns without
// waiting for the broker. Only local failures (encoding, full queue) are
// returned.
func (s *SummaryProducer) PublishSummary(ctx context.Context, summary models.SentimentSummary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	value, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("[KafkaClient] Failed to marshal summary: %w", err)
	}

	err = s.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &s.topic, Partition: kafka.PartitionAny},
		Key:            []byte(summary.PostID),
		Value:          value,
		Timestamp:      time.Now(),
	}, nil)
	if err != nil {
		return fmt.Errorf("[KafkaClient] Failed to produce message: %w", err)
	}
	return nil
}

// handleEvents runs until the producer's event channel is closed.
func (s *SummaryProducer) handleEvents() {
	defer close(s.drained)

	for e := range s.producer.Events() {
		switch ev := e.(type) {
		case *kafka.Message:
			if ev.TopicPartition.Error != nil {
				s.failed.Add(1)
				slog.Error("[KafkaClient] Delivery failed",
					slog.String("topic", s.topic),
					slog.String("post_id", string(ev.Key)),
					slog.String("error", ev.TopicPartition.Error.Error()))
				continue
			}
			s.delivered.Add(1)
			slog.Debug("[KafkaClient] Published summary",
				slog.String("topic", s.topic),
				slog.String("post_id", string(ev.Key)),
				slog.Int("partition", int(ev.TopicPartition.Partition)))
		case kafka.Error:
			slog.Warn("[KafkaClient] Producer error",
				slog.String("error", ev.Error()),
				slog.Bool("fatal", ev.IsFatal()))
		}
	}
}

// Delivered counts summaries the broker acknowledged.
func (s *SummaryProducer) Delivered() int64 {
	return s.delivered.Load()
}

// Failed counts summaries whose delivery report carried an error.
func (s *SummaryProducer) Failed() int64 {
	return s.failed.Load()
}

func (s *SummaryProducer) Close() {
	slog.Info("[KafkaClient] Shutting down Kafka producer...")
	if remaining := s.producer.Flush(FLUSH_TIMEOUT_MS); remaining > 0 {
		slog.Warn("[KafkaClient] Not all messages were delivered before shutdown",
			slog.Int("remaining", remaining))
	}
	s.producer.Close()

	select {
	case <-s.drained:
	case <-time.After(EVENTS_DRAIN_TIMEOUT):
		slog.Warn("[KafkaClient] Timed out draining delivery reports")
	}
	slog.Info("[KafkaClient] Kafka producer shut down")
}
