package kafka_client

import "time"

const (
	KAFKA_TOPIC_SENTIMENT_SUMMARIES = "sentiment-summaries" // one message per classified post
)

const (
	DEFAULT_BROKER          = "localhost:29092"
	DEFAULT_MESSAGE_TIMEOUT = 30 * time.Second
	FLUSH_TIMEOUT_MS        = 5000
	EVENTS_DRAIN_TIMEOUT    = 2 * time.Second
)
