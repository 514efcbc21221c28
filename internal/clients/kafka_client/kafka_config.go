package kafka_client

import "time"

type KafkaConfig struct {
	Broker string
	Topic  string
	// MessageTimeout bounds how long a message may wait for delivery
	// before its report comes back as failed.
	MessageTimeout time.Duration
}

func (c KafkaConfig) withDefaults() KafkaConfig {
	if c.Broker == "" {
		c.Broker = DEFAULT_BROKER
	}
	if c.Topic == "" {
		c.Topic = KAFKA_TOPIC_SENTIMENT_SUMMARIES
	}
	if c.MessageTimeout <= 0 {
		c.MessageTimeout = DEFAULT_MESSAGE_TIMEOUT
	}
	return c
}
