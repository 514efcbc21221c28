package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"go-simpler.org/env"
)

const (
	SourceRemote = "remote"
	SourceMock   = "mock"

	StoreMemory   = "memory"
	StoreDynamoDB = "dynamodb"
)

type Config struct {
	AppEnv   string
	LogLevel string
	Port     string

	Insight  InsightConfig
	Valkey   ValkeyConfig
	Facebook FacebookConfig
	OpenAI   OpenAIConfig
	Kafka    KafkaConfig
	AWS      AWSConfig

	ClassifierURL string
}

type InsightConfig struct {
	Source        string
	BackendURL    string
	TriggerScrape bool
	Timeout       time.Duration
	APIToken      string
	ClientID      string
	ClientSecret  string
	TokenURL      string
}

type ValkeyConfig struct {
	Address  string
	Password string
	UseTLS   bool
}

type FacebookConfig struct {
	PageID      string
	AccessToken string
	APIVersion  string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type KafkaConfig struct {
	Broker         string
	Topic          string
	MessageTimeout time.Duration
}

type AWSConfig struct {
	CommentsStore string
	Endpoint      string
	Region        string
	CommentsTable string
}

// envVars mirrors the environment one key per field.
type envVars struct {
	AppEnv   string `env:"APP_ENV" default:"dev"`
	LogLevel string `env:"LOG_LEVEL" default:"info"`
	Port     int    `env:"PORT" default:"8000"`

	InsightSource        string        `env:"INSIGHT_SOURCE" default:"remote"`
	InsightBackendURL    string        `env:"INSIGHT_BACKEND_URL" default:"http://localhost:8000"`
	InsightTriggerScrape bool          `env:"INSIGHT_TRIGGER_SCRAPE" default:"true"`
	InsightTimeout       time.Duration `env:"INSIGHT_TIMEOUT" default:"30s"`
	InsightAPIToken      string        `env:"INSIGHT_API_TOKEN"`
	InsightClientID      string        `env:"INSIGHT_CLIENT_ID"`
	InsightClientSecret  string        `env:"INSIGHT_CLIENT_SECRET"`
	InsightTokenURL      string        `env:"INSIGHT_TOKEN_URL"`

	ValkeyAddress  string `env:"VALKEY_INIT_ADDRESS"`
	ValkeyPassword string `env:"VALKEY_PASSWORD"`
	ValkeyTLS      bool   `env:"VALKEY_TLS" default:"false"`

	FBPageID      string `env:"FB_PAGE_ID"`
	FBAccessToken string `env:"FB_ACCESS_TOKEN"`
	FBAPIVersion  string `env:"FB_API_VERSION" default:"v24.0"`

	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`
	OpenAIModel   string `env:"OPENAI_MODEL" default:"gpt-4o-mini"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`

	KafkaBroker         string        `env:"KAFKA_BROKER"`
	KafkaSummaryTopic   string        `env:"KAFKA_SUMMARY_TOPIC" default:"sentiment-summaries"`
	KafkaMessageTimeout time.Duration `env:"KAFKA_MESSAGE_TIMEOUT" default:"30s"`

	CommentsStore string `env:"COMMENTS_STORE" default:"memory"`
	AWSEndpoint   string `env:"AWS_ENDPOINT"`
	AWSRegion     string `env:"AWS_REGION" default:"us-west-2"`
	CommentsTable string `env:"COMMENTS_TABLE" default:"ScrapedComments"`

	ClassifierURL string `env:"CLASSIFIER_URL"`
}

// presentEnv treats variables set to the empty string as unset so that
// blank lines in an env file fall back to defaults.
type presentEnv struct{}

func (presentEnv) LookupEnv(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// Load reads the configuration from the environment. Unset variables take
// their defaults; cross-field problems are reported together.
func Load() (Config, error) {
	var vars envVars
	if err := env.Load(&vars, &env.Options{Source: presentEnv{}}); err != nil {
		return Config{}, fmt.Errorf("[Config] Failed to load environment variables: %w", err)
	}

	cfg := Config{
		AppEnv:   vars.AppEnv,
		LogLevel: vars.LogLevel,
		Port:     strconv.Itoa(vars.Port),
		Insight: InsightConfig{
			Source:        strings.ToLower(vars.InsightSource),
			BackendURL:    vars.InsightBackendURL,
			TriggerScrape: vars.InsightTriggerScrape,
			Timeout:       vars.InsightTimeout,
			APIToken:      vars.InsightAPIToken,
			ClientID:      vars.InsightClientID,
			ClientSecret:  vars.InsightClientSecret,
			TokenURL:      vars.InsightTokenURL,
		},
		Valkey: ValkeyConfig{
			Address:  vars.ValkeyAddress,
			Password: vars.ValkeyPassword,
			UseTLS:   vars.ValkeyTLS,
		},
		Facebook: FacebookConfig{
			PageID:      vars.FBPageID,
			AccessToken: vars.FBAccessToken,
			APIVersion:  vars.FBAPIVersion,
		},
		OpenAI: OpenAIConfig{
			APIKey:  vars.OpenAIAPIKey,
			Model:   vars.OpenAIModel,
			BaseURL: vars.OpenAIBaseURL,
		},
		Kafka: KafkaConfig{
			Broker:         vars.KafkaBroker,
			Topic:          vars.KafkaSummaryTopic,
			MessageTimeout: vars.KafkaMessageTimeout,
		},
		AWS: AWSConfig{
			CommentsStore: strings.ToLower(vars.CommentsStore),
			Endpoint:      vars.AWSEndpoint,
			Region:        vars.AWSRegion,
			CommentsTable: vars.CommentsTable,
		},
		ClassifierURL: vars.ClassifierURL,
	}

	if err := validate(cfg); err != nil {
		return Config{}, fmt.Errorf("[Config] Invalid configuration: %w", err)
	}
	return cfg, nil
}

func validate(cfg Config) error {
	var errs []error

	switch cfg.Insight.Source {
	case SourceRemote, SourceMock:
	default:
		errs = append(errs, fmt.Errorf("INSIGHT_SOURCE must be %q or %q, got %q", SourceRemote, SourceMock, cfg.Insight.Source))
	}

	switch cfg.AWS.CommentsStore {
	case StoreMemory, StoreDynamoDB:
	default:
		errs = append(errs, fmt.Errorf("COMMENTS_STORE must be %q or %q, got %q", StoreMemory, StoreDynamoDB, cfg.AWS.CommentsStore))
	}

	if cfg.Insight.Timeout < 0 {
		errs = append(errs, fmt.Errorf("INSIGHT_TIMEOUT must not be negative, got %s", cfg.Insight.Timeout))
	}
	if cfg.Kafka.MessageTimeout <= 0 {
		errs = append(errs, fmt.Errorf("KAFKA_MESSAGE_TIMEOUT must be positive, got %s", cfg.Kafka.MessageTimeout))
	}

	checkURL("INSIGHT_BACKEND_URL", cfg.Insight.BackendURL, &errs)
	if cfg.ClassifierURL != "" {
		checkURL("CLASSIFIER_URL", cfg.ClassifierURL, &errs)
	}
	if cfg.AWS.Endpoint != "" {
		checkURL("AWS_ENDPOINT", cfg.AWS.Endpoint, &errs)
	}
	if cfg.OpenAI.BaseURL != "" {
		checkURL("OPENAI_BASE_URL", cfg.OpenAI.BaseURL, &errs)
	}

	return errors.Join(errs...)
}

func checkURL(key, raw string, errs *[]error) {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		*errs = append(*errs, fmt.Errorf("%s must be an absolute URL, got %q", key, raw))
	}
}
