// Package config provides configuration management for the application.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	RabbitMQ   RabbitMQConfig
	Logging    LoggingConfig
	Summarizer SummarizerConfig
	OpenAI     ProviderConfig
	Anthropic  ProviderConfig
	YouTube    YouTubeConfig
	Transcript TranscriptConfig
	Chat       ChatConfig
	Import     ImportConfig
	Metrics    MetricsConfig
	Worker     WorkerConfig
	Validation ValidationConfig
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int
	ShutdownTimeout time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
}

// DatabaseConfig contains database connection configuration.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type DatabaseConfig struct {
	Host           string
	Name           string
	User           string
	Password       string
	SSLMode        string
	Port           int
	MaxConnections int
	MinConnections int
	MaxIdleTime    time.Duration
	MaxLifetime    time.Duration
}

// URL returns the database connection URL used by golang-migrate.
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

// RedisConfig contains the Redis URL shared by the task queue and the transcript cache.
type RedisConfig struct {
	URL              string
	TranscriptTTL    time.Duration
	CacheTranscripts bool
}

// RabbitMQConfig contains RabbitMQ connection and exchange configuration.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type RabbitMQConfig struct {
	Enabled    bool
	Host       string
	User       string
	Password   string
	Exchange   string
	Queue      string
	RoutingKey string
	Port       int
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level string
	File  string
}

// SummarizerConfig holds the default summarizer settings. Values stored in the
// summarizer_settings table take precedence at runtime.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type SummarizerConfig struct {
	Model             string
	MaxTokens         int
	Temperature       float64
	PreferredProvider string
	ChapterAwareness  bool
	MetadataInclusion bool
	ClickableChapters bool
}

// ProviderConfig holds the credentials and transport settings for one LLM provider.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type ProviderConfig struct {
	APIKey            string
	BaseURL           string
	Timeout           time.Duration
	RequestsPerMinute int
}

// YouTubeConfig contains YouTube Data API configuration.
type YouTubeConfig struct {
	APIKey string
}

// TranscriptConfig contains transcript acquisition settings.
type TranscriptConfig struct {
	FetchTimeout time.Duration
}

// ChatConfig bounds the context assembled for chat grounding.
type ChatConfig struct {
	DefaultModel    string
	MaxContextChars int
	MaxSummaries    int
	RetrySummaries  int
	HistoryMessages int
}

// ImportConfig contains defaults for video import.
type ImportConfig struct {
	AutoSummary       bool
	ChapterExtraction bool
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
	Path    string
}

// WorkerConfig sizes the background summary worker.
type WorkerConfig struct {
	Concurrency int
}

// ValidationConfig controls request validation in the HTTP handlers.
type ValidationConfig struct {
	Enabled          bool
	MaxMessageLength int
}

// Load loads configuration from file and environment variables.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	setDefaults()

	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects settings the summarizer cannot run with.
func (c *Config) Validate() error {
	switch c.Summarizer.PreferredProvider {
	case "openai", "anthropic":
	default:
		return fmt.Errorf("invalid summarizer.preferredprovider %q (expected openai or anthropic)", c.Summarizer.PreferredProvider)
	}
	if c.Summarizer.MaxTokens <= 0 {
		return fmt.Errorf("summarizer.maxtokens must be positive, got %d", c.Summarizer.MaxTokens)
	}
	if c.Chat.MaxContextChars <= 0 || c.Chat.MaxSummaries <= 0 {
		return fmt.Errorf("chat.maxcontextchars and chat.maxsummaries must be positive")
	}
	return nil
}

func setDefaults() {
	// Server
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.shutdowntimeout", 30*time.Second)
	viper.SetDefault("server.readtimeout", 15*time.Second)
	viper.SetDefault("server.writetimeout", 5*time.Minute)

	// Database
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "video_summarizer")
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.maxconnections", 10)
	viper.SetDefault("database.minconnections", 2)
	viper.SetDefault("database.maxidletime", 10*time.Minute)
	viper.SetDefault("database.maxlifetime", 1*time.Hour)

	// Redis
	viper.SetDefault("redis.url", "")
	viper.SetDefault("redis.transcriptttl", 24*time.Hour)
	viper.SetDefault("redis.cachetranscripts", true)

	// RabbitMQ
	viper.SetDefault("rabbitmq.enabled", false)
	viper.SetDefault("rabbitmq.host", "localhost")
	viper.SetDefault("rabbitmq.port", 5672)
	viper.SetDefault("rabbitmq.user", "guest")
	viper.SetDefault("rabbitmq.password", "guest")
	viper.SetDefault("rabbitmq.exchange", "video.summaries")
	viper.SetDefault("rabbitmq.queue", "video.summaries.events")
	viper.SetDefault("rabbitmq.routingkey", "summary.#")

	// Logging
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.file", "")

	// Summarizer
	viper.SetDefault("summarizer.model", "gpt-4.1")
	viper.SetDefault("summarizer.maxtokens", 8192)
	viper.SetDefault("summarizer.temperature", 0.7)
	viper.SetDefault("summarizer.preferredprovider", "openai")
	viper.SetDefault("summarizer.chapterawareness", true)
	viper.SetDefault("summarizer.metadatainclusion", true)
	viper.SetDefault("summarizer.clickablechapters", true)

	// Providers
	viper.SetDefault("openai.apikey", "")
	viper.SetDefault("openai.baseurl", "")
	viper.SetDefault("openai.timeout", 2*time.Minute)
	viper.SetDefault("openai.requestsperminute", 60)
	viper.SetDefault("anthropic.apikey", "")
	viper.SetDefault("anthropic.baseurl", "https://api.anthropic.com")
	viper.SetDefault("anthropic.timeout", 2*time.Minute)
	viper.SetDefault("anthropic.requestsperminute", 50)

	// YouTube
	viper.SetDefault("youtube.apikey", "")

	// Transcript
	viper.SetDefault("transcript.fetchtimeout", 30*time.Second)

	// Chat
	viper.SetDefault("chat.defaultmodel", "gpt-4.1-mini")
	viper.SetDefault("chat.maxcontextchars", 50000)
	viper.SetDefault("chat.maxsummaries", 20)
	viper.SetDefault("chat.retrysummaries", 2)
	viper.SetDefault("chat.historymessages", 10)

	// Import
	viper.SetDefault("import.autosummary", true)
	viper.SetDefault("import.chapterextraction", true)

	// Metrics
	viper.SetDefault("metrics.enabled", true)
	viper.SetDefault("metrics.path", "/metrics")

	// Worker
	viper.SetDefault("worker.concurrency", 2)

	// Validation
	viper.SetDefault("validation.enabled", true)
	viper.SetDefault("validation.maxmessagelength", 4000)
}
