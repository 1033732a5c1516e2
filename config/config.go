package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig
	Graph       GraphConfig
	Database    DatabaseConfig
	LLM         LLMConfig
	Embedding   EmbeddingConfig
	Logging     LoggingConfig
	Cache       CacheConfig
	Performance PerformanceConfig
	Translator  TranslatorConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// GraphConfig holds Gremlin Server connection configuration
type GraphConfig struct {
	Endpoint       string
	TraversalName  string
	RequestTimeout time.Duration

	// Websocket connection pool settings
	MaxConns    int
	PingTimeout time.Duration
}

// DatabaseConfig holds PostgreSQL database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	SSLMode  string

	// Connection pool settings
	MaxConns int
	MinConns int
}

// LLMConfig holds generation API configuration
type LLMConfig struct {
	APIKey   string
	Endpoint string
	Model    string
	Timeout  time.Duration
}

// EmbeddingConfig holds embedding service configuration
type EmbeddingConfig struct {
	APIKey   string
	Endpoint string
	Model    string
	Timeout  time.Duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// CacheConfig holds translation cache configuration
type CacheConfig struct {
	Enabled         bool
	MaxSize         int
	CleanupInterval time.Duration
	DefaultTTL      time.Duration
}

// PerformanceConfig holds performance monitoring configuration
type PerformanceConfig struct {
	MetricsEnabled     bool
	MetricsEndpoint    string
	SlowQueryThreshold time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8000"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 60*time.Second),
			IdleTimeout:  getDurationEnv("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Graph: GraphConfig{
			Endpoint:       getEnv("GREMLIN_ENDPOINT", "ws://localhost:8182/gremlin"),
			TraversalName:  getEnv("GREMLIN_TRAVERSAL", "g"),
			RequestTimeout: getDurationEnv("GREMLIN_TIMEOUT", 30*time.Second),
			MaxConns:       getIntEnv("GREMLIN_MAX_CONNS", 4),
			PingTimeout:    getDurationEnv("GREMLIN_PING_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getIntEnv("DB_PORT", 5432),
			Database: getEnv("DB_NAME", "hotel_reviews"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			SSLMode:  getEnv("DB_SSLMODE", "prefer"),
			MaxConns: getIntEnv("DB_MAX_CONNS", 10),
			MinConns: getIntEnv("DB_MIN_CONNS", 2),
		},
		LLM: LLMConfig{
			APIKey:   getEnv("GEMINI_API_KEY", ""),
			Endpoint: getEnv("GEMINI_ENDPOINT", "https://generativelanguage.googleapis.com/v1beta"),
			Model:    getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
			Timeout:  getDurationEnv("GEMINI_TIMEOUT", 60*time.Second),
		},
		Embedding: EmbeddingConfig{
			APIKey:   getEnv("EMBEDDING_API_KEY", ""),
			Endpoint: getEnv("EMBEDDING_ENDPOINT", "https://api-inference.huggingface.co"),
			Model:    getEnv("EMBEDDING_MODEL", "sentence-transformers/all-MiniLM-L6-v2"),
			Timeout:  getDurationEnv("EMBEDDING_TIMEOUT", 30*time.Second),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Cache: CacheConfig{
			Enabled:         getBoolEnv("CACHE_ENABLED", true),
			MaxSize:         getIntEnv("CACHE_MAX_SIZE", 1000),
			CleanupInterval: getDurationEnv("CACHE_CLEANUP_INTERVAL", 5*time.Minute),
			DefaultTTL:      getDurationEnv("CACHE_DEFAULT_TTL", 30*time.Minute),
		},
		Performance: PerformanceConfig{
			MetricsEnabled:     getBoolEnv("METRICS_ENABLED", true),
			MetricsEndpoint:    getEnv("METRICS_ENDPOINT", "/metrics"),
			SlowQueryThreshold: getDurationEnv("SLOW_QUERY_THRESHOLD", 500*time.Millisecond),
		},
		Translator: DefaultTranslatorConfig(),
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv gets duration from environment variable with default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getIntEnv gets integer from environment variable with default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getBoolEnv gets boolean from environment variable with default value
func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// Validate validates the configuration. A missing LLM API key is allowed:
// the service degrades to fallback translation without it.
func (c *Config) Validate() error {
	if c.Graph.Endpoint == "" {
		return &ConfigError{Field: "GREMLIN_ENDPOINT", Message: "Gremlin endpoint is required"}
	}
	if c.Server.Port == "" {
		return &ConfigError{Field: "SERVER_PORT", Message: "server port is required"}
	}
	if err := c.Translator.Validate(); err != nil {
		return err
	}
	return nil
}

// ConfigError represents configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
