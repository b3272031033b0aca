// Package config provides environment configuration for the API server.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	ServerPort         string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ShutdownTimeout    time.Duration
	AllowedOrigins     []string

	// Database settings
	Database DatabaseConfig

	// NATS settings
	NATSURL      string
	NATSCAFile   string
	NATSCertFile string
	NATSKeyFile  string
	NATSToken    string

	// JWT settings
	JWTSecret string

	// Webhook relay
	WebhookURL     string
	WebhookSecret  string
	WebhookTimeout time.Duration

	// LLM settings
	AnthropicAPIKey string
	OpenAIAPIKey    string
	DefaultLLM      string

	// Rate limiting
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Logging
	LogLevel string

	// Tracing
	TracingEndpoint string
	TracingEnabled  bool

	// Error reporting
	SentryDSN         string
	SentryEnvironment string
}

// DatabaseConfig describes the Postgres connection.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnectTimeout  time.Duration
}

// DSN returns a libpq-style connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// Load reads configuration from environment variables. When CONFIG_FILE
// points at a YAML file of KEY: value pairs, those values act as defaults
// underneath the environment.
func Load() (*Config, error) {
	src := source{}
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		file, err := readFile(path)
		if err != nil {
			return nil, err
		}
		src.file = file
	}
	return src.load(), nil
}

type source struct {
	file map[string]string
}

func (s source) load() *Config {
	return &Config{
		// Server
		ServerPort:         s.getEnv("PORT", "8080"),
		ServerReadTimeout:  s.getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
		ServerWriteTimeout: s.getDurationEnv("SERVER_WRITE_TIMEOUT", 60*time.Second),
		ShutdownTimeout:    s.getDurationEnv("SHUTDOWN_TIMEOUT", 30*time.Second),
		AllowedOrigins:     s.getListEnv("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),

		// Database
		Database: DatabaseConfig{
			Host:            s.getEnv("DB_HOST", "localhost"),
			Port:            s.getIntEnv("DB_PORT", 5432),
			User:            s.getEnv("DB_USER", "postgres"),
			Password:        s.getEnv("DB_PASSWORD", "postgres"),
			Name:            s.getEnv("DB_NAME", "repguardian"),
			SSLMode:         s.getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    s.getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    s.getIntEnv("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: s.getDurationEnv("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			ConnectTimeout:  s.getDurationEnv("DB_CONNECT_TIMEOUT", 30*time.Second),
		},

		// NATS
		NATSURL:      s.getEnv("NATS_URL", "nats://localhost:4222"),
		NATSCAFile:   s.getEnv("NATS_CA_FILE", ""),
		NATSCertFile: s.getEnv("NATS_CERT_FILE", ""),
		NATSKeyFile:  s.getEnv("NATS_KEY_FILE", ""),
		NATSToken:    s.getEnv("NATS_TOKEN", ""),

		// JWT
		JWTSecret: s.getEnv("JWT_SECRET", "development-secret-change-in-production"),

		// Webhook relay
		WebhookURL:     s.getEnv("N8N_WEBHOOK_URL", ""),
		WebhookSecret:  s.getEnv("N8N_WEBHOOK_SECRET", ""),
		WebhookTimeout: s.getDurationEnv("N8N_WEBHOOK_TIMEOUT", 30*time.Second),

		// LLM
		AnthropicAPIKey: s.getEnv("ANTHROPIC_API_KEY", ""),
		OpenAIAPIKey:    s.getEnv("OPENAI_API_KEY", ""),
		DefaultLLM:      s.getEnv("DEFAULT_LLM", "anthropic"),

		// Rate limiting
		RateLimitRequests: s.getIntEnv("RATE_LIMIT_REQUESTS", 120),
		RateLimitWindow:   s.getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),

		// Logging
		LogLevel: s.getEnv("LOG_LEVEL", "info"),

		// Tracing
		TracingEndpoint: s.getEnv("TRACING_ENDPOINT", "localhost:4318"),
		TracingEnabled:  s.getBoolEnv("TRACING_ENABLED", false),

		// Error reporting
		SentryDSN:         s.getEnv("SENTRY_DSN", ""),
		SentryEnvironment: s.getEnv("SENTRY_ENVIRONMENT", "development"),
	}
}

func readFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	raw := map[string]any{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case nil:
		case []any:
			parts := make([]string, 0, len(val))
			for _, p := range val {
				parts = append(parts, fmt.Sprint(p))
			}
			out[strings.ToUpper(k)] = strings.Join(parts, ",")
		default:
			out[strings.ToUpper(k)] = fmt.Sprint(val)
		}
	}
	return out, nil
}

func (s source) getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	if value, ok := s.file[key]; ok && value != "" {
		return value
	}
	return defaultValue
}

func (s source) getIntEnv(key string, defaultValue int) int {
	if value := s.getEnv(key, ""); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func (s source) getBoolEnv(key string, defaultValue bool) bool {
	if value := s.getEnv(key, ""); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func (s source) getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := s.getEnv(key, ""); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func (s source) getListEnv(key string, defaultValue []string) []string {
	value := s.getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
