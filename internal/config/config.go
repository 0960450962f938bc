package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/GCLCMentor/CherryCourtTimer/internal/domain"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	Store   StoreConfig
	Board   BoardConfig
	Logging LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port string
	Host string
	Env  string // "development" or "production"
}

// StoreConfig selects and configures the state store backend
type StoreConfig struct {
	Backend string // "file", "memory", "nats" or "postgres"
	Key     string // key the game state is stored under
	Dir     string // directory for the file backend

	NATS     NATSConfig
	Postgres PostgresConfig
}

// NATSConfig holds JetStream KeyValue settings
type NATSConfig struct {
	URL           string
	Bucket        string
	MaxReconnects int
	ReconnectWait time.Duration
}

// PostgresConfig holds Postgres connection settings
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	Table    string
}

// BoardConfig holds public board settings
type BoardConfig struct {
	PollInterval time.Duration
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // "json" or "text"
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Host: getEnv("HOST", "0.0.0.0"),
			Env:  getEnv("ENV", "development"),
		},
		Store: StoreConfig{
			Backend: getEnv("STORE_BACKEND", "file"),
			Key:     getEnv("STORE_KEY", "gameState"),
			Dir:     getEnv("STORE_DIR", "./data"),
			NATS: NATSConfig{
				URL:           getEnv("NATS_URL", "nats://127.0.0.1:4222"),
				Bucket:        getEnv("NATS_BUCKET", "scoreboard"),
				MaxReconnects: getEnvInt("NATS_MAX_RECONNECTS", -1),
				ReconnectWait: getEnvDuration("NATS_RECONNECT_WAIT", 2*time.Second),
			},
			Postgres: PostgresConfig{
				Host:     getEnv("DB_HOST", "localhost"),
				Port:     getEnvInt("DB_PORT", 5432),
				User:     getEnv("DB_USER", "postgres"),
				Password: getEnv("DB_PASSWORD", "postgres"),
				Database: getEnv("DB_NAME", "scoreboard"),
				SSLMode:  getEnv("DB_SSLMODE", "disable"),
				Table:    getEnv("DB_TABLE", "scoreboard_state"),
			},
		},
		Board: BoardConfig{
			PollInterval: getEnvDuration("BOARD_POLL_INTERVAL", 500*time.Millisecond),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// GetAddr returns the server address in host:port format
func (c *Config) GetAddr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// DSN returns the Postgres connection URL
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode,
	)
}

// LoadSetup reads a game setup from a YAML file
func LoadSetup(path string) (domain.Setup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Setup{}, fmt.Errorf("failed to read setup file: %w", err)
	}

	var setup domain.Setup
	if err := yaml.Unmarshal(data, &setup); err != nil {
		return domain.Setup{}, fmt.Errorf("failed to parse setup file: %w", err)
	}

	if err := setup.Validate(); err != nil {
		return domain.Setup{}, err
	}
	return setup, nil
}

// getEnv returns an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns an environment variable as an integer or a default value
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvDuration returns an environment variable as a duration or a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
