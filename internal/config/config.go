// internal/config/config.go
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the process configuration, read from the environment (a .env file is auto-loaded
// by cmd/server).
type Config struct {
	Port           string
	Env            string // "production" restricts CORS to AllowedOrigins
	AllowedOrigins []string
	LogLevel       string

	QuizBankSource string // "file" or "postgres"
	QuizBankPath   string

	Postgres PostgresConfig
	Redis    RedisConfig

	RoomIdleTimeout   time.Duration
	RoomSweepInterval time.Duration
	StopGrace         time.Duration

	TokenExpire time.Duration // guest session lifetime; 0 => tokens never expire
}

// PostgresConfig holds the connection parameters for the question bank database.
type PostgresConfig struct {
	User     string
	Password string
	Host     string
	Port     string
	Database string
}

// RedisConfig holds the action journal settings. An empty Addr disables the journal.
type RedisConfig struct {
	Addr      string
	DB        int
	QueueName string
	MaxLen    int
	TTL       time.Duration
}

// Load reads the configuration from the environment, applying defaults.
func Load() Config {
	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("MAJLIS_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		QuizBankSource: getEnv("QUIZ_BANK_SOURCE", "file"),
		QuizBankPath:   getEnv("QUIZ_BANK_PATH", "quiz.json"),
		Postgres: PostgresConfig{
			User:     os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			Host:     getEnv("PG_HOST", "localhost"),
			Port:     getEnv("PG_PORT", "5432"),
			Database: os.Getenv("PG_DATABASE"),
		},
		Redis: RedisConfig{
			Addr:      os.Getenv("REDIS_ADDR"),
			DB:        getEnvInt("REDIS_DB", 0),
			QueueName: getEnv("JOURNAL_QUEUE_NAME", "majlis_room_events"),
			MaxLen:    getEnvInt("JOURNAL_MAX_LEN", 10000),
			TTL:       getEnvDuration("JOURNAL_TTL", 24*time.Hour),
		},
		RoomIdleTimeout:   getEnvDuration("ROOM_IDLE_TIMEOUT", 30*time.Minute),
		RoomSweepInterval: getEnvDuration("ROOM_SWEEP_INTERVAL", time.Minute),
		StopGrace:         getEnvDuration("STOP_GRACE", 5*time.Second),
		TokenExpire:       getEnvDuration("TOKEN_EXPIRE_TIME", 0),
	}
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}
	return cfg
}

// IsProduction reports whether the service runs in production mode.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv reads an environment variable or returns a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvInt parses an environment variable as integer, else returns the default.
func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

// getEnvDuration parses values like "30s" or "15m"; "never" and "0" yield zero.
func getEnvDuration(key string, def time.Duration) time.Duration {
	s := os.Getenv(key)
	switch s {
	case "":
		return def
	case "never", "0":
		return 0
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}
