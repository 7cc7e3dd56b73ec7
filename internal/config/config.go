package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

var (
	ErrMissingAPIKey = errors.New("D7_API_KEY is required")
	ErrInvalidPort   = errors.New("PORT must be a number between 1 and 65535")
)

const (
	ServiceName = "d7-lead-proxy"
	Version     = "1.2.0"
)

type Config struct {
	Server    ServerConfig
	D7        D7Config
	RateLimit RateLimitConfig
	Redis     RedisConfig
	Log       LogConfig
	Search    SearchConfig
}

type ServerConfig struct {
	Port           int
	Env            string
	AllowedOrigins []string
}

type D7Config struct {
	APIKey         string
	BaseURL        string
	SearchTimeout  time.Duration
	ResultsTimeout time.Duration
}

type RateLimitConfig struct {
	MaxRequests int
	Window      time.Duration
	TrustProxy  bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type LogConfig struct {
	Level string
}

type SearchConfig struct {
	// DefaultWait is used in full search when the upstream handle carries
	// no usable wait_seconds value.
	DefaultWait time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnvIntOrDefault("PORT", 3000),
			Env:            getEnvOrDefault("APP_ENV", "development"),
			AllowedOrigins: splitCSV(getEnvOrDefault("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		D7: D7Config{
			APIKey:         os.Getenv("D7_API_KEY"),
			BaseURL:        getEnvOrDefault("D7_BASE_URL", "https://dash.d7leadfinder.com/app/api"),
			SearchTimeout:  time.Duration(getEnvIntOrDefault("D7_SEARCH_TIMEOUT_SEC", 30)) * time.Second,
			ResultsTimeout: time.Duration(getEnvIntOrDefault("D7_RESULTS_TIMEOUT_SEC", 45)) * time.Second,
		},
		RateLimit: RateLimitConfig{
			MaxRequests: getEnvIntOrDefault("RATE_LIMIT_MAX_REQUESTS", 100),
			Window:      time.Duration(getEnvIntOrDefault("RATE_LIMIT_WINDOW_MIN", 15)) * time.Minute,
			TrustProxy:  getEnvBoolOrDefault("TRUST_PROXY", false),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvIntOrDefault("REDIS_DB", 0),
		},
		Log: LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "info"),
		},
		Search: SearchConfig{
			DefaultWait: time.Duration(getEnvIntOrDefault("FULL_SEARCH_WAIT_SEC", 30)) * time.Second,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.D7.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return ErrInvalidPort
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
