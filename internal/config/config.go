package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds environment-based settings
type Config struct {
	Environment    string `mapstructure:"app_env"`
	ServerAddress  string `mapstructure:"server_address"`
	DatabaseURL    string `mapstructure:"database_url"`
	MigrationsPath string `mapstructure:"migrations_path"`
	JWTSecret      string `mapstructure:"jwt_secret"`
	LogLevel       string `mapstructure:"log_level"`
	WebDir         string `mapstructure:"web_dir"`

	RedisAddress  string `mapstructure:"redis_address"`
	RedisUsername string `mapstructure:"redis_username"`
	RedisPassword string `mapstructure:"redis_password"`

	MQTTBrokerURL string `mapstructure:"mqtt_broker_url"`

	TimingsBaseURL string `mapstructure:"timings_base_url"`
	TimingsCity    string `mapstructure:"timings_city"`
	TimingsCountry string `mapstructure:"timings_country"`
	TimingsMethod  int    `mapstructure:"timings_method"`

	// AuthRateLimit is requests per minute per client IP on login and register.
	AuthRateLimit int `mapstructure:"auth_rate_limit"`
}

var ErrMissingSecret = errors.New("JWT_SECRET is required")

// Development reports whether logs should be human readable.
func (c *Config) Development() bool {
	return c.Environment == "" || c.Environment == "development"
}

// UseMemoryStore reports whether records live in process memory.
func (c *Config) UseMemoryStore() bool {
	return c.DatabaseURL == ""
}

func bindings() map[string]any {
	return map[string]any{
		"app_env":          "development",
		"server_address":   ":8080",
		"database_url":     "",
		"migrations_path":  "./migrations",
		"jwt_secret":       "",
		"log_level":        "info",
		"web_dir":          "./web",
		"redis_address":    "",
		"redis_username":   "",
		"redis_password":   "",
		"mqtt_broker_url":  "",
		"timings_base_url": "https://api.aladhan.com/v1",
		"timings_city":     "Karachi",
		"timings_country":  "Pakistan",
		"timings_method":   1,
		"auth_rate_limit":  20,
	}
}

// Load reads an optional .env file, then environment variables.
func Load(envFiles ...string) (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load(envFiles...)

	v := viper.New()
	for key, def := range bindings() {
		if err := v.BindEnv(key, strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
		v.SetDefault(key, def)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.JWTSecret == "" {
		return nil, ErrMissingSecret
	}
	if cfg.AuthRateLimit <= 0 {
		return nil, fmt.Errorf("AUTH_RATE_LIMIT must be positive, got %d", cfg.AuthRateLimit)
	}
	if cfg.Environment == "production" && len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in production", len(cfg.JWTSecret))
	}
	return &cfg, nil
}
