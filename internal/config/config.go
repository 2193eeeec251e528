// Package config loads server settings.
//
// PRECEDENCE (later wins):
//  1. defaults in defaultConfig
//  2. the TOML file named by CONFIG_FILE (default configs/config.toml), if it exists
//  3. environment variables, including those from a .env file in the working directory
//
// Secrets (JWT_SECRET, API_KEY) normally come from the environment, never from
// the committed TOML file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Storage drivers.
const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// Concierge providers.
const (
	ProviderGemini = "gemini"
	ProviderArk    = "ark"
)

// DefaultGeminiModel is used when the gemini provider has no model set.
// Ark has no default; its model is an endpoint id from the Ark console.
const DefaultGeminiModel = "gemini-3-flash-preview"

type Config struct {
	App       AppConfig       `toml:"app"`
	Storage   StorageConfig   `toml:"storage"`
	Auth      AuthConfig      `toml:"auth"`
	Concierge ConciergeConfig `toml:"concierge"`
	Bookings  BookingsConfig  `toml:"bookings"`
}

type AppConfig struct {
	Name      string `toml:"name"`
	Env       string `toml:"env"`
	Host      string `toml:"host"`
	Port      int    `toml:"port"`
	StaticDir string `toml:"static_dir"`
	LogLevel  string `toml:"log_level"`
}

type StorageConfig struct {
	Driver        string `toml:"driver"`
	DBPath        string `toml:"db_path"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	RedisPrefix   string `toml:"redis_prefix"`
}

type AuthConfig struct {
	JWTSecret        string `toml:"jwt_secret"`
	ClientTokenDays  int    `toml:"client_token_days"`
	BcryptCost       int    `toml:"bcrypt_cost"`
	SimulatedDelayMS int    `toml:"simulated_delay_ms"`
}

type ConciergeConfig struct {
	Provider       string `toml:"provider"`
	APIKey         string `toml:"api_key"`
	Model          string `toml:"model"`
	BaseURL        string `toml:"base_url"`
	Region         string `toml:"region"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	IdleMinutes    int    `toml:"idle_minutes"`
}

type BookingsConfig struct {
	RabbitMQURL string `toml:"rabbitmq_url"`
	Queue       string `toml:"queue"`
}

// Load builds the configuration. A missing config file or .env file is not
// an error; a malformed one is.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: loading .env: %w", err)
	}

	cfg := defaultConfig()

	configPath := getEnv("CONFIG_FILE", "configs/config.toml")
	if _, err := os.Stat(configPath); err == nil {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("config: decoding %s: %w", configPath, err)
		}
	}

	overrideByEnv(cfg)

	if cfg.Concierge.Provider == ProviderGemini && cfg.Concierge.Model == "" {
		cfg.Concierge.Model = DefaultGeminiModel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:      "lovinghomes",
			Env:       "dev",
			Host:      "0.0.0.0",
			Port:      8080,
			StaticDir: "web/dist",
			LogLevel:  "info",
		},
		Storage: StorageConfig{
			Driver:      DriverSQLite,
			DBPath:      "data/lovinghomes.db",
			RedisAddr:   "127.0.0.1:6379",
			RedisPrefix: "lovinghomes:",
		},
		Auth: AuthConfig{
			ClientTokenDays: 365,
			BcryptCost:      12,
		},
		Concierge: ConciergeConfig{
			Provider:       ProviderGemini,
			TimeoutSeconds: 30,
			IdleMinutes:    60,
		},
		Bookings: BookingsConfig{
			Queue: "bookings.inquiry.created",
		},
	}
}

func overrideByEnv(cfg *Config) {
	cfg.App.Name = getEnv("APP_NAME", cfg.App.Name)
	cfg.App.Env = getEnv("APP_ENV", cfg.App.Env)
	cfg.App.Host = getEnv("APP_HOST", cfg.App.Host)
	cfg.App.Port = getEnvAsInt("PORT", cfg.App.Port)
	cfg.App.StaticDir = getEnv("STATIC_DIR", cfg.App.StaticDir)
	cfg.App.LogLevel = getEnv("LOG_LEVEL", cfg.App.LogLevel)

	cfg.Storage.Driver = getEnv("STORAGE_DRIVER", cfg.Storage.Driver)
	cfg.Storage.DBPath = getEnv("DB_PATH", cfg.Storage.DBPath)
	cfg.Storage.RedisAddr = getEnv("REDIS_ADDR", cfg.Storage.RedisAddr)
	cfg.Storage.RedisPassword = getEnv("REDIS_PASSWORD", cfg.Storage.RedisPassword)
	cfg.Storage.RedisDB = getEnvAsInt("REDIS_DB", cfg.Storage.RedisDB)
	cfg.Storage.RedisPrefix = getEnv("REDIS_PREFIX", cfg.Storage.RedisPrefix)

	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", cfg.Auth.JWTSecret)
	cfg.Auth.ClientTokenDays = getEnvAsInt("CLIENT_TOKEN_DAYS", cfg.Auth.ClientTokenDays)
	cfg.Auth.BcryptCost = getEnvAsInt("BCRYPT_COST", cfg.Auth.BcryptCost)
	cfg.Auth.SimulatedDelayMS = getEnvAsInt("SIMULATED_DELAY_MS", cfg.Auth.SimulatedDelayMS)

	cfg.Concierge.Provider = getEnv("CONCIERGE_PROVIDER", cfg.Concierge.Provider)
	// API_KEY is the name the site has always used; CONCIERGE_API_KEY wins when both are set.
	cfg.Concierge.APIKey = getEnv("API_KEY", cfg.Concierge.APIKey)
	cfg.Concierge.APIKey = getEnv("CONCIERGE_API_KEY", cfg.Concierge.APIKey)
	cfg.Concierge.Model = getEnv("CONCIERGE_MODEL", cfg.Concierge.Model)
	cfg.Concierge.BaseURL = getEnv("CONCIERGE_BASE_URL", cfg.Concierge.BaseURL)
	cfg.Concierge.Region = getEnv("CONCIERGE_REGION", cfg.Concierge.Region)
	cfg.Concierge.TimeoutSeconds = getEnvAsInt("CONCIERGE_TIMEOUT_SECONDS", cfg.Concierge.TimeoutSeconds)
	cfg.Concierge.IdleMinutes = getEnvAsInt("CONCIERGE_IDLE_MINUTES", cfg.Concierge.IdleMinutes)

	cfg.Bookings.RabbitMQURL = getEnv("RABBITMQ_URL", cfg.Bookings.RabbitMQURL)
	cfg.Bookings.Queue = getEnv("RABBITMQ_BOOKING_QUEUE", cfg.Bookings.Queue)
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if c.App.Port <= 0 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("app.port %d out of range", c.App.Port))
	}
	if _, err := ParseLevel(c.App.LogLevel); err != nil {
		errs = append(errs, err)
	}

	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.DBPath == "" {
			errs = append(errs, errors.New("storage.db_path is required for the sqlite driver"))
		}
	case DriverRedis:
		if c.Storage.RedisAddr == "" {
			errs = append(errs, errors.New("storage.redis_addr is required for the redis driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.driver %q is not one of sqlite, redis", c.Storage.Driver))
	}

	if c.Auth.ClientTokenDays <= 0 {
		errs = append(errs, errors.New("auth.client_token_days must be positive"))
	}
	if c.Auth.SimulatedDelayMS < 0 {
		errs = append(errs, errors.New("auth.simulated_delay_ms must not be negative"))
	}

	switch c.Concierge.Provider {
	case ProviderGemini, ProviderArk:
	default:
		errs = append(errs, fmt.Errorf("concierge.provider %q is not one of gemini, ark", c.Concierge.Provider))
	}
	if c.Concierge.APIKey != "" && c.Concierge.Model == "" {
		errs = append(errs, fmt.Errorf("concierge.model is required for the %s provider when an API key is set", c.Concierge.Provider))
	}
	if c.Concierge.Provider == ProviderArk && strings.HasPrefix(c.Concierge.Model, "gemini-") {
		errs = append(errs, fmt.Errorf("concierge.model %q is a Gemini model; the ark provider needs an Ark endpoint id", c.Concierge.Model))
	}

	if c.Bookings.RabbitMQURL != "" && c.Bookings.Queue == "" {
		errs = append(errs, errors.New("bookings.queue is required when rabbitmq_url is set"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.App.Host, c.App.Port)
}

// Production reports whether the server runs behind HTTPS in production.
func (c *Config) Production() bool {
	return c.App.Env == "prod" || c.App.Env == "production"
}

func (c *Config) ClientTokenLifetime() time.Duration {
	return time.Duration(c.Auth.ClientTokenDays) * 24 * time.Hour
}

func (c *Config) SimulatedDelay() time.Duration {
	return time.Duration(c.Auth.SimulatedDelayMS) * time.Millisecond
}

func (c *Config) ConciergeTimeout() time.Duration {
	return time.Duration(c.Concierge.TimeoutSeconds) * time.Second
}

func (c *Config) ConciergeIdleTTL() time.Duration {
	return time.Duration(c.Concierge.IdleMinutes) * time.Minute
}

// ParseLevel maps debug|info|warn|error to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(strings.TrimSpace(s)))); err != nil {
		return slog.LevelInfo, fmt.Errorf("app.log_level %q is not one of debug, info, warn, error", s)
	}
	return level, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
