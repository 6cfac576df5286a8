package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Rate table sources.
const (
	RatesSourceFile     = "file"
	RatesSourcePostgres = "postgres"
	RatesSourceRedis    = "redis"
)

// Config is the full process configuration.
type Config struct {
	Server   Server
	Log      Log
	Rates    Rates
	Database DatabaseConfig
	Redis    RedisConfig
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr     string
	BasePath string
}

// Log selects the slog handler.
type Log struct {
	Level  string
	Format string
}

// Rates configures where the rate table comes from and how often it is reloaded.
// The source is reported degraded after FailureThreshold consecutive failed
// reloads and healthy again after RecoveryThreshold consecutive successes.
type Rates struct {
	Source            string
	File              string
	RedisKey          string
	RefreshInterval   time.Duration
	FailureThreshold  int
	RecoveryThreshold int
}

// DatabaseConfig points at the Postgres database holding the mortgage_rates table.
type DatabaseConfig struct {
	URL string
}

// RedisConfig configures the go-redis client. Zero values keep go-redis defaults.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() (Config, error) {
	return fromLookup(os.Getenv)
}

func fromLookup(getenv func(string) string) (Config, error) {
	env := envReader{getenv: getenv}

	cfg := Config{
		Server: Server{
			Addr:     env.str("MORTGAGE_ADDR", ":8080"),
			BasePath: env.str("MORTGAGE_BASE_PATH", "/api"),
		},
		Log: Log{
			Level:  strings.ToLower(env.str("LOG_LEVEL", "info")),
			Format: strings.ToLower(env.str("LOG_FORMAT", "json")),
		},
		Rates: Rates{
			Source:            strings.ToLower(env.str("RATES_SOURCE", RatesSourceFile)),
			File:              env.str("RATES_FILE", "config/rates.yaml"),
			RedisKey:          env.str("RATES_REDIS_KEY", "mortgage:rates"),
			RefreshInterval:   env.duration("RATES_REFRESH_INTERVAL", time.Minute),
			FailureThreshold:  env.int("RATES_FAILURE_THRESHOLD", 3),
			RecoveryThreshold: env.int("RATES_RECOVERY_THRESHOLD", 1),
		},
		Database: DatabaseConfig{
			URL: env.str("DATABASE_URL", ""),
		},
		Redis: RedisConfig{
			URL:          env.str("REDIS_URL", ""),
			PoolSize:     env.int("REDIS_POOL_SIZE", 0),
			MinIdleConns: env.int("REDIS_MIN_IDLE_CONNS", 0),
			DialTimeout:  env.duration("REDIS_DIAL_TIMEOUT", 0),
			ReadTimeout:  env.duration("REDIS_READ_TIMEOUT", 0),
			WriteTimeout: env.duration("REDIS_WRITE_TIMEOUT", 0),
		},
	}

	if env.err != nil {
		return Config{}, env.err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field requirements.
func (c Config) Validate() error {
	if !strings.HasPrefix(c.Server.BasePath, "/") {
		return fmt.Errorf("MORTGAGE_BASE_PATH must start with '/', got %q", c.Server.BasePath)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error; got %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text; got %q", c.Log.Format)
	}
	if c.Rates.RefreshInterval < 0 {
		return fmt.Errorf("RATES_REFRESH_INTERVAL must not be negative")
	}
	if c.Rates.FailureThreshold < 1 || c.Rates.RecoveryThreshold < 1 {
		return fmt.Errorf("RATES_FAILURE_THRESHOLD and RATES_RECOVERY_THRESHOLD must be at least 1")
	}

	switch c.Rates.Source {
	case RatesSourceFile:
		if c.Rates.File == "" {
			return fmt.Errorf("RATES_FILE is required when RATES_SOURCE=file")
		}
	case RatesSourcePostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required when RATES_SOURCE=postgres")
		}
	case RatesSourceRedis:
		if c.Redis.URL == "" {
			return fmt.Errorf("REDIS_URL is required when RATES_SOURCE=redis")
		}
		if c.Rates.RedisKey == "" {
			return fmt.Errorf("RATES_REDIS_KEY is required when RATES_SOURCE=redis")
		}
	default:
		return fmt.Errorf("RATES_SOURCE must be file, postgres or redis; got %q", c.Rates.Source)
	}
	return nil
}

// envReader remembers the first parse failure so FromEnv can report it once.
type envReader struct {
	getenv func(string) string
	err    error
}

func (e *envReader) str(key, fallback string) string {
	if v := strings.TrimSpace(e.getenv(key)); v != "" {
		return v
	}
	return fallback
}

func (e *envReader) int(key string, fallback int) int {
	v := strings.TrimSpace(e.getenv(key))
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		e.fail(fmt.Errorf("%s: invalid integer %q", key, v))
		return fallback
	}
	return i
}

func (e *envReader) duration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(e.getenv(key))
	if v == "" {
		return fallback
	}
	if v == "0" {
		return 0
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.fail(fmt.Errorf("%s: invalid duration %q", key, v))
		return fallback
	}
	return d
}

func (e *envReader) fail(err error) {
	if e.err == nil {
		e.err = err
	}
}
