package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type ConfigSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigSuite))
}

func lookup(env map[string]string) func(string) string {
	return func(key string) string { return env[key] }
}

func (s *ConfigSuite) TestDefaults() {
	cfg, err := fromLookup(lookup(nil))
	s.Require().NoError(err)

	s.Equal(":8080", cfg.Server.Addr)
	s.Equal("/api", cfg.Server.BasePath)
	s.Equal("info", cfg.Log.Level)
	s.Equal("json", cfg.Log.Format)
	s.Equal(RatesSourceFile, cfg.Rates.Source)
	s.Equal("config/rates.yaml", cfg.Rates.File)
	s.Equal("mortgage:rates", cfg.Rates.RedisKey)
	s.Equal(time.Minute, cfg.Rates.RefreshInterval)
	s.Equal(3, cfg.Rates.FailureThreshold)
	s.Equal(1, cfg.Rates.RecoveryThreshold)
}

func (s *ConfigSuite) TestOverrides() {
	cfg, err := fromLookup(lookup(map[string]string{
		"MORTGAGE_ADDR":            ":9090",
		"LOG_LEVEL":                "DEBUG",
		"LOG_FORMAT":               "text",
		"RATES_SOURCE":             "redis",
		"REDIS_URL":                "redis://localhost:6379/0",
		"REDIS_POOL_SIZE":          "20",
		"REDIS_DIAL_TIMEOUT":       "2s",
		"RATES_REFRESH_INTERVAL":   "0",
		"RATES_RECOVERY_THRESHOLD": "2",
	}))
	s.Require().NoError(err)

	s.Equal(":9090", cfg.Server.Addr)
	s.Equal("debug", cfg.Log.Level)
	s.Equal(RatesSourceRedis, cfg.Rates.Source)
	s.Equal(20, cfg.Redis.PoolSize)
	s.Equal(2*time.Second, cfg.Redis.DialTimeout)
	s.Zero(cfg.Rates.RefreshInterval)
	s.Equal(2, cfg.Rates.RecoveryThreshold)
}

func (s *ConfigSuite) TestInvalid() {
	cases := map[string]map[string]string{
		"unknown source":         {"RATES_SOURCE": "s3"},
		"postgres without url":   {"RATES_SOURCE": "postgres"},
		"redis without url":      {"RATES_SOURCE": "redis"},
		"bad duration":           {"RATES_REFRESH_INTERVAL": "soon"},
		"negative duration":      {"RATES_REFRESH_INTERVAL": "-1m"},
		"bad integer":            {"REDIS_POOL_SIZE": "many"},
		"zero failure threshold": {"RATES_FAILURE_THRESHOLD": "0"},
		"bad log level":          {"LOG_LEVEL": "trace"},
		"bad log format":         {"LOG_FORMAT": "xml"},
		"relative base path":     {"MORTGAGE_BASE_PATH": "api"},
	}
	for name, env := range cases {
		s.Run(name, func() {
			_, err := fromLookup(lookup(env))
			s.Error(err)
		})
	}
}
