package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port                      int    `env:"PORT" envDefault:"3000"`
	LogLevel                  string `env:"LOG_LEVEL" envDefault:"info"`
	FallbackURL               string `env:"FALLBACK_URL" envDefault:"https://pump.fun/claims"`
	ProtectedSiteDir          string `env:"PROTECTED_SITE_DIR" envDefault:"protected-site"`
	EntryDocument             string `env:"ENTRY_DOCUMENT" envDefault:"index.html"`
	CodeExpiryMillis          int    `env:"CODE_EXPIRY_MS" envDefault:"3000"`
	ReputationBaseURL         string `env:"REPUTATION_BASE_URL" envDefault:"https://ipinfo.io"`
	ReputationAPIToken        string `env:"REPUTATION_API_TOKEN"`
	ReputationTimeoutMillis   int    `env:"REPUTATION_TIMEOUT_MS" envDefault:"3000"`
	ReputationCacheTTLSeconds int    `env:"REPUTATION_CACHE_TTL_SECONDS" envDefault:"600"`
	RedisURL                  string `env:"REDIS_URL"`
	TrustProxy                bool   `env:"TRUST_PROXY" envDefault:"true"`
}

func (c *Config) CodeExpiry() time.Duration {
	return time.Duration(c.CodeExpiryMillis) * time.Millisecond
}

func (c *Config) ReputationTimeout() time.Duration {
	return time.Duration(c.ReputationTimeoutMillis) * time.Millisecond
}

func (c *Config) ReputationCacheTTL() time.Duration {
	return time.Duration(c.ReputationCacheTTLSeconds) * time.Second
}

func (c *Config) ReputationEnabled() bool {
	return c.ReputationAPIToken != ""
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.FallbackURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("FALLBACK_URL must be an absolute URL, got %q", c.FallbackURL)
	}
	if c.CodeExpiryMillis <= 0 {
		return fmt.Errorf("CODE_EXPIRY_MS must be positive")
	}
	if c.ReputationTimeoutMillis <= 0 {
		return fmt.Errorf("REPUTATION_TIMEOUT_MS must be positive")
	}
	if c.ProtectedSiteDir == "" {
		return fmt.Errorf("PROTECTED_SITE_DIR is required")
	}
	if c.EntryDocument == "" {
		return fmt.Errorf("ENTRY_DOCUMENT is required")
	}

	if !c.ReputationEnabled() {
		log.Warn().Msg("REPUTATION_API_TOKEN is empty: IP reputation check disabled, all clients permitted")
	}

	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
