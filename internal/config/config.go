package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type AppConfig struct {
	// client side of the advisory exchange
	AdvisoryURL     string
	AdvisoryToken   string
	AdvisoryTimeout time.Duration

	// advisory service
	ListenAddr  string
	AdvisoryBot string
	UseToken    bool

	RuleTrail bool

	RedisURL      string
	SessionTTLSec int

	MessagesDir string
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		AdvisoryTimeout: 10 * time.Second,
		ListenAddr:      "127.0.0.1:8080",
		AdvisoryBot:     "basic3",
		UseToken:        true,
		SessionTTLSec:   86400,
	}

	cfg.AdvisoryURL = strings.TrimSpace(os.Getenv("ADVISORY_URL"))
	cfg.AdvisoryToken = strings.TrimSpace(os.Getenv("ADVISORY_TOKEN"))
	if v := strings.TrimSpace(os.Getenv("ADVISORY_TIMEOUT_MS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.AdvisoryTimeout = time.Duration(n) * time.Millisecond
		}
	}

	if v := strings.TrimSpace(os.Getenv("LISTEN_ADDR")); v != "" {
		cfg.ListenAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("ADVISORY_BOT")); v != "" {
		cfg.AdvisoryBot = v
	}
	if v := strings.TrimSpace(os.Getenv("USE_TOKEN")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.UseToken = b
		}
	}
	if v := strings.TrimSpace(os.Getenv("RULE_TRAIL")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.RuleTrail = b
		}
	}

	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	if v := strings.TrimSpace(os.Getenv("SESSION_TTL_SEC")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SessionTTLSec = n
		}
	}

	cfg.MessagesDir = strings.TrimSpace(os.Getenv("MESSAGES_DIR"))

	if cfg.AdvisoryToken != "" && strings.ContainsAny(cfg.AdvisoryToken, " \t\r\n") {
		return nil, errors.New("ADVISORY_TOKEN must not contain whitespace")
	}
	return cfg, nil
}

func (c *AppConfig) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLSec) * time.Second
}

// RequireAdvisory reports the missing setting when a command needs a remote
// advisory service.
func (c *AppConfig) RequireAdvisory() error {
	if c.AdvisoryURL == "" {
		return errors.New("ADVISORY_URL is required")
	}
	return nil
}
