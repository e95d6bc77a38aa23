// Package config handles application configuration from an optional YAML
// file and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"civic_ingest/internal/normalizer"
	"civic_ingest/internal/scheduler"
)

// Config holds the application configuration.
type Config struct {
	DatabasePath string `yaml:"databasePath"`
	LogLevel     string `yaml:"logLevel"`
	HTTPAddr     string `yaml:"httpAddr"`

	TelegramBotToken string  `yaml:"telegramBotToken"`
	NotifyChatID     int64   `yaml:"notifyChatId"`
	NotifyRate       float64 `yaml:"notifyRate"`
	AllowedUsers     []int64 `yaml:"allowedUsers"`

	FeedURLs    []string `yaml:"feedUrls"`
	FeedInclude []string `yaml:"feedInclude"`
	FeedExclude []string `yaml:"feedExclude"`
	DemoFeed    bool     `yaml:"demoFeed"`

	TickInterval       time.Duration     `yaml:"tickInterval"`
	ResolveDelay       time.Duration     `yaml:"resolveDelay"`
	FallbackDepartment string            `yaml:"fallbackDepartment"`
	RandomSeed         uint64            `yaml:"randomSeed"`
	Spots              []normalizer.Spot `yaml:"spots"`
}

func defaults() Config {
	return Config{
		DatabasePath:       "./data/complaints.db",
		LogLevel:           "info",
		HTTPAddr:           ":8080",
		NotifyRate:         1,
		DemoFeed:           true,
		TickInterval:       scheduler.DefaultTickInterval,
		ResolveDelay:       scheduler.DefaultResolveDelay,
		FallbackDepartment: normalizer.FallbackDepartment,
	}
}

// Load reads CONFIG_PATH (if set) over the defaults, then applies
// environment overrides and validates the result.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		raw, err := os.ReadFile(path) //nolint:gosec // operator-supplied config path
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.DatabasePath, "DATABASE_PATH")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.HTTPAddr, "HTTP_ADDR")
	setString(&c.TelegramBotToken, "TELEGRAM_BOT_TOKEN")
	setString(&c.FallbackDepartment, "FALLBACK_DEPARTMENT")

	if raw := os.Getenv("NOTIFY_CHAT_ID"); raw != "" {
		id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid NOTIFY_CHAT_ID %q: %w", raw, err)
		}
		c.NotifyChatID = id
	}
	if raw := os.Getenv("NOTIFY_RATE"); raw != "" {
		r, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return fmt.Errorf("invalid NOTIFY_RATE %q: %w", raw, err)
		}
		c.NotifyRate = r
	}
	if raw := os.Getenv("ALLOWED_USERS"); raw != "" {
		users, err := parseUsers(raw)
		if err != nil {
			return err
		}
		c.AllowedUsers = users
	}
	if raw := os.Getenv("FEED_URLS"); raw != "" {
		c.FeedURLs = splitList(raw)
	}
	if raw := os.Getenv("FEED_INCLUDE"); raw != "" {
		c.FeedInclude = splitList(raw)
	}
	if raw := os.Getenv("FEED_EXCLUDE"); raw != "" {
		c.FeedExclude = splitList(raw)
	}
	if raw := os.Getenv("DEMO_FEED"); raw != "" {
		v, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("invalid DEMO_FEED %q: %w", raw, err)
		}
		c.DemoFeed = v
	}
	if raw := os.Getenv("TICK_INTERVAL"); raw != "" {
		d, err := time.ParseDuration(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("invalid TICK_INTERVAL %q: %w", raw, err)
		}
		c.TickInterval = d
	}
	if raw := os.Getenv("RESOLVE_DELAY"); raw != "" {
		d, err := time.ParseDuration(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("invalid RESOLVE_DELAY %q: %w", raw, err)
		}
		c.ResolveDelay = d
	}
	if raw := os.Getenv("RANDOM_SEED"); raw != "" {
		seed, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid RANDOM_SEED %q: %w", raw, err)
		}
		c.RandomSeed = seed
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []error
	if c.TickInterval <= 0 || c.ResolveDelay <= 0 {
		errs = append(errs, fmt.Errorf("tick interval and resolve delay must be positive"))
	} else if c.ResolveDelay >= c.TickInterval {
		errs = append(errs, fmt.Errorf("resolve delay %s must be shorter than tick interval %s", c.ResolveDelay, c.TickInterval))
	}
	if c.TelegramBotToken != "" && c.NotifyRate <= 0 {
		errs = append(errs, fmt.Errorf("notify rate must be positive, got %v", c.NotifyRate))
	}
	if !c.DemoFeed && len(c.FeedURLs) == 0 && c.TelegramBotToken == "" {
		errs = append(errs, errors.New("no input feed: enable DEMO_FEED, set FEED_URLS or TELEGRAM_BOT_TOKEN"))
	}
	for i, s := range c.Spots {
		if s.Lat < -90 || s.Lat > 90 || s.Lng < -180 || s.Lng > 180 {
			errs = append(errs, fmt.Errorf("spot %d out of range: %v,%v", i, s.Lat, s.Lng))
		}
	}
	return errors.Join(errs...)
}

// BotEnabled reports whether the Telegram surface should run.
func (c *Config) BotEnabled() bool {
	return c.TelegramBotToken != ""
}

// IsUserAllowed checks whether a user ID is in the allow list.
// Returns true if the allow list is empty (all users permitted).
func (c *Config) IsUserAllowed(userID int64) bool {
	if len(c.AllowedUsers) == 0 {
		return true
	}
	return slices.Contains(c.AllowedUsers, userID)
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func parseUsers(raw string) ([]int64, error) {
	var users []int64
	for _, s := range splitList(raw) {
		uid, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid user ID %q in ALLOWED_USERS: %w", s, err)
		}
		users = append(users, uid)
	}
	return users, nil
}
