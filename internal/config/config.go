package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
)

type Config struct {
	Feed        Feed
	TelegramBot TelegramBot
	Schedule    Schedule
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
}

type Feed struct {
	BaseURL    string        `envconfig:"FEED_BASE_URL" default:"https://www.goalserve.com/getfeed"`
	APIKey     string        `envconfig:"FEED_API_KEY" required:"true"`
	MaxRetries int           `envconfig:"FEED_MAX_RETRIES" default:"3"`
	Timeout    time.Duration `envconfig:"FEED_TIMEOUT" default:"30s"`
}

// TelegramBot is only required by the bot command.
type TelegramBot struct {
	Token  string `envconfig:"TELEGRAM_TOKEN"`
	ChatID int64  `envconfig:"CHAT_ID"`
}

type Schedule struct {
	RefreshCron  string `envconfig:"REFRESH_CRON" default:"0 8 * * *"`
	WatchCountry string `envconfig:"WATCH_COUNTRY"`
	WatchLeague  string `envconfig:"WATCH_LEAGUE"`
}

func New() (*Config, error) {
	var c Config
	err := envconfig.Process("", &c)
	if err != nil {
		return nil, err
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) validate() error {
	if c.Feed.APIKey == "" {
		return fmt.Errorf("FEED_API_KEY must not be empty")
	}
	if c.Feed.MaxRetries < 1 {
		return fmt.Errorf("FEED_MAX_RETRIES must be at least 1, got %d", c.Feed.MaxRetries)
	}
	if c.Feed.Timeout <= 0 {
		return fmt.Errorf("FEED_TIMEOUT must be positive, got %s", c.Feed.Timeout)
	}
	if _, err := cron.ParseStandard(c.Schedule.RefreshCron); err != nil {
		return fmt.Errorf("invalid REFRESH_CRON %q: %w", c.Schedule.RefreshCron, err)
	}
	return nil
}

// Watching reports whether a league is configured for scheduled refreshes.
func (s Schedule) Watching() bool {
	return s.WatchCountry != "" && s.WatchLeague != ""
}

func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
