package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// ErrMissingToken is returned when the bot is started without a token
var ErrMissingToken = errors.New("TELEGRAM_BOT_TOKEN is not set")

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env            string    `mapstructure:"env"`
	TelegramToken  string    `mapstructure:"telegram_token"`
	AllowedUserIDs []int64   `mapstructure:"-"`
	Database       Database  `mapstructure:"database"`
	Clock          Clock     `mapstructure:"clock"`
	Rules          Rules     `mapstructure:"rules"`
	Scheduler      Scheduler `mapstructure:"scheduler"`
}

// Database selects the persistence adapter
type Database struct {
	Driver string `mapstructure:"driver"` // sqlite3, postgres or file
	DSN    string `mapstructure:"dsn"`
}

// Clock configures the remote time source; an empty URL uses the system clock
type Clock struct {
	TimeURL string        `mapstructure:"time_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Rules holds the daily goals
type Rules struct {
	DailyAnswerTarget int `mapstructure:"daily_answer_target"`
	DailyWordTarget   int `mapstructure:"daily_word_target"`
}

// Scheduler holds the reminder window
type Scheduler struct {
	ReminderStartHour int    `mapstructure:"reminder_start_hour"`
	ReminderEndHour   int    `mapstructure:"reminder_end_hour"`
	Timezone          string `mapstructure:"timezone"`
}

// Location resolves the configured timezone. Empty means the local zone,
// the one the system clock reports dates in.
func (s Scheduler) Location() (*time.Location, error) {
	if s.Timezone == "" || s.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid timezone %q", s.Timezone)
	}
	return loc, nil
}

// Load reads an optional .env file, an optional config/config.yaml and the
// environment, in increasing order of precedence
func Load() (*Config, error) {
	// .env is optional; real environment variables win over it
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetDefault("env", "local")
	v.SetDefault("database.driver", "sqlite3")
	v.SetDefault("database.dsn", "data/wordcoach.db")
	v.SetDefault("clock.time_url", "")
	v.SetDefault("clock.timeout", "3s")
	v.SetDefault("rules.daily_answer_target", 30)
	v.SetDefault("rules.daily_word_target", 10)
	v.SetDefault("scheduler.reminder_start_hour", 8)
	v.SetDefault("scheduler.reminder_end_hour", 22)
	v.SetDefault("scheduler.timezone", "")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("telegram_token", "TELEGRAM_BOT_TOKEN")
	_ = v.BindEnv("allowed_user_ids", "ALLOWED_USER_IDS")
	_ = v.BindEnv("env", "APP_ENV")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "error loading config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "error unmarshalling config")
	}

	ids, err := ParseUserIDs(v.GetString("allowed_user_ids"))
	if err != nil {
		return nil, err
	}
	cfg.AllowedUserIDs = ids
	return &cfg, nil
}

// RequireToken fails when no bot token is configured
func (c *Config) RequireToken() error {
	if c.TelegramToken == "" {
		return ErrMissingToken
	}
	return nil
}

// ParseUserIDs parses a comma separated list of Telegram user ids
func ParseUserIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid user id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
