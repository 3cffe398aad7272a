// internal/common/config/config.go
package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Access    AccessConfig    `mapstructure:"access"`
	Shortener ShortenerConfig `mapstructure:"shortener"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// TelegramConfig carries the session credential and the channel references the
// bot operates against.
type TelegramConfig struct {
	BotToken         string  `mapstructure:"bot_token"`
	ArchiveChannelID int64   `mapstructure:"archive_channel_id"`
	ForceSubChannel  string  `mapstructure:"force_sub_channel"`
	ForceSubLink     string  `mapstructure:"force_sub_link"`
	OwnerIDs         []int64 `mapstructure:"owner_ids"`
	PollTimeout      int     `mapstructure:"poll_timeout"` // seconds
}

// IsOwner reports whether the user is in the configured owner set.
func (t TelegramConfig) IsOwner(userID int64) bool {
	for _, id := range t.OwnerIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// AccessConfig holds the expiry policy constants. All values are hours.
type AccessConfig struct {
	TokenTTLHours      int `mapstructure:"token_ttl_hours"`
	LeaseDurationHours int `mapstructure:"lease_duration_hours"`
	SweepIntervalHours int `mapstructure:"sweep_interval_hours"`
	ReclaimGraceHours  int `mapstructure:"reclaim_grace_hours"`
}

func (a AccessConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLHours) * time.Hour
}

func (a AccessConfig) LeaseDuration() time.Duration {
	return time.Duration(a.LeaseDurationHours) * time.Hour
}

func (a AccessConfig) SweepInterval() time.Duration {
	return time.Duration(a.SweepIntervalHours) * time.Hour
}

// ReclaimGrace is the window after lapse during which a lease stays renewable
// by touch before the sweeper may reclaim it.
func (a AccessConfig) ReclaimGrace() time.Duration {
	return time.Duration(a.ReclaimGraceHours) * time.Hour
}

type ShortenerConfig struct {
	URL            string `mapstructure:"url"`
	APIKey         string `mapstructure:"api_key"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}
