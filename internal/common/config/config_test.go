package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validTestConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{
			BotToken:         "123:abc",
			ArchiveChannelID: -1001234,
			ForceSubChannel:  "@gatechannel",
			OwnerIDs:         []int64{1, 2},
		},
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := validTestConfig()
	applyDefaults(cfg)

	assert.Equal(t, "filegate", cfg.App.Name)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
	assert.Equal(t, 60, cfg.Telegram.PollTimeout)
	assert.Equal(t, 24*time.Hour, cfg.Access.TokenTTL())
	assert.Equal(t, 2*time.Hour, cfg.Access.LeaseDuration())
	assert.Equal(t, time.Hour, cfg.Access.SweepInterval())
	assert.Equal(t, time.Hour, cfg.Access.ReclaimGrace())
	assert.Equal(t, ":9090", cfg.Metrics.Address)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{
			name:    "missing bot token",
			mutate:  func(c *Config) { c.Telegram.BotToken = "" },
			wantErr: "bot_token",
		},
		{
			name:    "missing archive channel",
			mutate:  func(c *Config) { c.Telegram.ArchiveChannelID = 0 },
			wantErr: "archive_channel_id",
		},
		{
			name:    "missing force-sub channel",
			mutate:  func(c *Config) { c.Telegram.ForceSubChannel = "" },
			wantErr: "force_sub_channel",
		},
		{
			name:    "negative duration",
			mutate:  func(c *Config) { c.Access.TokenTTLHours = -1 },
			wantErr: "negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			applyDefaults(cfg)
			tt.mutate(cfg)

			err := validateConfig(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestTelegramConfig_IsOwner(t *testing.T) {
	cfg := validTestConfig()

	assert.True(t, cfg.Telegram.IsOwner(1))
	assert.True(t, cfg.Telegram.IsOwner(2))
	assert.False(t, cfg.Telegram.IsOwner(42))
}
