package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DISCORD_BOT_TOKEN", "discord-token")
	t.Setenv("RIOT_API_KEY", "riot-key")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "americas", cfg.RiotRegion)
	assert.Equal(t, "na1", cfg.RiotPlatform)
	assert.Equal(t, "./data/bot.db", cfg.DatabasePath)
	assert.Equal(t, 300, cfg.PollIntervalSeconds)
	assert.Equal(t, 10, cfg.MaxInFlight)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("RIOT_REGION", "asia")
	t.Setenv("RIOT_PLATFORM", "kr")
	t.Setenv("POLL_INTERVAL_SECONDS", "90")
	t.Setenv("MAX_IN_FLIGHT", "4")
	t.Setenv("NOTIFY_CHANNEL_ID", "12345")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "asia", cfg.RiotRegion)
	assert.Equal(t, "kr", cfg.RiotPlatform)
	assert.Equal(t, 90, cfg.PollIntervalSeconds)
	assert.Equal(t, 4, cfg.MaxInFlight)
	assert.Equal(t, "12345", cfg.NotifyChannelID)
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("DISCORD_BOT_TOKEN", "")
	t.Setenv("RIOT_API_KEY", "riot-key")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("DISCORD_BOT_TOKEN", "discord-token")
	t.Setenv("RIOT_API_KEY", "")
	_, err = Load()
	require.Error(t, err)
}

func TestLoadBadInterval(t *testing.T) {
	setRequired(t)
	t.Setenv("POLL_INTERVAL_SECONDS", "five minutes")

	_, err := Load()
	require.Error(t, err)
}
