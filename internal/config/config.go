package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the bot
type Config struct {
	// Discord
	DiscordToken         string
	DiscordApplicationID string
	NotifyChannelID      string

	// Riot API
	RiotAPIKey   string
	RiotRegion   string // regional routing: americas, asia, europe
	RiotPlatform string // platform routing: na1, kr, euw1, ...

	// Database
	DatabasePath string

	// Polling
	PollIntervalSeconds int
	MaxInFlight         int

	// Logging
	LogLevel string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		DiscordToken:         os.Getenv("DISCORD_BOT_TOKEN"),
		DiscordApplicationID: os.Getenv("DISCORD_APPLICATION_ID"),
		NotifyChannelID:      os.Getenv("NOTIFY_CHANNEL_ID"),
		RiotAPIKey:           os.Getenv("RIOT_API_KEY"),
		RiotRegion:           getEnvOrDefault("RIOT_REGION", "americas"),
		RiotPlatform:         getEnvOrDefault("RIOT_PLATFORM", "na1"),
		DatabasePath:         getEnvOrDefault("DATABASE_PATH", "./data/bot.db"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
	}

	interval, err := getEnvInt("POLL_INTERVAL_SECONDS", 300)
	if err != nil {
		return nil, err
	}
	cfg.PollIntervalSeconds = interval

	inFlight, err := getEnvInt("MAX_IN_FLIGHT", 10)
	if err != nil {
		return nil, err
	}
	cfg.MaxInFlight = inFlight

	// Validate required fields
	if cfg.DiscordToken == "" {
		return nil, fmt.Errorf("DISCORD_BOT_TOKEN is required")
	}
	if cfg.RiotAPIKey == "" {
		return nil, fmt.Errorf("RIOT_API_KEY is required")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
