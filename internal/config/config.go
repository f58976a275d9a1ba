package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

type Config struct {
	Port                string
	DatabaseURL         string
	StaticDir           string
	AllowedOrigins      []string
	MaxPlayers          int
	CardsPerPlayer      int
	StartingScore       int
	ChallengeTimeoutMS  int
	PollIntervalMS      int
	StateURL            string
	LogLevel            string
	WSMessagesPerSecond int
}

func Default() Config {
	return Config{
		Port:                "8080",
		StaticDir:           "static",
		AllowedOrigins:      []string{"*"},
		MaxPlayers:          6,
		CardsPerPlayer:      5,
		StartingScore:       100,
		ChallengeTimeoutMS:  5000,
		PollIntervalMS:      2000,
		StateURL:            "http://localhost:8080",
		LogLevel:            "info",
		WSMessagesPerSecond: 5,
	}
}

func Load() Config {
	cfg := Default()
	if raw := os.Getenv("PORT"); raw != "" {
		cfg.Port = raw
	}
	if raw := os.Getenv("DATABASE_URL"); raw != "" {
		cfg.DatabaseURL = raw
	}
	if raw := os.Getenv("STATIC_DIR"); raw != "" {
		cfg.StaticDir = raw
	}
	if raw := os.Getenv("ALLOWED_ORIGINS"); raw != "" {
		if origins := splitList(raw); len(origins) > 0 {
			cfg.AllowedOrigins = origins
		}
	}
	positiveInt("MAX_PLAYERS", &cfg.MaxPlayers)
	positiveInt("CARDS_PER_PLAYER", &cfg.CardsPerPlayer)
	positiveInt("CHALLENGE_TIMEOUT_MS", &cfg.ChallengeTimeoutMS)
	positiveInt("POLL_INTERVAL_MS", &cfg.PollIntervalMS)
	positiveInt("WS_MESSAGES_PER_SECOND", &cfg.WSMessagesPerSecond)
	if raw := os.Getenv("STARTING_SCORE"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil {
			cfg.StartingScore = value
		}
	}
	if raw := os.Getenv("STATE_URL"); raw != "" {
		cfg.StateURL = strings.TrimRight(raw, "/")
	}
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		cfg.LogLevel = raw
	}
	return cfg
}

func positiveInt(key string, dest *int) {
	raw := os.Getenv(key)
	if raw == "" {
		return
	}
	if value, err := strconv.Atoi(raw); err == nil && value > 0 {
		*dest = value
	}
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
