package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "DATABASE_URL", "STATIC_DIR", "ALLOWED_ORIGINS", "MAX_PLAYERS", "CARDS_PER_PLAYER",
		"STARTING_SCORE", "CHALLENGE_TIMEOUT_MS", "POLL_INTERVAL_MS", "STATE_URL", "LOG_LEVEL",
		"WS_MESSAGES_PER_SECOND",
	} {
		t.Setenv(key, "")
	}
	cfg := Load()
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 2000, cfg.PollIntervalMS)
	assert.Equal(t, 6, cfg.MaxPlayers)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MAX_PLAYERS", "4")
	t.Setenv("POLL_INTERVAL_MS", "250")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("STATE_URL", "http://board.test/")
	t.Setenv("STARTING_SCORE", "0")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 4, cfg.MaxPlayers)
	assert.Equal(t, 250, cfg.PollIntervalMS)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.Equal(t, "http://board.test", cfg.StateURL)
	assert.Equal(t, 0, cfg.StartingScore)
}

func TestLoadIgnoresInvalidNumbers(t *testing.T) {
	t.Setenv("MAX_PLAYERS", "-2")
	t.Setenv("CHALLENGE_TIMEOUT_MS", "soon")

	cfg := Load()
	assert.Equal(t, 6, cfg.MaxPlayers)
	assert.Equal(t, 5000, cfg.ChallengeTimeoutMS)
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), ".env")))
}

func TestLoadDotEnvKeepsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PORT=7000\nLOG_LEVEL=debug\n"), 0o644))
	t.Setenv("PORT", "8181")
	t.Setenv("LOG_LEVEL", "")
	os.Unsetenv("LOG_LEVEL")

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "8181", os.Getenv("PORT"))
	assert.Equal(t, "debug", os.Getenv("LOG_LEVEL"))
}
