package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad_Defaults(t *testing.T) {
	// Given: no config file and no environment overrides
	// When: loading
	config, err := Load(filepath.Join(t.TempDir(), "missing.yml"))

	// Then: the local authority is used
	require.NoError(t, err)
	assert.Equal(t, "info", config.LogLevel)
	assert.Equal(t, "ws://localhost:8080/ws", config.WebsocketEndpoint())
	assert.Equal(t, "http://localhost:8080", config.APIURL)
	assert.Equal(t, "Bot", config.BotName)
	assert.Equal(t, 10*time.Second, config.RequestTimeout)
	assert.False(t, config.JournalEnabled())
	assert.Empty(t, config.Redis.GetRedisAddr())
}

func TestLoad_Environment(t *testing.T) {
	// Given: endpoints configured in the environment
	t.Setenv("CONNECT4_WS_URL", "wss://play.example.com/")
	t.Setenv("CONNECT4_API_URL", "https://api.example.com/")
	t.Setenv("CONNECT4_REDIS_HOST", "cache")
	t.Setenv("CONNECT4_LOG_LEVEL", "debug")

	// When: loading
	config, err := Load("")

	// Then: trailing slashes are trimmed
	require.NoError(t, err)
	assert.Equal(t, "wss://play.example.com/ws", config.WebsocketEndpoint())
	assert.Equal(t, "https://api.example.com", config.APIURL)
	assert.Equal(t, "cache:6379", config.Redis.GetRedisAddr())
	assert.True(t, config.JournalEnabled())
	assert.Equal(t, "debug", config.LogLevel)
}

func TestLoad_File(t *testing.T) {
	path := writeFile(t, "config.yml", `
log-level: warn
ws-url: ws://game.local:9000
api-url: http://game.local:9000
bot-name: AI_Bot_v1
journal-size: 5
redis:
  host: localhost
  port: "6380"
`)

	config, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "warn", config.LogLevel)
	assert.Equal(t, "ws://game.local:9000/ws", config.WebsocketEndpoint())
	assert.Equal(t, "AI_Bot_v1", config.BotName)
	assert.Equal(t, 5, config.JournalSize)
	assert.Equal(t, "localhost:6380", config.Redis.GetRedisAddr())
}

func TestLoad_DotEnv(t *testing.T) {
	// Given: a .env file overriding the api address
	env := writeFile(t, ".env", "CONNECT4_API_URL=http://dotenv.local:1234\n")
	t.Cleanup(func() { _ = os.Unsetenv("CONNECT4_API_URL") })

	// When: loading with it
	config, err := Load("", env, filepath.Join(t.TempDir(), "absent.env"))

	// Then: the value from the file is used
	require.NoError(t, err)
	assert.Equal(t, "http://dotenv.local:1234", config.APIURL)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("Wrong websocket scheme", func(t *testing.T) {
		t.Setenv("CONNECT4_WS_URL", "http://localhost:8080")

		_, err := Load("")

		require.ErrorIs(t, err, ErrInvalidURL)
	})

	t.Run("Wrong api scheme", func(t *testing.T) {
		t.Setenv("CONNECT4_API_URL", "localhost:8080")

		_, err := Load("")

		require.ErrorIs(t, err, ErrInvalidURL)
	})

	t.Run("Unknown log level", func(t *testing.T) {
		t.Setenv("CONNECT4_LOG_LEVEL", "verbose")

		_, err := Load("")

		require.ErrorIs(t, err, ErrInvalidLogLevel)
	})

	t.Run("MustLoad panics", func(t *testing.T) {
		t.Setenv("CONNECT4_LOG_LEVEL", "verbose")

		assert.Panics(t, func() { MustLoad("") })
	})
}
