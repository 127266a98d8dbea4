package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestMustLoad(t *testing.T) {
	t.Run("Fills defaults for missing keys", func(t *testing.T) {
		// Given: a config file that only sets the log level
		path := writeConfig(t, "log-level: debug\n")

		// When: loading it
		conf := MustLoad(path)

		// Then: everything else has its default
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, "9090", conf.HTTPPort)
		assert.Equal(t, "8080", conf.SocketPort)
		assert.Equal(t, "12345", conf.TCPPort)
		assert.False(t, conf.Redis.Enabled)
		assert.Equal(t, 100, conf.Redis.ResultsLimit)
		assert.Equal(t, 64, conf.Broadcast.QueueSize)
		assert.Equal(t, 500*time.Millisecond, conf.RPS.RoundDelay)
		assert.Equal(t, 4096, conf.RPS.MaxFrameSize)
		assert.Equal(t, int64(4096), conf.WebSocket.ReadLimit)
	})

	t.Run("Environment overrides the file", func(t *testing.T) {
		// Given: a file and an overriding environment variable
		path := writeConfig(t, "tcp-port: \"2000\"\nrps:\n  round-delay: 1s\n")
		t.Setenv("TCP_PORT", "3000")

		// When: loading it
		conf := MustLoad(path)

		// Then: the environment wins, other file values stay
		assert.Equal(t, "3000", conf.TCPPort)
		assert.Equal(t, time.Second, conf.RPS.RoundDelay)
	})

	t.Run("Panics when the file is missing", func(t *testing.T) {
		// Given: a path that does not exist
		path := filepath.Join(t.TempDir(), "missing.yml")

		// When / Then: loading panics
		assert.Panics(t, func() { MustLoad(path) })
	})
}

func TestRedis_GetRedisAddr(t *testing.T) {
	t.Run("Joins host and port", func(t *testing.T) {
		redis := Redis{Host: "cache", Port: "6380"}
		assert.Equal(t, "cache:6380", redis.GetRedisAddr())
	})

	t.Run("Empty host gives an empty address", func(t *testing.T) {
		redis := Redis{Port: "6380"}
		assert.Empty(t, redis.GetRedisAddr())
	})
}
