package client

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadClientConfigDefaults(t *testing.T) {
	cfg, err := LoadClientConfig(filepath.Join(t.TempDir(), "missing.hcl"))
	require.NoError(t, err)
	assert.Equal(t, DefaultClientConfig(), cfg)
	assert.Equal(t, 10*time.Second, cfg.ConnectTimeout())
	assert.Equal(t, 50*time.Millisecond, cfg.PollInterval())
	assert.Equal(t, log.WarnLevel, cfg.LogLevel())

	assert.ErrorContains(t, cfg.Validate(), "player name is required")
}

func TestLoadClientConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
server {
  url = "https://truco.example"
}

player {
  name     = "ana"
  strategy = "maniac"
}

ui {
  log_level = "debug"
  no_color  = true
}
`), 0o600))

	cfg, err := LoadClientConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "https://truco.example", cfg.Server.URL)
	assert.Equal(t, 10, cfg.Server.ConnectTimeout)
	assert.Equal(t, "ana", cfg.Player.Name)
	assert.Empty(t, cfg.Player.Opponent, "an explicit player block waits in the lobby")
	assert.Equal(t, "maniac", cfg.Player.Strategy)
	assert.Equal(t, log.DebugLevel, cfg.LogLevel())
	assert.True(t, cfg.UI.NoColor)
	assert.Equal(t, "truco-client.log", cfg.UI.LogFile)
}

func TestClientConfigValidate(t *testing.T) {
	valid := func() *ClientConfig {
		cfg := DefaultClientConfig()
		cfg.Player.Name = "ana"
		return cfg
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*ClientConfig)
		want   string
	}{
		{"bad scheme", func(c *ClientConfig) { c.Server.URL = "ftp://x" }, "scheme"},
		{"timeout", func(c *ClientConfig) { c.Server.ConnectTimeout = 0 }, "connect timeout"},
		{"poll", func(c *ClientConfig) { c.UI.PollIntervalMS = -5 }, "poll interval"},
		{"opponent", func(c *ClientConfig) { c.Player.Opponent = "bob" }, "opponent"},
		{"strategy", func(c *ClientConfig) { c.Player.Strategy = "psychic" }, "unknown strategy"},
		{"log level", func(c *ClientConfig) { c.UI.LogLevel = "loud" }, "invalid log level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}
