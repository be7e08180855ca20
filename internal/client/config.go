package client

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/trucoforbots/internal/bot"
)

// ClientConfig represents the complete client configuration
type ClientConfig struct {
	Server ServerConnection `hcl:"server,block"`
	Player PlayerSettings   `hcl:"player,block"`
	UI     UISettings       `hcl:"ui,block"`
}

// ServerConnection contains server connection settings
type ServerConnection struct {
	URL            string `hcl:"url"`
	ConnectTimeout int    `hcl:"connect_timeout,optional"`
}

// PlayerSettings contains player-specific settings
type PlayerSettings struct {
	Name string `hcl:"name"`
	// Opponent is "house" for the server's bot or empty to wait in the lobby
	Opponent string `hcl:"opponent,optional"`
	// Strategy is the bot that plays when running headless
	Strategy string `hcl:"strategy,optional"`
}

// UISettings contains user interface settings
type UISettings struct {
	LogLevel       string `hcl:"log_level,optional"`
	LogFile        string `hcl:"log_file,optional"`
	PollIntervalMS int    `hcl:"poll_interval_ms,optional"`
	NoColor        bool   `hcl:"no_color,optional"`
}

// DefaultClientConfig returns default client configuration
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		Server: ServerConnection{
			URL:            "http://localhost:8080",
			ConnectTimeout: 10,
		},
		Player: PlayerSettings{
			Opponent: "house",
			Strategy: "tag",
		},
		UI: UISettings{
			LogLevel:       "warn",
			LogFile:        "truco-client.log",
			PollIntervalMS: 50,
		},
	}
}

// LoadClientConfig loads client configuration from HCL file
func LoadClientConfig(filename string) (*ClientConfig, error) {
	// Check if file exists
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultClientConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config ClientConfig
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply defaults for missing values
	defaults := DefaultClientConfig()

	if config.Server.URL == "" {
		config.Server.URL = defaults.Server.URL
	}
	if config.Server.ConnectTimeout == 0 {
		config.Server.ConnectTimeout = defaults.Server.ConnectTimeout
	}
	if config.Player.Strategy == "" {
		config.Player.Strategy = defaults.Player.Strategy
	}
	if config.UI.LogLevel == "" {
		config.UI.LogLevel = defaults.UI.LogLevel
	}
	if config.UI.LogFile == "" {
		config.UI.LogFile = defaults.UI.LogFile
	}
	if config.UI.PollIntervalMS == 0 {
		config.UI.PollIntervalMS = defaults.UI.PollIntervalMS
	}

	return &config, nil
}

// Validate validates the client configuration
func (c *ClientConfig) Validate() error {
	if c.Server.URL == "" {
		return errors.New("server URL is required")
	}
	if _, err := WebSocketURL(c.Server.URL); err != nil {
		return err
	}
	if c.Player.Name == "" {
		return errors.New("player name is required")
	}
	if c.Server.ConnectTimeout <= 0 {
		return errors.New("connect timeout must be positive")
	}
	if c.UI.PollIntervalMS <= 0 {
		return errors.New("poll interval must be positive")
	}
	if c.Player.Opponent != "" && c.Player.Opponent != "house" {
		return fmt.Errorf("opponent must be \"house\" or empty, got %q", c.Player.Opponent)
	}
	if !slices.Contains(bot.Names(), c.Player.Strategy) {
		return fmt.Errorf("unknown strategy %q (have %v)", c.Player.Strategy, bot.Names())
	}
	if _, err := log.ParseLevel(c.UI.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %s", c.UI.LogLevel)
	}

	return nil
}

// ConnectTimeout is the websocket handshake timeout
func (c *ClientConfig) ConnectTimeout() time.Duration {
	return time.Duration(c.Server.ConnectTimeout) * time.Second
}

// PollInterval is how often views are polled
func (c *ClientConfig) PollInterval() time.Duration {
	return time.Duration(c.UI.PollIntervalMS) * time.Millisecond
}

// LogLevel returns the parsed log level, warn when unset or invalid
func (c *ClientConfig) LogLevel() log.Level {
	level, err := log.ParseLevel(c.UI.LogLevel)
	if err != nil {
		return log.WarnLevel
	}
	return level
}
