package server

import (
	"errors"
	"fmt"
	"net"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/trucoforbots/internal/bot"
	"github.com/lox/trucoforbots/internal/game"
)

// ServerConfig represents the complete server configuration
type ServerConfig struct {
	Server   ServerSettings  `hcl:"server,block"`
	Match    *MatchSettings  `hcl:"match,block"`
	HouseBot *HouseBotConfig `hcl:"house_bot,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address        string `hcl:"address,optional"`
	Port           int    `hcl:"port,optional"`
	LogLevel       string `hcl:"log_level,optional"`
	PollIntervalMS int    `hcl:"poll_interval_ms,optional"`
}

// MatchSettings configures every match the server creates
type MatchSettings struct {
	TargetScore int   `hcl:"target_score,optional"`
	Seed        int64 `hcl:"seed,optional"` // 0 seeds from the clock
}

// HouseBotConfig enables the server's own opponent
type HouseBotConfig struct {
	Name     string `hcl:"name,label"`
	Strategy string `hcl:"strategy,optional"`
	// Auto seats the house bot against anyone who waits in the lobby instead of
	// only those who ask for it.
	Auto bool `hcl:"auto,optional"`
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Server: ServerSettings{
			Address:        "localhost",
			Port:           8080,
			LogLevel:       "info",
			PollIntervalMS: 50,
		},
		Match: &MatchSettings{
			TargetScore: game.DefaultTargetScore,
		},
		HouseBot: &HouseBotConfig{
			Name:     "la-casa",
			Strategy: "tag",
		},
	}
}

// LoadServerConfig loads server configuration from an HCL file. A missing file
// yields the defaults.
func LoadServerConfig(filename string) (*ServerConfig, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultServerConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config ServerConfig
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

func (c *ServerConfig) applyDefaults() {
	defaults := DefaultServerConfig()

	if c.Server.Address == "" {
		c.Server.Address = defaults.Server.Address
	}
	if c.Server.Port == 0 {
		c.Server.Port = defaults.Server.Port
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = defaults.Server.LogLevel
	}
	if c.Server.PollIntervalMS == 0 {
		c.Server.PollIntervalMS = defaults.Server.PollIntervalMS
	}
	if c.Match == nil {
		c.Match = defaults.Match
	}
	if c.Match.TargetScore == 0 {
		c.Match.TargetScore = game.DefaultTargetScore
	}
	if c.HouseBot != nil && c.HouseBot.Strategy == "" {
		c.HouseBot.Strategy = defaults.HouseBot.Strategy
	}
}

// Validate checks the configuration for values the server cannot run with
func (c *ServerConfig) Validate() error {
	var errs []error
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Server.Port))
	}
	if _, err := log.ParseLevel(c.Server.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if c.Server.PollIntervalMS < 1 {
		errs = append(errs, fmt.Errorf("poll_interval_ms must be positive, got %d", c.Server.PollIntervalMS))
	}
	if c.Match != nil && c.Match.TargetScore < 1 {
		errs = append(errs, fmt.Errorf("target_score must be positive, got %d", c.Match.TargetScore))
	}
	if hb := c.HouseBot; hb != nil {
		if hb.Name == "" {
			errs = append(errs, errors.New("house_bot needs a name"))
		}
		if !slices.Contains(bot.Names(), hb.Strategy) {
			errs = append(errs, fmt.Errorf("house_bot strategy %q not one of %v", hb.Strategy, bot.Names()))
		}
	}
	return errors.Join(errs...)
}

// ListenAddr is the host:port the server binds
func (c *ServerConfig) ListenAddr() string {
	return net.JoinHostPort(c.Server.Address, strconv.Itoa(c.Server.Port))
}

// PollInterval is how often each seat's mailbox is checked for new views
func (c *ServerConfig) PollInterval() time.Duration {
	return time.Duration(c.Server.PollIntervalMS) * time.Millisecond
}
