package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/lox/trucoforbots/cmd/truco/shared"
	"github.com/lox/trucoforbots/internal/client"
	"github.com/lox/trucoforbots/internal/server"
	"github.com/lox/trucoforbots/internal/tui"
)

// ClientFlags holds configuration common to the networked commands
type ClientFlags struct {
	Config   string `short:"c" default:"truco-client.hcl" help:"Path to HCL configuration file"`
	Server   string `short:"s" help:"Server URL to connect to (overrides config)"`
	Player   string `short:"p" help:"Player name (overrides config)"`
	Lobby    bool   `help:"Wait for another player instead of playing the house bot"`
	LogLevel string `short:"l" help:"Log level (overrides config)"`
	LogFile  string `help:"Log file path (overrides config)"`
}

// load reads the config file and applies command line overrides. A missing
// player name is read from in.
func (f *ClientFlags) load(in io.Reader, out io.Writer) (*client.ClientConfig, error) {
	cfg, err := client.LoadClientConfig(f.Config)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	// Apply command line overrides
	if f.Server != "" {
		cfg.Server.URL = f.Server
	}
	if f.Player != "" {
		cfg.Player.Name = f.Player
	}
	if f.Lobby {
		cfg.Player.Opponent = ""
	}
	if f.LogLevel != "" {
		cfg.UI.LogLevel = f.LogLevel
	}
	if f.LogFile != "" {
		cfg.UI.LogFile = f.LogFile
	}

	// Get player name if not set
	if cfg.Player.Name == "" {
		fmt.Fprint(out, "Enter your player name: ")
		line, _ := bufio.NewReader(in).ReadString('\n')
		cfg.Player.Name = strings.TrimSpace(line)
		if cfg.Player.Name == "" {
			return nil, errors.New("player name is required")
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// connect dials the server and asks for a seat
func connect(cfg *client.ClientConfig, logger *log.Logger) (*client.Client, error) {
	c := client.NewClient(cfg.Server.URL, logger)
	if err := c.Connect(cfg.ConnectTimeout()); err != nil {
		return nil, fmt.Errorf("failed to connect to server: %w", err)
	}

	opponent := ""
	if cfg.Player.Opponent == server.HouseOpponent {
		opponent = server.HouseOpponent
	}
	if err := c.Join(cfg.Player.Name, opponent); err != nil {
		_ = c.Disconnect()
		return nil, fmt.Errorf("failed to join: %w", err)
	}
	return c, nil
}

// JoinCmd plays a server match from the terminal
type JoinCmd struct {
	ClientFlags `embed:""`
	NoColor     bool `help:"Disable colors"`
}

func (c *JoinCmd) Run() error {
	cfg, err := c.load(stdin, stdout)
	if err != nil {
		return err
	}

	// Logs go to a file so they don't trample the TUI
	logger, closeLog, err := shared.SetupFileLogger(cfg.UI.LogFile, cfg.UI.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	logger.Info("Starting truco client TUI", "server", cfg.Server.URL, "player", cfg.Player.Name)

	wsClient, err := connect(cfg, logger)
	if err != nil {
		return err
	}
	seat := tui.NewNetworkSeat(wsClient)
	defer func() { _ = seat.Close() }()

	tui.SetNoColor(c.NoColor || cfg.UI.NoColor)
	model := tui.NewTUIModelWithOptions(seat, logger, tui.Options{PollInterval: cfg.PollInterval()})
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
