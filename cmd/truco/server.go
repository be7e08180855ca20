package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/lox/trucoforbots/cmd/truco/shared"
	"github.com/lox/trucoforbots/internal/server"
)

// ServerCmd runs the websocket server
type ServerCmd struct {
	Config   string `short:"c" default:"truco-server.hcl" help:"Path to HCL configuration file"`
	Addr     string `short:"a" help:"Address to bind to (overrides config)"`
	Port     int    `short:"p" help:"Port to listen on (overrides config)"`
	LogLevel string `short:"l" help:"Log level (overrides config)"`
	Seed     *int64 `help:"Deterministic RNG seed for matches (overrides config)"`
	NoHouse  bool   `help:"Disable the house bot"`
}

// load reads the config file and applies command line overrides
func (c *ServerCmd) load() (*server.ServerConfig, error) {
	cfg, err := server.LoadServerConfig(c.Config)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	if c.Addr != "" {
		cfg.Server.Address = c.Addr
	}
	if c.Port != 0 {
		cfg.Server.Port = c.Port
	}
	if c.LogLevel != "" {
		cfg.Server.LogLevel = c.LogLevel
	}
	if c.Seed != nil {
		cfg.Match.Seed = *c.Seed
	}
	if c.NoHouse {
		cfg.HouseBot = nil
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *ServerCmd) Run() error {
	cfg, err := c.load()
	if err != nil {
		return err
	}

	logger, err := shared.SetupLogger(os.Stderr, cfg.Server.LogLevel)
	if err != nil {
		return err
	}

	s := server.NewServer(cfg, logger, nil)

	house := "none"
	if cfg.HouseBot != nil {
		house = fmt.Sprintf("%s (%s)", cfg.HouseBot.Name, cfg.HouseBot.Strategy)
	}
	logger.Info("Starting truco server",
		"address", cfg.ListenAddr(),
		"target_score", cfg.Match.TargetScore,
		"house_bot", house,
		"poll_interval", cfg.PollInterval())

	ctx, stop := shared.WithShutdown(context.Background(), logger, "truco server")
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- s.Start()
	}()

	select {
	case <-ctx.Done():
		stats := s.Stats()
		logger.Info("Draining server",
			"cause", context.Cause(ctx),
			"connections", stats.Connections,
			"active_matches", stats.ActiveMatches,
			"matches_completed", stats.MatchesCompleted)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Stop(shutdownCtx)
	case err := <-serverErr:
		return err
	}
}
