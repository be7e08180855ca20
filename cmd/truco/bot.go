package main

import (
	"context"
	"fmt"
	"os"

	"github.com/lox/trucoforbots/cmd/truco/shared"
	"github.com/lox/trucoforbots/internal/bot"
	"github.com/lox/trucoforbots/internal/client"
	"github.com/lox/trucoforbots/internal/randutil"
)

// BotCmd plays a server match with a built-in strategy
type BotCmd struct {
	ClientFlags `embed:""`
	Strategy    string `help:"Bot strategy (${strategies}); overrides config"`
	Seed        *int64 `help:"Deterministic RNG seed for the bot (optional)"`
}

func (c *BotCmd) Run() error {
	cfg, err := c.load(stdin, stdout)
	if err != nil {
		return err
	}
	if c.Strategy != "" {
		cfg.Player.Strategy = c.Strategy
	}

	logger, err := shared.SetupLogger(os.Stderr, cfg.UI.LogLevel)
	if err != nil {
		return err
	}

	seed := randutil.Seed()
	if c.Seed != nil {
		seed = *c.Seed
	}
	b, err := bot.New(cfg.Player.Strategy, randutil.New(seed), logger)
	if err != nil {
		return err
	}

	wsClient, err := connect(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = wsClient.Disconnect() }()

	ctx, stop := shared.WithShutdown(context.Background(), logger, "bot")
	defer stop()
	agent := client.NewNetworkAgent(wsClient, b, nil, cfg.PollInterval(), logger)

	final, err := agent.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s wins %d-%d\n", final.MatchWinner, final.Scores[final.Player], final.Scores[final.Opponent])
	return nil
}
