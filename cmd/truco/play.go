package main

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lox/trucoforbots/cmd/truco/shared"
	"github.com/lox/trucoforbots/internal/bot"
	"github.com/lox/trucoforbots/internal/game"
	"github.com/lox/trucoforbots/internal/randutil"
	"github.com/lox/trucoforbots/internal/runner"
	"github.com/lox/trucoforbots/internal/tui"
)

// PlayCmd runs a local match between the terminal and a bot
type PlayCmd struct {
	Name     string `default:"vos" help:"Your player name"`
	Opponent string `short:"b" default:"tag" help:"Bot strategy to play against (${strategies})"`
	Seed     *int64 `help:"Deterministic RNG seed (optional)"`
	Target   int    `default:"15" help:"Score that wins the match"`
	LogLevel string `default:"info" help:"Log level (debug|info|warn|error)"`
	LogFile  string `default:"truco.log" help:"Log file path"`
	NoColor  bool   `help:"Disable colors"`
}

// botName keeps the bot's seat name distinct from the human's
func (c *PlayCmd) botName() string {
	if c.Name == c.Opponent {
		return c.Opponent + "-bot"
	}
	return c.Opponent
}

func (c *PlayCmd) Run() error {
	logger, closeLog, err := shared.SetupFileLogger(c.LogFile, c.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	seed := randutil.Seed()
	if c.Seed != nil {
		seed = *c.Seed
	}
	logger.Info("Starting local match", "player", c.Name, "opponent", c.Opponent, "seed", seed)

	opponent, err := bot.New(c.Opponent, randutil.Derive(seed, 1), logger)
	if err != nil {
		return err
	}

	g := game.NewGame(randutil.Derive(seed, 0),
		game.WithTargetScore(c.Target),
		game.WithLogger(logger),
	)
	if err := g.RegisterPlayer(c.Name); err != nil {
		return err
	}
	if err := g.RegisterPlayer(c.botName()); err != nil {
		return err
	}

	seat, err := tui.NewLocalSeat(g, c.Name)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	agent := runner.NewAgent(c.botName(), g, opponent, runner.Config{Logger: logger})
	agentErr := make(chan error, 1)
	go func() { agentErr <- agent.Run(ctx) }()

	tui.SetNoColor(c.NoColor)
	model := tui.NewTUIModel(seat, logger)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	cancel()
	if err := <-agentErr; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	if winner, ok := g.Winner(); ok {
		scores := g.Scores()
		fmt.Fprintf(stdout, "%s wins %d-%d\n", winner, scores[c.Name], scores[c.botName()])
	}
	return nil
}
