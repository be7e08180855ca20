package main

import (
	"fmt"
	"os"
	"time"

	"github.com/lox/trucoforbots/cmd/truco/shared"
	"github.com/lox/trucoforbots/internal/fileutil"
	"github.com/lox/trucoforbots/internal/randutil"
	"github.com/lox/trucoforbots/internal/simulator"
)

// SimulateCmd plays bots against each other without a clock
type SimulateCmd struct {
	Matches  int    `short:"n" default:"1000" help:"Number of matches (each is played from both seats)"`
	Hero     string `short:"a" default:"tag" help:"Strategy under test (${strategies})"`
	Opponent string `short:"b" default:"mixed" help:"Opponent strategy or 'mixed'"`
	Target   int    `default:"15" help:"Score that wins a match"`
	Seed     *int64 `help:"Deterministic RNG seed (optional)"`
	Timeout  int    `default:"10" help:"Per-match timeout in seconds"`
	Output   string `short:"o" help:"Also write the summary as JSON to this file" type:"path"`
	LogLevel string `default:"warn" help:"Log level (debug|info|warn|error)"`
}

func (c *SimulateCmd) Run() error {
	logger, err := shared.SetupLogger(os.Stderr, c.LogLevel)
	if err != nil {
		return err
	}

	seed := randutil.Seed()
	if c.Seed != nil {
		seed = *c.Seed
	}

	start := time.Now()
	fmt.Fprintf(stdout, "Simulating %d matches: %s vs %s (seed %d)\n", c.Matches, c.Hero, c.Opponent, seed)

	sim := simulator.New(simulator.Config{
		Matches:      c.Matches,
		HeroType:     c.Hero,
		OpponentType: c.Opponent,
		Seed:         seed,
		TargetScore:  c.Target,
		Timeout:      time.Duration(c.Timeout) * time.Second,
		Logger:       logger,
	})
	stats, opponentInfo, err := sim.Run()
	if err != nil {
		return err
	}

	simulator.PrintSummary(stdout, stats, c.Hero, opponentInfo)
	if c.Output != "" {
		if err := fileutil.WriteJSON(c.Output, stats.Report(c.Hero, opponentInfo, seed)); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Wrote %s\n", c.Output)
	}
	fmt.Fprintf(stdout, "\nCompleted in %s\n", time.Since(start).Round(time.Millisecond))
	return nil
}
