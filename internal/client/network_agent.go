package client

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/trucoforbots/internal/bot"
	"github.com/lox/trucoforbots/internal/game"
)

var (
	// ErrDisconnected is returned when the server goes away mid-match
	ErrDisconnected = errors.New("disconnected from server")
	// ErrAbandoned is returned when the match ends without a winner
	ErrAbandoned = errors.New("match abandoned")
)

// NetworkAgent plays a remote seat with a local bot. It polls the client's
// latest view the same way an in-process agent polls its mailbox.
type NetworkAgent struct {
	client *Client
	bot    bot.Bot
	clock  quartz.Clock
	every  time.Duration
	logger *log.Logger
}

// NewNetworkAgent creates a new network agent
func NewNetworkAgent(client *Client, b bot.Bot, clock quartz.Clock, every time.Duration, logger *log.Logger) *NetworkAgent {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &NetworkAgent{
		client: client,
		bot:    b,
		clock:  clock,
		every:  every,
		logger: logger.WithPrefix("network-agent"),
	}
}

// Run plays until the match ends and returns its final view
func (na *NetworkAgent) Run(ctx context.Context) (game.PlayerView, error) {
	ticker := na.clock.NewTicker(na.every, "network-agent")
	defer ticker.Stop()

	var (
		last   game.PlayerView
		joined bool
	)
	for {
		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case <-na.client.Done():
			return last, ErrDisconnected
		case <-ticker.C:
		}

		for _, notice := range na.client.Notices() {
			na.logger.Info(notice)
		}

		inMatch := na.client.MatchID() != ""
		joined = joined || inMatch
		view, ok := na.client.Poll()
		if !ok {
			if joined && !inMatch {
				return last, ErrAbandoned
			}
			continue
		}
		joined = true
		last = view

		if view.GameOver {
			na.logger.Info("Match over", "winner", view.MatchWinner, "scores", view.Scores)
			return view, nil
		}
		if !view.MyTurn || len(view.LegalActions) == 0 {
			continue
		}

		decision := na.bot.MakeDecision(view)
		na.logger.Debug("Acting", "command", decision.Command, "reasoning", decision.Reasoning)
		if err := na.client.Act(decision.Command); err != nil {
			return last, err
		}
	}
}
