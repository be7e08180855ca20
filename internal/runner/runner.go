// Package runner drives bots against a game by polling their mailboxes on a
// clock, the way a remote agent would.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/trucoforbots/internal/bot"
	"github.com/lox/trucoforbots/internal/game"
)

// DefaultPollInterval is how often an agent checks its mailbox
const DefaultPollInterval = 50 * time.Millisecond

// Config holds the clock and logging shared by a match's agents
type Config struct {
	Clock        quartz.Clock
	PollInterval time.Duration
	Logger       *log.Logger
}

func (c Config) withDefaults() Config {
	if c.Clock == nil {
		c.Clock = quartz.NewReal()
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.Logger == nil {
		c.Logger = log.Default()
	}
	return c
}

// Agent plays one seat of a game with a bot
type Agent struct {
	id      string
	game    *game.Game
	bot     bot.Bot
	mailbox *game.Mailbox
	clock   quartz.Clock
	every   time.Duration
	logger  *log.Logger

	stale bool // last command was rejected; re-read the view directly
}

// NewAgent creates an agent for a player already registered in g
func NewAgent(id string, g *game.Game, b bot.Bot, cfg Config) *Agent {
	cfg = cfg.withDefaults()
	return &Agent{
		id:      id,
		game:    g,
		bot:     b,
		mailbox: game.NewMailbox(),
		clock:   cfg.Clock,
		every:   cfg.PollInterval,
		logger:  cfg.Logger.WithPrefix("agent").With("player", id),
	}
}

// ID returns the player id the agent plays for
func (a *Agent) ID() string {
	return a.id
}

// Run polls until the match is over or ctx is cancelled
func (a *Agent) Run(ctx context.Context) error {
	if err := a.game.RegisterMailbox(a.id, a.mailbox); err != nil {
		return fmt.Errorf("attach mailbox: %w", err)
	}

	ticker := a.clock.NewTicker(a.every, "agent", a.id)
	defer ticker.Stop()

	a.logger.Debug("Agent started", "interval", a.every)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if done := a.step(); done {
				a.logger.Debug("Agent finished")
				return nil
			}
		}
	}
}

// step handles at most one view and reports whether the match is over
func (a *Agent) step() bool {
	view, ok := a.mailbox.Read()
	if !ok && a.stale {
		v, err := a.game.View(a.id)
		ok = err == nil
		view = v
	}
	if !ok {
		return false
	}
	a.stale = false

	if view.GameOver {
		return true
	}
	if !view.MyTurn || len(view.LegalActions) == 0 {
		return false
	}

	decision := a.bot.MakeDecision(view)
	if err := a.game.Apply(a.id, decision.Command); err != nil {
		a.logger.Warn("Command rejected", "command", decision.Command, "error", err)
		a.stale = true
		return false
	}
	a.logger.Debug("Played", "command", decision.Command, "reasoning", decision.Reasoning)
	return false
}

// Result is the outcome of a completed match
type Result struct {
	Winner string
	Scores map[string]int
	Hands  []game.HandResult
}

// RunMatch runs every agent until the game is over. The first agent error
// cancels the rest.
func RunMatch(ctx context.Context, g *game.Game, agents ...*Agent) (Result, error) {
	if len(agents) == 0 {
		return Result{}, errors.New("no agents")
	}

	eg, ctx := errgroup.WithContext(ctx)
	for _, agent := range agents {
		eg.Go(func() error {
			if err := agent.Run(ctx); err != nil {
				return fmt.Errorf("agent %s: %w", agent.ID(), err)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return Result{}, err
	}

	winner, _ := g.Winner()
	return Result{Winner: winner, Scores: g.Scores(), Hands: g.Results()}, nil
}
