// Package bot holds the computer strategies that play truco from a PlayerView.
package bot

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/lox/trucoforbots/internal/game"
	"github.com/lox/trucoforbots/truco"
)

// Decision is a bot's chosen command with a short explanation for logs
type Decision struct {
	Command   game.Command
	Reasoning string
}

// Bot picks a command from what a player can see. MakeDecision is only called
// when the view's legal actions are non-empty.
type Bot interface {
	MakeDecision(view game.PlayerView) Decision
}

// Factory builds a strategy from an RNG and a logger
type Factory func(rng *rand.Rand, logger *log.Logger) Bot

var registry = map[string]Factory{
	"random":  func(rng *rand.Rand, logger *log.Logger) Bot { return NewRandBot(rng, logger) },
	"maniac":  func(rng *rand.Rand, logger *log.Logger) Bot { return NewManiacBot(rng, logger) },
	"calling": func(_ *rand.Rand, logger *log.Logger) Bot { return NewCallBot(logger) },
	"fold":    func(_ *rand.Rand, logger *log.Logger) Bot { return NewFoldBot(logger) },
	"tag":     func(rng *rand.Rand, logger *log.Logger) Bot { return NewTAGBot(rng, logger) },
}

// New builds the named strategy
func New(name string, rng *rand.Rand, logger *log.Logger) (Bot, error) {
	factory, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown bot strategy %q (have %v)", name, Names())
	}
	if rng == nil {
		panic("rng is required for bot creation")
	}
	if logger == nil {
		logger = log.Default()
	}
	return factory(rng, logger.WithPrefix(name)), nil
}

// Names lists the registered strategies in sorted order
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// fallback returns the first legal action when a strategy finds nothing better
func fallback(view game.PlayerView, reasoning string) Decision {
	if len(view.LegalActions) == 0 {
		return Decision{Command: game.Do(game.IrseAlMazo), Reasoning: "no legal actions"}
	}
	a := view.LegalActions[0]
	if a == game.PlayCard {
		return Decision{Command: game.PlayAt(0), Reasoning: "fallback: " + reasoning}
	}
	return Decision{Command: game.Do(a), Reasoning: "fallback: " + reasoning}
}

// strongestIndex is the position of the highest-powered card in hand
func strongestIndex(hand []truco.Card) int {
	best := 0
	for i, c := range hand {
		if c.Power() > hand[best].Power() {
			best = i
		}
	}
	return best
}

// weakestIndex is the position of the lowest-powered card in hand
func weakestIndex(hand []truco.Card) int {
	worst := 0
	for i, c := range hand {
		if c.Power() < hand[worst].Power() {
			worst = i
		}
	}
	return worst
}

// cheapestWinner is the weakest card that beats target, if any
func cheapestWinner(hand []truco.Card, target truco.Card) (int, bool) {
	idx := -1
	for i, c := range hand {
		if c.Beats(target) && (idx < 0 || c.Power() < hand[idx].Power()) {
			idx = i
		}
	}
	return idx, idx >= 0
}

// handPower sums the power of the cards still held
func handPower(hand []truco.Card) int {
	total := 0
	for _, c := range hand {
		total += c.Power()
	}
	return total
}

// facingCard returns the opponent's card when they led the current round
func facingCard(view game.PlayerView) (truco.Card, bool) {
	if len(view.Table) != 1 || view.Table[0].Player == view.Player {
		return truco.Card{}, false
	}
	return view.Table[0].Card, true
}
