package bot

import (
	"math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/trucoforbots/internal/game"
)

// RandBot picks uniformly among its options, where playing each held card
// counts as a separate option.
type RandBot struct {
	rng    *rand.Rand
	logger *log.Logger
}

// NewRandBot creates a new RandBot instance
func NewRandBot(rng *rand.Rand, logger *log.Logger) *RandBot {
	return &RandBot{rng: rng, logger: logger}
}

func (r *RandBot) MakeDecision(view game.PlayerView) Decision {
	options := make([]game.Command, 0, len(view.LegalActions)+len(view.Hand))
	for _, a := range view.LegalActions {
		if a != game.PlayCard {
			options = append(options, game.Do(a))
			continue
		}
		for i := range view.Hand {
			options = append(options, game.PlayAt(i))
		}
	}
	if len(options) == 0 {
		return fallback(view, "rand-bot has no options")
	}

	cmd := options[r.rng.IntN(len(options))]
	r.logger.Debug("Random choice", "player", view.Player, "command", cmd, "options", len(options))
	return Decision{Command: cmd, Reasoning: "rand-bot random option"}
}
