package bot

import (
	"math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/trucoforbots/internal/game"
)

// ManiacBot raises whenever it can, accepts everything and leads with its best card
type ManiacBot struct {
	rng    *rand.Rand
	logger *log.Logger
}

// NewManiacBot creates a new ManiacBot instance
func NewManiacBot(rng *rand.Rand, logger *log.Logger) *ManiacBot {
	return &ManiacBot{rng: rng, logger: logger}
}

func (m *ManiacBot) MakeDecision(view game.PlayerView) Decision {
	for _, raise := range []game.Action{game.ValeCuatro, game.Retruco, game.Truco} {
		if view.CanDo(raise) {
			return Decision{Command: game.Do(raise), Reasoning: "maniac raise"}
		}
	}
	if view.CanDo(game.Quiero) {
		return Decision{Command: game.Do(game.Quiero), Reasoning: "maniac accepts"}
	}

	if view.CanDo(game.PlayCard) && len(view.Hand) > 0 {
		// Leading with a throwaway now and then keeps the top card for later.
		if _, facing := facingCard(view); !facing && len(view.Hand) > 1 && m.rng.Float64() < 0.1 {
			return Decision{Command: game.PlayAt(weakestIndex(view.Hand)), Reasoning: "maniac sandbag"}
		}
		return Decision{Command: game.PlayAt(strongestIndex(view.Hand)), Reasoning: "maniac plays top card"}
	}
	return fallback(view, "maniac")
}
