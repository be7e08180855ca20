package bot

import (
	"github.com/charmbracelet/log"

	"github.com/lox/trucoforbots/internal/game"
)

// CallBot never raises. It accepts truco and retruco, refuses vale cuatro and
// spends as little as possible on each round.
type CallBot struct {
	logger *log.Logger
}

// NewCallBot creates a new CallBot instance
func NewCallBot(logger *log.Logger) *CallBot {
	return &CallBot{logger: logger}
}

func (c *CallBot) MakeDecision(view game.PlayerView) Decision {
	if view.WaitingResponse {
		if view.BetLevel == game.BetValeCuatro && view.CanDo(game.NoQuiero) {
			return Decision{Command: game.Do(game.NoQuiero), Reasoning: "call-bot refuses vale cuatro"}
		}
		if view.CanDo(game.Quiero) {
			return Decision{Command: game.Do(game.Quiero), Reasoning: "call-bot calling"}
		}
	}

	if view.CanDo(game.PlayCard) && len(view.Hand) > 0 {
		if target, ok := facingCard(view); ok {
			if idx, ok := cheapestWinner(view.Hand, target); ok {
				return Decision{Command: game.PlayAt(idx), Reasoning: "call-bot beats " + target.String()}
			}
		}
		return Decision{Command: game.PlayAt(weakestIndex(view.Hand)), Reasoning: "call-bot plays low"}
	}
	return fallback(view, "call-bot")
}
