package bot

import (
	"math/rand/v2"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/lox/trucoforbots/internal/game"
	"github.com/lox/trucoforbots/truco"
)

// Card power thresholds used by TAGBot
const (
	powerPremium = 12 // 7 de Espada and the two top aces
	powerStrong  = 10 // any three and up
)

// TAGBot is a tight aggressive bot: it raises and accepts on strong cards,
// refuses on weak ones and bluffs rarely.
type TAGBot struct {
	rng    *rand.Rand
	logger *log.Logger
}

// NewTAGBot creates a new TAGBot instance
func NewTAGBot(rng *rand.Rand, logger *log.Logger) *TAGBot {
	return &TAGBot{rng: rng, logger: logger}
}

func (t *TAGBot) MakeDecision(view game.PlayerView) Decision {
	won, lost := roundRecord(view)
	best := 0
	if len(view.Hand) > 0 {
		best = view.Hand[strongestIndex(view.Hand)].Power()
	}
	strong := best >= powerPremium || (won > lost && best >= powerStrong)
	playable := best >= powerStrong || won > lost

	t.logger.Debug("TAG evaluation",
		"player", view.Player,
		"best", best,
		"won", won,
		"lost", lost,
		"strong", strong)

	if view.WaitingResponse {
		switch {
		case strong && view.CanDo(game.Retruco):
			return Decision{Command: game.Do(game.Retruco), Reasoning: "TAG re-raise strong hand"}
		case strong && view.CanDo(game.ValeCuatro) && best >= 13:
			return Decision{Command: game.Do(game.ValeCuatro), Reasoning: "TAG vale cuatro with a top ace"}
		case strong, playable && view.BetLevel == game.BetTruco:
			return Decision{Command: game.Do(game.Quiero), Reasoning: "TAG accept"}
		case t.rng.Float64() < 0.1:
			return Decision{Command: game.Do(game.Quiero), Reasoning: "TAG hero call"}
		default:
			return Decision{Command: game.Do(game.NoQuiero), Reasoning: "TAG refuse weak hand"}
		}
	}

	if view.CanDo(game.Truco) && (strong || t.rng.Float64() < 0.05) {
		return Decision{Command: game.Do(game.Truco), Reasoning: "TAG truco"}
	}

	if !view.CanDo(game.PlayCard) || len(view.Hand) == 0 {
		return fallback(view, "TAG")
	}
	if target, ok := facingCard(view); ok {
		if idx, ok := cheapestWinner(view.Hand, target); ok {
			return Decision{Command: game.PlayAt(idx), Reasoning: "TAG takes the round"}
		}
		return Decision{Command: game.PlayAt(weakestIndex(view.Hand)), Reasoning: "TAG concedes the round"}
	}
	if won > 0 || lost > 0 {
		return Decision{Command: game.PlayAt(strongestIndex(view.Hand)), Reasoning: "TAG leads high to close"}
	}
	return Decision{Command: game.PlayAt(middleIndex(view.Hand)), Reasoning: "TAG probes"}
}

// roundRecord counts the rounds the viewer has won and lost in this hand
func roundRecord(view game.PlayerView) (won, lost int) {
	for _, entry := range view.RoundHistory {
		_, winner, ok := strings.Cut(entry, ":")
		if !ok {
			continue
		}
		switch winner {
		case view.Player:
			won++
		case view.Opponent:
			lost++
		}
	}
	return won, lost
}

// middleIndex is the weakest card that is not a throwaway, or the weakest card
func middleIndex(hand []truco.Card) int {
	idx := -1
	for i, c := range hand {
		if c.Power() > 5 && c.Power() < powerPremium && (idx < 0 || c.Power() < hand[idx].Power()) {
			idx = i
		}
	}
	if idx < 0 {
		return weakestIndex(hand)
	}
	return idx
}
