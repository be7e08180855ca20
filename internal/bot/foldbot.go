package bot

import (
	"github.com/charmbracelet/log"

	"github.com/lox/trucoforbots/internal/game"
)

// FoldBot refuses every raise and dumps its weakest card each round
type FoldBot struct {
	logger *log.Logger
}

// NewFoldBot creates a new FoldBot instance
func NewFoldBot(logger *log.Logger) *FoldBot {
	return &FoldBot{logger: logger}
}

func (f *FoldBot) MakeDecision(view game.PlayerView) Decision {
	if view.CanDo(game.NoQuiero) {
		return Decision{Command: game.Do(game.NoQuiero), Reasoning: "fold-bot refusing"}
	}
	if view.CanDo(game.PlayCard) && len(view.Hand) > 0 {
		return Decision{Command: game.PlayAt(weakestIndex(view.Hand)), Reasoning: "fold-bot plays low"}
	}
	if view.CanDo(game.IrseAlMazo) {
		return Decision{Command: game.Do(game.IrseAlMazo), Reasoning: "fold-bot folding"}
	}
	return fallback(view, "fold-bot")
}
