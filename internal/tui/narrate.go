package tui

import (
	"fmt"
	"strings"

	"github.com/lox/trucoforbots/internal/game"
	"github.com/lox/trucoforbots/truco"
)

// narrate turns the difference between two views into log lines. prev is nil
// for the first view. Views are latest-wins, so skipped states only show up
// as their net effect.
func narrate(prev *game.PlayerView, next game.PlayerView) []string {
	var lines []string

	newHand := prev == nil || prev.HandNumber != next.HandNumber
	if prev != nil && newHand {
		lines = append(lines, describeHandEnd(prev.HandNumber, next)...)
	}

	if newHand && next.HandNumber > 0 && !next.GameOver {
		lines = append(lines,
			"",
			fmt.Sprintf("*** HAND %d *** dealer %s, mano %s", next.HandNumber, next.Dealer, next.Mano),
			fmt.Sprintf("Dealt to %s: %s", next.Player, formatCards(next.Hand)),
		)
	}

	if !newHand {
		// Rounds resolved since the last view
		for _, label := range next.RoundHistory[min(len(prev.RoundHistory), len(next.RoundHistory)):] {
			round, winner, _ := strings.Cut(label, ":")
			if winner == "Parda" {
				lines = append(lines, fmt.Sprintf("Round %s: parda", round))
				continue
			}
			lines = append(lines, fmt.Sprintf("Round %s won by %s", round, winner))
		}
		if prev.Bet != next.Bet {
			lines = append(lines, WarningStyle.Render(next.Bet))
		}
	}

	for _, p := range newPlays(prev, next, newHand) {
		lines = append(lines, fmt.Sprintf("%s plays %s", p.Player, formatCard(p.Card)))
	}

	if next.GameOver && (prev == nil || !prev.GameOver) {
		lines = append(lines, "", SuccessStyle.Render(fmt.Sprintf("Match over: %s wins %s", next.MatchWinner, formatScores(next))))
	}
	return lines
}

func describeHandEnd(hand int, next game.PlayerView) []string {
	r := next.LastResult
	if r == nil || r.Hand != hand {
		return nil
	}

	var how string
	switch r.Reason {
	case game.EndRejected:
		how = "after a no quiero"
	case game.EndFolded:
		how = "after irse al mazo"
	default:
		how = "on the cards"
	}
	return []string{fmt.Sprintf("%s wins hand %d %s for %s (%s)",
		r.Winner, r.Hand, how, pluralPoints(r.Points), formatScores(next))}
}

// newPlays returns the table entries next shows that prev did not
func newPlays(prev *game.PlayerView, next game.PlayerView, newHand bool) []game.Play {
	if prev == nil || newHand || len(prev.RoundHistory) != len(next.RoundHistory) || len(next.Table) < len(prev.Table) {
		return next.Table
	}
	return next.Table[len(prev.Table):]
}

func formatCard(c truco.Card) string {
	return CardStyle(c).Render(c.String())
}

func formatCards(cards []truco.Card) string {
	formatted := make([]string, len(cards))
	for i, c := range cards {
		formatted[i] = formatCard(c)
	}
	return "[" + strings.Join(formatted, ", ") + "]"
}

func formatScores(v game.PlayerView) string {
	return fmt.Sprintf("%s %d - %d %s", v.Player, v.Scores[v.Player], v.Scores[v.Opponent], v.Opponent)
}

func pluralPoints(n int) string {
	if n == 1 {
		return "1 point"
	}
	return fmt.Sprintf("%d points", n)
}
