package game

import (
	"fmt"
	"slices"

	"github.com/lox/trucoforbots/truco"
)

// CardsPerHand is how many cards each player is dealt
const CardsPerHand = 3

// Play is a card on the table
type Play struct {
	Seat   int        `json:"-"`
	Player string     `json:"player"`
	Card   truco.Card `json:"card"`
}

func (p Play) String() string {
	return fmt.Sprintf("%s: %s", p.Player, p.Card)
}

// RoundOutcome records who won a round. Winner is -1 for a parda (draw).
type RoundOutcome struct {
	Winner int `json:"winner"`
}

// Draw reports whether the round was a parda
func (r RoundOutcome) Draw() bool {
	return r.Winner < 0
}

// EndReason is how a hand finished
type EndReason int

const (
	EndPlayed EndReason = iota
	EndRejected
	EndFolded
)

var endReasonNames = [...]string{"played", "rejected", "folded"}

func (r EndReason) String() string {
	return endReasonNames[r]
}

// MarshalText encodes the reason by name
func (r EndReason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText decodes a reason name
func (r *EndReason) UnmarshalText(text []byte) error {
	i := slices.Index(endReasonNames[:], string(text))
	if i < 0 {
		return fmt.Errorf("unknown end reason %q", text)
	}
	*r = EndReason(i)
	return nil
}

// HandResult summarizes a completed hand
type HandResult struct {
	Hand   int            `json:"hand"`
	Winner string         `json:"winner"`
	Seat   int            `json:"-"`
	Points int            `json:"points"`
	Level  BetLevel       `json:"-"`
	Reason EndReason      `json:"reason"`
	Rounds []RoundOutcome `json:"-"`
}

// deal starts a hand with the current dealer: fresh deck, three cards each,
// mano (the seat after the dealer) to act.
func (g *Game) deal() {
	deck := g.deckSource(g.rng)

	g.mano = other(g.dealer)
	g.hands[g.mano] = deck.Deal(CardsPerHand)
	g.hands[g.dealer] = deck.Deal(CardsPerHand)
	if g.hands[g.mano] == nil || g.hands[g.dealer] == nil {
		panic("deck exhausted while dealing")
	}

	g.table = nil
	g.rounds = nil
	g.bet = newBetState()
	g.phase = PhasePlaying
	g.turn = g.mano
	g.handNumber++

	g.logger.Debug("Dealt hand", "hand", g.handNumber, "dealer", g.players[g.dealer], "mano", g.players[g.mano])
}

// playCard moves the card at index from seat's hand to the table
func (g *Game) playCard(seat, index int) {
	hand := g.hands[seat]
	card := hand[index]
	g.hands[seat] = append(hand[:index:index], hand[index+1:]...)
	g.table = append(g.table, Play{Seat: seat, Player: g.players[seat], Card: card})

	if len(g.table) < 2 {
		g.turn = other(seat)
		return
	}
	g.resolveRound()
}

// resolveRound compares the two cards on the table and either ends the hand or
// hands the lead to the round winner (mano after a parda).
func (g *Game) resolveRound() {
	first, second := g.table[0], g.table[1]

	outcome := RoundOutcome{Winner: -1}
	switch {
	case first.Card.Beats(second.Card):
		outcome.Winner = first.Seat
	case second.Card.Beats(first.Card):
		outcome.Winner = second.Seat
	}

	g.rounds = append(g.rounds, outcome)
	g.table = nil

	g.logger.Debug("Round resolved",
		"round", len(g.rounds),
		"first", first.Card,
		"second", second.Card,
		"winner", g.nameOf(outcome.Winner))

	if winner, ok := handWinner(g.rounds, g.mano); ok {
		g.endHand(winner, g.bet.Level.Points(), EndPlayed)
		return
	}
	g.turn = g.leader()
}

// handWinner decides the hand from its round history. A player with two rounds
// wins; a parda defers to the other decided round; after three rounds the third
// round's winner takes it, then the first round's, and mano breaks a triple parda.
func handWinner(rounds []RoundOutcome, mano int) (int, bool) {
	var wins [2]int
	for _, r := range rounds {
		if !r.Draw() {
			wins[r.Winner]++
		}
	}
	for seat, w := range wins {
		if w >= 2 {
			return seat, true
		}
	}

	switch len(rounds) {
	case 2:
		r1, r2 := rounds[0], rounds[1]
		if !r1.Draw() && r2.Draw() {
			return r1.Winner, true
		}
		if r1.Draw() && !r2.Draw() {
			return r2.Winner, true
		}
	case 3:
		if r3 := rounds[2]; !r3.Draw() {
			return r3.Winner, true
		}
		if r1 := rounds[0]; !r1.Draw() {
			return r1.Winner, true
		}
		return mano, true
	}
	return -1, false
}

// leader is the seat that opens the next round
func (g *Game) leader() int {
	if n := len(g.rounds); n > 0 && !g.rounds[n-1].Draw() {
		return g.rounds[n-1].Winner
	}
	return g.mano
}

// nextToPlay is the seat that owes a card once a raise has been accepted
func (g *Game) nextToPlay() int {
	if len(g.table) == 1 {
		return other(g.table[0].Seat)
	}
	return g.leader()
}

// endHand awards points, checks for the end of the match and otherwise deals
// the next hand with the dealer rotated.
func (g *Game) endHand(winner, points int, reason EndReason) {
	g.scores[winner] += points

	result := HandResult{
		Hand:   g.handNumber,
		Winner: g.players[winner],
		Seat:   winner,
		Points: points,
		Level:  g.bet.Level,
		Reason: reason,
		Rounds: append([]RoundOutcome(nil), g.rounds...),
	}
	g.results = append(g.results, result)

	g.logger.Info("Hand complete",
		"hand", result.Hand,
		"winner", result.Winner,
		"points", points,
		"reason", reason,
		"scores", g.scoreMap())

	if g.scores[winner] >= g.targetScore {
		g.phase = PhaseGameOver
		g.winner = winner
		g.turn = -1
		g.logger.Info("Match over", "winner", result.Winner, "scores", g.scoreMap(), "hands", g.handNumber)
		return
	}

	g.dealer = other(g.dealer)
	g.deal()
}

// currentRound is the 1-based round being played in the current hand
func (g *Game) currentRound() int {
	return min(len(g.rounds)+1, CardsPerHand)
}
