package game

import (
	"fmt"
	"slices"

	"github.com/lox/trucoforbots/truco"
)

var roundNames = [...]string{"1ra", "2da", "3ra"}

// PlayerView is the game as one player is allowed to see it. The opponent's
// cards are reduced to a count.
type PlayerView struct {
	GameID           string         `json:"game_id"`
	Player           string         `json:"player"`
	Opponent         string         `json:"opponent,omitempty"`
	Hand             []truco.Card   `json:"hand"`
	OpponentHandSize int            `json:"opponent_hand_size"`
	Table            []Play         `json:"table"`
	Scores           map[string]int `json:"scores"`
	TargetScore      int            `json:"target_score"`
	Mano             string         `json:"mano,omitempty"`
	Dealer           string         `json:"dealer,omitempty"`
	Turn             string         `json:"turn,omitempty"`
	MyTurn           bool           `json:"my_turn"`
	RoundHistory     []string       `json:"round_history"`
	Round            int            `json:"round"`
	HandNumber       int            `json:"hand_number"`
	Phase            Phase          `json:"phase"`
	Bet              string         `json:"bet"`
	BetLevel         BetLevel       `json:"bet_level"`
	WaitingResponse  bool           `json:"waiting_response"`
	LegalActions     []Action       `json:"legal_actions"`
	LastResult       *HandResult    `json:"last_result,omitempty"`
	MatchWinner      string         `json:"match_winner,omitempty"`
	GameOver         bool           `json:"game_over"`
}

// CanDo reports whether a is among the view's legal actions
func (v PlayerView) CanDo(a Action) bool {
	return slices.Contains(v.LegalActions, a)
}

// viewFor projects the game for seat. Callers hold g.mu.
func (g *Game) viewFor(seat int) PlayerView {
	v := PlayerView{
		GameID:          g.id,
		Player:          g.nameOf(seat),
		Opponent:        g.nameOf(other(seat)),
		Hand:            slices.Clone(g.hands[seat]),
		Table:           slices.Clone(g.table),
		Scores:          g.scoreMap(),
		TargetScore:     g.targetScore,
		Mano:            g.nameOf(g.mano),
		Dealer:          g.nameOf(g.dealer),
		Turn:            g.nameOf(g.turn),
		RoundHistory:    g.roundHistory(),
		Round:           g.currentRound(),
		HandNumber:      g.handNumber,
		Phase:           g.phase,
		Bet:             g.betLabel(),
		BetLevel:        g.bet.Level,
		WaitingResponse: g.bet.Pending,
		MatchWinner:     g.nameOf(g.winner),
		GameOver:        g.phase == PhaseGameOver,
	}
	if v.Hand == nil {
		v.Hand = []truco.Card{}
	}
	if v.Table == nil {
		v.Table = []Play{}
	}

	v.OpponentHandSize = len(g.hands[other(seat)])
	v.MyTurn = seat == g.turn && !v.GameOver
	v.LegalActions = g.legalFor(seat)

	if n := len(g.results); n > 0 {
		last := g.results[n-1]
		last.Rounds = slices.Clone(last.Rounds)
		v.LastResult = &last
	}
	return v
}

// legalFor returns seat's legal actions; empty when it is not seat's turn.
func (g *Game) legalFor(seat int) []Action {
	if seat != g.turn {
		return []Action{}
	}
	actions := legalActions(g.phase, g.bet.Level)
	if len(g.hands[seat]) == 0 {
		actions = slices.DeleteFunc(actions, func(a Action) bool { return a == PlayCard })
	}
	return actions
}

func (g *Game) roundHistory() []string {
	history := make([]string, 0, len(g.rounds))
	for i, r := range g.rounds {
		winner := "Parda"
		if !r.Draw() {
			winner = g.players[r.Winner]
		}
		history = append(history, roundNames[i]+":"+winner)
	}
	return history
}

func (g *Game) betLabel() string {
	switch {
	case g.bet.Level == BetNone:
		return g.bet.Level.Label()
	case g.bet.Pending:
		return fmt.Sprintf("%s cantado por %s", g.bet.Level.Label(), g.nameOf(g.bet.Caller))
	default:
		return g.bet.Level.Label() + " querido"
	}
}

// pushAll refreshes every registered mailbox. Callers hold g.mu.
func (g *Game) pushAll() {
	for seat, mb := range g.mailboxes {
		if mb != nil {
			mb.Update(g.viewFor(seat))
		}
	}
}

// View returns id's current view without touching its mailbox
func (g *Game) View(id string) (PlayerView, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	seat, ok := g.seatOf(id)
	if !ok {
		return PlayerView{}, fmt.Errorf("%w: %s", ErrUnregisteredPlayer, id)
	}
	return g.viewFor(seat), nil
}
