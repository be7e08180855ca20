package game

import (
	"fmt"
	"slices"
)

// Phase is the protocol state of a game
type Phase int

const (
	PhaseWaitingForPlayers Phase = iota
	PhasePlaying
	PhaseAwaitingResponse
	PhaseGameOver
)

var phaseNames = [...]string{"waiting_for_players", "playing", "awaiting_response", "game_over"}

func (p Phase) String() string {
	return phaseNames[p]
}

// MarshalText encodes the phase by name
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a phase name
func (p *Phase) UnmarshalText(text []byte) error {
	i := slices.Index(phaseNames[:], string(text))
	if i < 0 {
		return fmt.Errorf("unknown phase %q", text)
	}
	*p = Phase(i)
	return nil
}

// BetLevel is the truco escalation tier of the current hand
type BetLevel int

const (
	BetNone BetLevel = iota
	BetTruco
	BetRetruco
	BetValeCuatro
)

var betLevelNames = [...]string{"none", "truco", "retruco", "vale_cuatro"}

func (l BetLevel) String() string {
	return betLevelNames[l]
}

// MarshalText encodes the level by name
func (l BetLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText decodes a level name
func (l *BetLevel) UnmarshalText(text []byte) error {
	i := slices.Index(betLevelNames[:], string(text))
	if i < 0 {
		return fmt.Errorf("unknown bet level %q", text)
	}
	*l = BetLevel(i)
	return nil
}

// Label is the spoken name of the tier
func (l BetLevel) Label() string {
	return [...]string{"Sin truco", "Truco", "Retruco", "Vale Cuatro"}[l]
}

// Points is what the hand is worth once the level has been accepted
func (l BetLevel) Points() int {
	return int(l) + 1
}

// RejectPoints is what the caller earns when the level is refused
func (l BetLevel) RejectPoints() int {
	if l == BetNone {
		return 1
	}
	return int(l)
}

// BetState holds the truco escalation for the current hand
type BetState struct {
	Level   BetLevel
	Caller  int // seat that made the last raise; -1 while Level is BetNone
	Pending bool
}

func newBetState() BetState {
	return BetState{Level: BetNone, Caller: -1}
}

// raise moves the bet to level on behalf of seat
func (b *BetState) raise(seat int, level BetLevel) {
	b.Level = level
	b.Caller = seat
	b.Pending = true
}

// accept settles a pending raise
func (b *BetState) accept() {
	b.Pending = false
}

// settled is the number of points the hand pays if it ends right now against
// the player who is not the caller. A pending raise pays the refusal value.
func (b BetState) settled() int {
	if b.Pending {
		return b.Level.RejectPoints()
	}
	return b.Level.Points()
}

type betKey struct {
	phase Phase
	level BetLevel
}

// legalByState is the full transition table. Combinations not listed (waiting for
// players, game over, a pending raise with no level) have no legal actions.
var legalByState = map[betKey][]Action{
	{PhasePlaying, BetNone}:                {PlayCard, Truco, IrseAlMazo},
	{PhasePlaying, BetTruco}:               {PlayCard, IrseAlMazo},
	{PhasePlaying, BetRetruco}:             {PlayCard, IrseAlMazo},
	{PhasePlaying, BetValeCuatro}:          {PlayCard, IrseAlMazo},
	{PhaseAwaitingResponse, BetTruco}:      {Quiero, NoQuiero, Retruco, IrseAlMazo},
	{PhaseAwaitingResponse, BetRetruco}:    {Quiero, NoQuiero, ValeCuatro, IrseAlMazo},
	{PhaseAwaitingResponse, BetValeCuatro}: {Quiero, NoQuiero, IrseAlMazo},
}

// legalActions returns the actions the turn holder may take in the given state
func legalActions(phase Phase, level BetLevel) []Action {
	actions := legalByState[betKey{phase, level}]
	out := make([]Action, len(actions))
	copy(out, actions)
	return out
}

// raiseTarget maps a raise action to the level it requests
func raiseTarget(a Action) BetLevel {
	switch a {
	case Truco:
		return BetTruco
	case Retruco:
		return BetRetruco
	case ValeCuatro:
		return BetValeCuatro
	}
	return BetNone
}
