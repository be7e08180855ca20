package game

import (
	"fmt"
	"strings"
)

// Action is a command a player can issue
type Action int

const (
	PlayCard Action = iota
	Truco
	Retruco
	ValeCuatro
	Quiero
	NoQuiero
	IrseAlMazo
)

var actionNames = [...]string{"play_card", "truco", "retruco", "vale4", "quiero", "no_quiero", "irse_al_mazo"}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return fmt.Sprintf("action(%d)", int(a))
	}
	return actionNames[a]
}

// IsRaise reports whether the action escalates the bet
func (a Action) IsRaise() bool {
	return a == Truco || a == Retruco || a == ValeCuatro
}

// MarshalText encodes the action by name
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText decodes an action name
func (a *Action) UnmarshalText(text []byte) error {
	parsed, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAction resolves an action name. Common spellings ("vale_cuatro", "mazo",
// "accept", "fold") are accepted alongside the canonical names.
func ParseAction(name string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "play_card", "play":
		return PlayCard, nil
	case "truco":
		return Truco, nil
	case "retruco":
		return Retruco, nil
	case "vale4", "vale_cuatro", "valecuatro":
		return ValeCuatro, nil
	case "quiero", "accept":
		return Quiero, nil
	case "no_quiero", "noquiero", "reject":
		return NoQuiero, nil
	case "irse_al_mazo", "mazo", "fold":
		return IrseAlMazo, nil
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownAction, name)
}

// Command is a player's request: an action and, for PlayCard, the index of the
// card in the player's hand.
type Command struct {
	Action Action `json:"action"`
	Index  int    `json:"index,omitempty"`
}

func (c Command) String() string {
	if c.Action == PlayCard {
		return fmt.Sprintf("%s(%d)", c.Action, c.Index)
	}
	return c.Action.String()
}

// PlayAt returns a command playing the card at index
func PlayAt(index int) Command {
	return Command{Action: PlayCard, Index: index}
}

// Do returns a command for an action that takes no parameters
func Do(a Action) Command {
	return Command{Action: a}
}
