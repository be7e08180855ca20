package truco

import (
	"fmt"
	"strconv"
	"strings"
)

// Suit represents a Spanish deck suit
type Suit uint8

const (
	Espada Suit = iota
	Basto
	Oro
	Copa
)

// Suits lists every suit in deck order
var Suits = [...]Suit{Espada, Basto, Oro, Copa}

func (s Suit) String() string {
	switch s {
	case Espada:
		return "Espada"
	case Basto:
		return "Basto"
	case Oro:
		return "Oro"
	case Copa:
		return "Copa"
	default:
		return "?"
	}
}

// Initial returns the lowercase single-letter code used by the compact card form
func (s Suit) Initial() byte {
	return "ebocx"[min(int(s), 4)]
}

// Rank is the printed number of a card. Eights and nines are not part of the deck.
type Rank uint8

// Ranks lists every rank in deck order
var Ranks = [...]Rank{1, 2, 3, 4, 5, 6, 7, 10, 11, 12}

// Valid reports whether the rank exists in a 40-card deck
func (r Rank) Valid() bool {
	return (r >= 1 && r <= 7) || (r >= 10 && r <= 12)
}

func (r Rank) String() string {
	return strconv.Itoa(int(r))
}

// Card is an immutable suit/rank pair
type Card struct {
	Suit Suit
	Rank Rank
}

// NewCard creates a card. It panics on ranks that are not part of the deck.
func NewCard(rank Rank, suit Suit) Card {
	if !rank.Valid() || suit > Copa {
		panic(fmt.Sprintf("truco: invalid card %d/%d", rank, suit))
	}
	return Card{Suit: suit, Rank: rank}
}

// power holds the fixed truco hierarchy indexed by suit then rank.
// Zero marks ranks that do not exist (8, 9).
var power = [4][13]uint8{
	Espada: {1: 14, 2: 9, 3: 10, 4: 1, 5: 2, 6: 3, 7: 12, 10: 5, 11: 6, 12: 7},
	Basto:  {1: 13, 2: 9, 3: 10, 4: 1, 5: 2, 6: 3, 7: 4, 10: 5, 11: 6, 12: 7},
	Oro:    {1: 8, 2: 9, 3: 10, 4: 1, 5: 2, 6: 3, 7: 11, 10: 5, 11: 6, 12: 7},
	Copa:   {1: 8, 2: 9, 3: 10, 4: 1, 5: 2, 6: 3, 7: 4, 10: 5, 11: 6, 12: 7},
}

// Power returns the card's strength in a round, 1 (weakest) to 14 (ancho de espada).
// Invalid cards have power 0.
func (c Card) Power() int {
	if c.Suit > Copa || int(c.Rank) >= len(power[0]) {
		return 0
	}
	return int(power[c.Suit][c.Rank])
}

// Beats reports whether c wins a round against other
func (c Card) Beats(other Card) bool {
	return c.Power() > other.Power()
}

// String returns the spoken form, e.g. "7 de Oro"
func (c Card) String() string {
	return fmt.Sprintf("%d de %s", c.Rank, c.Suit)
}

// Code returns the compact form, e.g. "7o"
func (c Card) Code() string {
	return fmt.Sprintf("%d%c", c.Rank, c.Suit.Initial())
}

// MarshalText encodes the card in its spoken form
func (c Card) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes either the spoken or the compact form
func (c *Card) UnmarshalText(text []byte) error {
	parsed, err := ParseCard(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCard parses "1 de Espada" or "1e" (case-insensitive)
func ParseCard(s string) (Card, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Card{}, fmt.Errorf("empty card string")
	}

	var rankPart, suitPart string
	if before, after, ok := strings.Cut(s, " de "); ok {
		rankPart, suitPart = strings.TrimSpace(before), strings.TrimSpace(after)
	} else {
		rankPart, suitPart = s[:len(s)-1], s[len(s)-1:]
	}

	n, err := strconv.Atoi(rankPart)
	if err != nil || !Rank(n).Valid() {
		return Card{}, fmt.Errorf("invalid rank in %q", s)
	}

	suit, ok := parseSuit(suitPart)
	if !ok {
		return Card{}, fmt.Errorf("invalid suit in %q", s)
	}
	return Card{Suit: suit, Rank: Rank(n)}, nil
}

// MustParseCard parses a card and panics on error. Intended for tests and tables.
func MustParseCard(s string) Card {
	c, err := ParseCard(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseCards parses a space or comma separated list of compact cards, e.g. "1e 7o 4c"
func ParseCards(s string) ([]Card, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ',' })
	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := ParseCard(f)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// MustParseCards is ParseCards that panics on error
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}

func parseSuit(s string) (Suit, bool) {
	switch s {
	case "e", "espada", "espadas":
		return Espada, true
	case "b", "basto", "bastos":
		return Basto, true
	case "o", "oro", "oros":
		return Oro, true
	case "c", "copa", "copas":
		return Copa, true
	}
	return 0, false
}
