package truco

import (
	"slices"
	"testing"

	"github.com/lox/trucoforbots/internal/randutil"
)

func TestNewDeckHasFortyDistinctCards(t *testing.T) {
	t.Parallel()
	d := NewDeck(randutil.New(42))

	if d.CardsRemaining() != DeckSize {
		t.Fatalf("expected %d cards, got %d", DeckSize, d.CardsRemaining())
	}

	seen := make(map[Card]bool)
	for _, c := range d.Deal(DeckSize) {
		if !c.Rank.Valid() {
			t.Errorf("invalid rank dealt: %v", c)
		}
		if seen[c] {
			t.Errorf("duplicate card %v", c)
		}
		seen[c] = true
	}
	if len(seen) != DeckSize {
		t.Errorf("expected %d distinct cards, got %d", DeckSize, len(seen))
	}
	if d.CardsRemaining() != 0 {
		t.Errorf("deck should be empty, has %d", d.CardsRemaining())
	}
	if d.Deal(1) != nil {
		t.Error("dealing from an empty deck should return nil")
	}
}

func TestDeckShuffleDeterministic(t *testing.T) {
	t.Parallel()
	a := NewDeck(randutil.New(7)).Deal(DeckSize)
	b := NewDeck(randutil.New(7)).Deal(DeckSize)
	c := NewDeck(randutil.New(8)).Deal(DeckSize)

	if !slices.Equal(a, b) {
		t.Error("same seed should produce the same order")
	}
	if slices.Equal(a, c) {
		t.Error("different seeds should produce different orders")
	}
}

func TestStackedDeck(t *testing.T) {
	t.Parallel()
	cards, _ := ParseCards("1e 4o 7o 5c")
	d := NewStackedDeck(cards...)
	d.Shuffle()

	if got := d.Deal(2); !slices.Equal(got, cards[:2]) {
		t.Errorf("stacked deck dealt %v, want %v", got, cards[:2])
	}
	if got := d.Cards(); !slices.Equal(got, cards[2:]) {
		t.Errorf("remaining cards %v, want %v", got, cards[2:])
	}
}
