package truco

import (
	"math/rand/v2"
)

// DeckSize is the number of cards in a Spanish truco deck
const DeckSize = 40

// Deck represents a 40-card Spanish deck
type Deck struct {
	cards [DeckSize]Card
	size  int
	next  int
	rng   *rand.Rand
}

// NewDeck creates a new deck shuffled with the given RNG
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{rng: rng, size: DeckSize}

	i := 0
	for _, suit := range Suits {
		for _, rank := range Ranks {
			d.cards[i] = Card{Suit: suit, Rank: rank}
			i++
		}
	}

	d.Shuffle()
	return d
}

// NewStackedDeck returns an unshuffled deck that deals the given cards in order.
// Used to script hands in tests.
func NewStackedDeck(cards ...Card) *Deck {
	if len(cards) > DeckSize {
		panic("truco: stacked deck larger than a full deck")
	}
	d := &Deck{size: len(cards)}
	copy(d.cards[:], cards)
	return d
}

// Shuffle shuffles the deck using Fisher-Yates and resets the deal position.
// A deck without an RNG (stacked) keeps its order.
func (d *Deck) Shuffle() {
	d.next = 0
	if d.rng == nil {
		return
	}
	for i := d.size - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal deals n cards from the deck, or nil if not enough remain
func (d *Deck) Deal(n int) []Card {
	if d.next+n > d.size {
		return nil
	}
	cards := make([]Card, n)
	copy(cards, d.cards[d.next:d.next+n])
	d.next += n
	return cards
}

// CardsRemaining returns the number of cards left in the deck
func (d *Deck) CardsRemaining() int {
	return d.size - d.next
}

// Cards returns the undealt cards in deal order
func (d *Deck) Cards() []Card {
	out := make([]Card, d.size-d.next)
	copy(out, d.cards[d.next:d.size])
	return out
}
