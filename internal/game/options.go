package game

import (
	"io"
	"math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/trucoforbots/truco"
)

// DefaultTargetScore is the score that ends a match
const DefaultTargetScore = 15

// DeckSource supplies the deck for each new hand
type DeckSource func(rng *rand.Rand) *truco.Deck

// Option configures a Game during creation.
type Option func(*config)

type config struct {
	id          string
	logger      *log.Logger
	targetScore int
	firstDealer int // -1 picks a random seat
	deckSource  DeckSource
}

func defaultConfig() *config {
	return &config{
		logger:      log.NewWithOptions(io.Discard, log.Options{}),
		targetScore: DefaultTargetScore,
		firstDealer: -1,
		deckSource:  truco.NewDeck,
	}
}

// WithID sets the game id. By default a UUIDv7 is generated.
func WithID(id string) Option {
	return func(c *config) {
		c.id = id
	}
}

// WithLogger sets the logger. By default the game logs nowhere.
func WithLogger(logger *log.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTargetScore changes the score that ends the match (default 15).
func WithTargetScore(score int) Option {
	return func(c *config) {
		if score > 0 {
			c.targetScore = score
		}
	}
}

// WithFirstDealer fixes the dealer of the first hand by seat (0 is the first
// registered player). Without it the first dealer is drawn from the RNG.
func WithFirstDealer(seat int) Option {
	return func(c *config) {
		if seat == 0 || seat == 1 {
			c.firstDealer = seat
		}
	}
}

// WithDeckSource replaces the deck factory used at every deal.
func WithDeckSource(src DeckSource) Option {
	return func(c *config) {
		if src != nil {
			c.deckSource = src
		}
	}
}

// WithDecks scripts the decks of the first hands, in order. Each deal hands the
// first three cards to mano and the next three to the dealer. Once the scripted
// decks run out, shuffled decks are used.
func WithDecks(decks ...*truco.Deck) Option {
	return WithDeckSource(func(rng *rand.Rand) *truco.Deck {
		if len(decks) == 0 {
			return truco.NewDeck(rng)
		}
		d := decks[0]
		decks = decks[1:]
		return d
	})
}
