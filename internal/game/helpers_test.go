package game

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"github.com/lox/trucoforbots/internal/randutil"
	"github.com/lox/trucoforbots/truco"
)

const (
	alice = "alice"
	bob   = "bob"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

// deck builds a stacked deck from compact card codes. The first three cards go
// to mano, the next three to the dealer.
func deck(t *testing.T, codes string) *truco.Deck {
	t.Helper()
	cards, err := truco.ParseCards(codes)
	require.NoError(t, err)
	return truco.NewStackedDeck(cards...)
}

// newTestGame seats alice (seat 0, mano of the first hand) and bob (seat 1,
// dealer of the first hand) and scripts the first decks.
func newTestGame(t *testing.T, decks ...*truco.Deck) *Game {
	t.Helper()
	g := NewGame(randutil.New(1),
		WithID("test-game"),
		WithLogger(quietLogger()),
		WithFirstDealer(1),
		WithDecks(decks...))
	require.NoError(t, g.RegisterPlayer(alice))
	require.NoError(t, g.RegisterPlayer(bob))
	return g
}

func mustApply(t *testing.T, g *Game, id string, cmd Command) {
	t.Helper()
	require.NoError(t, g.Apply(id, cmd), "%s %s", id, cmd)
}

func view(t *testing.T, g *Game, id string) PlayerView {
	t.Helper()
	v, err := g.View(id)
	require.NoError(t, err)
	return v
}
