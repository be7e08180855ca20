package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/trucoforbots/internal/randutil"
	"github.com/lox/trucoforbots/truco"
)

func TestViewHidesOpponentCards(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, deck(t, "1e 7e 3c 4o 7c 10b"))

	v := view(t, g, alice)
	assert.Equal(t, bob, v.Opponent)
	assert.Equal(t, 3, v.OpponentHandSize)

	data, err := json.Marshal(v)
	require.NoError(t, err)
	for _, hidden := range []string{"4 de Oro", "7 de Copa", "10 de Basto"} {
		assert.NotContains(t, string(data), hidden)
	}
	assert.Contains(t, string(data), "1 de Espada")
}

func TestViewJSONShape(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, deck(t, "1e 7e 3c 4o 7c 10b"))
	mustApply(t, g, alice, PlayAt(0))
	mustApply(t, g, bob, Do(Truco))

	data, err := json.Marshal(view(t, g, alice))
	require.NoError(t, err)

	var decoded struct {
		Hand         []truco.Card `json:"hand"`
		Table        []Play       `json:"table"`
		Turn         string       `json:"turn"`
		Bet          string       `json:"bet"`
		Waiting      bool         `json:"waiting_response"`
		LegalActions []Action     `json:"legal_actions"`
		Scores       map[string]int
	}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Len(t, decoded.Hand, 2)
	require.Len(t, decoded.Table, 1)
	assert.Equal(t, alice, decoded.Table[0].Player)
	assert.Equal(t, truco.MustParseCard("1e"), decoded.Table[0].Card)
	assert.Equal(t, alice, decoded.Turn)
	assert.Equal(t, "Truco cantado por bob", decoded.Bet)
	assert.True(t, decoded.Waiting)
	assert.Equal(t, []Action{Quiero, NoQuiero, Retruco, IrseAlMazo}, decoded.LegalActions)
	assert.Equal(t, map[string]int{alice: 0, bob: 0}, decoded.Scores)
}

func TestViewsAreIndependentCopies(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, deck(t, "1e 7e 3c 4o 7c 10b"))

	v := view(t, g, alice)
	v.Hand[0] = truco.MustParseCard("4c")
	v.Scores[alice] = 99
	v.LegalActions[0] = Quiero

	fresh := view(t, g, alice)
	assert.Equal(t, "1e", fresh.Hand[0].Code())
	assert.Equal(t, 0, fresh.Scores[alice])
	assert.Equal(t, PlayCard, fresh.LegalActions[0])
}

func TestViewAfterMatch(t *testing.T) {
	t.Parallel()
	g := NewGame(randutil.New(3), WithLogger(quietLogger()), WithTargetScore(1), WithFirstDealer(0))
	require.NoError(t, g.RegisterPlayer(alice))
	require.NoError(t, g.RegisterPlayer(bob))

	// bob is mano and gives the hand away
	mustApply(t, g, bob, Do(IrseAlMazo))

	v := view(t, g, bob)
	assert.True(t, v.GameOver)
	assert.Equal(t, alice, v.MatchWinner)
	assert.False(t, v.MyTurn)
	assert.Empty(t, v.LegalActions)
	assert.Empty(t, v.Turn)
	require.NotNil(t, v.LastResult)
	assert.Equal(t, EndFolded, v.LastResult.Reason)
}

func TestViewUnregistered(t *testing.T) {
	t.Parallel()
	g := newTestGame(t)
	_, err := g.View("carol")
	assert.ErrorIs(t, err, ErrUnregisteredPlayer)
}

func TestQuery(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, deck(t, "1e 7e 3c 4o 7c 10b"))
	mustApply(t, g, alice, PlayAt(0))

	tests := []struct {
		player   string
		property string
		want     any
	}{
		{bob, PropHand, truco.MustParseCards("4o 7c 10b")},
		{alice, PropOpponentHandSize, 3},
		{alice, PropIsMyTurn, false},
		{bob, PropIsMyTurn, true},
		{bob, PropLegalActions, []Action{PlayCard, Truco, IrseAlMazo}},
		{alice, PropLegalActions, []Action{}},
		{alice, PropScores, map[string]int{alice: 0, bob: 0}},
		{alice, PropRoundHistory, []string{}},
		{alice, PropBet, map[string]any{"level": "none", "label": "Sin truco", "waiting_response": false}},
	}

	for _, tt := range tests {
		t.Run(tt.player+"/"+tt.property, func(t *testing.T) {
			got := g.Query(tt.player, tt.property)
			assert.Equal(t, map[string]any{"player": tt.player, tt.property: tt.want}, got)
		})
	}

	table := g.Query(bob, PropTable)
	require.Contains(t, table, PropTable)
	assert.Len(t, table[PropTable], 1)

	state := g.Query(alice, PropGameState)
	sv, ok := state[PropGameState].(PlayerView)
	require.True(t, ok)
	assert.Equal(t, bob, sv.Turn)
}

func TestQueryUnknown(t *testing.T) {
	t.Parallel()
	g := newTestGame(t)

	assert.Empty(t, g.Query("carol", PropHand))
	assert.Empty(t, g.Query(alice, "opponent_hand"))
	assert.NotNil(t, g.Query(alice, "opponent_hand"))
}
