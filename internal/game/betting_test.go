package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLegalActionTable(t *testing.T) {
	t.Parallel()
	tests := []struct {
		phase Phase
		level BetLevel
		want  []Action
	}{
		{PhasePlaying, BetNone, []Action{PlayCard, Truco, IrseAlMazo}},
		{PhasePlaying, BetTruco, []Action{PlayCard, IrseAlMazo}},
		{PhasePlaying, BetRetruco, []Action{PlayCard, IrseAlMazo}},
		{PhasePlaying, BetValeCuatro, []Action{PlayCard, IrseAlMazo}},
		{PhaseAwaitingResponse, BetTruco, []Action{Quiero, NoQuiero, Retruco, IrseAlMazo}},
		{PhaseAwaitingResponse, BetRetruco, []Action{Quiero, NoQuiero, ValeCuatro, IrseAlMazo}},
		{PhaseAwaitingResponse, BetValeCuatro, []Action{Quiero, NoQuiero, IrseAlMazo}},
		{PhaseAwaitingResponse, BetNone, []Action{}},
		{PhaseWaitingForPlayers, BetNone, []Action{}},
		{PhaseGameOver, BetTruco, []Action{}},
	}

	for _, tt := range tests {
		t.Run(tt.phase.String()+"/"+tt.level.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, legalActions(tt.phase, tt.level))
		})
	}
}

func TestLegalActionsAreCopies(t *testing.T) {
	t.Parallel()
	actions := legalActions(PhasePlaying, BetNone)
	actions[0] = Quiero
	assert.Equal(t, PlayCard, legalActions(PhasePlaying, BetNone)[0])
}

func TestBetLevelPoints(t *testing.T) {
	t.Parallel()
	tests := []struct {
		level  BetLevel
		accept int
		reject int
	}{
		{BetNone, 1, 1},
		{BetTruco, 2, 1},
		{BetRetruco, 3, 2},
		{BetValeCuatro, 4, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.accept, tt.level.Points(), tt.level.String())
		assert.Equal(t, tt.reject, tt.level.RejectPoints(), tt.level.String())
	}
}

func TestBetState(t *testing.T) {
	t.Parallel()
	b := newBetState()
	assert.Equal(t, -1, b.Caller)
	assert.Equal(t, 1, b.settled())

	b.raise(0, BetTruco)
	assert.True(t, b.Pending)
	assert.Equal(t, 1, b.settled(), "a pending truco pays the refusal value")

	b.accept()
	assert.False(t, b.Pending)
	assert.Equal(t, 2, b.settled())

	b.raise(1, BetRetruco)
	assert.Equal(t, 1, b.Caller)
	assert.Equal(t, 2, b.settled())
}

func TestEscalationToValeCuatro(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, deck(t, "1e 7e 3c 4o 7c 10b"))

	mustApply(t, g, alice, Do(Truco))
	mustApply(t, g, bob, Do(Retruco))

	v := view(t, g, alice)
	assert.Equal(t, BetRetruco, v.BetLevel)
	assert.Equal(t, "Retruco cantado por bob", v.Bet)
	assert.ElementsMatch(t, []Action{Quiero, NoQuiero, ValeCuatro, IrseAlMazo}, v.LegalActions)
	assert.Empty(t, view(t, g, bob).LegalActions, "caller waits for the answer")

	mustApply(t, g, alice, Do(ValeCuatro))
	v = view(t, g, bob)
	assert.Equal(t, BetValeCuatro, v.BetLevel)
	assert.ElementsMatch(t, []Action{Quiero, NoQuiero, IrseAlMazo}, v.LegalActions)

	mustApply(t, g, bob, Do(Quiero))
	v = view(t, g, alice)
	assert.Equal(t, PhasePlaying, v.Phase)
	assert.Equal(t, "Vale Cuatro querido", v.Bet)
	assert.Equal(t, alice, v.Turn, "mano leads the first round after the accept")
	assert.ElementsMatch(t, []Action{PlayCard, IrseAlMazo}, v.LegalActions)

	// alice: 1e 7e 3c, bob: 4o 7c 10b; alice wins the first two rounds
	mustApply(t, g, alice, PlayAt(0))
	mustApply(t, g, bob, PlayAt(0))
	mustApply(t, g, alice, PlayAt(0))
	mustApply(t, g, bob, PlayAt(0))
	assert.Equal(t, map[string]int{alice: 4, bob: 0}, g.Scores())
}

func TestRejectionPoints(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		script []struct {
			id  string
			cmd Command
		}
		want map[string]int
	}{
		{
			name: "truco refused",
			script: []struct {
				id  string
				cmd Command
			}{{alice, Do(Truco)}, {bob, Do(NoQuiero)}},
			want: map[string]int{alice: 1, bob: 0},
		},
		{
			name: "retruco refused",
			script: []struct {
				id  string
				cmd Command
			}{{alice, Do(Truco)}, {bob, Do(Retruco)}, {alice, Do(NoQuiero)}},
			want: map[string]int{alice: 0, bob: 2},
		},
		{
			name: "vale cuatro refused",
			script: []struct {
				id  string
				cmd Command
			}{{alice, Do(Truco)}, {bob, Do(Retruco)}, {alice, Do(ValeCuatro)}, {bob, Do(NoQuiero)}},
			want: map[string]int{alice: 3, bob: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := newTestGame(t, deck(t, "1e 5o 6c 4o 7c 10b"))
			for _, step := range tt.script {
				mustApply(t, g, step.id, step.cmd)
			}
			assert.Equal(t, tt.want, g.Scores())
			require.Len(t, g.Results(), 1)
			assert.Equal(t, EndRejected, g.Results()[0].Reason)
			assert.Equal(t, 2, view(t, g, alice).HandNumber)
		})
	}
}

func TestIrseAlMazo(t *testing.T) {
	t.Parallel()

	t.Run("without a bet pays one", func(t *testing.T) {
		t.Parallel()
		g := newTestGame(t, deck(t, "1e 5o 6c 4o 7c 10b"))
		mustApply(t, g, alice, Do(IrseAlMazo))
		assert.Equal(t, map[string]int{alice: 0, bob: 1}, g.Scores())
		assert.Equal(t, EndFolded, g.Results()[0].Reason)
	})

	t.Run("after an accepted truco pays two", func(t *testing.T) {
		t.Parallel()
		g := newTestGame(t, deck(t, "1e 5o 6c 4o 7c 10b"))
		mustApply(t, g, alice, Do(Truco))
		mustApply(t, g, bob, Do(Quiero))
		mustApply(t, g, alice, PlayAt(0))
		mustApply(t, g, bob, Do(IrseAlMazo))
		assert.Equal(t, map[string]int{alice: 2, bob: 0}, g.Scores())
	})

	t.Run("facing a retruco pays the refusal", func(t *testing.T) {
		t.Parallel()
		g := newTestGame(t, deck(t, "1e 5o 6c 4o 7c 10b"))
		mustApply(t, g, alice, Do(Truco))
		mustApply(t, g, bob, Do(Retruco))
		mustApply(t, g, alice, Do(IrseAlMazo))
		assert.Equal(t, map[string]int{alice: 0, bob: 2}, g.Scores())
	})

	t.Run("mid round by the second player", func(t *testing.T) {
		t.Parallel()
		g := newTestGame(t, deck(t, "1e 5o 6c 4o 7c 10b"))
		mustApply(t, g, alice, PlayAt(0))
		mustApply(t, g, bob, Do(IrseAlMazo))
		assert.Equal(t, map[string]int{alice: 1, bob: 0}, g.Scores())
		v := view(t, g, bob)
		assert.Empty(t, v.Table, "the new deal clears the table")
		assert.Equal(t, bob, v.Mano)
	})
}

func TestQuieroRestoresTurn(t *testing.T) {
	t.Parallel()

	t.Run("to the player who still owes a card", func(t *testing.T) {
		t.Parallel()
		g := newTestGame(t, deck(t, "1e 5o 6c 4o 7c 10b"))
		mustApply(t, g, alice, PlayAt(0))
		mustApply(t, g, bob, Do(Truco))
		assert.Equal(t, alice, view(t, g, alice).Turn)
		mustApply(t, g, alice, Do(Quiero))
		assert.Equal(t, bob, view(t, g, alice).Turn)
	})

	t.Run("to the last round winner", func(t *testing.T) {
		t.Parallel()
		// bob's 3 beats alice's 4 in round one
		g := newTestGame(t, deck(t, "4o 5o 6c 3e 7c 10b"))
		mustApply(t, g, alice, PlayAt(0))
		mustApply(t, g, bob, PlayAt(0))
		require.Equal(t, bob, view(t, g, bob).Turn)

		mustApply(t, g, bob, Do(Truco))
		mustApply(t, g, alice, Do(Retruco))
		mustApply(t, g, bob, Do(Quiero))
		v := view(t, g, bob)
		assert.Equal(t, bob, v.Turn)
		assert.Equal(t, BetRetruco, v.BetLevel)
		assert.Equal(t, "Retruco querido", v.Bet)
	})

	t.Run("to mano after a parda", func(t *testing.T) {
		t.Parallel()
		g := newTestGame(t, deck(t, "3e 5o 6c 3c 7c 10b"))
		mustApply(t, g, alice, PlayAt(0))
		mustApply(t, g, bob, PlayAt(0))
		mustApply(t, g, alice, Do(Truco))
		mustApply(t, g, bob, Do(Quiero))
		assert.Equal(t, alice, view(t, g, alice).Turn)
	})
}

func TestNoRaiseAfterAccept(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, deck(t, "1e 5o 6c 4o 7c 10b"))
	mustApply(t, g, alice, Do(Truco))
	mustApply(t, g, bob, Do(Quiero))

	assert.ErrorIs(t, g.Apply(alice, Do(Truco)), ErrIllegalAction)
	assert.ErrorIs(t, g.Apply(alice, Do(Retruco)), ErrIllegalAction)
	assert.Equal(t, BetTruco, view(t, g, alice).BetLevel)
}
