package bot

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/trucoforbots/internal/game"
	"github.com/lox/trucoforbots/internal/randutil"
	"github.com/lox/trucoforbots/truco"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"calling", "fold", "maniac", "random", "tag"}, Names())
}

func TestNewUnknownStrategy(t *testing.T) {
	_, err := New("shark", randutil.New(1), quietLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shark")
}

// Every strategy must only ever issue legal commands, whoever it plays against.
func TestStrategiesPlayLegalMatches(t *testing.T) {
	for _, a := range Names() {
		for _, b := range Names() {
			t.Run(a+"_vs_"+b, func(t *testing.T) {
				t.Parallel()
				for seed := range int64(5) {
					playMatch(t, seed, a, b)
				}
			})
		}
	}
}

func playMatch(t *testing.T, seed int64, a, b string) {
	t.Helper()
	g := game.NewGame(randutil.New(seed), game.WithLogger(quietLogger()))
	require.NoError(t, g.RegisterPlayer(a+"-1"))
	require.NoError(t, g.RegisterPlayer(b+"-2"))

	bots := map[string]Bot{}
	for id, name := range map[string]string{a + "-1": a, b + "-2": b} {
		bot, err := New(name, randutil.Derive(seed, len(bots)), quietLogger())
		require.NoError(t, err)
		bots[id] = bot
	}

	for steps := 0; !g.IsGameOver(); steps++ {
		require.Less(t, steps, 5000)
		for id, bot := range bots {
			v, err := g.View(id)
			require.NoError(t, err)
			if !v.MyTurn {
				continue
			}
			d := bot.MakeDecision(v)
			require.NoError(t, g.Apply(id, d.Command), "%s chose %s (%s)", id, d.Command, d.Reasoning)
		}
	}
}

func view(hand string, legal ...game.Action) game.PlayerView {
	return game.PlayerView{
		Player:       "me",
		Opponent:     "them",
		Hand:         truco.MustParseCards(hand),
		Table:        []game.Play{},
		MyTurn:       true,
		LegalActions: legal,
	}
}

func facing(v game.PlayerView, code string) game.PlayerView {
	v.Table = []game.Play{{Seat: 1, Player: "them", Card: truco.MustParseCard(code)}}
	return v
}

func responding(v game.PlayerView, level game.BetLevel) game.PlayerView {
	v.WaitingResponse = true
	v.BetLevel = level
	return v
}

func TestRandBotExpandsCards(t *testing.T) {
	b := NewRandBot(randutil.New(1), quietLogger())
	v := view("1e 4o 7c", game.PlayCard, game.Truco, game.IrseAlMazo)

	seen := map[game.Command]int{}
	for range 500 {
		seen[b.MakeDecision(v).Command]++
	}
	// three cards plus truco and mazo
	assert.Len(t, seen, 5)
	for cmd, n := range seen {
		assert.Greater(t, n, 50, "%s chosen %d times", cmd, n)
	}
}

func TestManiacBot(t *testing.T) {
	b := NewManiacBot(randutil.New(1), quietLogger())

	d := b.MakeDecision(view("4o 5c 6b", game.PlayCard, game.Truco, game.IrseAlMazo))
	assert.Equal(t, game.Do(game.Truco), d.Command)

	d = b.MakeDecision(responding(view("4o 5c 6b", game.Quiero, game.NoQuiero, game.Retruco, game.IrseAlMazo), game.BetTruco))
	assert.Equal(t, game.Do(game.Retruco), d.Command)

	d = b.MakeDecision(responding(view("4o 5c 6b", game.Quiero, game.NoQuiero, game.IrseAlMazo), game.BetValeCuatro))
	assert.Equal(t, game.Do(game.Quiero), d.Command)

	d = b.MakeDecision(facing(view("4o 1b 6b", game.PlayCard, game.IrseAlMazo), "3c"))
	assert.Equal(t, game.PlayAt(1), d.Command)
}

func TestCallBot(t *testing.T) {
	b := NewCallBot(quietLogger())

	tests := []struct {
		name string
		view game.PlayerView
		want game.Command
	}{
		{
			name: "never raises",
			view: view("1e 7e 3c", game.PlayCard, game.Truco, game.IrseAlMazo),
			want: game.PlayAt(2),
		},
		{
			name: "accepts truco",
			view: responding(view("4o 5c 6b", game.Quiero, game.NoQuiero, game.Retruco, game.IrseAlMazo), game.BetTruco),
			want: game.Do(game.Quiero),
		},
		{
			name: "accepts retruco",
			view: responding(view("4o 5c 6b", game.Quiero, game.NoQuiero, game.ValeCuatro, game.IrseAlMazo), game.BetRetruco),
			want: game.Do(game.Quiero),
		},
		{
			name: "refuses vale cuatro",
			view: responding(view("1e 7e 3c", game.Quiero, game.NoQuiero, game.IrseAlMazo), game.BetValeCuatro),
			want: game.Do(game.NoQuiero),
		},
		{
			name: "beats the table cheaply",
			view: facing(view("1e 2o 3c", game.PlayCard, game.IrseAlMazo), "12b"),
			want: game.PlayAt(1),
		},
		{
			name: "dumps when it cannot win",
			view: facing(view("4o 2o 3c", game.PlayCard, game.IrseAlMazo), "1e"),
			want: game.PlayAt(0),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, b.MakeDecision(tt.view).Command)
		})
	}
}

func TestFoldBot(t *testing.T) {
	b := NewFoldBot(quietLogger())

	d := b.MakeDecision(responding(view("1e 7e 3c", game.Quiero, game.NoQuiero, game.Retruco, game.IrseAlMazo), game.BetTruco))
	assert.Equal(t, game.Do(game.NoQuiero), d.Command)

	d = b.MakeDecision(view("1e 7e 4c", game.PlayCard, game.Truco, game.IrseAlMazo))
	assert.Equal(t, game.PlayAt(2), d.Command)
}

func TestTAGBot(t *testing.T) {
	b := NewTAGBot(randutil.New(1), quietLogger())

	d := b.MakeDecision(view("1e 7e 3c", game.PlayCard, game.Truco, game.IrseAlMazo))
	assert.Equal(t, game.Do(game.Truco), d.Command, "premium hand raises")

	d = b.MakeDecision(responding(view("1b 4c 5c", game.Quiero, game.NoQuiero, game.Retruco, game.IrseAlMazo), game.BetTruco))
	assert.Equal(t, game.Do(game.Retruco), d.Command)

	v := facing(view("7e 2o 4c", game.PlayCard, game.IrseAlMazo), "12b")
	v.LegalActions = []game.Action{game.PlayCard, game.IrseAlMazo}
	d = b.MakeDecision(v)
	assert.Equal(t, game.PlayAt(1), d.Command, "cheapest winner")

	v = view("7e 4c", game.PlayCard, game.IrseAlMazo)
	v.RoundHistory = []string{"1ra:me"}
	d = b.MakeDecision(v)
	assert.Equal(t, game.PlayAt(0), d.Command, "leads high after winning a round")
}

func TestRoundRecord(t *testing.T) {
	v := view("1e")
	v.RoundHistory = []string{"1ra:me", "2da:Parda", "3ra:them"}
	won, lost := roundRecord(v)
	assert.Equal(t, 1, won)
	assert.Equal(t, 1, lost)
}
