package runner

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/trucoforbots/internal/bot"
	"github.com/lox/trucoforbots/internal/game"
	"github.com/lox/trucoforbots/internal/randutil"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func newMatch(t *testing.T, seed int64, strategies ...string) (*game.Game, []*Agent, Config) {
	t.Helper()
	cfg := Config{
		Clock:        quartz.NewMock(t),
		PollInterval: 10 * time.Millisecond,
		Logger:       quietLogger(),
	}

	g := game.NewGame(randutil.New(seed), game.WithLogger(quietLogger()))
	var agents []*Agent
	for i, name := range strategies {
		id := name + "-" + string(rune('a'+i))
		require.NoError(t, g.RegisterPlayer(id))
		b, err := bot.New(name, randutil.Derive(seed, i), quietLogger())
		require.NoError(t, err)
		agents = append(agents, NewAgent(id, g, b, cfg))
	}
	return g, agents, cfg
}

func TestRunMatchWithMockClock(t *testing.T) {
	t.Parallel()
	g, agents, cfg := newMatch(t, 5, "random", "calling")
	mClock := cfg.Clock.(*quartz.Mock)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	type outcome struct {
		result Result
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		r, err := RunMatch(ctx, g, agents...)
		done <- outcome{r, err}
	}()

	for {
		select {
		case out := <-done:
			require.NoError(t, out.err)
			assert.True(t, g.IsGameOver())
			winner, _ := g.Winner()
			assert.Equal(t, winner, out.result.Winner)
			assert.GreaterOrEqual(t, out.result.Scores[winner], game.DefaultTargetScore)
			assert.NotEmpty(t, out.result.Hands)
			return
		case <-ctx.Done():
			t.Fatal("match did not finish")
		default:
			mClock.Advance(cfg.PollInterval).MustWait(ctx)
		}
	}
}

func TestAgentStopsOnCancel(t *testing.T) {
	t.Parallel()
	g, agents, _ := newMatch(t, 1, "random", "random")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RunMatch(ctx, g, agents...)
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, g.IsGameOver(), "nothing ticks without the clock advancing")
}

func TestAgentRequiresRegisteredPlayer(t *testing.T) {
	t.Parallel()
	g := game.NewGame(randutil.New(1), game.WithLogger(quietLogger()))
	b, err := bot.New("random", randutil.New(2), quietLogger())
	require.NoError(t, err)

	a := NewAgent("ghost", g, b, Config{Clock: quartz.NewMock(t), Logger: quietLogger()})
	err = a.Run(context.Background())
	require.ErrorIs(t, err, game.ErrUnregisteredPlayer)
}

func TestRunMatchNeedsAgents(t *testing.T) {
	t.Parallel()
	g := game.NewGame(randutil.New(1))
	_, err := RunMatch(context.Background(), g)
	assert.Error(t, err)
}

func TestRealClockMatch(t *testing.T) {
	t.Parallel()
	g := game.NewGame(randutil.New(8), game.WithLogger(quietLogger()), game.WithTargetScore(3))
	cfg := Config{PollInterval: time.Millisecond, Logger: quietLogger()}

	var agents []*Agent
	for i, id := range []string{"maniac", "tag"} {
		require.NoError(t, g.RegisterPlayer(id))
		b, err := bot.New(id, randutil.Derive(8, i), quietLogger())
		require.NoError(t, err)
		agents = append(agents, NewAgent(id, g, b, cfg))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	result, err := RunMatch(ctx, g, agents...)
	require.NoError(t, err)
	assert.Contains(t, []string{"maniac", "tag"}, result.Winner)
	assert.GreaterOrEqual(t, result.Scores[result.Winner], 3)
}
