// Package simulator plays bot-vs-bot truco matches synchronously and
// aggregates the results.
package simulator

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/trucoforbots/internal/bot"
	"github.com/lox/trucoforbots/internal/game"
	"github.com/lox/trucoforbots/internal/randutil"
	"github.com/lox/trucoforbots/internal/statistics"
)

const (
	heroID     = "hero"
	opponentID = "villain"

	// maxSteps bounds a single match; a legal match is a few hundred commands
	maxSteps = 10_000
)

// Config holds configuration for running simulations
type Config struct {
	Matches      int
	HeroType     string
	OpponentType string // a strategy name or "mixed"
	Seed         int64
	TargetScore  int
	Timeout      time.Duration
	Logger       *log.Logger
}

// Simulator runs truco match simulations
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Logger == nil {
		config.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if config.TargetScore <= 0 {
		config.TargetScore = game.DefaultTargetScore
	}
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	if config.HeroType == "" {
		config.HeroType = "tag"
	}
	return &Simulator{config: config}
}

// Run plays every match twice, once from each seat with the same deck seed,
// and returns the hero's statistics along with a description of the opponents.
func (s *Simulator) Run() (*statistics.Statistics, string, error) {
	stats := &statistics.Statistics{}

	opponentInfo := s.config.OpponentType
	var opponentMix []string
	if s.config.OpponentType == "mixed" {
		opponentMix = createMixedOpponentTypes()
		opponentInfo = fmt.Sprintf("mixed(%s)", strings.Join(opponentMix, ","))
	}

	for i := range s.config.Matches {
		opponent := s.config.OpponentType
		if opponentMix != nil {
			opponent = opponentMix[i%len(opponentMix)]
		}
		seed := s.config.Seed + int64(i)

		for seat := range 2 {
			result, err := s.playMatchWithTimeout(opponent, seed, seat)
			if err != nil {
				return nil, "", fmt.Errorf("match %d seat %d: %w", i+1, seat, err)
			}
			stats.Add(result)
		}
	}

	if err := stats.Validate(); err != nil {
		return nil, "", fmt.Errorf("statistics validation failed: %w", err)
	}
	return stats, opponentInfo, nil
}

// playMatchWithTimeout runs a single match with hang protection
func (s *Simulator) playMatchWithTimeout(opponent string, seed int64, seat int) (statistics.MatchResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Timeout)
	defer cancel()

	type outcome struct {
		result statistics.MatchResult
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		r, err := s.playMatch(opponent, seed, seat)
		done <- outcome{r, err}
	}()

	select {
	case out := <-done:
		return out.result, out.err
	case <-ctx.Done():
		return statistics.MatchResult{}, fmt.Errorf("match timed out after %v (seed: %d, seat: %d)", s.config.Timeout, seed, seat)
	}
}

// playMatch plays one match to completion with the hero in seat
func (s *Simulator) playMatch(opponent string, seed int64, seat int) (statistics.MatchResult, error) {
	g := game.NewGame(randutil.New(seed),
		game.WithLogger(s.config.Logger),
		game.WithTargetScore(s.config.TargetScore),
		game.WithFirstDealer(0))

	order := []string{heroID, opponentID}
	if seat == 1 {
		order = []string{opponentID, heroID}
	}
	for _, id := range order {
		if err := g.RegisterPlayer(id); err != nil {
			return statistics.MatchResult{}, err
		}
	}

	// Bots draw from streams keyed by role so both seatings see the same choices.
	hero, err := bot.New(s.config.HeroType, randutil.Derive(seed, 1), s.config.Logger)
	if err != nil {
		return statistics.MatchResult{}, err
	}
	villain, err := bot.New(opponent, randutil.Derive(seed, 2), s.config.Logger)
	if err != nil {
		return statistics.MatchResult{}, err
	}
	bots := map[string]bot.Bot{heroID: hero, opponentID: villain}

	for steps := 0; !g.IsGameOver(); steps++ {
		if steps >= maxSteps {
			return statistics.MatchResult{}, fmt.Errorf("match did not finish in %d steps (seed: %d)", maxSteps, seed)
		}
		for _, id := range order {
			view, err := g.View(id)
			if err != nil {
				return statistics.MatchResult{}, err
			}
			if !view.MyTurn {
				continue
			}
			decision := bots[id].MakeDecision(view)
			if err := g.Apply(id, decision.Command); err != nil {
				return statistics.MatchResult{}, fmt.Errorf("%s (%s) chose %s: %w", id, decision.Reasoning, decision.Command, err)
			}
		}
	}

	return summarize(g, seed, seat), nil
}

func summarize(g *game.Game, seed int64, seat int) statistics.MatchResult {
	scores := g.Scores()
	winner, _ := g.Winner()
	result := statistics.MatchResult{
		Margin:    scores[heroID] - scores[opponentID],
		Won:       winner == heroID,
		Seed:      seed,
		Seat:      seat,
		HeroScore: scores[heroID],
		OppScore:  scores[opponentID],
	}
	for _, hand := range g.Results() {
		result.Hands++
		if hand.Winner == heroID {
			result.HeroPts[hand.Reason] += hand.Points
		} else {
			result.OppPts[hand.Reason] += hand.Points
		}
	}
	return result
}

// createMixedOpponentTypes returns a fixed mix of opponent types for consistent testing
func createMixedOpponentTypes() []string {
	return []string{"tag", "random", "tag", "maniac", "calling"}
}

// RunSimulation is a convenience function for running a simulation with basic parameters
func RunSimulation(matches int, hero, opponent string, seed int64, timeout time.Duration, logger *log.Logger) (*statistics.Statistics, string, error) {
	return New(Config{
		Matches:      matches,
		HeroType:     hero,
		OpponentType: opponent,
		Seed:         seed,
		Timeout:      timeout,
		Logger:       logger,
	}).Run()
}

// PrintSummary writes a summary of simulation results
func PrintSummary(w io.Writer, stats *statistics.Statistics, hero, opponent string) {
	low, high := stats.ConfidenceInterval95()

	fmt.Fprintf(w, "\n=== FINAL RESULTS %s vs %s ===\n", hero, opponent)
	fmt.Fprintf(w, "Matches played: %d (%d hands)\n", stats.Matches, stats.Hands)
	fmt.Fprintf(w, "Win rate: %.1f%%\n", stats.WinRate()*100)

	fmt.Fprintf(w, "\n=== POINT MARGIN ===\n")
	fmt.Fprintf(w, "Mean: %.3f points/match\n", stats.Mean())
	fmt.Fprintf(w, "Median: %.3f points/match\n", stats.Median())
	fmt.Fprintf(w, "Std Dev: %.3f\n", stats.StdDev())
	fmt.Fprintf(w, "95%% CI: [%.3f, %.3f]\n", low, high)
	fmt.Fprintf(w, "Percentiles: P5=%.1f, P25=%.1f, P75=%.1f, P95=%.1f\n",
		stats.Percentile(0.05), stats.Percentile(0.25), stats.Percentile(0.75), stats.Percentile(0.95))

	fmt.Fprintf(w, "\n=== HOW POINTS WERE WON ===\n")
	for _, reason := range []game.EndReason{game.EndPlayed, game.EndRejected, game.EndFolded} {
		fmt.Fprintf(w, "%-9s hero %4d (%.1f%%), opponent %4d\n",
			reason, stats.HeroPoints[reason], stats.ReasonShare(reason)*100, stats.OppPoints[reason])
	}

	fmt.Fprintf(w, "\n=== SEAT ANALYSIS ===\n")
	for seat, ss := range stats.SeatResults {
		if ss.Matches > 0 {
			fmt.Fprintf(w, "Seat %d: %d matches, %d wins, %.3f points/match\n", seat, ss.Matches, ss.Wins, stats.SeatMean(seat))
		}
	}
}
