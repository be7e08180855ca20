package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/lox/trucoforbots/internal/game"
)

// MatchResult is the outcome of one match from the hero's side
type MatchResult struct {
	Margin    int    // hero points minus opponent points
	Won       bool   // hero reached the target first
	Seed      int64  // RNG seed for this match (for replay)
	Seat      int    // hero's seat, 0 registers first
	Hands     int    // hands dealt in the match
	HeroPts   [3]int // points indexed by game.EndReason
	OppPts    [3]int
	HeroScore int
	OppScore  int
}

// SeatStats tracks results for one seat
type SeatStats struct {
	Matches   int     `json:"matches"`
	Wins      int     `json:"wins"`
	SumMargin float64 `json:"sum_margin"`
}

// Statistics aggregates simulated matches
type Statistics struct {
	Matches    int
	SumMargin  float64
	SumMargin2 float64   // sum of squares for variance calculation
	Values     []float64 // every margin, for median and percentiles

	Wins  int
	Hands int

	// Points split by how each hand ended, indexed by game.EndReason
	HeroPoints [3]int
	OppPoints  [3]int
	HeroTotal  int // final scores summed, for the conservation check
	OppTotal   int

	SeatResults [2]SeatStats
}

// Mean returns the average point margin per match
func (s *Statistics) Mean() float64 {
	if s.Matches == 0 {
		return 0
	}
	return s.SumMargin / float64(s.Matches)
}

// Variance returns the sample variance of the margins
func (s *Statistics) Variance() float64 {
	if s.Matches < 2 {
		return 0
	}
	mean := s.Mean()
	return max(0, (s.SumMargin2-float64(s.Matches)*mean*mean)/float64(s.Matches-1))
}

// StdDev returns the sample standard deviation of the margins
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Matches == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Matches))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean margin
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// WinRate is the fraction of matches the hero won
func (s *Statistics) WinRate() float64 {
	if s.Matches == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Matches)
}

// Add incorporates a match result
func (s *Statistics) Add(result MatchResult) {
	margin := float64(result.Margin)
	s.Matches++
	s.SumMargin += margin
	s.SumMargin2 += margin * margin
	s.Values = append(s.Values, margin)
	s.Hands += result.Hands

	if result.Won {
		s.Wins++
	}
	for i := range s.HeroPoints {
		s.HeroPoints[i] += result.HeroPts[i]
		s.OppPoints[i] += result.OppPts[i]
	}
	s.HeroTotal += result.HeroScore
	s.OppTotal += result.OppScore

	if seat := result.Seat; seat == 0 || seat == 1 {
		s.SeatResults[seat].Matches++
		s.SeatResults[seat].SumMargin += margin
		if result.Won {
			s.SeatResults[seat].Wins++
		}
	}
}

// Median returns the median margin
func (s *Statistics) Median() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Percentile returns the margin at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// SeatMean returns the mean margin when the hero sat in seat
func (s *Statistics) SeatMean(seat int) float64 {
	if seat < 0 || seat > 1 || s.SeatResults[seat].Matches == 0 {
		return 0
	}
	return s.SeatResults[seat].SumMargin / float64(s.SeatResults[seat].Matches)
}

// ReasonShare is the fraction of the hero's points earned by hands that ended for reason
func (s *Statistics) ReasonShare(reason game.EndReason) float64 {
	total := sum(s.HeroPoints)
	if total == 0 {
		return 0
	}
	return float64(s.HeroPoints[reason]) / float64(total)
}

// IsLedgerBalanced checks that every point scored is accounted to a hand
func (s *Statistics) IsLedgerBalanced() bool {
	return sum(s.HeroPoints) == s.HeroTotal && sum(s.OppPoints) == s.OppTotal
}

// Validate performs consistency checks on the aggregated data
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: hero %v vs %d, opponent %v vs %d",
			s.HeroPoints, s.HeroTotal, s.OppPoints, s.OppTotal)
	}
	if s.Matches <= 0 {
		return fmt.Errorf("invalid match count: %d", s.Matches)
	}
	if len(s.Values) != s.Matches {
		return fmt.Errorf("values length (%d) does not match match count (%d)", len(s.Values), s.Matches)
	}
	if s.Wins > s.Matches {
		return fmt.Errorf("wins (%d) exceed matches (%d)", s.Wins, s.Matches)
	}
	if seats := s.SeatResults[0].Matches + s.SeatResults[1].Matches; seats != s.Matches {
		return fmt.Errorf("seat totals (%d) do not match match count (%d)", seats, s.Matches)
	}
	if margin := s.HeroTotal - s.OppTotal; math.Abs(float64(margin)-s.SumMargin) > 1e-6 {
		return fmt.Errorf("margin sum %.0f does not match scores %d", s.SumMargin, margin)
	}
	return nil
}

func sum(points [3]int) int {
	return points[0] + points[1] + points[2]
}

// Report is the machine-readable summary written by simulate --output
type Report struct {
	Hero     string         `json:"hero"`
	Opponent string         `json:"opponent"`
	Seed     int64          `json:"seed"`
	Matches  int            `json:"matches"`
	Hands    int            `json:"hands"`
	Wins     int            `json:"wins"`
	WinRate  float64        `json:"win_rate"`
	Mean     float64        `json:"mean_margin"`
	Median   float64        `json:"median_margin"`
	StdDev   float64        `json:"std_dev"`
	CI95     [2]float64     `json:"ci95"`
	Points   map[string]int `json:"hero_points"`
	Against  map[string]int `json:"opponent_points"`
	Seats    [2]SeatStats   `json:"seats"`
}

// Report summarizes the aggregate for export
func (s *Statistics) Report(hero, opponent string, seed int64) Report {
	low, high := s.ConfidenceInterval95()
	r := Report{
		Hero:     hero,
		Opponent: opponent,
		Seed:     seed,
		Matches:  s.Matches,
		Hands:    s.Hands,
		Wins:     s.Wins,
		WinRate:  s.WinRate(),
		Mean:     s.Mean(),
		Median:   s.Median(),
		StdDev:   s.StdDev(),
		CI95:     [2]float64{low, high},
		Points:   make(map[string]int, len(s.HeroPoints)),
		Against:  make(map[string]int, len(s.OppPoints)),
		Seats:    s.SeatResults,
	}
	for i := range s.HeroPoints {
		reason := game.EndReason(i).String()
		r.Points[reason] = s.HeroPoints[i]
		r.Against[reason] = s.OppPoints[i]
	}
	return r
}
