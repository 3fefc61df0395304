// Package statistics aggregates game results: the persisted win/streak
// record shown to players, and running samples used by the simulator.
package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/lox/memorymatch/internal/deck"
)

// DifficultyStats tracks results for one difficulty
type DifficultyStats struct {
	Games       int  `json:"games"`
	Wins        int  `json:"wins"`
	TotalTime   int  `json:"totalTime"`
	FastestTime *int `json:"fastestTime"`
}

// WinRate returns wins as a percentage of games
func (d DifficultyStats) WinRate() float64 {
	if d.Games == 0 {
		return 0
	}
	return float64(d.Wins) / float64(d.Games) * 100
}

// AverageTime returns the mean game length in whole seconds
func (d DifficultyStats) AverageTime() int {
	if d.Games == 0 {
		return 0
	}
	return int(math.Round(float64(d.TotalTime) / float64(d.Games)))
}

// Stats is the aggregate single-player record
type Stats struct {
	TotalGames    int                        `json:"totalGames"`
	TotalWins     int                        `json:"totalWins"`
	CurrentStreak int                        `json:"currentStreak"`
	BestStreak    int                        `json:"bestStreak"`
	ByDifficulty  map[string]DifficultyStats `json:"byDifficulty"`
}

// New returns an empty record with an entry for every difficulty
func New() *Stats {
	s := &Stats{}
	s.normalize()
	return s
}

// normalize fills in difficulties missing from older or partial records
func (s *Stats) normalize() {
	if s.ByDifficulty == nil {
		s.ByDifficulty = make(map[string]DifficultyStats, len(deck.Difficulties))
	}
	for _, d := range deck.Difficulties {
		if _, ok := s.ByDifficulty[d.String()]; !ok {
			s.ByDifficulty[d.String()] = DifficultyStats{}
		}
	}
}

// Record adds one finished game
func (s *Stats) Record(d deck.Difficulty, won bool, elapsed int) {
	s.normalize()
	ds := s.ByDifficulty[d.String()]

	s.TotalGames++
	ds.Games++
	ds.TotalTime += elapsed

	if won {
		s.TotalWins++
		ds.Wins++
		s.CurrentStreak++
		if s.CurrentStreak > s.BestStreak {
			s.BestStreak = s.CurrentStreak
		}
		if ds.FastestTime == nil || elapsed < *ds.FastestTime {
			fastest := elapsed
			ds.FastestTime = &fastest
		}
	} else {
		s.CurrentStreak = 0
	}

	s.ByDifficulty[d.String()] = ds
}

// Difficulty returns the record for d
func (s *Stats) Difficulty(d deck.Difficulty) DifficultyStats {
	return s.ByDifficulty[d.String()]
}

// WinRate returns total wins as a percentage of total games
func (s *Stats) WinRate() float64 {
	if s.TotalGames == 0 {
		return 0
	}
	return float64(s.TotalWins) / float64(s.TotalGames) * 100
}

// Validate checks that the counters are consistent
func (s *Stats) Validate() error {
	if s.TotalGames < 0 || s.TotalWins < 0 || s.CurrentStreak < 0 || s.BestStreak < 0 {
		return fmt.Errorf("negative counter in stats")
	}
	if s.TotalWins > s.TotalGames {
		return fmt.Errorf("total wins (%d) exceeds total games (%d)", s.TotalWins, s.TotalGames)
	}
	if s.CurrentStreak > s.BestStreak {
		return fmt.Errorf("current streak (%d) exceeds best streak (%d)", s.CurrentStreak, s.BestStreak)
	}

	games, wins := 0, 0
	for name, ds := range s.ByDifficulty {
		if ds.Wins > ds.Games {
			return fmt.Errorf("%s: wins (%d) exceed games (%d)", name, ds.Wins, ds.Games)
		}
		if ds.FastestTime != nil && *ds.FastestTime < 0 {
			return fmt.Errorf("%s: negative fastest time", name)
		}
		games += ds.Games
		wins += ds.Wins
	}
	if games != s.TotalGames || wins != s.TotalWins {
		return fmt.Errorf("per-difficulty totals (%d games, %d wins) do not match totals (%d games, %d wins)",
			games, wins, s.TotalGames, s.TotalWins)
	}
	return nil
}

// Sample accumulates a series of values (scores, moves, times) and reports
// summary statistics
type Sample struct {
	N      int
	Sum    float64
	SumSq  float64
	Values []float64
}

// Add incorporates a value
func (s *Sample) Add(v float64) {
	s.N++
	s.Sum += v
	s.SumSq += v * v
	s.Values = append(s.Values, v)
}

// Merge adds every value of other
func (s *Sample) Merge(other Sample) {
	for _, v := range other.Values {
		s.Add(v)
	}
}

// Mean returns the arithmetic mean
func (s *Sample) Mean() float64 {
	if s.N == 0 {
		return 0
	}
	return s.Sum / float64(s.N)
}

// Variance returns the sample variance
func (s *Sample) Variance() float64 {
	if s.N < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumSq - float64(s.N)*mean*mean) / float64(s.N-1)
}

// StdDev returns the sample standard deviation
func (s *Sample) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// Median returns the median value
func (s *Sample) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Sample) Percentile(p float64) float64 {
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
