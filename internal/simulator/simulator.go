// Package simulator plays memorymatch games automatically and reports
// aggregate results. Deferred tasks fire immediately and every flip costs one
// simulated second, so thousands of games run in well under a second.
package simulator

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/memorymatch/internal/deck"
	"github.com/lox/memorymatch/internal/game"
	"github.com/lox/memorymatch/internal/randutil"
	"github.com/lox/memorymatch/internal/statistics"
)

// maxFlips bounds a single game; a random two-player game on expert
// finishes in a few hundred flips
const maxFlips = 20_000

// Config holds configuration for running simulations
type Config struct {
	Games      int
	Difficulty deck.Difficulty
	Theme      deck.Theme
	Mode       game.Mode
	Strategy   string
	UseHints   bool
	Seed       int64
	Workers    int
	Timeout    time.Duration
	Logger     *log.Logger
}

// GameResult is the outcome of one simulated game
type GameResult struct {
	Seed    int64
	Outcome game.Outcome
	Score   int
	Moves   int
	Elapsed int
	Hints   int
	Winner  int
}

// Report aggregates every game of a run
type Report struct {
	Config  Config
	Results []GameResult

	Stats      *statistics.Stats
	Scores     statistics.Sample
	Moves      statistics.Sample
	Times      statistics.Sample
	PlayerWins [2]int
	Draws      int
}

// Simulator runs memorymatch games
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	if config.Timeout <= 0 {
		config.Timeout = time.Minute
	}
	if config.Theme.Name == "" {
		config.Theme, _ = deck.LookupTheme(deck.DefaultTheme)
	}
	if config.Logger == nil {
		config.Logger = log.Default()
	}
	config.Logger = config.Logger.WithPrefix("simulator")
	return &Simulator{config: config}
}

// Run plays every game and returns the aggregate report. Game i is seeded
// with Seed+i, so a report does not depend on the number of workers.
func (s *Simulator) Run(ctx context.Context) (*Report, error) {
	if s.config.Games <= 0 {
		return nil, fmt.Errorf("games must be positive, got %d", s.config.Games)
	}
	if _, err := NewStrategy(s.config.Strategy); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	results := make([]GameResult, s.config.Games)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)

	for i := range s.config.Games {
		seed := s.config.Seed + int64(i)
		g.Go(func() error {
			result, err := s.playGame(gctx, seed)
			if err != nil {
				return fmt.Errorf("game %d (seed %d): %w", i+1, seed, err)
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := s.aggregate(results)
	if err := report.Stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}
	s.config.Logger.Info("Simulation complete",
		"games", s.config.Games,
		"strategy", s.config.Strategy,
		"difficulty", s.config.Difficulty,
		"mean_score", fmt.Sprintf("%.1f", report.Scores.Mean()))
	return report, nil
}

// sessionLogger keeps per-game lifecycle lines out of the simulation output
func (s *Simulator) sessionLogger(seed int64) *log.Logger {
	logger := s.config.Logger.With("seed", seed)
	logger.SetLevel(max(s.config.Logger.GetLevel(), log.WarnLevel))
	return logger
}

// playGame plays one game to completion
func (s *Simulator) playGame(ctx context.Context, seed int64) (GameResult, error) {
	session, err := game.NewSession(
		game.Config{Difficulty: s.config.Difficulty, Theme: s.config.Theme, Mode: s.config.Mode},
		game.WithRNG(randutil.New(seed)),
		game.WithLogger(s.sessionLogger(seed)),
	)
	if err != nil {
		return GameResult{}, err
	}
	strategy, err := NewStrategy(s.config.Strategy)
	if err != nil {
		return GameResult{}, err
	}
	rng := randutil.New(^seed)
	result := GameResult{Seed: seed}

	for flips := 0; session.Outcome() == game.InProgress; flips++ {
		if flips >= maxFlips {
			return GameResult{}, fmt.Errorf("no result after %d flips", maxFlips)
		}
		if err := ctx.Err(); err != nil {
			return GameResult{}, err
		}

		view := session.Snapshot()
		if s.config.UseHints && view.Phase == game.Idle && view.HintAvailable {
			res := session.Hint()
			if res.Accepted {
				result.Hints++
			}
			settle(session, strategy, res)
		}

		res := session.Flip(strategy.Choose(session.Snapshot(), rng))
		if !res.Accepted {
			return GameResult{}, fmt.Errorf("flip rejected: %s", res.Reason)
		}
		settle(session, strategy, session.Tick())
		settle(session, strategy, res)
	}

	view := session.Snapshot()
	result.Outcome = view.Outcome
	result.Score = view.Score
	result.Moves = view.Moves
	result.Elapsed = view.Elapsed
	if view.Mode == game.Multiplayer {
		result.Winner = view.Winner
		result.Score = max(view.PlayerScores[0], view.PlayerScores[1])
	}
	return result, nil
}

// settle shows the strategy every revealed card and fires deferred tasks
// straight away
func settle(session *game.Session, strategy Strategy, res game.Result) {
	for _, e := range res.Effects {
		switch e.Kind {
		case game.EffectFlip, game.EffectHint:
			for _, i := range e.Cards {
				strategy.Observe(i, e.Token)
			}
		}
	}
	for _, task := range res.Deferred {
		settle(session, strategy, session.Fire(task))
	}
}

func (s *Simulator) aggregate(results []GameResult) *Report {
	report := &Report{
		Config:  s.config,
		Results: results,
		Stats:   statistics.New(),
	}
	for _, r := range results {
		report.Scores.Add(float64(r.Score))
		report.Moves.Add(float64(r.Moves))
		report.Times.Add(float64(r.Elapsed))

		if s.config.Mode == game.Multiplayer {
			switch r.Winner {
			case 1, 2:
				report.PlayerWins[r.Winner-1]++
			default:
				report.Draws++
			}
			continue
		}
		report.Stats.Record(s.config.Difficulty, r.Outcome == game.Victory, r.Elapsed)
	}
	return report
}

// Summary renders the report as text
func (r *Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== %s · %s · %s · %d games ===\n",
		r.Config.Strategy, r.Config.Difficulty, r.Config.Mode, len(r.Results))

	if r.Config.Mode == game.Multiplayer {
		fmt.Fprintf(&b, "Player 1 wins: %d\nPlayer 2 wins: %d\nDraws: %d\n",
			r.PlayerWins[0], r.PlayerWins[1], r.Draws)
	} else {
		fmt.Fprintf(&b, "Wins: %d/%d (%.1f%%)\nBest streak: %d\n",
			r.Stats.TotalWins, r.Stats.TotalGames, r.Stats.WinRate(), r.Stats.BestStreak)
	}
	fmt.Fprintf(&b, "Score: mean %.1f, median %.1f, sd %.1f, p95 %.1f\n",
		r.Scores.Mean(), r.Scores.Median(), r.Scores.StdDev(), r.Scores.Percentile(0.95))
	fmt.Fprintf(&b, "Moves: mean %.1f, median %.1f\n", r.Moves.Mean(), r.Moves.Median())
	fmt.Fprintf(&b, "Time: mean %s, median %s\n",
		game.FormatTime(int(r.Times.Mean())), game.FormatTime(int(r.Times.Median())))
	return b.String()
}
