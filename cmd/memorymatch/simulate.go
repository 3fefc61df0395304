package main

import (
	"fmt"
	"os"
	"time"

	"github.com/lox/memorymatch/internal/game"
	"github.com/lox/memorymatch/internal/randutil"
	"github.com/lox/memorymatch/internal/simulator"
)

// SimulateCmd autoplays games with a built-in strategy
type SimulateCmd struct {
	Games      int           `short:"n" default:"1000" help:"Number of games to play"`
	Strategy   string        `short:"s" default:"perfect-memory" enum:"random,perfect-memory" help:"Player strategy: random or perfect-memory"`
	Difficulty string        `short:"d" help:"easy, medium, hard or expert (overrides config)"`
	IconPack   string        `short:"p" help:"Icon pack (overrides config)"`
	Mode       string        `short:"m" help:"single or multiplayer (overrides config)"`
	Hints      bool          `help:"Use hints whenever one is affordable"`
	Seed       *int64        `help:"Deterministic RNG seed (optional)"`
	Workers    int           `default:"0" help:"Parallel games (0 for one per CPU)"`
	Timeout    time.Duration `default:"5m" help:"Abort the run after this long"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	if c.Difficulty != "" {
		cfg.Game.Difficulty = c.Difficulty
	}
	if c.IconPack != "" {
		cfg.Game.IconPack = c.IconPack
	}
	if c.Mode != "" {
		cfg.Game.Mode = c.Mode
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	logger, closeLog, err := g.setupLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	sessionCfg, err := cfg.SessionConfig()
	if err != nil {
		return err
	}

	seed := cfg.Game.Seed
	if c.Seed != nil {
		seed = *c.Seed
	}
	seed = randutil.Seed(seed)
	logger.Info("Starting simulation", "games", c.Games, "strategy", c.Strategy, "seed", seed)

	ctx, cancel := signalContext(logger)
	defer cancel()

	sim := simulator.New(simulator.Config{
		Games:      c.Games,
		Difficulty: sessionCfg.Difficulty,
		Theme:      sessionCfg.Theme,
		Mode:       sessionCfg.Mode,
		Strategy:   c.Strategy,
		UseHints:   c.Hints,
		Seed:       seed,
		Workers:    c.Workers,
		Timeout:    c.Timeout,
		Logger:     logger,
	})

	start := time.Now()
	report, err := sim.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Print(report.Summary())
	fmt.Printf("Seed: %d  Wall time: %v\n", seed, time.Since(start).Round(time.Millisecond))
	if sessionCfg.Mode == game.SinglePlayer && report.Stats.TotalWins == 0 {
		logger.Warn("No games won; try --strategy perfect-memory or --hints")
	}
	return nil
}
