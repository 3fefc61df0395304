package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/memorymatch/internal/config"
	"github.com/lox/memorymatch/internal/deck"
	"github.com/lox/memorymatch/internal/game"
	"github.com/lox/memorymatch/internal/randutil"
	"github.com/lox/memorymatch/internal/store"
	"github.com/lox/memorymatch/internal/tui"
)

// PlayCmd starts the terminal game
type PlayCmd struct {
	Difficulty string `short:"d" help:"easy, medium, hard or expert (overrides config)"`
	IconPack   string `short:"p" help:"Icon pack (overrides config and the saved preference)"`
	Mode       string `short:"m" help:"single or multiplayer (overrides config)"`
	Theme      string `help:"light, dark or auto (overrides config and the saved preference)"`
	Mute       bool   `help:"Start with sound off"`
	Seed       *int64 `help:"Deterministic RNG seed (optional)"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}

	// the TUI owns the terminal, so logs go nowhere unless --log-file is set
	logger, closeLog, err := g.setupLogger(cfg, io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	records, err := openRecords(cfg, logger)
	if err != nil {
		return err
	}
	prefs := records.Preferences()
	c.applyOverrides(cfg, prefs, logger)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	sessionCfg, err := cfg.SessionConfig()
	if err != nil {
		return err
	}

	seed := cfg.Game.Seed
	if c.Seed != nil {
		seed = *c.Seed
	}
	seed = randutil.Seed(seed)
	logger.Info("Starting game",
		"seed", seed,
		"difficulty", sessionCfg.Difficulty,
		"icon_pack", sessionCfg.Theme.Name,
		"mode", sessionCfg.Mode)

	session, err := game.NewSession(sessionCfg,
		game.WithRNG(randutil.New(seed)),
		game.WithRecords(records),
		game.WithLogger(logger))
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(logger)
	defer cancel()

	runner := game.NewRunner(session, quartz.NewReal(), nil, logger)
	model := tui.New(ctx, runner, logger, tui.Options{
		Config:  sessionCfg,
		Records: records,
		Dark:    tui.ResolveDark(cfg.UI.Theme),
		Muted:   c.Mute || prefs.Muted || !cfg.SoundEnabled(),
		BellOut: os.Stderr,
	})

	runErr := make(chan error, 1)
	go func() { runErr <- runner.Run(ctx) }()

	err = tui.Run(model)
	cancel()
	if rerr := <-runErr; rerr != nil && err == nil {
		err = rerr
	}
	return err
}

// applyOverrides layers flags and saved preferences over the config file.
// Flags win over preferences, which win over the file.
func (c *PlayCmd) applyOverrides(cfg *config.Config, prefs store.Preferences, logger *log.Logger) {
	if prefs.IconPack != "" {
		if _, err := deck.LookupTheme(prefs.IconPack); err == nil {
			cfg.Game.IconPack = prefs.IconPack
		} else {
			logger.Warn("Ignoring saved icon pack", "icon_pack", prefs.IconPack, "error", err)
		}
	}
	if prefs.Theme != "" {
		if config.ValidTheme(prefs.Theme) {
			cfg.UI.Theme = prefs.Theme
		} else {
			logger.Warn("Ignoring saved theme", "theme", prefs.Theme)
		}
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
	if c.Theme != "" {
		cfg.UI.Theme = c.Theme
	}
}
