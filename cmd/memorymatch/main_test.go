package main

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/memorymatch/internal/config"
	"github.com/lox/memorymatch/internal/deck"
	"github.com/lox/memorymatch/internal/store"
)

func TestCLI_Parse(t *testing.T) {
	var cli CLI
	parser, err := kong.New(&cli, kong.Name("memorymatch"), kong.Vars{"version": "test"})
	require.NoError(t, err)

	ctx, err := parser.Parse([]string{"simulate", "-n", "10", "--strategy", "random", "--seed", "5", "--store", "x.json"})
	require.NoError(t, err)
	assert.Equal(t, "simulate", ctx.Command())
	assert.Equal(t, 10, cli.Simulate.Games)
	assert.Equal(t, "random", cli.Simulate.Strategy)
	require.NotNil(t, cli.Simulate.Seed)
	assert.Equal(t, int64(5), *cli.Simulate.Seed)
	assert.Equal(t, "x.json", cli.Store)

	_, err = parser.Parse([]string{"simulate", "--strategy", "psychic"})
	assert.Error(t, err)

	_, err = parser.Parse([]string{"leaderboard", "hard"})
	require.NoError(t, err)
	assert.Equal(t, "hard", cli.Leaderboard.Difficulty)
}

func TestPlayCmd_ApplyOverrides(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	cfg := config.Default()
	prefs := store.Preferences{IconPack: "animals", Theme: "light"}

	(&PlayCmd{}).applyOverrides(cfg, prefs, logger)
	assert.Equal(t, "animals", cfg.Game.IconPack, "saved preference beats the file")
	assert.Equal(t, "light", cfg.UI.Theme)

	cfg = config.Default()
	(&PlayCmd{IconPack: "food", Theme: "dark", Difficulty: "hard", Mode: "multiplayer"}).applyOverrides(cfg, prefs, logger)
	assert.Equal(t, "food", cfg.Game.IconPack, "flags beat preferences")
	assert.Equal(t, "dark", cfg.UI.Theme)
	assert.Equal(t, "hard", cfg.Game.Difficulty)
	assert.Equal(t, "multiplayer", cfg.Game.Mode)

	cfg = config.Default()
	(&PlayCmd{}).applyOverrides(cfg, store.Preferences{IconPack: "retired-pack"}, logger)
	assert.Equal(t, deck.DefaultTheme, cfg.Game.IconPack, "unknown saved packs are ignored")
}

func TestPlayCmd_ApplyOverridesIgnoresCorruptTheme(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	records := store.NewRecords(store.NewMemory(), logger)
	require.NoError(t, records.SavePreferences(store.Preferences{Theme: "blue", IconPack: "food"}))

	cfg := config.Default()
	(&PlayCmd{}).applyOverrides(cfg, records.Preferences(), logger)
	assert.Equal(t, "auto", cfg.UI.Theme)
	assert.Equal(t, "food", cfg.Game.IconPack)
	require.NoError(t, cfg.Validate())

	cfg = config.Default()
	(&PlayCmd{Theme: "dark"}).applyOverrides(cfg, records.Preferences(), logger)
	assert.Equal(t, "dark", cfg.UI.Theme, "a valid flag still wins")
}

func TestGlobals_LoadConfig(t *testing.T) {
	g := &Globals{Config: filepath.Join(t.TempDir(), "missing.hcl"), Store: "scores.json", Debug: true}
	cfg, err := g.loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "scores.json", cfg.Storage.Path)
	assert.Equal(t, log.DebugLevel, cfg.LogLevel())

	g = &Globals{Config: filepath.Join(t.TempDir(), "missing.hcl"), LogLevel: "shouty"}
	_, err = g.loadConfig()
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	records := store.NewRecords(store.NewMemory(), logger)
	require.NoError(t, records.RecordGame(deck.Easy, true, 42))
	require.NoError(t, records.AddLeaderboardEntry(deck.Easy, store.LeaderboardEntry{
		Name: "Ada", Score: 680, Time: 42, Moves: 5, Date: 1700000000000,
	}))

	stats := renderStats(records.Stats(), records)
	assert.Contains(t, stats, "Games: 1")
	assert.Contains(t, stats, "00:42")

	lb := renderLeaderboard(records.Leaderboard(), []deck.Difficulty{deck.Easy, deck.Hard})
	assert.Contains(t, lb, "Ada")
	assert.Contains(t, lb, "680")
	assert.Contains(t, lb, "No scores yet")
}
