// Package config loads memorymatch.hcl
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/memorymatch/internal/deck"
	"github.com/lox/memorymatch/internal/game"
)

// DefaultFile is the config file looked up when none is given
const DefaultFile = "memorymatch.hcl"

// Config represents the complete configuration
type Config struct {
	Game    GameSettings    `hcl:"game,block"`
	Storage StorageSettings `hcl:"storage,block"`
	Log     LogSettings     `hcl:"log,block"`
	UI      UISettings      `hcl:"ui,block"`
}

// GameSettings selects the board dealt at startup
type GameSettings struct {
	Difficulty string `hcl:"difficulty,optional"`
	IconPack   string `hcl:"icon_pack,optional"`
	Mode       string `hcl:"mode,optional"`
	Seed       int64  `hcl:"seed,optional"`
}

// StorageSettings locates the persistent store
type StorageSettings struct {
	Path string `hcl:"path,optional"`
}

// LogSettings configures the root logger
type LogSettings struct {
	Level string `hcl:"level,optional"`
}

// UISettings configures the terminal surface
type UISettings struct {
	Theme string `hcl:"theme,optional"`
	Sound *bool  `hcl:"sound,optional"`
}

// Default returns the default configuration
func Default() *Config {
	sound := true
	return &Config{
		Game: GameSettings{
			Difficulty: deck.Easy.String(),
			IconPack:   deck.DefaultTheme,
			Mode:       game.SinglePlayer.String(),
		},
		Storage: StorageSettings{Path: "memorymatch.json"},
		Log:     LogSettings{Level: "info"},
		UI:      UISettings{Theme: "auto", Sound: &sound},
	}
}

// Load reads configuration from an HCL file. A missing file yields the
// defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	// blocks are optional, so decode into a shape where each is a pointer
	var raw struct {
		Game    *GameSettings    `hcl:"game,block"`
		Storage *StorageSettings `hcl:"storage,block"`
		Log     *LogSettings     `hcl:"log,block"`
		UI      *UISettings      `hcl:"ui,block"`
	}
	diags = gohcl.DecodeBody(file.Body, nil, &raw)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config := &Config{}
	if raw.Game != nil {
		config.Game = *raw.Game
	}
	if raw.Storage != nil {
		config.Storage = *raw.Storage
	}
	if raw.Log != nil {
		config.Log = *raw.Log
	}
	if raw.UI != nil {
		config.UI = *raw.UI
	}
	config.applyDefaults()
	return config, nil
}

// applyDefaults fills in values left unset
func (c *Config) applyDefaults() {
	defaults := Default()
	if c.Game.Difficulty == "" {
		c.Game.Difficulty = defaults.Game.Difficulty
	}
	if c.Game.IconPack == "" {
		c.Game.IconPack = defaults.Game.IconPack
	}
	if c.Game.Mode == "" {
		c.Game.Mode = defaults.Game.Mode
	}
	if c.Storage.Path == "" {
		c.Storage.Path = defaults.Storage.Path
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
	if c.UI.Sound == nil {
		c.UI.Sound = defaults.UI.Sound
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := deck.ParseDifficulty(c.Game.Difficulty); err != nil {
		return fmt.Errorf("game: %w", err)
	}
	if _, err := deck.LookupTheme(c.Game.IconPack); err != nil {
		return fmt.Errorf("game: %w", err)
	}
	if _, err := game.ParseMode(c.Game.Mode); err != nil {
		return fmt.Errorf("game: %w", err)
	}
	if strings.TrimSpace(c.Storage.Path) == "" {
		return fmt.Errorf("storage: path must not be empty")
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if !ValidTheme(c.UI.Theme) {
		return fmt.Errorf("ui: invalid theme %q (want light, dark or auto)", c.UI.Theme)
	}
	return nil
}

// ValidTheme reports whether name is a known ui theme
func ValidTheme(name string) bool {
	switch name {
	case "light", "dark", "auto":
		return true
	}
	return false
}

// SessionConfig resolves the game block into a session configuration
func (c *Config) SessionConfig() (game.Config, error) {
	d, err := deck.ParseDifficulty(c.Game.Difficulty)
	if err != nil {
		return game.Config{}, err
	}
	theme, err := deck.LookupTheme(c.Game.IconPack)
	if err != nil {
		return game.Config{}, err
	}
	mode, err := game.ParseMode(c.Game.Mode)
	if err != nil {
		return game.Config{}, err
	}
	return game.Config{Difficulty: d, Theme: theme, Mode: mode}, nil
}

// LogLevel returns the parsed log level
func (c *Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// SoundEnabled reports whether feedback sounds are on
func (c *Config) SoundEnabled() bool {
	return c.UI.Sound == nil || *c.UI.Sound
}
