package store

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/lox/memorymatch/internal/deck"
	"github.com/lox/memorymatch/internal/statistics"
)

// Preferences are the remembered player choices
type Preferences struct {
	Theme    string // "light" or "dark"
	IconPack string
	Muted    bool
}

// Records reads and writes game records through a Store. Missing or
// unparseable values read as their defaults.
type Records struct {
	store  Store
	logger *log.Logger
}

// NewRecords wraps store
func NewRecords(store Store, logger *log.Logger) *Records {
	return &Records{store: store, logger: logger.WithPrefix("records")}
}

// HighScore returns the best stored score for d, or 0
func (r *Records) HighScore(d deck.Difficulty) int {
	raw, ok := r.store.Get(HighScoreKey(d))
	if !ok {
		return 0
	}
	score, err := strconv.Atoi(raw)
	if err != nil || score < 0 {
		r.logger.Warn("Ignoring corrupt high score", "difficulty", d, "value", raw)
		return 0
	}
	return score
}

// SaveHighScore stores score if it beats the current high score for d and
// reports whether it did
func (r *Records) SaveHighScore(d deck.Difficulty, score int) (bool, error) {
	if score <= r.HighScore(d) {
		return false, nil
	}
	if err := r.store.Set(HighScoreKey(d), strconv.Itoa(score)); err != nil {
		return false, fmt.Errorf("failed to save high score: %w", err)
	}
	return true, nil
}

// Leaderboard returns every difficulty's entries, best first
func (r *Records) Leaderboard() Leaderboard {
	lb := newLeaderboard()
	raw, ok := r.store.Get(KeyLeaderboard)
	if !ok {
		return lb
	}

	var stored Leaderboard
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		r.logger.Warn("Ignoring corrupt leaderboard", "error", err)
		return lb
	}
	for name, entries := range stored {
		if _, err := deck.ParseDifficulty(name); err != nil || entries == nil {
			continue
		}
		lb[name] = entries
	}
	return lb
}

// Qualifies reports whether score would earn a leaderboard place for d
func (r *Records) Qualifies(d deck.Difficulty, score int) bool {
	return r.Leaderboard().qualifies(d, score)
}

// AddLeaderboardEntry inserts entry into the leaderboard for d
func (r *Records) AddLeaderboardEntry(d deck.Difficulty, entry LeaderboardEntry) error {
	lb := r.Leaderboard()
	lb.insert(d, entry)

	data, err := json.Marshal(lb)
	if err != nil {
		return fmt.Errorf("failed to encode leaderboard: %w", err)
	}
	if err := r.store.Set(KeyLeaderboard, string(data)); err != nil {
		return fmt.Errorf("failed to save leaderboard: %w", err)
	}
	return nil
}

// Stats returns the stored statistics, or an empty record
func (r *Records) Stats() *statistics.Stats {
	raw, ok := r.store.Get(KeyStats)
	if !ok {
		return statistics.New()
	}

	stats := statistics.New()
	if err := json.Unmarshal([]byte(raw), stats); err != nil {
		r.logger.Warn("Ignoring corrupt statistics", "error", err)
		return statistics.New()
	}
	stats.ByDifficulty = mergeDifficulties(stats)
	if err := stats.Validate(); err != nil {
		r.logger.Warn("Ignoring inconsistent statistics", "error", err)
		return statistics.New()
	}
	return stats
}

// mergeDifficulties drops unknown difficulty names and fills in missing ones
func mergeDifficulties(stats *statistics.Stats) map[string]statistics.DifficultyStats {
	fresh := statistics.New().ByDifficulty
	for name, ds := range stats.ByDifficulty {
		if _, ok := fresh[name]; ok {
			fresh[name] = ds
		}
	}
	return fresh
}

// RecordGame adds a finished single-player game to the statistics
func (r *Records) RecordGame(d deck.Difficulty, won bool, elapsed int) error {
	stats := r.Stats()
	stats.Record(d, won, elapsed)
	return r.saveStats(stats)
}

// ResetStats clears the statistics. High scores and the leaderboard are
// kept.
func (r *Records) ResetStats() error {
	return r.saveStats(statistics.New())
}

func (r *Records) saveStats(stats *statistics.Stats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to encode statistics: %w", err)
	}
	if err := r.store.Set(KeyStats, string(data)); err != nil {
		return fmt.Errorf("failed to save statistics: %w", err)
	}
	return nil
}

// Preferences returns the remembered choices. Unset values are empty.
func (r *Records) Preferences() Preferences {
	var p Preferences
	p.Theme, _ = r.store.Get(KeyPreferredTheme)
	p.IconPack, _ = r.store.Get(KeyPreferredIconPack)
	if raw, ok := r.store.Get(KeySoundMuted); ok {
		muted, err := strconv.ParseBool(raw)
		if err != nil {
			r.logger.Warn("Ignoring corrupt sound preference", "value", raw)
		}
		p.Muted = muted
	}
	return p
}

// SavePreferences stores p. Empty strings leave the stored value alone.
func (r *Records) SavePreferences(p Preferences) error {
	if p.Theme != "" {
		if err := r.store.Set(KeyPreferredTheme, p.Theme); err != nil {
			return fmt.Errorf("failed to save theme preference: %w", err)
		}
	}
	if p.IconPack != "" {
		if err := r.store.Set(KeyPreferredIconPack, p.IconPack); err != nil {
			return fmt.Errorf("failed to save icon pack preference: %w", err)
		}
	}
	if err := r.store.Set(KeySoundMuted, strconv.FormatBool(p.Muted)); err != nil {
		return fmt.Errorf("failed to save sound preference: %w", err)
	}
	return nil
}
