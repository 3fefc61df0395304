// Package store persists high scores, leaderboards, statistics and player
// preferences behind a minimal string key-value interface.
package store

import (
	"sync"

	"github.com/lox/memorymatch/internal/deck"
)

// Keys used by Records
const (
	KeyLeaderboard       = "leaderboard"
	KeyStats             = "gameStats"
	KeyPreferredIconPack = "preferredIconPack"
	KeyPreferredTheme    = "preferredTheme"
	KeySoundMuted        = "soundMuted"
	highScorePrefix      = "highscore_"
)

// HighScoreKey returns the key holding the best score for a difficulty
func HighScoreKey(d deck.Difficulty) string {
	return highScorePrefix + d.String()
}

// Store is a string key-value store. Get reports false for missing keys.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// Memory is an in-memory Store, safe for concurrent use
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

// Get returns the value stored under key
func (m *Memory) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

// Set stores value under key
func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Delete removes key
func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
