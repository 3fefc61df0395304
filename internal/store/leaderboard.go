package store

import (
	"sort"

	"github.com/lox/memorymatch/internal/deck"
)

// LeaderboardSize is the number of entries kept per difficulty
const LeaderboardSize = 10

// LeaderboardEntry is one ranked single-player result
type LeaderboardEntry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
	Time  int    `json:"time"`
	Moves int    `json:"moves"`
	Date  int64  `json:"date"` // unix milliseconds
}

// Leaderboard maps a difficulty name to its entries, best first
type Leaderboard map[string][]LeaderboardEntry

func newLeaderboard() Leaderboard {
	lb := make(Leaderboard, len(deck.Difficulties))
	for _, d := range deck.Difficulties {
		lb[d.String()] = []LeaderboardEntry{}
	}
	return lb
}

// Entries returns the entries for d
func (lb Leaderboard) Entries(d deck.Difficulty) []LeaderboardEntry {
	return lb[d.String()]
}

// qualifies reports whether score would earn a place on the board for d
func (lb Leaderboard) qualifies(d deck.Difficulty, score int) bool {
	entries := lb[d.String()]
	if len(entries) < LeaderboardSize {
		return true
	}
	return score > entries[len(entries)-1].Score
}

// insert adds entry, keeping the board sorted by score (earlier entries win
// ties) and trimmed to LeaderboardSize
func (lb Leaderboard) insert(d deck.Difficulty, entry LeaderboardEntry) {
	entries := append(lb[d.String()], entry)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	if len(entries) > LeaderboardSize {
		entries = entries[:LeaderboardSize]
	}
	lb[d.String()] = entries
}
