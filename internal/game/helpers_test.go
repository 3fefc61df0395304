package game

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"github.com/lox/memorymatch/internal/deck"
	"github.com/lox/memorymatch/internal/randutil"
	"github.com/lox/memorymatch/internal/store"
)

var testEpochTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func defaultTheme(t *testing.T) deck.Theme {
	t.Helper()
	theme, err := deck.LookupTheme(deck.DefaultTheme)
	require.NoError(t, err)
	return theme
}

func newTestSession(t *testing.T, d deck.Difficulty, mode Mode, opts ...Option) *Session {
	t.Helper()
	opts = append([]Option{
		WithRNG(randutil.New(42)),
		WithLogger(quietLogger()),
		WithNow(func() time.Time { return testEpochTime }),
	}, opts...)
	s, err := NewSession(Config{Difficulty: d, Theme: defaultTheme(t), Mode: mode}, opts...)
	require.NoError(t, err)
	return s
}

// unmatchedPairs returns the positions of each unmatched pair, ordered by
// the position of its first card
func unmatchedPairs(s *Session) [][2]int {
	var pairs [][2]int
	seen := make(map[deck.Token]int)
	for i, tok := range s.deck.Tokens() {
		card, _ := s.deck.Card(i)
		if card.Matched {
			continue
		}
		if at, ok := seen[tok]; ok {
			pairs[at][1] = i
			continue
		}
		seen[tok] = len(pairs)
		pairs = append(pairs, [2]int{i, -1})
	}
	return pairs
}

// matchNext flips the next unmatched pair and returns the second flip
func matchNext(t *testing.T, s *Session) Result {
	t.Helper()
	pairs := unmatchedPairs(s)
	require.NotEmpty(t, pairs)
	require.True(t, s.Flip(pairs[0][0]).Accepted)
	res := s.Flip(pairs[0][1])
	require.True(t, res.Accepted)
	require.True(t, res.Has(EffectMatch))
	return res
}

// mismatchNext flips the first cards of two different unmatched pairs
func mismatchNext(t *testing.T, s *Session) Result {
	t.Helper()
	pairs := unmatchedPairs(s)
	require.GreaterOrEqual(t, len(pairs), 2)
	require.True(t, s.Flip(pairs[0][0]).Accepted)
	res := s.Flip(pairs[1][0])
	require.True(t, res.Accepted)
	require.True(t, res.Has(EffectMismatch))
	return res
}

// fireAll runs every deferred task in res and returns the results
func fireAll(t *testing.T, s *Session, res Result) []Result {
	t.Helper()
	out := make([]Result, 0, len(res.Deferred))
	for _, task := range res.Deferred {
		out = append(out, s.Fire(task))
	}
	return out
}

func ticks(s *Session, n int) {
	for range n {
		s.Tick()
	}
}

// failingStore accepts reads but rejects every write
type failingStore struct {
	*store.Memory
}

var errDiskFull = errors.New("disk full")

func (failingStore) Set(string, string) error { return errDiskFull }
