package game

// Scoring constants
const (
	StartingLives   = 3
	MatchPoints     = 100
	MismatchPenalty = 20
	DecayInterval   = 10 // seconds between time-decay penalties
	DecayPenalty    = 1
	TimeBonusCap    = 300
)

// Ledger holds the per-board counters. Lives and Score only apply to
// single-player games; Moves and MatchedPairs are kept in both modes.
type Ledger struct {
	Lives        int
	Moves        int
	MatchedPairs int
	Score        int
}

func newLedger() Ledger {
	return Ledger{Lives: StartingLives}
}

// adjust adds points to the score, clamping at zero, and returns the delta
// that was actually applied.
func (l *Ledger) adjust(points int) int {
	before := l.Score
	l.Score = max(0, l.Score+points)
	return l.Score - before
}

// loseLife removes one life and reports whether none are left
func (l *Ledger) loseLife() bool {
	if l.Lives > 0 {
		l.Lives--
	}
	return l.Lives == 0
}

// TimeBonus returns the victory bonus for finishing after elapsed seconds
func TimeBonus(elapsed int) int {
	return max(0, TimeBonusCap-elapsed)
}
