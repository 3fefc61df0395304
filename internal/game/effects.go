package game

import (
	"time"

	"github.com/lox/memorymatch/internal/deck"
)

// EffectKind identifies something that changed as the result of an event
type EffectKind string

const (
	EffectTimerStarted         EffectKind = "timer_started"
	EffectTick                 EffectKind = "tick"
	EffectDecay                EffectKind = "decay"
	EffectFlip                 EffectKind = "flip"
	EffectMatch                EffectKind = "match"
	EffectMismatch             EffectKind = "mismatch"
	EffectLifeLost             EffectKind = "life_lost"
	EffectTurnSwitch           EffectKind = "turn_switch"
	EffectUnflip               EffectKind = "unflip"
	EffectHint                 EffectKind = "hint"
	EffectHintEnded            EffectKind = "hint_ended"
	EffectHintDenied           EffectKind = "hint_denied"
	EffectTimeBonus            EffectKind = "time_bonus"
	EffectVictory              EffectKind = "victory"
	EffectDefeat               EffectKind = "defeat"
	EffectNewRecord            EffectKind = "new_record"
	EffectLeaderboardQualified EffectKind = "leaderboard_qualified"
	EffectLeaderboardEntry     EffectKind = "leaderboard_entry"
	EffectVictoryDisplay       EffectKind = "victory_display"
	EffectReset                EffectKind = "reset"
)

// Effect describes one observable change. Fields that do not apply to the
// kind are left at their zero value.
type Effect struct {
	Kind   EffectKind
	Cards  []int
	Token  deck.Token
	Player int // active player (1 or 2) for two-player effects
	Points int // score delta actually applied after clamping
	Score  int // score after the change
	Reason IgnoreReason
}

// IgnoreReason explains why an event did not change the session
type IgnoreReason string

const (
	ReasonNone             IgnoreReason = ""
	ReasonGameOver         IgnoreReason = "game_over"
	ReasonLocked           IgnoreReason = "locked"
	ReasonOutOfRange       IgnoreReason = "out_of_range"
	ReasonAlreadyMatched   IgnoreReason = "already_matched"
	ReasonSameCard         IgnoreReason = "same_card"
	ReasonTimerStopped     IgnoreReason = "timer_stopped"
	ReasonHintsExhausted   IgnoreReason = "hints_exhausted"
	ReasonHintUnaffordable IgnoreReason = "hint_unaffordable"
	ReasonNoEligibleCard   IgnoreReason = "no_eligible_card"
	ReasonStaleTask        IgnoreReason = "stale_task"
	ReasonNothingPending   IgnoreReason = "nothing_pending"
)

// TaskKind identifies a delayed transition
type TaskKind string

const (
	TaskMismatchTimeout TaskKind = "mismatch_timeout"
	TaskHintTimeout     TaskKind = "hint_timeout"
	TaskVictoryDisplay  TaskKind = "victory_display"
)

// String returns the task kind as text
func (k TaskKind) String() string {
	return string(k)
}

// Deferred is a transition the caller must fire after the given delay.
// Epoch ties the task to the board it was created for.
type Deferred struct {
	Kind  TaskKind
	Epoch uint64
	After time.Duration
	Card  int
}

// Result is returned by every session event
type Result struct {
	Accepted bool
	Reason   IgnoreReason
	Effects  []Effect
	Deferred []Deferred
}

// Has reports whether the result contains an effect of the given kind
func (r Result) Has(kind EffectKind) bool {
	_, ok := r.Find(kind)
	return ok
}

// Find returns the first effect of the given kind
func (r Result) Find(kind EffectKind) (Effect, bool) {
	for _, e := range r.Effects {
		if e.Kind == kind {
			return e, true
		}
	}
	return Effect{}, false
}

func (r *Result) emit(e Effect) {
	r.Effects = append(r.Effects, e)
}

func (r *Result) schedule(d Deferred) {
	r.Deferred = append(r.Deferred, d)
}

func ignored(reason IgnoreReason) Result {
	return Result{Reason: reason}
}
