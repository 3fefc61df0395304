package game

import "fmt"

// Timer counts whole seconds from the first accepted flip
type Timer struct {
	Elapsed int
	Running bool
	Started bool
}

func (t *Timer) start() bool {
	if t.Started {
		return false
	}
	t.Started = true
	t.Running = true
	return true
}

func (t *Timer) stop() {
	t.Running = false
}

// FormatTime renders seconds as MM:SS
func FormatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Tick advances the session timer by one second. In single-player games
// every DecayInterval seconds costs DecayPenalty points, unless the tick
// lands while a mismatch is being resolved.
func (s *Session) Tick() Result {
	if !s.timer.Running {
		return ignored(ReasonTimerStopped)
	}

	res := Result{Accepted: true}
	s.timer.Elapsed++
	res.emit(Effect{Kind: EffectTick, Score: s.ledger.Score})

	if s.cfg.Mode == SinglePlayer &&
		s.timer.Elapsed%DecayInterval == 0 &&
		s.round.phase() != Resolving {
		applied := s.ledger.adjust(-DecayPenalty)
		res.emit(Effect{Kind: EffectDecay, Points: applied, Score: s.ledger.Score})
	}
	return res
}
