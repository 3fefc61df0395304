package tui

import (
	"io"
	"sync"
	"sync/atomic"

	"github.com/lox/memorymatch/internal/game"
)

// bell is the terminal bell character
const bell = "\a"

// Feedback rings the terminal bell for matches and game endings. It stands
// in for the sound effects of a graphical surface.
type Feedback struct {
	mu    sync.Mutex
	out   io.Writer
	muted atomic.Bool
}

// NewFeedback writes bells to out
func NewFeedback(out io.Writer, muted bool) *Feedback {
	f := &Feedback{out: out}
	f.muted.Store(muted)
	return f
}

// SetMuted turns the bell off or on
func (f *Feedback) SetMuted(muted bool) {
	f.muted.Store(muted)
}

// Muted reports whether the bell is off
func (f *Feedback) Muted() bool {
	return f.muted.Load()
}

// OnEvent implements game.EventSubscriber
func (f *Feedback) OnEvent(event game.GameEvent) {
	if f.muted.Load() {
		return
	}
	effect, ok := event.(game.EffectEvent)
	if !ok {
		return
	}

	rings := 0
	switch effect.Effect.Kind {
	case game.EffectMatch, game.EffectLifeLost:
		rings = 1
	case game.EffectVictory, game.EffectDefeat:
		rings = 2
	}
	if rings == 0 {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for range rings {
		_, _ = io.WriteString(f.out, bell)
	}
}

// effectQueue buffers effect events from the runner goroutine until the
// program collects them. Publishing never blocks the runner.
type effectQueue struct {
	mu      sync.Mutex
	pending []game.EffectEvent
	notify  chan struct{}
}

func newEffectQueue() *effectQueue {
	return &effectQueue{notify: make(chan struct{}, 1)}
}

// OnEvent implements game.EventSubscriber
func (q *effectQueue) OnEvent(event game.GameEvent) {
	effect, ok := event.(game.EffectEvent)
	if !ok {
		return
	}
	q.mu.Lock()
	q.pending = append(q.pending, effect)
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// drain returns and clears everything queued so far
func (q *effectQueue) drain() []game.EffectEvent {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.pending
	q.pending = nil
	return out
}
