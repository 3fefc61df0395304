package game

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

// TickInterval is how often the runner advances the session timer
const TickInterval = time.Second

// Runner serialises every event for one Session through a single goroutine.
// Flips, hints, timer ticks and deferred tasks never interleave inside a
// transition.
type Runner struct {
	session *Session
	clock   quartz.Clock
	bus     EventBus
	logger  *log.Logger

	events  chan func()
	stopped chan struct{}
	timers  map[*quartz.Timer]struct{}
}

// NewRunner wraps session. Call Run to start processing events.
func NewRunner(session *Session, clock quartz.Clock, bus EventBus, logger *log.Logger) *Runner {
	if bus == nil {
		bus = NewEventBus()
	}
	return &Runner{
		session: session,
		clock:   clock,
		bus:     bus,
		logger:  logger.WithPrefix("runner"),
		events:  make(chan func(), 64),
		stopped: make(chan struct{}),
		timers:  make(map[*quartz.Timer]struct{}),
	}
}

// EventBus returns the bus effects are published on
func (r *Runner) EventBus() EventBus {
	return r.bus
}

// Run processes events until ctx is cancelled
func (r *Runner) Run(ctx context.Context) error {
	defer close(r.stopped)
	defer r.cancelTimers()

	// registered before the loop so that any completed call implies a
	// running ticker
	r.clock.TickerFunc(ctx, TickInterval, func() error {
		r.post(func() { r.apply(r.session.Tick()) })
		return nil
	}, "runner", "tick")

	r.logger.Debug("Runner started", "epoch", r.session.Epoch())
	for {
		select {
		case <-ctx.Done():
			r.logger.Debug("Runner stopped")
			return nil
		case fn := <-r.events:
			fn()
		}
	}
}

// Flip forwards a flip request to the session
func (r *Runner) Flip(ctx context.Context, i int) (Result, error) {
	var res Result
	err := r.do(ctx, func() {
		res = r.session.Flip(i)
		if !res.Accepted {
			r.logger.Debug("Flip ignored", "card", i, "reason", res.Reason)
		}
		r.apply(res)
	})
	return res, err
}

// Hint forwards a hint request to the session
func (r *Runner) Hint(ctx context.Context) (Result, error) {
	var res Result
	err := r.do(ctx, func() {
		res = r.session.Hint()
		r.apply(res)
	})
	return res, err
}

// Reset deals a fresh board and cancels every pending task
func (r *Runner) Reset(ctx context.Context) (Result, error) {
	var res Result
	err := r.do(ctx, func() {
		r.cancelTimers()
		res = r.session.Reset()
		r.apply(res)
	})
	return res, err
}

// Reconfigure deals a board for cfg and cancels every pending task
func (r *Runner) Reconfigure(ctx context.Context, cfg Config) (Result, error) {
	var (
		res     Result
		dealErr error
	)
	err := r.do(ctx, func() {
		res, dealErr = r.session.Reconfigure(cfg)
		if dealErr != nil {
			return
		}
		r.cancelTimers()
		r.apply(res)
	})
	if err != nil {
		return Result{}, err
	}
	return res, dealErr
}

// SubmitName stores the pending leaderboard entry
func (r *Runner) SubmitName(ctx context.Context, name string) (Result, error) {
	var (
		res       Result
		submitErr error
	)
	err := r.do(ctx, func() {
		res, submitErr = r.session.SubmitName(name)
		r.apply(res)
	})
	if err != nil {
		return Result{}, err
	}
	return res, submitErr
}

// Snapshot returns the session view
func (r *Runner) Snapshot(ctx context.Context) (View, error) {
	var view View
	err := r.do(ctx, func() {
		view = r.session.Snapshot()
	})
	return view, err
}

// do runs fn on the loop goroutine and waits for it to finish
func (r *Runner) do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	select {
	case r.events <- func() { fn(); close(done) }:
	case <-r.stopped:
		return context.Canceled
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-r.stopped:
		return context.Canceled
	case <-ctx.Done():
		return ctx.Err()
	}
}

// post queues fn without waiting; used from clock callbacks
func (r *Runner) post(fn func()) {
	select {
	case r.events <- fn:
	case <-r.stopped:
	}
}

// apply publishes effects and schedules deferred tasks. Loop goroutine only.
func (r *Runner) apply(res Result) {
	now := r.clock.Now()
	epoch := r.session.Epoch()
	for _, effect := range res.Effects {
		r.bus.Publish(NewEffectEvent(effect, epoch, now))
	}
	for _, task := range res.Deferred {
		r.schedule(task)
	}
}

func (r *Runner) schedule(task Deferred) {
	var t *quartz.Timer
	t = r.clock.AfterFunc(task.After, func() {
		r.post(func() {
			delete(r.timers, t)
			res := r.session.Fire(task)
			if !res.Accepted {
				r.logger.Debug("Deferred task ignored", "task", task.Kind, "reason", res.Reason)
			}
			r.apply(res)
		})
	}, "runner", task.Kind.String())
	r.timers[t] = struct{}{}
}

func (r *Runner) cancelTimers() {
	for t := range r.timers {
		t.Stop()
		delete(r.timers, t)
	}
}
