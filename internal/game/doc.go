// Package game implements the rules of a memory-matching (concentration)
// card game.
//
// The main type is Session, which owns one board and every counter that
// belongs to it: the round state machine, the single-player ledger (score,
// lives, moves), the two-player turn tracker, the hint allowance, the
// session timer and the victory/defeat arbiter.
//
// # Basic Usage
//
// Create a session and feed it flip requests:
//
//	theme, _ := deck.LookupTheme("animals")
//	s, err := game.NewSession(game.Config{Difficulty: deck.Easy, Theme: theme})
//	res := s.Flip(0)
//	res = s.Flip(3)
//	for _, task := range res.Deferred {
//	    // schedule task.After, then:
//	    s.Fire(task)
//	}
//
// Session is synchronous and never sleeps. Delays (the mismatch display
// window, hint flashes, the victory dialog) are returned as Deferred tasks
// tagged with the board epoch. A task from an earlier board is ignored when
// fired, so a reset during a pending delay cannot touch the new board.
//
// # Event Loop
//
// Runner wraps a Session in a single goroutine, drives the timer once per
// second and schedules Deferred tasks on a quartz.Clock:
//
//	r := game.NewRunner(s, quartz.NewReal(), game.NewEventBus(), logger)
//	go r.Run(ctx)
//	res, err := r.Flip(ctx, 2)
//
// Every Effect produced by the session is published on the runner's
// EventBus for cosmetic subscribers (sound, particles, shake).
//
// # Deterministic Testing
//
// Pass WithRNG(randutil.New(seed)) to fix both the deck layout and the
// card chosen by hints, and quartz.NewMock(t) to the runner to control time.
package game
