package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/memorymatch/internal/deck"
	"github.com/lox/memorymatch/internal/randutil"
	"github.com/lox/memorymatch/internal/store"
)

func TestNewSession_InitialState(t *testing.T) {
	s := newTestSession(t, deck.Medium, SinglePlayer)
	view := s.Snapshot()

	assert.Len(t, view.Cards, 12)
	assert.Equal(t, 6, view.TotalPairs)
	assert.Equal(t, StartingLives, view.Lives)
	assert.Zero(t, view.Score)
	assert.Zero(t, view.Moves)
	assert.Equal(t, 2, view.HintsRemaining)
	assert.False(t, view.TimerRunning)
	assert.Equal(t, Idle, view.Phase)
	assert.Equal(t, InProgress, view.Outcome)
	assert.Equal(t, 1, view.ActivePlayer)
	for _, c := range view.Cards {
		assert.Empty(t, c.Token, "face-down cards hide their token")
	}
}

func TestNewSession_RejectsSmallTheme(t *testing.T) {
	theme := deck.Theme{Name: "tiny", Icons: []deck.Token{"a", "b"}}
	_, err := NewSession(Config{Difficulty: deck.Easy, Theme: theme}, WithLogger(quietLogger()))
	assert.ErrorIs(t, err, deck.ErrThemeTooSmall)
}

func TestFlip_FirstCardStartsTimer(t *testing.T) {
	s := newTestSession(t, deck.Easy, SinglePlayer)

	res := s.Flip(0)
	require.True(t, res.Accepted)
	assert.True(t, res.Has(EffectTimerStarted))
	flip, ok := res.Find(EffectFlip)
	require.True(t, ok)
	assert.Equal(t, []int{0}, flip.Cards)
	assert.NotEmpty(t, flip.Token)

	assert.Equal(t, OneFlipped, s.Phase())
	assert.True(t, s.Timer().Running)
	assert.Zero(t, s.Ledger().Moves, "a single flip is not a move")

	view := s.Snapshot()
	assert.True(t, view.Cards[0].FaceUp)
	assert.Equal(t, flip.Token, view.Cards[0].Token)
}

func TestFlip_Ignored(t *testing.T) {
	s := newTestSession(t, deck.Easy, SinglePlayer)

	assert.Equal(t, ReasonOutOfRange, s.Flip(-1).Reason)
	assert.Equal(t, ReasonOutOfRange, s.Flip(8).Reason)
	assert.False(t, s.Timer().Started, "rejected flips do not start the timer")

	require.True(t, s.Flip(3).Accepted)
	res := s.Flip(3)
	assert.False(t, res.Accepted)
	assert.Equal(t, ReasonSameCard, res.Reason)
	assert.Empty(t, res.Effects)
	assert.Equal(t, OneFlipped, s.Phase())

	s.Reset()
	pair := unmatchedPairs(s)[0]
	matchNext(t, s)
	res = s.Flip(pair[0])
	assert.Equal(t, ReasonAlreadyMatched, res.Reason)
}

func TestFlip_Match(t *testing.T) {
	s := newTestSession(t, deck.Easy, SinglePlayer)
	pair := unmatchedPairs(s)[0]

	require.True(t, s.Flip(pair[0]).Accepted)
	res := s.Flip(pair[1])

	match, ok := res.Find(EffectMatch)
	require.True(t, ok)
	assert.Equal(t, []int{pair[0], pair[1]}, match.Cards)
	assert.Equal(t, MatchPoints, match.Points)
	assert.Equal(t, MatchPoints, match.Score)
	assert.Empty(t, res.Deferred)

	ledger := s.Ledger()
	assert.Equal(t, 1, ledger.Moves)
	assert.Equal(t, 1, ledger.MatchedPairs)
	assert.Equal(t, StartingLives, ledger.Lives)
	assert.Equal(t, Idle, s.Phase())
	assert.False(t, s.Locked())

	view := s.Snapshot()
	assert.True(t, view.Cards[pair[0]].Matched)
	assert.NotEmpty(t, view.Cards[pair[1]].Token)
}

func TestFlip_MismatchLocksUntilTimeout(t *testing.T) {
	s := newTestSession(t, deck.Easy, SinglePlayer)
	matchNext(t, s)

	res := mismatchNext(t, s)
	lost, ok := res.Find(EffectLifeLost)
	require.True(t, ok)
	assert.Equal(t, -MismatchPenalty, lost.Points)
	assert.Equal(t, MatchPoints-MismatchPenalty, s.Ledger().Score)
	assert.Equal(t, StartingLives-1, s.Ledger().Lives)
	assert.Equal(t, 2, s.Ledger().Moves)

	require.Len(t, res.Deferred, 1)
	task := res.Deferred[0]
	assert.Equal(t, TaskMismatchTimeout, task.Kind)
	assert.Equal(t, MismatchDelay, task.After)
	assert.Equal(t, s.Epoch(), task.Epoch)

	assert.True(t, s.Locked())
	assert.Equal(t, Resolving, s.Phase())
	assert.Equal(t, ReasonLocked, s.Flip(unmatchedPairs(s)[2][0]).Reason)

	fired := s.Fire(task)
	require.True(t, fired.Accepted)
	unflip, ok := fired.Find(EffectUnflip)
	require.True(t, ok)
	assert.Len(t, unflip.Cards, 2)
	for _, i := range unflip.Cards {
		assert.False(t, s.Snapshot().Cards[i].FaceUp)
	}
	assert.False(t, s.Locked())
	assert.Equal(t, Idle, s.Phase())

	assert.Equal(t, ReasonNothingPending, s.Fire(task).Reason, "firing twice is a no-op")
}

func TestFlip_MismatchPenaltyClampsAtZero(t *testing.T) {
	s := newTestSession(t, deck.Easy, SinglePlayer)

	res := mismatchNext(t, s)
	lost, _ := res.Find(EffectLifeLost)
	assert.Zero(t, lost.Points, "no points to lose")
	assert.Zero(t, s.Ledger().Score)
}

func TestDefeat_AfterThreeMismatches(t *testing.T) {
	records := store.NewRecords(store.NewMemory(), quietLogger())
	s := newTestSession(t, deck.Easy, SinglePlayer, WithRecords(records))

	var last Result
	for range StartingLives {
		last = mismatchNext(t, s)
		if s.Outcome() == InProgress {
			fireAll(t, s, last)
		}
	}

	assert.True(t, last.Has(EffectDefeat))
	assert.Equal(t, Defeat, s.Outcome())
	assert.Zero(t, s.Ledger().Lives)
	assert.False(t, s.Timer().Running)
	assert.True(t, s.Locked())
	assert.Equal(t, ReasonGameOver, s.Flip(0).Reason)
	assert.Equal(t, ReasonGameOver, s.Hint().Reason)

	stats := records.Stats()
	assert.Equal(t, 1, stats.TotalGames)
	assert.Zero(t, stats.TotalWins)
	_, pending := s.PendingEntry()
	assert.False(t, pending)
}

func TestVictory_TimeBonusAndRecords(t *testing.T) {
	records := store.NewRecords(store.NewMemory(), quietLogger())
	s := newTestSession(t, deck.Easy, SinglePlayer, WithRecords(records))

	for range deck.Easy.Pairs() - 1 {
		matchNext(t, s)
	}
	ticks(s, 5)
	res := matchNext(t, s)

	bonus, ok := res.Find(EffectTimeBonus)
	require.True(t, ok)
	assert.Equal(t, TimeBonusCap-5, bonus.Points)
	assert.True(t, res.Has(EffectVictory))
	assert.True(t, res.Has(EffectNewRecord))
	assert.True(t, res.Has(EffectLeaderboardQualified))

	want := 4*MatchPoints + TimeBonusCap - 5
	assert.Equal(t, want, s.Ledger().Score)
	assert.Equal(t, Victory, s.Outcome())
	assert.False(t, s.Timer().Running)
	assert.True(t, s.Locked())
	assert.Equal(t, want, records.HighScore(deck.Easy))
	assert.Equal(t, 1, records.Stats().TotalWins)

	require.Len(t, res.Deferred, 1)
	assert.Equal(t, TaskVictoryDisplay, res.Deferred[0].Kind)
	assert.Equal(t, VictoryDisplayDelay, res.Deferred[0].After)
	display := s.Fire(res.Deferred[0])
	assert.True(t, display.Has(EffectVictoryDisplay))

	entry, ok := s.PendingEntry()
	require.True(t, ok)
	assert.Equal(t, want, entry.Score)
	assert.Equal(t, 5, entry.Time)
	assert.Equal(t, 4, entry.Moves)

	submitted, err := s.SubmitName("   ")
	require.NoError(t, err)
	assert.True(t, submitted.Has(EffectLeaderboardEntry))
	_, ok = s.PendingEntry()
	assert.False(t, ok)

	entries := records.Leaderboard().Entries(deck.Easy)
	require.Len(t, entries, 1)
	assert.Equal(t, DefaultPlayerName, entries[0].Name)
	assert.Equal(t, testEpochTime.UnixMilli(), entries[0].Date)

	again, err := s.SubmitName("Ada")
	require.NoError(t, err)
	assert.Equal(t, ReasonNothingPending, again.Reason)
}

func TestVictory_LowerScoreStillQualifies(t *testing.T) {
	records := store.NewRecords(store.NewMemory(), quietLogger())
	_, err := records.SaveHighScore(deck.Easy, 10_000)
	require.NoError(t, err)

	s := newTestSession(t, deck.Easy, SinglePlayer, WithRecords(records))
	var res Result
	for range deck.Easy.Pairs() {
		res = matchNext(t, s)
	}

	assert.False(t, res.Has(EffectNewRecord))
	assert.True(t, res.Has(EffectLeaderboardQualified))
	assert.False(t, s.Snapshot().NewRecord)
	assert.True(t, s.Snapshot().PendingEntry)
	assert.Equal(t, 10_000, records.HighScore(deck.Easy))
}

func TestSubmitName_StoreErrorKeepsEntryPending(t *testing.T) {
	records := store.NewRecords(failingStore{store.NewMemory()}, quietLogger())
	s := newTestSession(t, deck.Easy, SinglePlayer, WithRecords(records))
	for range deck.Easy.Pairs() {
		matchNext(t, s)
	}

	_, err := s.SubmitName("Ada")
	assert.ErrorIs(t, err, errDiskFull)
	_, ok := s.PendingEntry()
	assert.True(t, ok)
}

func TestTick(t *testing.T) {
	s := newTestSession(t, deck.Easy, SinglePlayer)

	assert.Equal(t, ReasonTimerStopped, s.Tick().Reason, "timer waits for the first flip")

	matchNext(t, s)
	ticks(s, DecayInterval-1)
	assert.Equal(t, MatchPoints, s.Ledger().Score)

	res := s.Tick()
	decay, ok := res.Find(EffectDecay)
	require.True(t, ok)
	assert.Equal(t, -DecayPenalty, decay.Points)
	assert.Equal(t, MatchPoints-DecayPenalty, s.Ledger().Score)
	assert.Equal(t, DecayInterval, s.Timer().Elapsed)
}

func TestTick_NoDecayWhileResolving(t *testing.T) {
	s := newTestSession(t, deck.Easy, SinglePlayer)
	matchNext(t, s)
	ticks(s, DecayInterval-1)
	mismatchNext(t, s)

	res := s.Tick()
	assert.True(t, res.Accepted)
	assert.False(t, res.Has(EffectDecay))
	assert.Equal(t, MatchPoints-MismatchPenalty, s.Ledger().Score)
}

func TestTick_DecayNeverGoesNegative(t *testing.T) {
	s := newTestSession(t, deck.Easy, SinglePlayer)
	require.True(t, s.Flip(0).Accepted)

	ticks(s, DecayInterval*3)
	assert.Zero(t, s.Ledger().Score)
	assert.Equal(t, DecayInterval*3, s.Timer().Elapsed)
}

func TestHint(t *testing.T) {
	s := newTestSession(t, deck.Easy, SinglePlayer)

	denied := s.Hint()
	assert.False(t, denied.Accepted)
	assert.Equal(t, ReasonHintUnaffordable, denied.Reason)
	effect, ok := denied.Find(EffectHintDenied)
	require.True(t, ok)
	assert.Equal(t, ReasonHintUnaffordable, effect.Reason)
	assert.Equal(t, deck.Easy.Hints(), s.Hints().Remaining)
	assert.False(t, s.Timer().Started, "hints do not start the timer")

	matchNext(t, s)
	assert.True(t, s.HintAvailable())

	res := s.Hint()
	require.True(t, res.Accepted)
	hint, ok := res.Find(EffectHint)
	require.True(t, ok)
	require.Len(t, hint.Cards, 1)
	card := hint.Cards[0]
	assert.Equal(t, -HintCost, hint.Points)
	assert.Equal(t, MatchPoints-HintCost, s.Ledger().Score)
	assert.Equal(t, deck.Easy.Hints()-1, s.Hints().Remaining)
	assert.Equal(t, 1, s.Ledger().Moves, "hints are not moves")

	view := s.Snapshot()
	assert.True(t, view.Cards[card].Hinted)
	assert.False(t, view.Cards[card].FaceUp)
	assert.Equal(t, hint.Token, view.Cards[card].Token)

	require.Len(t, res.Deferred, 1)
	task := res.Deferred[0]
	assert.Equal(t, TaskHintTimeout, task.Kind)
	assert.Equal(t, HintFlashDuration, task.After)
	assert.Equal(t, card, task.Card)

	ended := s.Fire(task)
	assert.True(t, ended.Has(EffectHintEnded))
	view = s.Snapshot()
	assert.False(t, view.Cards[card].Hinted)
	assert.Empty(t, view.Cards[card].Token)
}

func TestHint_Exhausted(t *testing.T) {
	s := newTestSession(t, deck.Hard, SinglePlayer)
	matchNext(t, s)
	matchNext(t, s)

	require.True(t, s.Hint().Accepted)
	res := s.Hint()
	assert.Equal(t, ReasonHintsExhausted, res.Reason)
	assert.True(t, res.Has(EffectHintDenied))
	assert.Equal(t, 2*MatchPoints-HintCost, s.Ledger().Score)
	assert.False(t, s.HintAvailable())
}

func TestHint_OnlyRevealsHiddenCards(t *testing.T) {
	s := newTestSession(t, deck.Easy, SinglePlayer)
	for range deck.Easy.Pairs() - 1 {
		matchNext(t, s)
	}
	last := unmatchedPairs(s)[0]
	require.True(t, s.Flip(last[0]).Accepted)

	res := s.Hint()
	require.True(t, res.Accepted)
	hint, _ := res.Find(EffectHint)
	assert.Equal(t, []int{last[1]}, hint.Cards)

	final := s.Flip(last[1])
	assert.True(t, final.Has(EffectMatch), "a hinted card can still be flipped")
	assert.Equal(t, Victory, s.Outcome())
}

func TestMultiplayer(t *testing.T) {
	s := newTestSession(t, deck.Easy, Multiplayer)

	res := matchNext(t, s)
	match, _ := res.Find(EffectMatch)
	assert.Equal(t, 1, match.Player)
	assert.Equal(t, MatchPoints, s.Players().Score(1))
	assert.Equal(t, 1, s.Players().Active, "a match keeps the turn")

	res = mismatchNext(t, s)
	turn, ok := res.Find(EffectTurnSwitch)
	require.True(t, ok)
	assert.Equal(t, 2, turn.Player)
	assert.False(t, res.Has(EffectLifeLost))
	assert.Equal(t, StartingLives, s.Ledger().Lives)
	assert.Zero(t, s.Ledger().Score)
	assert.Equal(t, 2, s.Ledger().Moves)
	fireAll(t, s, res)

	res = s.Hint()
	assert.Equal(t, ReasonHintUnaffordable, res.Reason)

	matchNext(t, s)
	matchNext(t, s)
	assert.Equal(t, 2*MatchPoints, s.Players().Score(2))

	ticks(s, DecayInterval)
	assert.Equal(t, 2*MatchPoints, s.Players().Score(2), "no decay in two-player games")

	res = matchNext(t, s)
	victory, ok := res.Find(EffectVictory)
	require.True(t, ok)
	assert.Equal(t, 2, victory.Player)
	assert.False(t, res.Has(EffectTimeBonus))
	assert.Equal(t, 2, s.Players().Winner())
	assert.Equal(t, Victory, s.Outcome())
}

func TestMultiplayer_Draw(t *testing.T) {
	s := newTestSession(t, deck.Easy, Multiplayer)

	matchNext(t, s)
	matchNext(t, s)
	fireAll(t, s, mismatchNext(t, s))
	matchNext(t, s)
	matchNext(t, s)

	assert.Equal(t, Victory, s.Outcome())
	assert.Equal(t, Draw, s.Players().Winner())
	assert.Equal(t, Draw, s.Snapshot().Winner)
}

func TestMultiplayer_DoesNotTouchRecords(t *testing.T) {
	records := store.NewRecords(store.NewMemory(), quietLogger())
	s := newTestSession(t, deck.Easy, Multiplayer, WithRecords(records))
	for range deck.Easy.Pairs() {
		matchNext(t, s)
	}

	assert.Zero(t, records.Stats().TotalGames)
	assert.Zero(t, records.HighScore(deck.Easy))
	_, ok := s.PendingEntry()
	assert.False(t, ok)
}

func TestReset_InvalidatesPendingTasks(t *testing.T) {
	s := newTestSession(t, deck.Easy, SinglePlayer)
	matchNext(t, s)
	res := mismatchNext(t, s)
	before := s.Epoch()

	reset := s.Reset()
	assert.True(t, reset.Has(EffectReset))
	assert.Greater(t, s.Epoch(), before)
	assert.False(t, s.Locked())
	assert.Zero(t, s.Ledger().Score)
	assert.Equal(t, StartingLives, s.Ledger().Lives)
	assert.False(t, s.Timer().Started)

	stale := s.Fire(res.Deferred[0])
	assert.False(t, stale.Accepted)
	assert.Equal(t, ReasonStaleTask, stale.Reason)
	assert.Empty(t, stale.Effects)
}

func TestReconfigure(t *testing.T) {
	s := newTestSession(t, deck.Easy, SinglePlayer)
	matchNext(t, s)

	animals, err := deck.LookupTheme("animals")
	require.NoError(t, err)
	res, err := s.Reconfigure(Config{Difficulty: deck.Expert, Theme: animals, Mode: Multiplayer})
	require.NoError(t, err)
	assert.True(t, res.Has(EffectReset))

	view := s.Snapshot()
	assert.Len(t, view.Cards, 20)
	assert.Equal(t, "animals", view.Theme)
	assert.Equal(t, Multiplayer, view.Mode)
	assert.Equal(t, 1, view.HintsRemaining)
	assert.Zero(t, view.MatchedPairs)

	epoch := s.Epoch()
	tiny := deck.Theme{Name: "tiny", Icons: []deck.Token{"a"}}
	_, err = s.Reconfigure(Config{Difficulty: deck.Easy, Theme: tiny})
	assert.ErrorIs(t, err, deck.ErrThemeTooSmall)
	assert.Equal(t, epoch, s.Epoch(), "a failed reconfigure keeps the board")
	assert.Len(t, s.Snapshot().Cards, 20)
}

func TestSession_RandomEventsKeepInvariants(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		rng := randutil.New(seed)
		mode := SinglePlayer
		if seed%4 == 0 {
			mode = Multiplayer
		}
		d := deck.Difficulties[int(seed)%len(deck.Difficulties)]
		s := newTestSession(t, d, mode, WithRNG(randutil.New(seed*7)))

		var pending []Deferred
		for step := 0; step < 400; step++ {
			var res Result
			switch n := rng.IntN(10); {
			case n < 6:
				res = s.Flip(rng.IntN(s.deck.Len()+2) - 1)
			case n < 7:
				res = s.Hint()
			case n < 9:
				res = s.Tick()
			default:
				if len(pending) > 0 {
					i := rng.IntN(len(pending))
					res = s.Fire(pending[i])
					pending = append(pending[:i], pending[i+1:]...)
				}
			}
			pending = append(pending, res.Deferred...)

			view := s.Snapshot()
			require.GreaterOrEqual(t, view.Score, 0, "seed %d step %d", seed, step)
			require.GreaterOrEqual(t, view.Lives, 0)
			require.LessOrEqual(t, view.Lives, StartingLives)
			require.GreaterOrEqual(t, view.HintsRemaining, 0)

			unresolved := 0
			for _, c := range view.Cards {
				if c.FaceUp && !c.Matched {
					unresolved++
				}
			}
			require.LessOrEqual(t, unresolved, 2, "seed %d step %d", seed, step)

			if view.Outcome != InProgress {
				require.True(t, view.Locked)
				require.False(t, view.TimerRunning)
				s.Reset()
				pending = pending[:0]
			}
		}
	}
}
