package game

import (
	"fmt"
	"strings"

	"github.com/lox/memorymatch/internal/deck"
	"github.com/lox/memorymatch/internal/store"
)

// DefaultPlayerName is used for leaderboard entries submitted without a name
const DefaultPlayerName = "Player"

// Records is the persistence the arbiter consults at the end of a
// single-player game
type Records interface {
	HighScore(d deck.Difficulty) int
	SaveHighScore(d deck.Difficulty, score int) (bool, error)
	Qualifies(d deck.Difficulty, score int) bool
	AddLeaderboardEntry(d deck.Difficulty, entry store.LeaderboardEntry) error
	RecordGame(d deck.Difficulty, won bool, elapsed int) error
}

func (s *Session) checkVictory(res *Result) {
	if s.ledger.MatchedPairs != s.deck.Pairs() {
		return
	}

	s.outcome = Victory
	s.timer.stop()
	s.round.locked = true

	if s.cfg.Mode == Multiplayer {
		res.emit(Effect{Kind: EffectVictory, Player: s.players.Winner()})
		s.logger.Info("Board complete",
			"player1", s.players.Scores[0],
			"player2", s.players.Scores[1],
			"winner", s.players.Winner())
	} else {
		applied := s.ledger.adjust(TimeBonus(s.timer.Elapsed))
		res.emit(Effect{Kind: EffectTimeBonus, Points: applied, Score: s.ledger.Score})
		res.emit(Effect{Kind: EffectVictory, Score: s.ledger.Score})
		s.logger.Info("Victory",
			"difficulty", s.cfg.Difficulty,
			"score", s.ledger.Score,
			"elapsed", s.timer.Elapsed,
			"moves", s.ledger.Moves)
		s.settleVictory(res)
	}

	res.schedule(Deferred{Kind: TaskVictoryDisplay, Epoch: s.epoch, After: VictoryDisplayDelay})
}

// settleVictory updates statistics, the stored high score and the pending
// leaderboard entry
func (s *Session) settleVictory(res *Result) {
	if s.records == nil {
		return
	}
	d := s.cfg.Difficulty
	score := s.ledger.Score

	if err := s.records.RecordGame(d, true, s.timer.Elapsed); err != nil {
		s.logger.Error("Failed to record win", "error", err)
	}

	if score > s.records.HighScore(d) {
		s.newRecord = true
		if _, err := s.records.SaveHighScore(d, score); err != nil {
			s.logger.Error("Failed to save high score", "error", err)
		}
		res.emit(Effect{Kind: EffectNewRecord, Score: score})
	}

	if s.newRecord || s.records.Qualifies(d, score) {
		s.pending = &store.LeaderboardEntry{
			Score: score,
			Time:  s.timer.Elapsed,
			Moves: s.ledger.Moves,
		}
		res.emit(Effect{Kind: EffectLeaderboardQualified, Score: score})
	}
}

// defeat ends a single-player game whose lives ran out
func (s *Session) defeat(res *Result) {
	s.outcome = Defeat
	s.timer.stop()
	s.round.locked = true
	res.emit(Effect{Kind: EffectDefeat, Score: s.ledger.Score})

	s.logger.Info("Defeat",
		"difficulty", s.cfg.Difficulty,
		"score", s.ledger.Score,
		"elapsed", s.timer.Elapsed,
		"pairs", s.ledger.MatchedPairs)

	if s.records != nil {
		if err := s.records.RecordGame(s.cfg.Difficulty, false, s.timer.Elapsed); err != nil {
			s.logger.Error("Failed to record loss", "error", err)
		}
	}
}

// PendingEntry returns the leaderboard entry awaiting a name, if any
func (s *Session) PendingEntry() (store.LeaderboardEntry, bool) {
	if s.pending == nil {
		return store.LeaderboardEntry{}, false
	}
	return *s.pending, true
}

// SubmitName stores the pending leaderboard entry under name. Blank names
// become DefaultPlayerName. The result is not accepted when nothing was
// pending. On a store error the entry stays pending.
func (s *Session) SubmitName(name string) (Result, error) {
	if s.pending == nil {
		return ignored(ReasonNothingPending), nil
	}

	entry := *s.pending
	entry.Name = strings.TrimSpace(name)
	if entry.Name == "" {
		entry.Name = DefaultPlayerName
	}
	entry.Date = s.now().UnixMilli()

	if s.records != nil {
		if err := s.records.AddLeaderboardEntry(s.cfg.Difficulty, entry); err != nil {
			return Result{}, fmt.Errorf("failed to save leaderboard entry: %w", err)
		}
	}
	s.pending = nil

	res := Result{Accepted: true}
	res.emit(Effect{Kind: EffectLeaderboardEntry, Score: entry.Score})
	return res, nil
}
