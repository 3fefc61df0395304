package game

import "github.com/lox/memorymatch/internal/deck"

// HintCost is the score deducted for each hint
const HintCost = 50

// Hints is the per-board hint allowance
type Hints struct {
	Remaining int
}

func newHints(d deck.Difficulty) Hints {
	return Hints{Remaining: d.Hints()}
}

// HintAvailable reports whether Hint would currently be accepted, ignoring
// whether an eligible card exists
func (s *Session) HintAvailable() bool {
	return s.outcome == InProgress && s.hints.Remaining > 0 && s.ledger.Score >= HintCost
}

// Hint briefly reveals one random card that is neither face up nor matched.
// It does not count as a flip or a move. When no hints remain, or the score
// cannot cover HintCost, the request is denied with an EffectHintDenied and
// nothing else changes.
func (s *Session) Hint() Result {
	if s.outcome != InProgress {
		return ignored(ReasonGameOver)
	}

	var reason IgnoreReason
	switch {
	case s.hints.Remaining == 0:
		reason = ReasonHintsExhausted
	case s.ledger.Score < HintCost:
		reason = ReasonHintUnaffordable
	}
	if reason != ReasonNone {
		res := ignored(reason)
		res.emit(Effect{Kind: EffectHintDenied, Reason: reason})
		return res
	}

	eligible := make([]int, 0, s.deck.Len())
	for i := 0; i < s.deck.Len(); i++ {
		if !s.visible(i) {
			eligible = append(eligible, i)
		}
	}
	if len(eligible) == 0 {
		return ignored(ReasonNoEligibleCard)
	}

	i := eligible[s.rng.IntN(len(eligible))]
	card, _ := s.deck.Card(i)
	s.hinted[i] = true
	applied := s.ledger.adjust(-HintCost)
	s.hints.Remaining--

	s.logger.Debug("Hint used", "card", i, "remaining", s.hints.Remaining)

	res := Result{Accepted: true}
	res.emit(Effect{Kind: EffectHint, Cards: []int{i}, Token: card.ID, Points: applied, Score: s.ledger.Score})
	res.schedule(Deferred{Kind: TaskHintTimeout, Epoch: s.epoch, After: HintFlashDuration, Card: i})
	return res
}

// Hints returns a copy of the hint allowance
func (s *Session) Hints() Hints {
	return s.hints
}
