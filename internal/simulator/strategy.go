package simulator

import (
	"fmt"
	rand "math/rand/v2"

	"github.com/lox/memorymatch/internal/deck"
	"github.com/lox/memorymatch/internal/game"
)

// Strategy picks which card to flip next
type Strategy interface {
	Name() string
	// Observe is called for every card face the player has seen
	Observe(card int, token deck.Token)
	// Choose returns a card that is neither matched nor face up
	Choose(view game.View, rng *rand.Rand) int
}

// Strategies lists the available strategy names
var Strategies = []string{"random", "perfect-memory"}

// NewStrategy creates a fresh strategy by name
func NewStrategy(name string) (Strategy, error) {
	switch name {
	case "random":
		return randomStrategy{}, nil
	case "perfect-memory", "memory":
		return &memoryStrategy{seen: make(map[int]deck.Token)}, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
}

// hidden returns the cards that may be flipped
func hidden(view game.View) []int {
	out := make([]int, 0, len(view.Cards))
	for _, c := range view.Cards {
		if !c.Matched && !c.FaceUp {
			out = append(out, c.Index)
		}
	}
	return out
}

// randomStrategy flips uniformly random hidden cards and remembers nothing
type randomStrategy struct{}

func (randomStrategy) Name() string            { return "random" }
func (randomStrategy) Observe(int, deck.Token) {}
func (randomStrategy) Choose(view game.View, rng *rand.Rand) int {
	cards := hidden(view)
	return cards[rng.IntN(len(cards))]
}

// memoryStrategy never forgets a card it has seen. It completes known
// pairs first and otherwise explores unseen cards.
type memoryStrategy struct {
	seen map[int]deck.Token
}

func (s *memoryStrategy) Name() string { return "perfect-memory" }

func (s *memoryStrategy) Observe(card int, token deck.Token) {
	if token != "" {
		s.seen[card] = token
	}
}

func (s *memoryStrategy) Choose(view game.View, rng *rand.Rand) int {
	cards := hidden(view)
	var unseen []int
	for _, i := range cards {
		if _, ok := s.seen[i]; !ok {
			unseen = append(unseen, i)
		}
	}

	if view.Phase == game.OneFlipped {
		first := -1
		for _, c := range view.Cards {
			if c.FaceUp && !c.Matched {
				first = c.Index
				break
			}
		}
		if first >= 0 {
			want := s.seen[first]
			for _, i := range cards {
				if tok, ok := s.seen[i]; ok && tok == want {
					return i
				}
			}
		}
	} else {
		byToken := make(map[deck.Token]int)
		for _, i := range cards {
			tok, ok := s.seen[i]
			if !ok {
				continue
			}
			if _, paired := byToken[tok]; paired {
				return byToken[tok]
			}
			byToken[tok] = i
		}
	}

	if len(unseen) > 0 {
		return unseen[rng.IntN(len(unseen))]
	}
	return cards[rng.IntN(len(cards))]
}
