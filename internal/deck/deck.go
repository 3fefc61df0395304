package deck

import (
	"errors"
	"fmt"
	rand "math/rand/v2"
)

// ErrThemeTooSmall is returned when a theme cannot supply enough distinct
// icons for the requested difficulty
var ErrThemeTooSmall = errors.New("icon pack too small for difficulty")

// Deck is the ordered board layout for one game
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// Build deals a new deck: the first Pairs() icons of the theme, each
// duplicated, then shuffled. The rng is retained for later Shuffle calls.
func Build(d Difficulty, theme Theme, rng *rand.Rand) (*Deck, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownDifficulty, int(d))
	}
	pairs := d.Pairs()
	if got := theme.distinctPrefix(pairs); got < pairs {
		return nil, fmt.Errorf("%w: %s needs %d distinct icons, %q has %d",
			ErrThemeTooSmall, d, pairs, theme.Name, got)
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	deck := &Deck{
		cards: make([]Card, 0, pairs*2),
		rng:   rng,
	}
	for _, icon := range theme.Icons[:pairs] {
		deck.cards = append(deck.cards, Card{ID: icon}, Card{ID: icon})
	}
	deck.Shuffle()
	return deck, nil
}

// Shuffle randomizes the order of cards in the deck (Fisher-Yates)
func (d *Deck) Shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Len returns the number of cards on the board
func (d *Deck) Len() int {
	return len(d.cards)
}

// Pairs returns the number of pairs in the deck
func (d *Deck) Pairs() int {
	return len(d.cards) / 2
}

// Card returns the card at position i
func (d *Deck) Card(i int) (Card, bool) {
	if i < 0 || i >= len(d.cards) {
		return Card{}, false
	}
	return d.cards[i], true
}

// Cards returns a copy of the current layout
func (d *Deck) Cards() []Card {
	out := make([]Card, len(d.cards))
	copy(out, d.cards)
	return out
}

// MarkMatched flags the card at position i as matched
func (d *Deck) MarkMatched(i int) {
	if i >= 0 && i < len(d.cards) {
		d.cards[i].Matched = true
	}
}

// Tokens returns the icon token at every position, in board order
func (d *Deck) Tokens() []Token {
	out := make([]Token, len(d.cards))
	for i, c := range d.cards {
		out[i] = c.ID
	}
	return out
}
