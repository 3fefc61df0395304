package deck

import (
	"errors"
	"fmt"
	"strings"
)

// Token is the opaque icon identifier shown on a card face. Two cards in a
// deck share each token.
type Token string

// String returns the token as text
func (t Token) String() string {
	return string(t)
}

// Card represents one position on the board
type Card struct {
	ID      Token
	Matched bool
}

// Difficulty selects the number of pairs on the board and the hint allowance
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
	Expert
)

// ErrUnknownDifficulty is returned when a difficulty name cannot be parsed
var ErrUnknownDifficulty = errors.New("unknown difficulty")

// Difficulties lists every difficulty in ascending order
var Difficulties = []Difficulty{Easy, Medium, Hard, Expert}

// String returns the lowercase name used in storage keys and config files
func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	case Expert:
		return "expert"
	default:
		return "unknown"
	}
}

// Pairs returns the number of distinct pairs dealt for the difficulty
func (d Difficulty) Pairs() int {
	switch d {
	case Easy:
		return 4
	case Medium:
		return 6
	case Hard:
		return 8
	case Expert:
		return 10
	default:
		return 0
	}
}

// Hints returns the number of hints available per board
func (d Difficulty) Hints() int {
	switch d {
	case Easy:
		return 3
	case Medium:
		return 2
	case Hard, Expert:
		return 1
	default:
		return 0
	}
}

// Valid reports whether d is one of the known difficulties
func (d Difficulty) Valid() bool {
	return d >= Easy && d <= Expert
}

// ParseDifficulty parses a difficulty name (case insensitive)
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	case "expert":
		return Expert, nil
	}
	return Easy, fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
}

// MarshalText implements encoding.TextMarshaler
func (d Difficulty) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownDifficulty, int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Difficulty) UnmarshalText(text []byte) error {
	parsed, err := ParseDifficulty(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
