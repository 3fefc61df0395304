package game

// Phase is the state of the current round
type Phase int

const (
	Idle Phase = iota
	OneFlipped
	Resolving
)

// String returns the string representation of a phase
func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case OneFlipped:
		return "one_flipped"
	case Resolving:
		return "resolving"
	default:
		return "unknown"
	}
}

const noCard = -1

// round holds at most two face-up, unresolved cards
type round struct {
	first  int
	second int
	locked bool
}

func newRound() round {
	return round{first: noCard, second: noCard}
}

func (r round) phase() Phase {
	switch {
	case r.second != noCard:
		return Resolving
	case r.first != noCard:
		return OneFlipped
	default:
		return Idle
	}
}

func (r *round) clear() {
	*r = newRound()
}
