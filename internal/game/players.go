package game

// Draw is returned by Players.Winner when both players have the same score
const Draw = 0

// Players tracks the active player and scores in a two-player game
type Players struct {
	Active int // 1 or 2
	Scores [2]int
}

func newPlayers() Players {
	return Players{Active: 1}
}

// Score returns the score of player 1 or 2
func (p Players) Score(player int) int {
	if player < 1 || player > 2 {
		return 0
	}
	return p.Scores[player-1]
}

// Winner returns the player with the higher score, or Draw
func (p Players) Winner() int {
	switch {
	case p.Scores[0] > p.Scores[1]:
		return 1
	case p.Scores[1] > p.Scores[0]:
		return 2
	default:
		return Draw
	}
}

func (p *Players) award(points int) {
	p.Scores[p.Active-1] += points
}

func (p *Players) switchTurn() {
	if p.Active == 1 {
		p.Active = 2
	} else {
		p.Active = 1
	}
}
