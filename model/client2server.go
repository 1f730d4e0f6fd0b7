package model

// Client frame types.
const (
	ClientMove     = "move"
	ClientNewRound = "new_round"
)

type MoveRequest struct {
	Color     string `json:"color"`
	Direction string `json:"direction"`
}

type ClientMessage struct {
	Type  string        `json:"type"`
	Moves []MoveRequest `json:"moves,omitempty"`
}

// ToMoves converts wire moves. Unknown colors and directions pass through as
// invalid values so the resolver skips just that move.
func (cm ClientMessage) ToMoves() []Move {
	moves := make([]Move, 0, len(cm.Moves))
	for _, m := range cm.Moves {
		c, err := ParseColor(m.Color)
		if err != nil {
			c = Color(-1)
		}
		moves = append(moves, Move{Color: c, Direction: ParseDirection(m.Direction)})
	}
	return moves
}
