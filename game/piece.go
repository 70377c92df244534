package game

// Piece is the content of a single cell. The zero value is an empty cell.
type Piece uint8

const (
	Empty Piece = iota
	PlayerA
	PlayerB
)

// Opponent returns the other player. Empty has no opponent.
func (p Piece) Opponent() Piece {
	switch p {
	case PlayerA:
		return PlayerB
	case PlayerB:
		return PlayerA
	}
	return Empty
}

func (p Piece) String() string {
	switch p {
	case PlayerA:
		return "X"
	case PlayerB:
		return "O"
	}
	return " "
}
