package game

// State is what the searcher needs from a game position. Apply mutates the
// receiver in place, so the searcher always works on clones.
type State interface {
	Player() Piece
	LegalMoves() []int
	Apply(index int) error
	Clone() State
	IsTerminal() bool
	Winner() Piece
	LastMove() int
	RandomPlayoutMove(rng RandSource) int
}

// RandSource is the random source used by rollouts. Both golang.org/x/exp/rand
// and math/rand generators satisfy it.
type RandSource interface {
	Intn(n int) int
}
