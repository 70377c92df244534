package searcher

// NoMove is returned when the root position has no continuation.
const NoMove = -1

// Rollout outcome from the root mover's perspective
type outcome int

const (
	loss outcome = iota
	tie
	win
)
