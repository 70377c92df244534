package agent

import (
	"gridmcts/experiments/metrics"
	"gridmcts/game"
)

type Agent interface {
	// FindMove returns a move for the player to move in state and the search
	// metrics (if collected). searcher.NoMove means the game is over.
	FindMove(state game.State) (int, metrics.SearchMetric)
}
