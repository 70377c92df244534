package engine

import (
	"context"
	"errors"

	"gridmcts/experiments/metrics"
	"gridmcts/game"
)

// ErrNoMove is returned when a player cannot produce a move in a running game.
var ErrNoMove = errors.New("player returned no move")

// Player chooses moves for one side of a game. state is a copy owned by the
// player.
type Player interface {
	FindMove(ctx context.Context, state *game.Board) (int, metrics.SearchMetric, error)
}

type Engine interface {
	// Run plays the game until it is won or the board is full
	Run(ctx context.Context) (winner game.Piece, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}
