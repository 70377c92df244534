package engine

import (
	"context"
	"fmt"
	"time"

	"gridmcts/experiments/metrics"
	"gridmcts/game"
	"gridmcts/searcher"
	"gridmcts/searcher/agent"

	"github.com/rs/zerolog/log"
)

// Observer is called after every applied move with the resulting board.
type Observer func(move metrics.MoveMetric, state *game.Board)

type Option func(e *LocalEngine)

func WithObserver(observer Observer) Option {
	return func(e *LocalEngine) {
		e.observer = observer
	}
}

type LocalEngine struct {
	State    *game.Board
	players  [2]Player // Indexed by piece, X first
	observer Observer
}

// NewLocalEngine plays state to the end with playerA as X and playerB as O.
func NewLocalEngine(state *game.Board, playerA, playerB Player, options ...Option) *LocalEngine {
	if playerA == nil || playerB == nil {
		panic("need two players")
	}
	e := &LocalEngine{
		State:    state,
		players:  [2]Player{playerA, playerB},
		observer: func(metrics.MoveMetric, *game.Board) {},
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Run executes the entire game loop until there is a winner or a tie.
func (e *LocalEngine) Run(ctx context.Context) (game.Piece, metrics.GameMetric, []metrics.MoveMetric, error) {
	gameMetric := metrics.GameMetric{
		StartingPlayer: e.State.Player(),
		StartTime:      time.Now(),
	}
	var moveMetrics []metrics.MoveMetric

	log.Info().Msgf("player %s is starting", e.State.Player())

	for step := 1; !e.State.IsTerminal(); step++ {
		if err := ctx.Err(); err != nil {
			return game.Empty, gameMetric, moveMetrics, err
		}

		mover := e.State.Player()
		move, searchMetric, err := e.players[mover-1].FindMove(ctx, e.State.Copy())
		if err != nil {
			return game.Empty, gameMetric, moveMetrics, err
		}
		if move == searcher.NoMove {
			if err := ctx.Err(); err != nil {
				return game.Empty, gameMetric, moveMetrics, err
			}
			return game.Empty, gameMetric, moveMetrics, fmt.Errorf("%w: player %s at step %d", ErrNoMove, mover, step)
		}
		if err := e.State.Apply(move); err != nil {
			return game.Empty, gameMetric, moveMetrics, fmt.Errorf("player %s at step %d: %w", mover, step, err)
		}

		moveMetric := metrics.MoveMetric{
			Step:         step,
			Player:       mover,
			Move:         move,
			SearchMetric: searchMetric,
		}
		moveMetrics = append(moveMetrics, moveMetric)
		log.Debug().Msgf("step %d: player %s played %d", step, mover, move)
		e.observer(moveMetric, e.State)
	}

	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.Winner = e.State.Winner()
	gameMetric.TotalMoves = len(moveMetrics)

	return gameMetric.Winner, gameMetric, moveMetrics, nil
}

// AgentPlayer lets a searcher agent take part in a local game.
type AgentPlayer struct {
	Agent agent.Agent
}

func (p AgentPlayer) FindMove(ctx context.Context, state *game.Board) (int, metrics.SearchMetric, error) {
	candidate, searchMetric := p.Agent.FindMove(state)
	if candidate == searcher.NoMove { // Search stopped before producing a move
		return candidate, searchMetric, nil
	}

	if !state.IsLegal(candidate) {
		legal := state.LegalMoves()
		if len(legal) == 0 {
			return candidate, searchMetric, nil
		}
		log.Warn().Msgf("agent returned move %d which is not legal, playing %d instead", candidate, legal[0])
		return legal[0], searchMetric, nil
	}

	return candidate, searchMetric, nil
}
