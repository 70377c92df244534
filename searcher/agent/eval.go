package agent

import (
	"gridmcts/experiments/metrics"
	"gridmcts/game"
	"gridmcts/searcher"
)

type evaluationAgent struct {
	mcts *searcher.MCTS
}

// NewEvaluationAgent returns an agent that always plays the searcher's
// recommendation.
func NewEvaluationAgent(mcts *searcher.MCTS) Agent {
	return evaluationAgent{mcts: mcts}
}

func (a evaluationAgent) FindMove(state game.State) (int, metrics.SearchMetric) {
	return a.mcts.Recommend(state, state.Player())
}
