package agent

import (
	"math"

	"gridmcts/experiments/metrics"
	"gridmcts/game"
	"gridmcts/searcher"

	"github.com/samber/lo"
	"golang.org/x/exp/rand"
)

type trainingAgent struct {
	mcts        *searcher.MCTS
	temperature float64
	rng         *rand.Rand
}

// NewTrainingAgent returns an agent for self-play that samples root moves in
// proportion to visits^(1/temperature) instead of always taking the most
// visited one. An immediate win found by the search is still played.
func NewTrainingAgent(mcts *searcher.MCTS, temperature float64, rng *rand.Rand) Agent {
	if temperature <= 0 {
		panic("temperature must be positive")
	}
	return trainingAgent{mcts: mcts, temperature: temperature, rng: rng}
}

func (a trainingAgent) FindMove(state game.State) (int, metrics.SearchMetric) {
	best, metric := a.mcts.Recommend(state, state.Player())
	if best == searcher.NoMove || wins(state, best) {
		return best, metric
	}

	visited := lo.Filter(a.mcts.Stats(1), func(s searcher.ChildStat, _ int) bool { return s.Visits > 0 })
	policy := adjustTemperature(visited, a.temperature)
	return sample(visited, policy, a.rng.Float64()), metric
}

func wins(state game.State, move int) bool {
	next := state.Clone()
	if err := next.Apply(move); err != nil {
		return false
	}
	return next.Winner() == state.Player()
}

func adjustTemperature(stats []searcher.ChildStat, temperature float64) []float64 {
	// Compute temperature-adjusted move probabilities
	exponent := 1.0 / temperature
	sum := 0.0
	policy := make([]float64, len(stats))
	for i, s := range stats {
		policy[i] = math.Pow(float64(s.Visits), exponent)
		sum += policy[i]
	}
	// Normalize
	for i := range policy {
		policy[i] /= sum
	}
	return policy
}

func sample(stats []searcher.ChildStat, policy []float64, sampled float64) int {
	cumulative := 0.0
	for i, prob := range policy {
		cumulative += prob
		if sampled < cumulative {
			return stats[i].Move
		}
	}
	return stats[len(stats)-1].Move // Fallback in case of rounding errors
}
