package searcher

import (
	"context"
	"fmt"
	"math"
	"time"

	"gridmcts/experiments/metrics"
	"gridmcts/game"
	"gridmcts/meta"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type Option func(m *MCTS)

// MCTS recommends moves by Monte Carlo tree search with UCB1 selection. A new
// tree is built for every call to Recommend; the previous one is kept only
// for Stats until then.
type MCTS struct {
	budget      int
	exploration float64
	rng         *rand.Rand
	ctx         context.Context
	metrics     metrics.Collector

	tree        *arena
	totalVisits int
	rootMover   game.Piece
}

func WithBudget(budget int) Option {
	return func(m *MCTS) {
		if budget > 0 {
			m.budget = budget
		}
	}
}

func WithExploration(c float64) Option {
	return func(m *MCTS) {
		if c >= 0 {
			m.exploration = c
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.rng = rand.New(rand.NewSource(seed))
	}
}

func WithRand(rng *rand.Rand) Option {
	return func(m *MCTS) {
		if rng != nil {
			m.rng = rng
		}
	}
}

// WithContext stops the search between iterations once ctx is done.
func WithContext(ctx context.Context) Option {
	return func(m *MCTS) {
		if ctx != nil {
			m.ctx = ctx
		}
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = metrics.NewCollector()
	}
}

func NewMCTS(options ...Option) *MCTS {
	m := &MCTS{ // Default values
		budget:      meta.BUDGET,
		exploration: meta.EXPLORATION,
		ctx:         context.Background(),
		metrics:     metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	return m
}

// RecommendMove runs a single search with the given parameters.
func RecommendMove(state game.State, budget int, exploration float64, rootMover game.Piece, rng *rand.Rand) int {
	m := NewMCTS(WithBudget(budget), WithExploration(exploration), WithRand(rng))
	move, _ := m.Recommend(state, rootMover)
	return move
}

// Recommend searches from state on behalf of rootMover and returns the most
// visited root move, or NoMove when the position has no continuation. The
// caller's state is never modified. An Empty rootMover means the player to
// move in state.
func (m *MCTS) Recommend(state game.State, rootMover game.Piece) (int, metrics.SearchMetric) {
	if rootMover == game.Empty {
		rootMover = state.Player()
	}
	m.tree = newArena(state.Clone())
	m.totalVisits = 0
	m.rootMover = rootMover

	m.metrics.Start(m.budget, m.exploration)
	budget := m.budget
	for budget > 0 && !m.tree.get(rootID).locked {
		if err := m.ctx.Err(); err != nil {
			log.Debug().Err(err).Msgf("search stopped with %d rollouts left", budget)
			break
		}
		if m.simulate() {
			budget--
		}
	}

	move := m.bestMove()
	metric := m.metrics.Complete(m.tree.size(), m.tree.get(rootID).locked)

	log.Debug().
		Int("move", move).
		Int("nodes", m.tree.size()).
		Int("total_visits", m.totalVisits).
		Bool("root_locked", m.tree.get(rootID).locked).
		Msg("search complete")
	return move, metric
}

// simulate runs one iteration. It returns false when the descent ended by
// locking a node instead of completing a rollout.
func (m *MCTS) simulate() bool {
	leaf := m.selectThenExpand()
	if leaf == noNode {
		return false
	}
	result := m.rollout(m.tree.get(leaf).state)
	m.backup(leaf, result)
	m.metrics.AddEpisode()
	return true
}

// selectThenExpand descends from the root and returns the first unvisited
// child reached, expanding childless nodes on the way. It returns noNode after
// locking a node that has nothing left to explore.
func (m *MCTS) selectThenExpand() nodeID {
	id := rootID
	for {
		if n := m.tree.get(id); n.isLeaf() {
			if n.isTerminal() || m.expand(id) == 0 {
				m.lock(id)
				return noNode
			}
		}

		child := m.pickChild(id)
		if child == noNode { // Every child is locked
			m.lock(id)
			return noNode
		}
		if m.tree.get(child).visits == 0 {
			return child
		}
		id = child
	}
}

// pickChild returns the first unvisited unlocked child, otherwise the
// unlocked child with the highest UCB1 score. Ties keep the earlier child.
func (m *MCTS) pickChild(id nodeID) nodeID {
	best := noNode
	bestScore := math.Inf(-1)
	for _, childID := range m.tree.get(id).children {
		child := m.tree.get(childID)
		if child.locked {
			continue
		}
		if child.visits == 0 {
			return childID
		}
		if score := child.ucb1(m.totalVisits, m.exploration); score > bestScore {
			bestScore = score
			best = childID
		}
	}
	return best
}

func (m *MCTS) expand(id nodeID) int {
	parent := m.tree.get(id).state
	moves := parent.LegalMoves()
	children := make([]nodeID, 0, len(moves))
	for _, move := range moves {
		state := parent.Clone()
		if err := state.Apply(move); err != nil {
			panic(fmt.Sprintf("expanding legal move %d: %v", move, err))
		}
		children = append(children, m.tree.add(id, move, state))
	}
	m.tree.get(id).children = children
	return len(children)
}

func (m *MCTS) lock(id nodeID) {
	m.tree.get(id).lock()
	m.metrics.AddLock()
	if id != rootID {
		m.metrics.AddRestart()
	}
}

func (m *MCTS) rollout(state game.State) outcome {
	state = state.Clone()
	for !state.IsTerminal() {
		move := state.RandomPlayoutMove(m.rng)
		if err := state.Apply(move); err != nil {
			panic(fmt.Sprintf("rollout move %d: %v", move, err))
		}
	}

	switch state.Winner() {
	case m.rootMover:
		return win
	case game.Empty:
		return tie
	default:
		return loss
	}
}

func (m *MCTS) backup(id nodeID, result outcome) {
	for id != noParent {
		n := m.tree.get(id)
		n.visits++
		m.totalVisits++
		if result == win {
			n.wins++
		}
		id = n.parent
	}
}

// bestMove returns a visited root move that wins immediately if one exists,
// otherwise the most visited root move.
func (m *MCTS) bestMove() int {
	root := m.tree.get(rootID)
	for _, childID := range root.children {
		child := m.tree.get(childID)
		if child.visits > 0 && child.state.IsTerminal() && child.state.Winner() == m.rootMover {
			return child.move
		}
	}

	if best, ok := MostVisited(m.Stats(1)); ok {
		return best.Move
	}
	return NoMove
}

// TotalVisits is the visit counter fed into UCB1 during the last search.
func (m *MCTS) TotalVisits() int {
	return m.totalVisits
}

// TreeSize is the number of nodes built by the last search.
func (m *MCTS) TreeSize() int {
	if m.tree == nil {
		return 0
	}
	return m.tree.size()
}

func (m *MCTS) Budget() int {
	return m.budget
}

func (m *MCTS) Exploration() float64 {
	return m.exploration
}
