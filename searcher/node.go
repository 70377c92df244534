package searcher

import "gridmcts/game"

// nodeID addresses a node inside the search arena. Children are owned through
// their ids in the parent's children slice; parent ids are back references
// only.
type nodeID int32

const (
	rootID   nodeID = 0
	noParent nodeID = -1
	noNode   nodeID = -1
)

type node struct {
	parent   nodeID
	children []nodeID
	move     int // Move that led here from the parent, NoMove for the root
	state    game.State
	visits   int
	wins     int // Rollouts won by the root mover
	locked   bool
}

func (n *node) isLeaf() bool {
	return len(n.children) == 0
}

func (n *node) isTerminal() bool {
	return n.locked || n.state.IsTerminal()
}

func (n *node) lock() {
	n.locked = true
}

// ucb1 must only be called on visited nodes.
func (n *node) ucb1(totalVisits int, c float64) float64 {
	return newUCB(c, totalVisits).evaluate(n.wins, n.visits)
}

// arena stores the tree of one search. Appending may move nodes, so callers
// hold ids rather than pointers across calls to add.
type arena struct {
	nodes []node
}

func newArena(root game.State) *arena {
	a := &arena{nodes: make([]node, 0, 1024)}
	a.nodes = append(a.nodes, node{parent: noParent, move: NoMove, state: root})
	return a
}

func (a *arena) get(id nodeID) *node {
	return &a.nodes[id]
}

func (a *arena) add(parent nodeID, move int, state game.State) nodeID {
	a.nodes = append(a.nodes, node{parent: parent, move: move, state: state})
	return nodeID(len(a.nodes) - 1)
}

func (a *arena) size() int {
	return len(a.nodes)
}
