package metrics

import (
	"time"

	"gridmcts/game"
)

type SearchMetric struct {
	Budget      int
	Exploration float64
	Duration    time.Duration
	Episodes    int // Completed rollouts
	Restarts    int // Descents abandoned after locking a node
	LockedNodes int
	TreeSize    int
	RootLocked  bool
}

type MoveMetric struct {
	Step   int
	Player game.Piece
	Move   int
	SearchMetric
}

type GameMetric struct {
	StartingPlayer game.Piece
	Winner         game.Piece // Empty for a tie
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

// Collector gathers statistics of a single search. Searches are
// single-threaded, so implementations need no synchronisation.
type Collector interface {
	Start(budget int, exploration float64)
	AddEpisode()
	AddRestart()
	AddLock()
	Complete(treeSize int, rootLocked bool) SearchMetric
}

type collector struct {
	budget      int
	exploration float64
	startTime   time.Time
	episodes    int
	restarts    int
	locked      int
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(budget int, exploration float64) {
	*m = collector{
		budget:      budget,
		exploration: exploration,
		startTime:   time.Now(),
	}
}

func (m *collector) AddEpisode() {
	m.episodes++
}

func (m *collector) AddRestart() {
	m.restarts++
}

func (m *collector) AddLock() {
	m.locked++
}

func (m *collector) Complete(treeSize int, rootLocked bool) SearchMetric {
	return SearchMetric{
		Budget:      m.budget,
		Exploration: m.exploration,
		Duration:    time.Since(m.startTime),
		Episodes:    m.episodes,
		Restarts:    m.restarts,
		LockedNodes: m.locked,
		TreeSize:    treeSize,
		RootLocked:  rootLocked,
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(budget int, exploration float64) {}
func (m *dummyCollector) AddEpisode()                           {}
func (m *dummyCollector) AddRestart()                           {}
func (m *dummyCollector) AddLock()                              {}
func (m *dummyCollector) Complete(treeSize int, rootLocked bool) SearchMetric {
	return SearchMetric{}
}
