package searcher

import (
	"fmt"
	"math"
	"strings"

	"github.com/samber/lo"
)

// ChildStat describes one node of the last search tree. UCB1 is NaN for
// nodes that were never visited.
type ChildStat struct {
	Move     int
	Visits   int
	Wins     int
	UCB1     float64
	Locked   bool
	Children []ChildStat
}

// Stats returns the root's children of the last search, descending depth
// levels (depth 1 lists the root moves only).
func (m *MCTS) Stats(depth int) []ChildStat {
	if m.tree == nil || depth < 1 {
		return nil
	}
	return m.childStats(rootID, depth)
}

func (m *MCTS) childStats(id nodeID, depth int) []ChildStat {
	return lo.Map(m.tree.get(id).children, func(childID nodeID, _ int) ChildStat {
		child := m.tree.get(childID)
		stat := ChildStat{
			Move:   child.move,
			Visits: child.visits,
			Wins:   child.wins,
			UCB1:   math.NaN(),
			Locked: child.locked,
		}
		if child.visits > 0 {
			stat.UCB1 = child.ucb1(m.totalVisits, m.exploration)
		}
		if depth > 1 {
			stat.Children = m.childStats(childID, depth-1)
		}
		return stat
	})
}

// MostVisited returns the stat with the most visits, earliest first on ties.
func MostVisited(stats []ChildStat) (ChildStat, bool) {
	visited := lo.Filter(stats, func(s ChildStat, _ int) bool { return s.Visits > 0 })
	if len(visited) == 0 {
		return ChildStat{}, false
	}
	return lo.MaxBy(visited, func(a, b ChildStat) bool { return a.Visits > b.Visits }), true
}

// FormatStats renders stats one node per line, indented by tree level.
func FormatStats(stats []ChildStat) string {
	var sb strings.Builder
	formatStats(&sb, stats, 0)
	return sb.String()
}

func formatStats(sb *strings.Builder, stats []ChildStat, level int) {
	for _, s := range stats {
		sb.WriteString(strings.Repeat("  ", level))
		fmt.Fprintf(sb, ">move: %d visits: %d wins: %d ucb1: %.4f", s.Move, s.Visits, s.Wins, s.UCB1)
		if s.Locked {
			sb.WriteString(" locked")
		}
		sb.WriteByte('\n')
		formatStats(sb, s.Children, level+1)
	}
}
