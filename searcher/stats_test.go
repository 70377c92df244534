package searcher

import (
	"math"
	"strings"
	"testing"

	"gridmcts/game"

	"github.com/stretchr/testify/require"
)

func TestStats(t *testing.T) {
	t.Run("nil before any search", func(t *testing.T) {
		require.Nil(t, NewMCTS().Stats(1))
	})

	t.Run("depth limits nesting", func(t *testing.T) {
		m := NewMCTS(WithBudget(100), WithSeed(4))
		m.Recommend(game.NewStandardBoard(), game.PlayerA)

		require.Nil(t, m.Stats(0))
		for _, s := range m.Stats(1) {
			require.Nil(t, s.Children)
		}
		nested := m.Stats(2)
		require.Len(t, nested, 9)
		require.NotEmpty(t, nested[0].Children)
	})

	t.Run("unvisited children have no score", func(t *testing.T) {
		b, err := game.NewBoard(5, 5, 5)
		require.NoError(t, err)

		m := NewMCTS(WithBudget(3), WithSeed(4))
		m.Recommend(b, game.PlayerA)

		stats := m.Stats(1)
		require.Len(t, stats, 25)
		for i, s := range stats {
			require.Equal(t, i, s.Move)
			if i < 3 {
				require.Equal(t, 1, s.Visits)
				require.False(t, math.IsNaN(s.UCB1))
			} else {
				require.Zero(t, s.Visits)
				require.True(t, math.IsNaN(s.UCB1))
			}
		}
	})
}

func TestMostVisited(t *testing.T) {
	t.Run("earliest wins ties", func(t *testing.T) {
		best, ok := MostVisited([]ChildStat{
			{Move: 3, Visits: 2},
			{Move: 5, Visits: 7},
			{Move: 8, Visits: 7},
		})
		require.True(t, ok)
		require.Equal(t, 5, best.Move)
	})

	t.Run("nothing visited", func(t *testing.T) {
		_, ok := MostVisited([]ChildStat{{Move: 1}, {Move: 2}})
		require.False(t, ok)

		_, ok = MostVisited(nil)
		require.False(t, ok)
	})
}

func TestFormatStats(t *testing.T) {
	out := FormatStats([]ChildStat{
		{Move: 0, Visits: 4, Wins: 1, UCB1: 1.5, Children: []ChildStat{
			{Move: 1, Visits: 2, Wins: 0, UCB1: 0.75, Locked: true},
		}},
		{Move: 2, Visits: 0, UCB1: math.NaN()},
	})

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Equal(t, []string{
		">move: 0 visits: 4 wins: 1 ucb1: 1.5000",
		"  >move: 1 visits: 2 wins: 0 ucb1: 0.7500 locked",
		">move: 2 visits: 0 wins: 0 ucb1: NaN",
	}, lines)
}
