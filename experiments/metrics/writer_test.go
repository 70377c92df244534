package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gridmcts/game"

	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriter(t *testing.T) {
	out := t.TempDir()
	w, err := NewWriter(out, "strength")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(w.Dir(), filepath.Join(out, "strength")))

	t.Run("agent configs", func(t *testing.T) {
		require.NoError(t, w.WriteAgentConfigs([]AgentConfig{
			{ID: 1, Budget: 500, Exploration: 2},
			{ID: 2, Budget: 5000, Exploration: 1.4, Temperature: 0.5},
		}))

		rows := readCSV(t, filepath.Join(w.Dir(), "agent_configs.csv"))
		require.Equal(t, [][]string{
			{"id", "budget", "exploration", "temperature"},
			{"1", "500", "2", "0"},
			{"2", "5000", "1.4", "0.5"},
		}, rows)
	})

	t.Run("game records", func(t *testing.T) {
		start := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		require.NoError(t, w.WriteGameRecords([]GameRecord{
			{ID: 1, Agent1: 1, Agent2: 2, GameMetric: GameMetric{
				StartingPlayer: game.PlayerA,
				Winner:         game.PlayerB,
				StartTime:      start,
				EndTime:        start.Add(time.Second),
				Duration:       time.Second,
				TotalMoves:     6,
			}},
			{ID: 2, Agent1: 2, Agent2: 1, GameMetric: GameMetric{StartingPlayer: game.PlayerA, Winner: game.Empty}},
		}))

		rows := readCSV(t, filepath.Join(w.Dir(), "game_records.csv"))
		require.Len(t, rows, 3)
		require.Equal(t, "winner", rows[0][4])
		require.Equal(t, []string{"1", "1", "2", "X", "O", "6", "2024-01-02T03:04:05Z", "2024-01-02T03:04:06Z", "1s"}, rows[1])
		require.Equal(t, "tie", rows[2][4])
	})

	t.Run("move records", func(t *testing.T) {
		require.NoError(t, w.WriteMoveRecords([]MoveRecord{
			{Game: 1, MoveMetric: MoveMetric{Step: 1, Player: game.PlayerA, Move: 4, SearchMetric: SearchMetric{
				Duration: time.Millisecond, Episodes: 500, Restarts: 2, LockedNodes: 3, TreeSize: 900,
			}}},
		}))

		rows := readCSV(t, filepath.Join(w.Dir(), "move_records.csv"))
		require.Equal(t, [][]string{
			{"game", "step", "player", "move", "duration", "episodes", "restarts", "locked_nodes", "tree_size", "root_locked"},
			{"1", "1", "X", "4", "1ms", "500", "2", "3", "900", "false"},
		}, rows)
	})
}

func TestCollector(t *testing.T) {
	t.Run("counts events of one search", func(t *testing.T) {
		c := NewCollector()
		c.Start(100, 2.0)
		c.AddEpisode()
		c.AddEpisode()
		c.AddLock()
		c.AddRestart()

		m := c.Complete(12, false)
		require.Equal(t, 100, m.Budget)
		require.Equal(t, 2.0, m.Exploration)
		require.Equal(t, 2, m.Episodes)
		require.Equal(t, 1, m.LockedNodes)
		require.Equal(t, 1, m.Restarts)
		require.Equal(t, 12, m.TreeSize)
		require.False(t, m.RootLocked)
	})

	t.Run("start resets counters", func(t *testing.T) {
		c := NewCollector()
		c.Start(10, 1.0)
		c.AddEpisode()
		c.Start(20, 1.0)

		require.Zero(t, c.Complete(1, true).Episodes)
	})

	t.Run("dummy collects nothing", func(t *testing.T) {
		c := NewDummyCollector()
		c.Start(10, 1.0)
		c.AddEpisode()
		require.Equal(t, SearchMetric{}, c.Complete(5, true))
	})
}
