package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load(nil)
		require.NoError(t, err)

		require.Equal(t, ModePlay, cfg.Mode)
		require.Equal(t, 3, cfg.Rows)
		require.Equal(t, 3, cfg.Cols)
		require.Equal(t, 3, cfg.WinLength)
		require.Equal(t, 5000, cfg.Budget)
		require.Equal(t, 2.0, cfg.Exploration)
		require.Equal(t, FirstHuman, cfg.First)
		require.Zero(t, cfg.Seed)
		require.False(t, cfg.Debug)
	})

	t.Run("mode and flags", func(t *testing.T) {
		cfg, err := Load([]string{"arena", "--budget=200", "--games", "4", "--seed=9", "--win-length=4", "--rows=4", "--cols=4"})
		require.NoError(t, err)

		require.Equal(t, ModeArena, cfg.Mode)
		require.Equal(t, 200, cfg.Budget)
		require.Equal(t, 4, cfg.Games)
		require.Equal(t, uint64(9), cfg.Seed)
		require.Equal(t, 4, cfg.WinLength)
	})

	t.Run("environment overrides defaults", func(t *testing.T) {
		t.Setenv("GRIDMCTS_BUDGET", "100")
		t.Setenv("GRIDMCTS_WIN_LENGTH", "2")
		t.Setenv("GRIDMCTS_FIRST", "engine")

		cfg, err := Load(nil)
		require.NoError(t, err)
		require.Equal(t, 100, cfg.Budget)
		require.Equal(t, 2, cfg.WinLength)
		require.Equal(t, FirstEngine, cfg.First)
	})

	t.Run("flags override environment", func(t *testing.T) {
		t.Setenv("GRIDMCTS_BUDGET", "100")

		cfg, err := Load([]string{"--budget=50"})
		require.NoError(t, err)
		require.Equal(t, 50, cfg.Budget)
	})

	t.Run("config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "gridmcts.yaml")
		require.NoError(t, os.WriteFile(path, []byte("budget: 77\nexploration: 1.5\nfirst: engine\n"), 0644))

		cfg, err := Load([]string{"--config", path, "--exploration=0.5"})
		require.NoError(t, err)
		require.Equal(t, 77, cfg.Budget)
		require.Equal(t, 0.5, cfg.Exploration, "flags take precedence over the file")
		require.Equal(t, FirstEngine, cfg.First)
	})

	t.Run("missing config file", func(t *testing.T) {
		_, err := Load([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")})
		require.Error(t, err)
	})

	t.Run("unknown flag", func(t *testing.T) {
		_, err := Load([]string{"--nope"})
		require.Error(t, err)
	})

	t.Run("more than one mode", func(t *testing.T) {
		_, err := Load([]string{"play", "serve"})
		require.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Mode: ModePlay, Rows: 3, Cols: 3, WinLength: 3,
			Budget: 10, Exploration: 2, First: FirstHuman,
			Games: 1, Workers: 1, Experiment: ExperimentBudget,
		}
	}

	require.NoError(t, func() error { c := valid(); return c.Validate() }())

	tests := map[string]func(c *Config){
		"mode":        func(c *Config) { c.Mode = "train" },
		"win length":  func(c *Config) { c.WinLength = 4 },
		"rows":        func(c *Config) { c.Rows = 0 },
		"budget":      func(c *Config) { c.Budget = 0 },
		"exploration": func(c *Config) { c.Exploration = -0.1 },
		"first":       func(c *Config) { c.First = "nobody" },
		"games":       func(c *Config) { c.Games = 0 },
		"workers":     func(c *Config) { c.Workers = 0 },
		"temperature": func(c *Config) { c.Temperature = -1 },
		"experiment":  func(c *Config) { c.Experiment = "speed" },
	}
	for name, breakIt := range tests {
		t.Run(name, func(t *testing.T) {
			c := valid()
			breakIt(&c)
			require.ErrorIs(t, c.Validate(), ErrInvalidConfig)
		})
	}
}

func TestYAML(t *testing.T) {
	cfg, err := Load([]string{"serve", "--addr=:9090"})
	require.NoError(t, err)

	out, err := cfg.YAML()
	require.NoError(t, err)

	var decoded Config
	require.NoError(t, yaml.Unmarshal([]byte(out), &decoded))
	require.Equal(t, *cfg, decoded)
	require.NotContains(t, out, "remote", "empty remote is omitted")
}

func TestNewBoard(t *testing.T) {
	cfg := Config{Rows: 2, Cols: 5, WinLength: 4}
	b := cfg.NewBoard()
	require.Equal(t, 10, b.Size())
	require.Equal(t, 4, b.WinLength())
}
