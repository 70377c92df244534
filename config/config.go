package config

import (
	"errors"
	"fmt"
	"strings"

	"gridmcts/game"
	"gridmcts/meta"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	ModePlay  = "play"
	ModeArena = "arena"
	ModeServe = "serve"

	FirstHuman  = "human"
	FirstEngine = "engine"

	ExperimentBudget      = "budget"
	ExperimentExploration = "exploration"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Mode        string  `mapstructure:"-" yaml:"mode"`
	Rows        int     `mapstructure:"rows" yaml:"rows"`
	Cols        int     `mapstructure:"cols" yaml:"cols"`
	WinLength   int     `mapstructure:"win-length" yaml:"win-length"`
	Budget      int     `mapstructure:"budget" yaml:"budget"`
	Exploration float64 `mapstructure:"exploration" yaml:"exploration"`
	Seed        uint64  `mapstructure:"seed" yaml:"seed"` // 0 seeds from the clock
	First       string  `mapstructure:"first" yaml:"first"`
	Remote      string  `mapstructure:"remote" yaml:"remote,omitempty"`
	Addr        string  `mapstructure:"addr" yaml:"addr"`
	Games       int     `mapstructure:"games" yaml:"games"`
	Workers     int     `mapstructure:"workers" yaml:"workers"`
	Experiment  string  `mapstructure:"experiment" yaml:"experiment"`
	Temperature float64 `mapstructure:"temperature" yaml:"temperature"`
	Out         string  `mapstructure:"out" yaml:"out"`
	Debug       bool    `mapstructure:"debug" yaml:"debug"`
}

func flagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("gridmcts", pflag.ContinueOnError)
	fs.String("config", "", "YAML file with settings; flags take precedence")
	fs.Int("rows", meta.ROWS, "rows of the grid")
	fs.Int("cols", meta.COLS, "columns of the grid")
	fs.Int("win-length", meta.WIN_LENGTH, "pieces in a row needed to win")
	fs.Int("budget", meta.BUDGET, "completed rollouts per search")
	fs.Float64("exploration", meta.EXPLORATION, "UCB1 exploration constant")
	fs.Uint64("seed", 0, "random seed, 0 seeds from the clock")
	fs.String("first", FirstHuman, "who moves first in play mode: human or engine")
	fs.String("remote", "", "agent server URL to use instead of the local engine in play mode")
	fs.String("addr", meta.AGENT_ADDR, "listen address in serve mode")
	fs.Int("games", meta.GAMES, "games per matchup in arena mode")
	fs.Int("workers", meta.WORKERS, "games played at once in arena mode")
	fs.String("experiment", ExperimentBudget, "arena experiment: budget or exploration")
	fs.Float64("temperature", 0, "arena challenger samples moves by visits^(1/temperature) when positive")
	fs.String("out", meta.OUT_DIR, "directory for arena results")
	fs.Bool("debug", false, "log at debug level")
	return fs
}

// Load reads settings from, in increasing precedence, built-in defaults, an
// optional YAML file, GRIDMCTS_* environment variables and flags. The first
// positional argument selects the mode.
func Load(args []string) (*Config, error) {
	fs := flagSet()
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("GRIDMCTS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{Mode: ModePlay}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	switch rest := fs.Args(); len(rest) {
	case 0:
	case 1:
		cfg.Mode = rest[0]
	default:
		return nil, fmt.Errorf("%w: expected a single mode, got %q", ErrInvalidConfig, rest)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := game.NewBoard(c.Rows, c.Cols, c.WinLength); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	switch {
	case c.Mode != ModePlay && c.Mode != ModeArena && c.Mode != ModeServe:
		return fmt.Errorf("%w: unknown mode %q, want play, arena or serve", ErrInvalidConfig, c.Mode)
	case c.Budget < 1:
		return fmt.Errorf("%w: budget must be positive, got %d", ErrInvalidConfig, c.Budget)
	case c.Exploration < 0:
		return fmt.Errorf("%w: exploration must not be negative, got %g", ErrInvalidConfig, c.Exploration)
	case c.First != FirstHuman && c.First != FirstEngine:
		return fmt.Errorf("%w: first must be human or engine, got %q", ErrInvalidConfig, c.First)
	case c.Games < 1:
		return fmt.Errorf("%w: games must be positive, got %d", ErrInvalidConfig, c.Games)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidConfig, c.Workers)
	case c.Experiment != ExperimentBudget && c.Experiment != ExperimentExploration:
		return fmt.Errorf("%w: experiment must be budget or exploration, got %q", ErrInvalidConfig, c.Experiment)
	case c.Temperature < 0:
		return fmt.Errorf("%w: temperature must not be negative, got %g", ErrInvalidConfig, c.Temperature)
	}
	return nil
}

// NewBoard returns an empty board of the configured shape.
func (c *Config) NewBoard() *game.Board {
	b, err := game.NewBoard(c.Rows, c.Cols, c.WinLength)
	if err != nil {
		panic(err) // Validate rejects such configs
	}
	return b
}

// YAML renders the effective settings, suitable as a --config file.
func (c *Config) YAML() (string, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}
	return string(out), nil
}
