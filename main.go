package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gridmcts/config"
	"gridmcts/engine"
	"gridmcts/experiments"
	"gridmcts/experiments/metrics"
	"gridmcts/game"
	"gridmcts/player"
	"gridmcts/searcher"
	"gridmcts/searcher/agent"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	setupLogging(false)

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogging(cfg.Debug)
	if out, err := cfg.YAML(); err == nil {
		log.Debug().Msgf("loaded config:\n%s", out)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg)
	stop()
	if err != nil {
		log.Fatal().Err(err).Msgf("%s failed", cfg.Mode)
	}
}

func setupLogging(debug bool) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}

func run(ctx context.Context, cfg *config.Config) error {
	switch cfg.Mode {
	case config.ModeArena:
		return runArena(ctx, cfg)
	case config.ModeServe:
		return agent.StartAgentServer(ctx, cfg.Addr, agent.NewEvaluationAgent(newMCTS(ctx, cfg)))
	}
	return play(ctx, cfg)
}

func newMCTS(ctx context.Context, cfg *config.Config) *searcher.MCTS {
	options := []searcher.Option{
		searcher.WithBudget(cfg.Budget),
		searcher.WithExploration(cfg.Exploration),
		searcher.WithContext(ctx),
		searcher.WithMetrics(),
	}
	if cfg.Seed != 0 {
		options = append(options, searcher.WithSeed(cfg.Seed))
	}
	return searcher.NewMCTS(options...)
}

// play runs a console game between a human and the engine.
func play(ctx context.Context, cfg *config.Config) error {
	renderer := player.NewRenderer(os.Stdout)
	human, err := player.NewHuman(renderer)
	if err != nil {
		return err
	}
	defer human.Close()

	var mcts *searcher.MCTS
	var computer engine.Player
	if cfg.Remote != "" {
		computer = engine.NewRemoteAgent(cfg.Remote)
	} else {
		mcts = newMCTS(ctx, cfg)
		computer = engine.AgentPlayer{Agent: agent.NewEvaluationAgent(mcts)}
	}

	playerA, playerB := engine.Player(human), computer
	if cfg.First == config.FirstEngine {
		playerA, playerB = computer, human
	}

	board := cfg.NewBoard()
	e := engine.NewLocalEngine(board, playerA, playerB, engine.WithObserver(func(move metrics.MoveMetric, state *game.Board) {
		if (move.Player == game.PlayerA) != (cfg.First == config.FirstEngine) {
			return
		}
		fmt.Printf("Engine played %d after %d rollouts\n", move.Move, move.Episodes)
		if mcts != nil && cfg.Debug {
			fmt.Print(searcher.FormatStats(mcts.Stats(1)))
		}
	}))

	winner, gameMetric, _, err := e.Run(ctx)
	if errors.Is(err, player.ErrQuit) {
		log.Info().Msg("bye")
		return nil
	} else if err != nil {
		return err
	}

	renderer.Print(board)
	log.Info().Msgf("game over after %d moves in %s, winner: %s", gameMetric.TotalMoves, gameMetric.Duration.Round(time.Millisecond), winnerName(winner))
	return nil
}

func runArena(ctx context.Context, cfg *config.Config) error {
	settings := experiments.Settings{
		Rows:      cfg.Rows,
		Cols:      cfg.Cols,
		WinLength: cfg.WinLength,
		Games:     cfg.Games,
		Workers:   cfg.Workers,
		Seed:      cfg.Seed,
		OutDir:    cfg.Out,
	}
	baseline := metrics.AgentConfig{Budget: cfg.Budget, Exploration: cfg.Exploration}

	var summaries []experiments.Summary
	var err error
	switch cfg.Experiment {
	case config.ExperimentExploration:
		summaries, err = experiments.RunExplorationExperiment(ctx, settings, baseline, cfg.Temperature)
	default:
		summaries, err = experiments.RunBudgetExperiment(ctx, settings, baseline, cfg.Temperature)
	}
	if err != nil {
		return err
	}

	for _, s := range summaries {
		fmt.Printf("agent %d vs agent %d: %d-%d, %d ties\n", s.Baseline, s.Challenger, s.BaselineWins, s.ChallengerWins, s.Ties)
	}
	return nil
}

func winnerName(winner game.Piece) string {
	if winner == game.Empty {
		return "tie"
	}
	return winner.String()
}
