package experiments

import (
	"context"
	"fmt"
	"math"
	"time"

	"gridmcts/engine"
	"gridmcts/experiments/metrics"
	"gridmcts/game"
	"gridmcts/searcher"
	"gridmcts/searcher/agent"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
)

// Settings are shared by every game of an experiment.
type Settings struct {
	Rows      int
	Cols      int
	WinLength int
	Games     int // Per match up
	Workers   int // Games played at once
	Seed      uint64
	OutDir    string
}

// Summary tallies the games of one matchup. Each agent plays X in half of
// them.
type Summary struct {
	Baseline       int // AgentConfig.ID
	Challenger     int // AgentConfig.ID
	BaselineWins   int
	ChallengerWins int
	Ties           int
}

// RunBudgetExperiment pairs the baseline against copies of itself with
// smaller and larger rollout budgets.
func RunBudgetExperiment(ctx context.Context, s Settings, baseline metrics.AgentConfig, temperature float64) ([]Summary, error) {
	baseline.ID = 0
	configs := []metrics.AgentConfig{}
	for i, scale := range []float64{0.25, 0.5, 1, 2} {
		configs = append(configs, metrics.AgentConfig{
			ID:          i + 1,
			Budget:      max(1, int(float64(baseline.Budget)*scale)),
			Exploration: baseline.Exploration,
			Temperature: temperature,
		})
	}
	return runExperiment(ctx, "budget", s, baseline, configs)
}

// RunExplorationExperiment pairs the baseline against agents with the same
// budget and different exploration constants.
func RunExplorationExperiment(ctx context.Context, s Settings, baseline metrics.AgentConfig, temperature float64) ([]Summary, error) {
	baseline.ID = 0
	configs := []metrics.AgentConfig{}
	for i, c := range []float64{0.5, 1, math.Sqrt2, 2, 4} {
		configs = append(configs, metrics.AgentConfig{
			ID:          i + 1,
			Budget:      baseline.Budget,
			Exploration: c,
			Temperature: temperature,
		})
	}
	return runExperiment(ctx, "exploration", s, baseline, configs)
}

type gameJob struct {
	id       int // GameRecord.ID
	matchup  int
	x, o     metrics.AgentConfig
	seed     uint64
	metric   metrics.GameMetric
	moves    []metrics.MoveMetric
	baseline game.Piece // Side played by the baseline
}

func runExperiment(ctx context.Context, name string, s Settings, baseline metrics.AgentConfig, challengers []metrics.AgentConfig) ([]Summary, error) {
	seed := s.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	// Alternate the starting agent within each matchup
	jobs := []*gameJob{}
	for mi, challenger := range challengers {
		for i := 0; i < s.Games; i++ {
			job := &gameJob{
				id:       len(jobs) + 1,
				matchup:  mi,
				x:        baseline,
				o:        challenger,
				seed:     seed + uint64(len(jobs))*2,
				baseline: game.PlayerA,
			}
			if i%2 == 1 {
				job.x, job.o, job.baseline = challenger, baseline, game.PlayerB
			}
			jobs = append(jobs, job)
		}
	}

	log.Info().Msgf("starting %s experiment with %d games...", name, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, s.Workers))
	for _, job := range jobs {
		job := job // per-iteration copy; go directive lowered to 1.21 for the local toolchain
		g.Go(func() error {
			winner, gameMetric, moveMetrics, err := runGame(gctx, s, job)
			if err != nil {
				return fmt.Errorf("game %d: %w", job.id, err)
			}
			job.metric, job.moves = gameMetric, moveMetrics
			log.Info().Msgf("completed matchup %d of %d game %d with winner: %s", job.matchup+1, len(challengers), job.id, winnerName(winner))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Info().Msgf("completed %s experiment", name)

	if err := writeResults(s.OutDir, name, append([]metrics.AgentConfig{baseline}, challengers...), jobs); err != nil {
		return nil, err
	}

	summaries := make([]Summary, len(challengers))
	for mi, challenger := range challengers {
		games := lo.Filter(jobs, func(job *gameJob, _ int) bool { return job.matchup == mi })
		summaries[mi] = Summary{
			Baseline:   baseline.ID,
			Challenger: challenger.ID,
			BaselineWins: lo.CountBy(games, func(job *gameJob) bool {
				return job.metric.Winner == job.baseline
			}),
			ChallengerWins: lo.CountBy(games, func(job *gameJob) bool {
				return job.metric.Winner == job.baseline.Opponent()
			}),
			Ties: lo.CountBy(games, func(job *gameJob) bool {
				return job.metric.Winner == game.Empty
			}),
		}
		log.Info().Msgf("matchup %d: baseline %d wins, challenger %d wins, %d ties",
			mi+1, summaries[mi].BaselineWins, summaries[mi].ChallengerWins, summaries[mi].Ties)
	}
	return summaries, nil
}

func writeResults(outDir, name string, configs []metrics.AgentConfig, jobs []*gameJob) error {
	writer, err := metrics.NewWriter(outDir, name)
	if err != nil {
		return fmt.Errorf("failed to create experiment writer: %w", err)
	}

	if err := writer.WriteAgentConfigs(configs); err != nil {
		return fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	gameRecords := lo.Map(jobs, func(job *gameJob, _ int) metrics.GameRecord {
		return metrics.GameRecord{ID: job.id, Agent1: job.x.ID, Agent2: job.o.ID, GameMetric: job.metric}
	})
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")

	moveRecords := lo.FlatMap(jobs, func(job *gameJob, _ int) []metrics.MoveRecord {
		return lo.Map(job.moves, func(mm metrics.MoveMetric, _ int) metrics.MoveRecord {
			return metrics.MoveRecord{Game: job.id, MoveMetric: mm}
		})
	})
	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msgf("stored move records in %s", writer.Dir())
	return nil
}

// runGame executes a single game between two agents and returns the winner
func runGame(ctx context.Context, s Settings, job *gameJob) (game.Piece, metrics.GameMetric, []metrics.MoveMetric, error) {
	board, err := game.NewBoard(s.Rows, s.Cols, s.WinLength)
	if err != nil {
		return game.Empty, metrics.GameMetric{}, nil, err
	}
	e := engine.NewLocalEngine(board,
		engine.AgentPlayer{Agent: createAgent(ctx, job.x, job.seed)},
		engine.AgentPlayer{Agent: createAgent(ctx, job.o, job.seed+1)},
	)
	return e.Run(ctx)
}

func createAgent(ctx context.Context, config metrics.AgentConfig, seed uint64) agent.Agent {
	mcts := searcher.NewMCTS(
		searcher.WithBudget(config.Budget),
		searcher.WithExploration(config.Exploration),
		searcher.WithSeed(seed),
		searcher.WithContext(ctx),
		searcher.WithMetrics(),
	)
	if config.Temperature > 0 {
		return agent.NewTrainingAgent(mcts, config.Temperature, rand.New(rand.NewSource(^seed)))
	}
	return agent.NewEvaluationAgent(mcts)
}

func winnerName(winner game.Piece) string {
	if winner == game.Empty {
		return "tie"
	}
	return winner.String()
}
