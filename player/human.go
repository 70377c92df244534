package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gridmcts/experiments/metrics"
	"gridmcts/game"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog/log"
)

const Prompt = "Select next location: "

// ErrQuit is returned when the human asks to leave the game.
var ErrQuit = errors.New("player quit")

type lineReader interface {
	Readline() (string, error)
}

// Human reads moves from the console.
type Human struct {
	lines    lineReader
	renderer *Renderer
	out      io.Writer
	close    func() error
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

// NewHuman prompts on the terminal through readline.
func NewHuman(renderer *Renderer) (*Human, error) {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          Prompt,
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open console: %w", err)
	}
	return &Human{lines: l, renderer: renderer, out: l.Stdout(), close: l.Close}, nil
}

func (h *Human) Close() error {
	if h.close == nil {
		return nil
	}
	return h.close()
}

// FindMove shows the board and asks until a free location is entered. -1,
// Ctrl-C or EOF quit the game.
func (h *Human) FindMove(ctx context.Context, state *game.Board) (int, metrics.SearchMetric, error) {
	h.renderer.Print(state)

	for {
		if err := ctx.Err(); err != nil {
			return 0, metrics.SearchMetric{}, err
		}

		line, err := h.lines.Readline()
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			return 0, metrics.SearchMetric{}, ErrQuit
		} else if err != nil {
			return 0, metrics.SearchMetric{}, fmt.Errorf("failed to read location: %w", err)
		}

		move, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			fmt.Fprintf(h.out, "%q is not a location, enter a number between 0 and %d\n", strings.TrimSpace(line), state.Size()-1)
			continue
		}
		if move == -1 {
			return 0, metrics.SearchMetric{}, ErrQuit
		}
		if err := state.Clone().Apply(move); errors.Is(err, game.ErrInvalidMove) {
			log.Debug().Err(err).Msg("rejected location")
			fmt.Fprintf(h.out, "location %d is not available\n", move)
			continue
		}
		return move, metrics.SearchMetric{}, nil
	}
}
