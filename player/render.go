package player

import (
	"io"
	"strconv"
	"strings"

	"gridmcts/game"

	"github.com/muesli/termenv"
)

// Renderer draws boards with X in red, O in blue and the index of every free
// cell, so a human can type the location they see.
type Renderer struct {
	out *termenv.Output
}

func NewRenderer(w io.Writer, options ...termenv.OutputOption) *Renderer {
	return &Renderer{out: termenv.NewOutput(w, options...)}
}

func (r *Renderer) Render(b *game.Board) string {
	width := len(strconv.Itoa(b.Size() - 1))
	separator := make([]string, b.Cols())
	for c := range separator {
		separator[c] = strings.Repeat("-", width+2)
	}

	var sb strings.Builder
	for row := 0; row < b.Rows(); row++ {
		cells := make([]string, b.Cols())
		for col := range cells {
			cells[col] = " " + r.cell(b, row*b.Cols()+col, width) + " "
		}
		sb.WriteString(strings.Join(cells, "|"))
		sb.WriteByte('\n')
		if row < b.Rows()-1 {
			sb.WriteString(strings.Join(separator, "+"))
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func (r *Renderer) cell(b *game.Board, index, width int) string {
	piece := b.Cell(index)
	switch piece {
	case game.PlayerA:
		return r.out.String(pad(piece.String(), width)).Foreground(r.out.Color("1")).Bold().String()
	case game.PlayerB:
		return r.out.String(pad(piece.String(), width)).Foreground(r.out.Color("4")).Bold().String()
	}
	return r.out.String(pad(strconv.Itoa(index), width)).Faint().String()
}

func pad(s string, width int) string {
	return strings.Repeat(" ", width-len(s)) + s
}

// Print writes the board followed by a status line.
func (r *Renderer) Print(b *game.Board) {
	io.WriteString(r.out, r.Render(b))
	io.WriteString(r.out, Status(b))
	io.WriteString(r.out, "\n")
}

// Status describes whose turn it is or how the game ended.
func Status(b *game.Board) string {
	switch {
	case b.Winner() != game.Empty:
		return "Winner: " + b.Winner().String()
	case b.IsTerminal():
		return "Tie"
	}
	return "Next: " + b.Player().String()
}
