package game

import (
	"fmt"
	"strings"

	"gridmcts/utils"
)

// NoLastMove is reported by LastMove before any piece is placed.
const NoLastMove = -1

// Board is a rows x cols grid where a run of winLength identical pieces wins.
// Cells are stored row-major, so index = row*cols + col.
type Board struct {
	rows      int
	cols      int
	winLength int
	cells     []Piece
	player    Piece // The player to move
	winner    Piece // Empty until decided
	legal     []int // Indices of empty cells
	lastMove  int
}

// NewBoard creates an empty board with PlayerA to move.
func NewBoard(rows, cols, winLength int) (*Board, error) {
	if err := validateDimensions(rows, cols, winLength); err != nil {
		return nil, err
	}

	b := &Board{
		rows:      rows,
		cols:      cols,
		winLength: winLength,
		cells:     make([]Piece, rows*cols),
		player:    PlayerA,
		legal:     make([]int, rows*cols),
		lastMove:  NoLastMove,
	}
	for i := range b.legal {
		b.legal[i] = i
	}
	return b, nil
}

// NewStandardBoard creates an empty 3x3 board with three in a row to win.
func NewStandardBoard() *Board {
	b, err := NewBoard(3, 3, 3)
	if err != nil {
		panic(err)
	}
	return b
}

// FromCells builds a board from an arbitrary position. Legal moves and the
// winner are derived from the cells; player is the side to move.
func FromCells(rows, cols, winLength int, cells []Piece, player Piece) (*Board, error) {
	if err := validateDimensions(rows, cols, winLength); err != nil {
		return nil, err
	}
	if len(cells) != rows*cols {
		return nil, fmt.Errorf("%w: got %d cells for a %dx%d grid", ErrInvalidBoard, len(cells), rows, cols)
	}
	if player != PlayerA && player != PlayerB {
		return nil, fmt.Errorf("%w: player to move must be X or O, got %d", ErrInvalidBoard, player)
	}

	b := &Board{
		rows:      rows,
		cols:      cols,
		winLength: winLength,
		cells:     make([]Piece, len(cells)),
		player:    player,
		legal:     make([]int, 0, len(cells)),
		lastMove:  NoLastMove,
	}
	for i, piece := range cells {
		if piece > PlayerB {
			return nil, fmt.Errorf("%w: cell %d holds unknown piece %d", ErrInvalidBoard, i, piece)
		}
		b.cells[i] = piece
		if piece == Empty {
			b.legal = append(b.legal, i)
		}
	}
	b.winner = b.findWinner()
	return b, nil
}

func validateDimensions(rows, cols, winLength int) error {
	if rows < 1 || cols < 1 {
		return fmt.Errorf("%w: grid must be at least 1x1, got %dx%d", ErrInvalidBoard, rows, cols)
	}
	if winLength < 1 || winLength > max(rows, cols) {
		return fmt.Errorf("%w: win length %d does not fit a %dx%d grid", ErrInvalidBoard, winLength, rows, cols)
	}
	return nil
}

// Apply places the mover's piece on index, then hands the turn over.
func (b *Board) Apply(index int) error {
	if b.winner != Empty {
		return fmt.Errorf("%w: game already won by %s", ErrInvalidMove, b.winner)
	}

	legal, ok := utils.Remove(b.legal, index)
	if !ok {
		return fmt.Errorf("%w: cell %d is not available", ErrInvalidMove, index)
	}
	b.legal = legal

	b.cells[index] = b.player
	b.player = b.player.Opponent()
	b.lastMove = index
	b.winner = b.findWinner()
	return nil
}

// IsLegal reports whether index can be played right now.
func (b *Board) IsLegal(index int) bool {
	return b.winner == Empty && utils.FindIndex(b.legal, index) >= 0
}

// LegalMoves returns the empty cells. The slice is shared with the board and
// must not be modified by the caller.
func (b *Board) LegalMoves() []int {
	return b.legal
}

func (b *Board) IsTerminal() bool {
	return len(b.legal) == 0 || b.winner != Empty
}

// RandomPlayoutMove draws one of the legal moves uniformly from rng.
func (b *Board) RandomPlayoutMove(rng RandSource) int {
	if len(b.legal) == 0 {
		panic("random playout move requested on a board without legal moves")
	}
	return b.legal[rng.Intn(len(b.legal))]
}

func (b *Board) Clone() State {
	return b.Copy()
}

// Copy is Clone with the concrete type.
func (b *Board) Copy() *Board {
	cells := make([]Piece, len(b.cells))
	copy(cells, b.cells)

	legal := make([]int, len(b.legal))
	copy(legal, b.legal)

	return &Board{
		rows:      b.rows,
		cols:      b.cols,
		winLength: b.winLength,
		cells:     cells,
		player:    b.player,
		winner:    b.winner,
		legal:     legal,
		lastMove:  b.lastMove,
	}
}

func (b *Board) Player() Piece    { return b.player }
func (b *Board) Winner() Piece    { return b.winner }
func (b *Board) LastMove() int    { return b.lastMove }
func (b *Board) Rows() int        { return b.rows }
func (b *Board) Cols() int        { return b.cols }
func (b *Board) WinLength() int   { return b.winLength }
func (b *Board) Size() int        { return len(b.cells) }
func (b *Board) Cell(i int) Piece { return b.cells[i] }

// Cells returns a copy of the grid in row-major order.
func (b *Board) Cells() []Piece {
	cells := make([]Piece, len(b.cells))
	copy(cells, b.cells)
	return cells
}

// String draws the grid with '|' between cells and '-' between rows.
func (b *Board) String() string {
	var sb strings.Builder
	for r := 0; r < b.rows; r++ {
		for c := 0; c < b.cols; c++ {
			sb.WriteString(b.cells[r*b.cols+c].String())
			if c < b.cols-1 {
				sb.WriteByte('|')
			}
		}
		sb.WriteByte('\n')
		if r < b.rows-1 {
			sb.WriteString(strings.Repeat("-", b.cols*2-1))
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
