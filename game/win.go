package game

// Run directions as (row, col) steps: right, down, down-right, down-left.
// Every line on the grid is covered by exactly one of them when read from its
// top (or left) end, so scanning from each occupied cell finds any run.
var directions = [4][2]int{
	{0, 1},
	{1, 0},
	{1, 1},
	{1, -1},
}

// findWinner returns the piece owning the first run of winLength found, or
// Empty when there is none.
func (b *Board) findWinner() Piece {
	for i, piece := range b.cells {
		if piece == Empty {
			continue
		}
		row, col := i/b.cols, i%b.cols
		for _, d := range directions {
			if b.runFrom(row, col, d[0], d[1], piece) {
				return piece
			}
		}
	}
	return Empty
}

// runFrom checks winLength cells starting at (row, col) stepping by
// (dr, dc). The far end is bounds-checked before any cell is read.
func (b *Board) runFrom(row, col, dr, dc int, piece Piece) bool {
	endRow := row + dr*(b.winLength-1)
	endCol := col + dc*(b.winLength-1)
	if endRow < 0 || endRow >= b.rows || endCol < 0 || endCol >= b.cols {
		return false
	}

	for k := 1; k < b.winLength; k++ {
		if b.cells[(row+dr*k)*b.cols+col+dc*k] != piece {
			return false
		}
	}
	return true
}
