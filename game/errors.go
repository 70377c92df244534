package game

import "errors"

var (
	// ErrInvalidMove is returned when a move targets an occupied or out of
	// range cell, or when the game is already decided.
	ErrInvalidMove = errors.New("invalid move")

	// ErrInvalidBoard is returned when a board cannot be built from the
	// given dimensions or cells.
	ErrInvalidBoard = errors.New("invalid board")
)
