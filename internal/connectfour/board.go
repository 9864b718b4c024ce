package connectfour

import (
	"errors"
	"fmt"
)

const (
	Rows    = 6
	Columns = 7

	// Connect is the run length required to win.
	Connect = 4
)

// Cell holds the owner of one board position.
type Cell int8

const (
	Empty     Cell = 0
	PlayerOne Cell = 1
	PlayerTwo Cell = 2
)

var (
	ErrColumnOutOfRange = errors.New("column out of range")
	ErrColumnFull       = errors.New("column is full")
)

// Board is a 6x7 grid, row 0 on top. Pieces occupy the lowest empty
// cell of their column, so no empty cell ever sits below an occupied one.
type Board [Rows][Columns]Cell

// NewBoard returns an empty board.
func NewBoard() Board {
	return Board{}
}

// Opponent returns the other player.
func Opponent(player Cell) Cell {
	if player == PlayerOne {
		return PlayerTwo
	}
	return PlayerOne
}

// Drop places a piece for player in the given column and returns the
// resulting board along with the row the piece landed in. The receiver
// is left untouched.
func (that Board) Drop(column int, player Cell) (Board, int, error) {
	if column < 0 || column >= Columns {
		return that, 0, fmt.Errorf("%w: %d", ErrColumnOutOfRange, column)
	}

	for row := Rows - 1; row >= 0; row-- {
		if that[row][column] == Empty {
			that[row][column] = player
			return that, row, nil
		}
	}

	return that, 0, fmt.Errorf("%w: %d", ErrColumnFull, column)
}

// ValidColumns lists the columns whose top cell is still empty, in order.
func (that Board) ValidColumns() []int {
	columns := make([]int, 0, Columns)
	for col := 0; col < Columns; col++ {
		if that[0][col] == Empty {
			columns = append(columns, col)
		}
	}
	return columns
}

// Winner returns the player owning four contiguous cells in any direction,
// or Empty when no winning line exists. Each axis is scanned once per cell
// from its leftmost/topmost origin, so a line is never counted twice.
func (that Board) Winner() Cell {
	// horizontal
	for row := 0; row < Rows; row++ {
		for col := 0; col <= Columns-Connect; col++ {
			if cell := that[row][col]; cell != Empty &&
				cell == that[row][col+1] && cell == that[row][col+2] && cell == that[row][col+3] {
				return cell
			}
		}
	}

	// vertical
	for row := 0; row <= Rows-Connect; row++ {
		for col := 0; col < Columns; col++ {
			if cell := that[row][col]; cell != Empty &&
				cell == that[row+1][col] && cell == that[row+2][col] && cell == that[row+3][col] {
				return cell
			}
		}
	}

	// diagonal, falling to the right
	for row := 0; row <= Rows-Connect; row++ {
		for col := 0; col <= Columns-Connect; col++ {
			if cell := that[row][col]; cell != Empty &&
				cell == that[row+1][col+1] && cell == that[row+2][col+2] && cell == that[row+3][col+3] {
				return cell
			}
		}
	}

	// diagonal, rising to the right
	for row := Connect - 1; row < Rows; row++ {
		for col := 0; col <= Columns-Connect; col++ {
			if cell := that[row][col]; cell != Empty &&
				cell == that[row-1][col+1] && cell == that[row-2][col+2] && cell == that[row-3][col+3] {
				return cell
			}
		}
	}

	return Empty
}

// IsDraw reports whether every column is full. Callers must check Winner
// first: a full board with a winning line is a win, not a draw.
func (that Board) IsDraw() bool {
	for col := 0; col < Columns; col++ {
		if that[0][col] == Empty {
			return false
		}
	}
	return that.Winner() == Empty
}
