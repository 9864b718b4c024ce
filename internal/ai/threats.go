package ai

import (
	"github.com/rocketscienceinc/connectfour-backend/internal/connectfour"
)

// Threat is a run of same-player contiguous cells anchored at a board
// position, one or two pieces short of a winning line.
type Threat struct {
	Row    int
	Col    int
	Length int
}

var directions = [4][2]int{
	{0, 1},  // horizontal
	{1, 0},  // vertical
	{1, 1},  // diagonal, falling
	{1, -1}, // diagonal, rising
}

// countConsecutive counts contiguous pieces of player through (row, col)
// along one direction, looking both ways from the anchor.
func countConsecutive(board connectfour.Board, row, col int, player connectfour.Cell, deltaRow, deltaCol int) int {
	if board[row][col] != player {
		return 0
	}

	count := 1

	for r, c := row+deltaRow, col+deltaCol; r >= 0 && r < connectfour.Rows && c >= 0 && c < connectfour.Columns; r, c = r+deltaRow, c+deltaCol {
		if board[r][c] != player {
			break
		}
		count++
	}

	for r, c := row-deltaRow, col-deltaCol; r >= 0 && r < connectfour.Rows && c >= 0 && c < connectfour.Columns; r, c = r-deltaRow, c-deltaCol {
		if board[r][c] != player {
			break
		}
		count++
	}

	return count
}

// findThreats enumerates every run of 2 or 3 pieces for player along
// the four axes.
func findThreats(board connectfour.Board, player connectfour.Cell) []Threat {
	var threats []Threat

	for row := 0; row < connectfour.Rows; row++ {
		for col := 0; col < connectfour.Columns; col++ {
			if board[row][col] != player {
				continue
			}

			for _, dir := range directions {
				count := countConsecutive(board, row, col, player, dir[0], dir[1])
				if count >= 2 {
					threats = append(threats, Threat{Row: row, Col: col, Length: count})
				}
			}
		}
	}

	return threats
}

func countThreatsOfLength(threats []Threat, length int) int {
	n := 0
	for _, threat := range threats {
		if threat.Length == length {
			n++
		}
	}
	return n
}

// canCompleteFour reports whether dropping in column finishes a
// four-in-a-row for player.
func canCompleteFour(board connectfour.Board, column int, player connectfour.Cell) bool {
	next, _, err := board.Drop(column, player)
	if err != nil {
		return false
	}
	return next.Winner() == player
}

// createsTripleThreat reports whether dropping in column leaves player
// with a 3-in-a-row. This intentionally does not verify that both
// completion ends are open; it is a heuristic, not a win guarantee.
func createsTripleThreat(board connectfour.Board, column int, player connectfour.Cell) bool {
	next, _, err := board.Drop(column, player)
	if err != nil {
		return false
	}
	return countThreatsOfLength(findThreats(next, player), 3) > 0
}
