package ai

import (
	"github.com/rocketscienceinc/connectfour-backend/internal/connectfour"
)

const (
	winScore          = 100000
	tripleThreatScore = 1000
	doubleThreatScore = 10
	immediateWinScore = 5000
)

// evaluateBoard scores a position from side's perspective. Positive is
// good for side, negative for the opponent.
func evaluateBoard(board connectfour.Board, side connectfour.Cell) int {
	opponent := connectfour.Opponent(side)

	switch board.Winner() {
	case side:
		return winScore
	case opponent:
		return -winScore
	}

	if board.IsDraw() {
		return 0
	}

	score := 0

	ownThreats := findThreats(board, side)
	opponentThreats := findThreats(board, opponent)

	score += countThreatsOfLength(ownThreats, 3) * tripleThreatScore
	score -= countThreatsOfLength(opponentThreats, 3) * tripleThreatScore
	score += countThreatsOfLength(ownThreats, 2) * doubleThreatScore
	score -= countThreatsOfLength(opponentThreats, 2) * doubleThreatScore

	// occupancy of the center column and its neighbours
	centerCol := connectfour.Columns / 2
	for row := 0; row < connectfour.Rows; row++ {
		switch board[row][centerCol] {
		case side:
			score += 3
		case opponent:
			score -= 3
		}
	}

	for _, col := range []int{centerCol - 1, centerCol, centerCol + 1} {
		for row := 0; row < connectfour.Rows; row++ {
			switch board[row][col] {
			case side:
				score++
			case opponent:
				score--
			}
		}
	}

	for _, col := range board.ValidColumns() {
		if canCompleteFour(board, col, side) {
			score += immediateWinScore
		} else if canCompleteFour(board, col, opponent) {
			score -= immediateWinScore
		}
	}

	return score
}

// evaluateMove scores a single candidate drop for the fallback rule chain.
func evaluateMove(board connectfour.Board, column int, side connectfour.Cell) int {
	opponent := connectfour.Opponent(side)

	next, _, err := board.Drop(column, side)
	if err != nil {
		return -1000
	}

	if next.Winner() == side {
		return 10000
	}

	if canCompleteFour(board, column, opponent) {
		return 5000
	}

	score := 0

	threatsAfter := findThreats(next, side)
	score += countThreatsOfLength(threatsAfter, 3) * 100
	score += countThreatsOfLength(threatsAfter, 2) * 10

	// threats removed from the opponent if they had taken the same column
	threatsBefore := len(findThreats(board, opponent))
	if blocked, _, err := board.Drop(column, opponent); err == nil {
		score += (threatsBefore - len(findThreats(blocked, opponent))) * 50
	}

	switch column {
	case 3:
		score += 5
	case 2, 4:
		score += 3
	case 1, 5:
		score++
	}

	return score
}
