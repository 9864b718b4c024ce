package ai

import (
	"math"

	"github.com/rocketscienceinc/connectfour-backend/internal/connectfour"
)

// centerOrder is the column exploration order, center first, which makes
// alpha-beta cutoffs fire early.
var centerOrder = [connectfour.Columns]int{3, 2, 4, 1, 5, 0, 6}

func orderedColumns(board connectfour.Board) []int {
	valid := board.ValidColumns()
	ordered := make([]int, 0, len(valid))
	for _, col := range centerOrder {
		for _, v := range valid {
			if v == col {
				ordered = append(ordered, col)
				break
			}
		}
	}
	return ordered
}

// minimax runs depth-limited adversarial search with alpha-beta pruning,
// maximizing for side on its plies and minimizing on the opponent's.
// Terminal scores carry the remaining depth so nearer wins and farther
// losses rank higher. The returned column is -1 at leaf nodes. Every
// branch drops onto its own board copy; no state is shared across
// branches.
func minimax(board connectfour.Board, depth int, alpha, beta float64, maximizing bool, side connectfour.Cell) (float64, int) {
	opponent := connectfour.Opponent(side)

	switch board.Winner() {
	case side:
		return float64(winScore + depth), -1
	case opponent:
		return float64(-winScore - depth), -1
	}

	if board.IsDraw() {
		return 0, -1
	}

	if depth == 0 {
		return float64(evaluateBoard(board, side)), -1
	}

	if maximizing {
		maxScore := math.Inf(-1)
		bestCol := -1

		for _, col := range orderedColumns(board) {
			next, _, err := board.Drop(col, side)
			if err != nil {
				continue
			}

			score, _ := minimax(next, depth-1, alpha, beta, false, side)
			if score > maxScore {
				maxScore = score
				bestCol = col
			}

			alpha = math.Max(alpha, score)
			if beta <= alpha {
				break
			}
		}

		return maxScore, bestCol
	}

	minScore := math.Inf(1)
	bestCol := -1

	for _, col := range orderedColumns(board) {
		next, _, err := board.Drop(col, opponent)
		if err != nil {
			continue
		}

		score, _ := minimax(next, depth-1, alpha, beta, true, side)
		if score < minScore {
			minScore = score
			bestCol = col
		}

		beta = math.Min(beta, score)
		if beta <= alpha {
			break
		}
	}

	return minScore, bestCol
}
