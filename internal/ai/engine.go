package ai

import (
	"errors"
	"math"
	"math/rand"

	"github.com/rocketscienceinc/connectfour-backend/internal/connectfour"
)

// DefaultDepth balances playing strength against response latency; with
// center-first ordering and pruning a depth-4 search stays in the
// microsecond range.
const DefaultDepth = 4

var ErrNoLegalMove = errors.New("no legal move available")

// Engine picks moves for the automated side.
type Engine struct {
	depth int
}

func New() *Engine {
	return &Engine{depth: DefaultDepth}
}

// NewWithDepth returns an engine searching to the given depth.
func NewWithDepth(depth int) *Engine {
	return &Engine{depth: depth}
}

// Move returns a legal column for side: immediate win and block checks
// first, then bounded search, then the rule chain if search came back
// without a usable column.
func (that *Engine) Move(board connectfour.Board, side connectfour.Cell) (int, error) {
	valid := board.ValidColumns()
	if len(valid) == 0 {
		return 0, ErrNoLegalMove
	}

	opponent := connectfour.Opponent(side)

	for _, col := range valid {
		if canCompleteFour(board, col, side) {
			return col, nil
		}
	}

	for _, col := range valid {
		if canCompleteFour(board, col, opponent) {
			return col, nil
		}
	}

	if _, col := minimax(board, that.depth, math.Inf(-1), math.Inf(1), true, side); col >= 0 && isValid(valid, col) {
		return col, nil
	}

	return that.ruleMove(board, side, valid), nil
}

// RuleMove plays without search, using only the rule chain. It serves the
// reduced-strength opponent.
func (that *Engine) RuleMove(board connectfour.Board, side connectfour.Cell) (int, error) {
	valid := board.ValidColumns()
	if len(valid) == 0 {
		return 0, ErrNoLegalMove
	}

	opponent := connectfour.Opponent(side)

	for _, col := range valid {
		if canCompleteFour(board, col, side) {
			return col, nil
		}
	}

	for _, col := range valid {
		if canCompleteFour(board, col, opponent) {
			return col, nil
		}
	}

	return that.ruleMove(board, side, valid), nil
}

// ruleMove applies the remaining fallback rules in priority order:
// create a triple threat, defuse an opponent triple, take the
// best-scoring column, crowd an opponent double, prefer the center,
// and finally pick at random.
func (that *Engine) ruleMove(board connectfour.Board, side connectfour.Cell, valid []int) int {
	opponent := connectfour.Opponent(side)

	bestThreatCol, bestThreatScore := -1, -1
	for _, col := range valid {
		if !createsTripleThreat(board, col, side) {
			continue
		}
		if score := evaluateMove(board, col, side); score > bestThreatScore {
			bestThreatScore = score
			bestThreatCol = col
		}
	}
	if bestThreatCol >= 0 {
		return bestThreatCol
	}

	for _, threat := range findThreats(board, opponent) {
		if threat.Length != 3 {
			continue
		}
		for _, col := range []int{threat.Col - 1, threat.Col, threat.Col + 1} {
			if !isValid(valid, col) {
				continue
			}
			if next, _, err := board.Drop(col, opponent); err == nil && next.Winner() != opponent {
				return col
			}
		}
	}

	bestCol, bestScore := -1, -1
	for _, col := range valid {
		if score := evaluateMove(board, col, side); score > bestScore {
			bestScore = score
			bestCol = col
		}
	}
	if bestCol >= 0 && bestScore > 0 {
		return bestCol
	}

	for _, threat := range findThreats(board, opponent) {
		if threat.Length != 2 {
			continue
		}
		for _, col := range []int{threat.Col - 1, threat.Col, threat.Col + 1} {
			if isValid(valid, col) {
				return col
			}
		}
	}

	for _, col := range centerOrder {
		if isValid(valid, col) {
			return col
		}
	}

	return valid[rand.Intn(len(valid))] //nolint: gosec // move selection needs no crypto randomness
}

func isValid(valid []int, col int) bool {
	for _, v := range valid {
		if v == col {
			return true
		}
	}
	return false
}
