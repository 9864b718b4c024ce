package service

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/connectfour-backend/internal/connectfour"
	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

var ErrBotNotFound = errors.New("bot player not found")

type BotService interface {
	MakeTurn(game *entity.Game) (*entity.BotMove, error)
}

type engine interface {
	Move(board connectfour.Board, side connectfour.Cell) (int, error)
	RuleMove(board connectfour.Board, side connectfour.Cell) (int, error)
}

type botService struct {
	engine engine
}

func NewBotService(engine engine) BotService {
	return &botService{
		engine: engine,
	}
}

// MakeTurn picks a column for the automated side and applies it. The
// reduced-strength opponent plays the rule chain without search.
func (that *botService) MakeTurn(game *entity.Game) (*entity.BotMove, error) {
	botPlayer := game.BotPlayer()
	if botPlayer == nil {
		return nil, ErrBotNotFound
	}

	side := connectfour.Cell(botPlayer.Seat)

	var column int
	var err error
	if game.Strength == entity.StrengthEasy {
		column, err = that.engine.RuleMove(game.Board, side)
	} else {
		column, err = that.engine.Move(game.Board, side)
	}
	if err != nil {
		return nil, fmt.Errorf("engine failed to pick a move: %w", err)
	}

	row, err := game.ApplyMove(column)
	if err != nil {
		return nil, fmt.Errorf("bot failed to make turn: %w", err)
	}

	return &entity.BotMove{Column: column, Row: row}, nil
}
