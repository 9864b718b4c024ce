package usecase

import (
	"context"

	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
	"github.com/rocketscienceinc/connectfour-backend/internal/service"
)

// GameUseCase serializes match operations per game id, so concurrent
// moves on one game commit one at a time while distinct games proceed in
// parallel.
type GameUseCase struct {
	gamePlayService service.GamePlayService
	locks           *keyedMutex
}

func NewGameUseCase(gamePlayService service.GamePlayService) *GameUseCase {
	return &GameUseCase{
		gamePlayService: gamePlayService,
		locks:           newKeyedMutex(),
	}
}

func (that *GameUseCase) CreateLocalGame(ctx context.Context) (*entity.Game, error) {
	return that.gamePlayService.CreateLocalGame(ctx)
}

func (that *GameUseCase) CreateBotGame(ctx context.Context, strength string, owner *entity.User) (*entity.Game, error) {
	return that.gamePlayService.CreateBotGame(ctx, strength, owner)
}

func (that *GameUseCase) GetGame(ctx context.Context, gameID string) (*entity.Game, error) {
	return that.gamePlayService.GetGame(ctx, gameID)
}

func (that *GameUseCase) MakeMove(ctx context.Context, gameID, userID string, column int) (*entity.Game, *entity.BotMove, error) {
	unlock := that.locks.Lock("game:" + gameID)
	defer unlock()

	return that.gamePlayService.MakeMove(ctx, gameID, userID, column)
}
