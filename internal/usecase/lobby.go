package usecase

import (
	"context"

	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
	"github.com/rocketscienceinc/connectfour-backend/internal/service"
)

// LobbyUseCase serializes lobby transitions. Joins lock on the room code
// so two guests racing for the last seat resolve to exactly one winner;
// room-scoped operations lock on the room id; CreateRoom locks on the
// host so repeated taps reuse one room.
type LobbyUseCase struct {
	lobbyService service.LobbyService
	locks        *keyedMutex
}

func NewLobbyUseCase(lobbyService service.LobbyService) *LobbyUseCase {
	return &LobbyUseCase{
		lobbyService: lobbyService,
		locks:        newKeyedMutex(),
	}
}

func (that *LobbyUseCase) CreateRoom(ctx context.Context, hostID string) (*entity.Room, error) {
	unlock := that.locks.Lock("user:" + hostID)
	defer unlock()

	return that.lobbyService.CreateRoom(ctx, hostID)
}

func (that *LobbyUseCase) JoinRoom(ctx context.Context, code, userID string) (*entity.Room, error) {
	unlock := that.locks.Lock("roomcode:" + code)
	defer unlock()

	return that.lobbyService.JoinRoom(ctx, code, userID)
}

func (that *LobbyUseCase) StartGame(ctx context.Context, roomID, userID string) (*entity.Game, error) {
	unlock := that.locks.Lock("room:" + roomID)
	defer unlock()

	return that.lobbyService.StartGame(ctx, roomID, userID)
}

func (that *LobbyUseCase) LeaveRoom(ctx context.Context, roomID, userID string) (*entity.Room, error) {
	unlock := that.locks.Lock("room:" + roomID)
	defer unlock()

	return that.lobbyService.LeaveRoom(ctx, roomID, userID)
}

func (that *LobbyUseCase) ResetGame(ctx context.Context, roomID, userID string) (*entity.Room, error) {
	unlock := that.locks.Lock("room:" + roomID)
	defer unlock()

	return that.lobbyService.ResetGame(ctx, roomID, userID)
}

func (that *LobbyUseCase) GetRoomByID(ctx context.Context, roomID string) (*entity.Room, error) {
	return that.lobbyService.GetRoomByID(ctx, roomID)
}

func (that *LobbyUseCase) GetRoomByCode(ctx context.Context, code string) (*entity.Room, error) {
	return that.lobbyService.GetRoomByCode(ctx, code)
}

func (that *LobbyUseCase) GetRoomByGameID(ctx context.Context, gameID string) (*entity.Room, error) {
	return that.lobbyService.GetRoomByGameID(ctx, gameID)
}
