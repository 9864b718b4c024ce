package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
	"github.com/rocketscienceinc/connectfour-backend/internal/notifier"
	"github.com/rocketscienceinc/connectfour-backend/internal/pkg"
	"github.com/rocketscienceinc/connectfour-backend/internal/repository"
)

// codeAllocationAttempts bounds retries against the active-code namespace
// before falling back to checking every room ever created.
const codeAllocationAttempts = 100

type LobbyService interface {
	CreateRoom(ctx context.Context, hostID string) (*entity.Room, error)
	JoinRoom(ctx context.Context, code, userID string) (*entity.Room, error)
	StartGame(ctx context.Context, roomID, userID string) (*entity.Game, error)
	LeaveRoom(ctx context.Context, roomID, userID string) (*entity.Room, error)
	ResetGame(ctx context.Context, roomID, userID string) (*entity.Room, error)

	GetRoomByID(ctx context.Context, roomID string) (*entity.Room, error)
	GetRoomByCode(ctx context.Context, code string) (*entity.Room, error)
	GetRoomByGameID(ctx context.Context, gameID string) (*entity.Room, error)
}

type roomRepo interface {
	Save(ctx context.Context, room *entity.Room) error
	GetByID(ctx context.Context, id string) (*entity.Room, error)
	GetActiveByCode(ctx context.Context, code string) (*entity.Room, error)
	GetActiveByUser(ctx context.Context, userID string) (*entity.Room, error)
	GetByGameID(ctx context.Context, gameID string) (*entity.Room, error)
	IsCodeActive(ctx context.Context, code string) (bool, error)
	IsCodeUsedAnywhere(ctx context.Context, code string) (bool, error)
	ReleaseUser(ctx context.Context, userID string) error
}

type lobbyService struct {
	logger *slog.Logger

	roomRepo      roomRepo
	gameService   GameService
	playerService PlayerService
	userService   UserService
	notifier      notifier.Notifier

	generateCode func() string
}

func NewLobbyService(logger *slog.Logger, roomRepo roomRepo, gameService GameService, playerService PlayerService, userService UserService, notifier notifier.Notifier) LobbyService {
	return &lobbyService{
		logger:        logger,
		roomRepo:      roomRepo,
		gameService:   gameService,
		playerService: playerService,
		userService:   userService,
		notifier:      notifier,
		generateCode:  pkg.NewRoomCode,
	}
}

// CreateRoom returns the host's usable active room if one exists,
// reconciling rooms whose game already concluded, and otherwise opens a
// fresh waiting room under a newly allocated code.
func (that *lobbyService) CreateRoom(ctx context.Context, hostID string) (*entity.Room, error) {
	existing, err := that.roomRepo.GetActiveByUser(ctx, hostID)
	if err != nil && !errors.Is(err, repository.ErrRoomNotFound) {
		return nil, fmt.Errorf("failed to look up active room: %w", err)
	}

	if err == nil {
		room, reusable, reconcileErr := that.reconcileExistingRoom(ctx, existing, hostID)
		if reconcileErr != nil {
			return nil, reconcileErr
		}
		if reusable {
			return room, nil
		}
	}

	code, err := that.allocateCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate room code: %w", err)
	}

	room := entity.NewRoom(pkg.NewID(), code, hostID)
	if err = that.roomRepo.Save(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to save room: %w", err)
	}

	return room, nil
}

// reconcileExistingRoom decides whether the host's current active room is
// still usable. A playing room whose game already concluded is terminated
// here so a replacement can be created.
func (that *lobbyService) reconcileExistingRoom(ctx context.Context, room *entity.Room, hostID string) (*entity.Room, bool, error) {
	if room.IsPlaying() && room.GameID != "" {
		game, err := that.gameService.GetGameByID(ctx, room.GameID)
		if err != nil && !errors.Is(err, repository.ErrGameNotFound) {
			return nil, false, fmt.Errorf("failed to get linked game: %w", err)
		}

		if err == nil && game.IsPlaying() {
			return room, true, nil
		}

		if err = that.terminateRoom(ctx, room); err != nil {
			return nil, false, err
		}
		return nil, false, nil
	}

	if room.IsWaiting() && room.HostID == hostID && !room.HasGuest() {
		return room, true, nil
	}

	if err := that.terminateRoom(ctx, room); err != nil {
		return nil, false, err
	}

	return nil, false, nil
}

func (that *lobbyService) allocateCode(ctx context.Context) (string, error) {
	for i := 0; i < codeAllocationAttempts; i++ {
		code := that.generateCode()

		taken, err := that.roomRepo.IsCodeActive(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}

	// active namespace looks exhausted; fall back to the full history
	that.logger.Warn("room code allocation exhausted active namespace, scanning all rooms")

	for {
		code := that.generateCode()

		taken, err := that.roomRepo.IsCodeUsedAnywhere(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
}

// JoinRoom seats a guest. A playing room whose game already ended is
// transitioned to finished before the verdict. Finished rooms release
// their code on termination, so joining one answers ErrRoomNotFound
// rather than a state conflict; the code may already belong to a newer
// room.
func (that *lobbyService) JoinRoom(ctx context.Context, code, userID string) (*entity.Room, error) {
	room, err := that.roomRepo.GetActiveByCode(ctx, code)
	if errors.Is(err, repository.ErrRoomNotFound) {
		return nil, apperror.ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get room by code: %w", err)
	}

	if room.IsPlaying() {
		if room.GameID != "" {
			game, gameErr := that.gameService.GetGameByID(ctx, room.GameID)
			if gameErr == nil && game.IsOver() {
				if err = that.terminateRoom(ctx, room); err != nil {
					return nil, err
				}
			}
		}
		return nil, apperror.ErrRoomUnavailable
	}

	if !room.IsWaiting() {
		return nil, apperror.ErrRoomUnavailable
	}

	if room.HasGuest() {
		return nil, apperror.ErrRoomFull
	}

	if room.HostID == userID {
		return nil, apperror.ErrSelfJoin
	}

	room.GuestID = userID
	room.Touch()

	if err = that.roomRepo.Save(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to save room: %w", err)
	}

	that.notifier.RoomUpdated(ctx, room)

	return room, nil
}

// StartGame instantiates the online game for a full room. Idempotent: a
// room that already carries a game returns it instead of creating a
// duplicate.
func (that *lobbyService) StartGame(ctx context.Context, roomID, userID string) (*entity.Game, error) {
	room, err := that.getRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if room.HostID != userID {
		return nil, apperror.ErrNotHost
	}

	if !room.HasGuest() {
		return nil, apperror.ErrSecondPlayerMissing
	}

	if room.GameID != "" {
		game, gameErr := that.gameService.GetGameByID(ctx, room.GameID)
		if gameErr == nil {
			return game, nil
		}
		if !errors.Is(gameErr, repository.ErrGameNotFound) {
			return nil, fmt.Errorf("failed to get linked game: %w", gameErr)
		}
	}

	host, err := that.userService.GetUserByID(ctx, room.HostID)
	if err != nil {
		return nil, fmt.Errorf("failed to get host: %w", err)
	}

	guest, err := that.userService.GetUserByID(ctx, room.GuestID)
	if err != nil {
		return nil, fmt.Errorf("failed to get guest: %w", err)
	}

	game := entity.NewGame(pkg.NewID(), entity.ModeOnline)
	game.OwnerID = host.ID
	game.Players = []*entity.Player{
		entity.NewPlayer(pkg.NewID(), host.ID, host.Username, game.ID, 1),
		entity.NewPlayer(pkg.NewID(), guest.ID, guest.Username, game.ID, 2),
	}

	for _, player := range game.Players {
		if err = that.playerService.CreateOrUpdate(ctx, player); err != nil {
			return nil, fmt.Errorf("failed to save player: %w", err)
		}
	}

	if err = that.gameService.UpdateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	room.GameID = game.ID
	room.Status = entity.StatusPlaying
	room.Touch()

	if err = that.roomRepo.Save(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to save room: %w", err)
	}

	that.notifier.RoomUpdated(ctx, room)

	return game, nil
}

// LeaveRoom removes a participant. The host leaving terminates the room;
// the guest leaving frees the seat, and also terminates the room when a
// game was in progress.
func (that *lobbyService) LeaveRoom(ctx context.Context, roomID, userID string) (*entity.Room, error) {
	room, err := that.getRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if !room.IsParticipant(userID) {
		return nil, apperror.ErrNotAParticipant
	}

	switch {
	case room.HostID == userID:
		if err = that.terminateRoom(ctx, room); err != nil {
			return nil, err
		}
	case room.IsPlaying():
		if err = that.terminateRoom(ctx, room); err != nil {
			return nil, err
		}
	default:
		if err = that.roomRepo.ReleaseUser(ctx, userID); err != nil {
			return nil, fmt.Errorf("failed to release guest: %w", err)
		}
		room.GuestID = ""
		room.Touch()
		if err = that.roomRepo.Save(ctx, room); err != nil {
			return nil, fmt.Errorf("failed to save room: %w", err)
		}
	}

	that.notifier.RoomUpdated(ctx, room)

	return room, nil
}

// ResetGame is the explicit return-to-lobby teardown for online games:
// observers of the game get a reset signal, the room is terminated and
// its code freed for reuse.
func (that *lobbyService) ResetGame(ctx context.Context, roomID, userID string) (*entity.Room, error) {
	room, err := that.getRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if !room.IsParticipant(userID) {
		return nil, apperror.ErrNotAParticipant
	}

	if room.GameID == "" {
		return nil, apperror.ErrRoomUnavailable
	}

	game, err := that.gameService.GetGameByID(ctx, room.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get linked game: %w", err)
	}

	if !game.IsOnline() {
		return nil, apperror.ErrRoomUnavailable
	}

	that.notifier.GameReset(ctx, game.ID)

	if err = that.terminateRoom(ctx, room); err != nil {
		return nil, err
	}

	that.notifier.RoomUpdated(ctx, room)

	return room, nil
}

func (that *lobbyService) GetRoomByID(ctx context.Context, roomID string) (*entity.Room, error) {
	return that.getRoom(ctx, roomID)
}

func (that *lobbyService) GetRoomByCode(ctx context.Context, code string) (*entity.Room, error) {
	room, err := that.roomRepo.GetActiveByCode(ctx, code)
	if errors.Is(err, repository.ErrRoomNotFound) {
		return nil, apperror.ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get room by code: %w", err)
	}

	return room, nil
}

func (that *lobbyService) GetRoomByGameID(ctx context.Context, gameID string) (*entity.Room, error) {
	room, err := that.roomRepo.GetByGameID(ctx, gameID)
	if errors.Is(err, repository.ErrRoomNotFound) {
		return nil, apperror.ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get room by game id: %w", err)
	}

	return room, nil
}

func (that *lobbyService) getRoom(ctx context.Context, roomID string) (*entity.Room, error) {
	room, err := that.roomRepo.GetByID(ctx, roomID)
	if errors.Is(err, repository.ErrRoomNotFound) {
		return nil, apperror.ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get room by id: %w", err)
	}

	return room, nil
}

// terminateRoom finishes a room and clears its guest and game link. The
// first save still carries both ids so their indexes get released; the
// second persists the cleared record. Rooms are archived, never deleted.
func (that *lobbyService) terminateRoom(ctx context.Context, room *entity.Room) error {
	room.Status = entity.StatusFinished
	room.Touch()

	if err := that.roomRepo.Save(ctx, room); err != nil {
		return fmt.Errorf("failed to terminate room: %w", err)
	}

	room.GuestID = ""
	room.GameID = ""

	if err := that.roomRepo.Save(ctx, room); err != nil {
		return fmt.Errorf("failed to clear terminated room: %w", err)
	}

	return nil
}
