package service

import (
	"context"
	"sync"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
	"github.com/rocketscienceinc/connectfour-backend/internal/repository"
)

type fakeGameService struct {
	mu    sync.Mutex
	games map[string]*entity.Game
}

func newFakeGameService() *fakeGameService {
	return &fakeGameService{games: make(map[string]*entity.Game)}
}

func (that *fakeGameService) GetGameByID(_ context.Context, id string) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	game, ok := that.games[id]
	if !ok {
		return nil, repository.ErrGameNotFound
	}

	copied := *game
	return &copied, nil
}

func (that *fakeGameService) UpdateGame(_ context.Context, game *entity.Game) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	copied := *game
	that.games[game.ID] = &copied
	return nil
}

type fakePlayerService struct {
	mu      sync.Mutex
	players map[string]*entity.Player
}

func newFakePlayerService() *fakePlayerService {
	return &fakePlayerService{players: make(map[string]*entity.Player)}
}

func (that *fakePlayerService) CreateOrUpdate(_ context.Context, player *entity.Player) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.players[player.ID] = player
	return nil
}

func (that *fakePlayerService) GetByID(_ context.Context, id string) (*entity.Player, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	player, ok := that.players[id]
	if !ok {
		return nil, repository.ErrPlayerNotFound
	}
	return player, nil
}

type fakeUserService struct {
	users map[string]*entity.User
}

func newFakeUserService(users ...*entity.User) *fakeUserService {
	byID := make(map[string]*entity.User, len(users))
	for _, user := range users {
		byID[user.ID] = user
	}
	return &fakeUserService{users: byID}
}

func (that *fakeUserService) Register(context.Context, string, string, string) (*entity.User, error) {
	panic("not used in tests")
}

func (that *fakeUserService) Login(context.Context, string, string) (*entity.User, error) {
	panic("not used in tests")
}

func (that *fakeUserService) GetUserByID(_ context.Context, id string) (*entity.User, error) {
	user, ok := that.users[id]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	return user, nil
}

// recordingNotifier captures publishes so tests can assert on what went
// out and in which order.
type recordingNotifier struct {
	mu     sync.Mutex
	events []recordedEvent
}

type recordedEvent struct {
	kind    string
	gameID  string
	roomID  string
	botMove *entity.BotMove
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{}
}

func (that *recordingNotifier) GameUpdated(_ context.Context, game *entity.Game) {
	that.record(recordedEvent{kind: "game_update", gameID: game.ID})
}

func (that *recordingNotifier) GameUpdatedWithBotMove(_ context.Context, game *entity.Game, move *entity.BotMove) {
	that.record(recordedEvent{kind: "game_update", gameID: game.ID, botMove: move})
}

func (that *recordingNotifier) GameReset(_ context.Context, gameID string) {
	that.record(recordedEvent{kind: "game_reset", gameID: gameID})
}

func (that *recordingNotifier) RoomUpdated(_ context.Context, room *entity.Room) {
	that.record(recordedEvent{kind: "room_update", roomID: room.ID})
}

func (that *recordingNotifier) record(event recordedEvent) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.events = append(that.events, event)
}

func (that *recordingNotifier) recorded() []recordedEvent {
	that.mu.Lock()
	defer that.mu.Unlock()

	return append([]recordedEvent(nil), that.events...)
}

// fakeRoomRepo mirrors the index behavior of the Redis room repository:
// active rooms own their code and their participants' active slots.
type fakeRoomRepo struct {
	mu     sync.Mutex
	rooms  map[string]*entity.Room
	byCode map[string]string
	byUser map[string]string
	byGame map[string]string
}

func newFakeRoomRepo() *fakeRoomRepo {
	return &fakeRoomRepo{
		rooms:  make(map[string]*entity.Room),
		byCode: make(map[string]string),
		byUser: make(map[string]string),
		byGame: make(map[string]string),
	}
}

func (that *fakeRoomRepo) Save(_ context.Context, room *entity.Room) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	copied := *room
	that.rooms[room.ID] = &copied

	if room.IsActive() {
		that.byCode[room.Code] = room.ID
		that.byUser[room.HostID] = room.ID
		if room.HasGuest() {
			that.byUser[room.GuestID] = room.ID
		}
		if room.GameID != "" {
			that.byGame[room.GameID] = room.ID
		}
		return nil
	}

	that.releaseOwned(that.byCode, room.Code, room.ID)
	that.releaseOwned(that.byUser, room.HostID, room.ID)
	if room.HasGuest() {
		that.releaseOwned(that.byUser, room.GuestID, room.ID)
	}
	if room.GameID != "" {
		that.releaseOwned(that.byGame, room.GameID, room.ID)
	}
	return nil
}

func (that *fakeRoomRepo) releaseOwned(index map[string]string, key, roomID string) {
	if index[key] == roomID {
		delete(index, key)
	}
}

func (that *fakeRoomRepo) GetByID(_ context.Context, id string) (*entity.Room, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.getLocked(id)
}

func (that *fakeRoomRepo) getLocked(id string) (*entity.Room, error) {
	room, ok := that.rooms[id]
	if !ok {
		return nil, repository.ErrRoomNotFound
	}

	copied := *room
	return &copied, nil
}

func (that *fakeRoomRepo) GetActiveByCode(_ context.Context, code string) (*entity.Room, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	id, ok := that.byCode[code]
	if !ok {
		return nil, repository.ErrRoomNotFound
	}
	return that.getLocked(id)
}

func (that *fakeRoomRepo) GetActiveByUser(_ context.Context, userID string) (*entity.Room, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	id, ok := that.byUser[userID]
	if !ok {
		return nil, repository.ErrRoomNotFound
	}
	return that.getLocked(id)
}

func (that *fakeRoomRepo) GetByGameID(_ context.Context, gameID string) (*entity.Room, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	id, ok := that.byGame[gameID]
	if !ok {
		return nil, repository.ErrRoomNotFound
	}
	return that.getLocked(id)
}

func (that *fakeRoomRepo) IsCodeActive(_ context.Context, code string) (bool, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	_, ok := that.byCode[code]
	return ok, nil
}

func (that *fakeRoomRepo) IsCodeUsedAnywhere(_ context.Context, code string) (bool, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	for _, room := range that.rooms {
		if room.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (that *fakeRoomRepo) ReleaseUser(_ context.Context, userID string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.byUser, userID)
	return nil
}
