package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

var ErrRoomNotFound = errors.New("room not found")

// RoomRepository stores rooms plus the lookup indexes the lobby needs:
// code -> room for active rooms only (finished rooms release their code),
// user -> active room, and game -> room for the linked game.
type RoomRepository interface {
	Save(ctx context.Context, room *entity.Room) error
	GetByID(ctx context.Context, id string) (*entity.Room, error)
	GetActiveByCode(ctx context.Context, code string) (*entity.Room, error)
	GetActiveByUser(ctx context.Context, userID string) (*entity.Room, error)
	GetByGameID(ctx context.Context, gameID string) (*entity.Room, error)
	IsCodeActive(ctx context.Context, code string) (bool, error)
	IsCodeUsedAnywhere(ctx context.Context, code string) (bool, error)
	ReleaseUser(ctx context.Context, userID string) error
}

type dbRoom struct {
	client *redis.Client
}

func NewRoomRepository(client *redis.Client) RoomRepository {
	return &dbRoom{
		client: client,
	}
}

// Save writes the room record and reconciles its indexes. An active room
// claims its code and its participants' active slots; a finished room
// releases whatever still points at it.
func (that *dbRoom) Save(ctx context.Context, room *entity.Room) error {
	roomJSON, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("could not marshal room: %w", err)
	}

	roomKey := "room:" + room.ID
	if err = that.client.Set(ctx, roomKey, roomJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set room: %w", err)
	}

	if room.IsActive() {
		return that.indexActive(ctx, room)
	}

	return that.releaseIndexes(ctx, room)
}

func (that *dbRoom) indexActive(ctx context.Context, room *entity.Room) error {
	pipe := that.client.Pipeline()
	pipe.Set(ctx, roomCodeKey(room.Code), room.ID, 0)
	pipe.Set(ctx, activeRoomKey(room.HostID), room.ID, 0)
	if room.HasGuest() {
		pipe.Set(ctx, activeRoomKey(room.GuestID), room.ID, 0)
	}
	if room.GameID != "" {
		pipe.Set(ctx, roomGameKey(room.GameID), room.ID, 0)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to index room: %w", err)
	}

	return nil
}

// releaseIndexes drops only index entries still owned by this room, so a
// newer room that already reclaimed the code or slot is left alone.
func (that *dbRoom) releaseIndexes(ctx context.Context, room *entity.Room) error {
	keys := []string{roomCodeKey(room.Code), activeRoomKey(room.HostID)}
	if room.HasGuest() {
		keys = append(keys, activeRoomKey(room.GuestID))
	}
	if room.GameID != "" {
		keys = append(keys, roomGameKey(room.GameID))
	}

	for _, key := range keys {
		owner, err := that.client.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to read index %s: %w", key, err)
		}

		if owner != room.ID {
			continue
		}

		if err = that.client.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("failed to release index %s: %w", key, err)
		}
	}

	return nil
}

func (that *dbRoom) GetByID(ctx context.Context, id string) (*entity.Room, error) {
	response, err := that.client.Get(ctx, "room:"+id).Result()

	if errors.Is(err, redis.Nil) {
		return &entity.Room{}, ErrRoomNotFound
	}

	if err != nil {
		return &entity.Room{}, fmt.Errorf("failed to get room by ID: %w", err)
	}

	var existingRoom entity.Room
	if err = json.Unmarshal([]byte(response), &existingRoom); err != nil {
		return &entity.Room{}, fmt.Errorf("failed to unmarshal room: %w", err)
	}

	return &existingRoom, nil
}

func (that *dbRoom) GetActiveByCode(ctx context.Context, code string) (*entity.Room, error) {
	return that.getByIndex(ctx, roomCodeKey(code))
}

func (that *dbRoom) GetActiveByUser(ctx context.Context, userID string) (*entity.Room, error) {
	return that.getByIndex(ctx, activeRoomKey(userID))
}

func (that *dbRoom) GetByGameID(ctx context.Context, gameID string) (*entity.Room, error) {
	return that.getByIndex(ctx, roomGameKey(gameID))
}

func (that *dbRoom) getByIndex(ctx context.Context, key string) (*entity.Room, error) {
	roomID, err := that.client.Get(ctx, key).Result()

	if errors.Is(err, redis.Nil) {
		return &entity.Room{}, ErrRoomNotFound
	}

	if err != nil {
		return &entity.Room{}, fmt.Errorf("failed to resolve index %s: %w", key, err)
	}

	return that.GetByID(ctx, roomID)
}

func (that *dbRoom) IsCodeActive(ctx context.Context, code string) (bool, error) {
	n, err := that.client.Exists(ctx, roomCodeKey(code)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check code: %w", err)
	}

	return n > 0, nil
}

// IsCodeUsedAnywhere scans every room record, finished ones included. Only
// the allocation fallback path uses it, when the active namespace is
// exhausted.
func (that *dbRoom) IsCodeUsedAnywhere(ctx context.Context, code string) (bool, error) {
	iter := that.client.Scan(ctx, 0, "room:*", 0).Iterator()
	for iter.Next(ctx) {
		response, err := that.client.Get(ctx, iter.Val()).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return false, fmt.Errorf("failed to read room: %w", err)
		}

		var room entity.Room
		if err = json.Unmarshal([]byte(response), &room); err != nil {
			// index keys share the prefix but hold bare ids
			continue
		}

		if room.Code == code {
			return true, nil
		}
	}

	if err := iter.Err(); err != nil {
		return false, fmt.Errorf("failed to scan rooms: %w", err)
	}

	return false, nil
}

func (that *dbRoom) ReleaseUser(ctx context.Context, userID string) error {
	if err := that.client.Del(ctx, activeRoomKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to release user: %w", err)
	}

	return nil
}

func roomCodeKey(code string) string {
	return "room:code:" + code
}

func activeRoomKey(userID string) string {
	return "room:active:" + userID
}

func roomGameKey(gameID string) string {
	return "room:game:" + gameID
}
