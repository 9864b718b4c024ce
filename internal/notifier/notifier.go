package notifier

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

const (
	EventGameUpdate = "game_update"
	EventGameReset  = "game_reset"
	EventRoomUpdate = "room_update"
)

// Event wraps every published payload. Payloads are full snapshots, not
// deltas, so a freshly subscribed client is consistent without replay.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// GameChannel is the pub/sub channel carrying move and reset events for
// one game.
func GameChannel(gameID string) string {
	return "game:" + gameID + ":events"
}

// RoomChannel carries room-state events for one room code.
func RoomChannel(code string) string {
	return "room:" + code + ":events"
}

// Notifier pushes state snapshots to the observers of a game or room.
// Callers publish only after the mutation is committed; delivery is
// fire-and-forget, failures are logged and never fail the request.
type Notifier interface {
	GameUpdated(ctx context.Context, game *entity.Game)
	GameUpdatedWithBotMove(ctx context.Context, game *entity.Game, move *entity.BotMove)
	GameReset(ctx context.Context, gameID string)
	RoomUpdated(ctx context.Context, room *entity.Room)
}

type redisNotifier struct {
	logger *slog.Logger
	client *redis.Client
}

func New(logger *slog.Logger, client *redis.Client) Notifier {
	return &redisNotifier{
		logger: logger.With("component", "notifier"),
		client: client,
	}
}

func (that *redisNotifier) GameUpdated(ctx context.Context, game *entity.Game) {
	that.publish(ctx, GameChannel(game.ID), EventGameUpdate, game.Snapshot())
}

func (that *redisNotifier) GameUpdatedWithBotMove(ctx context.Context, game *entity.Game, move *entity.BotMove) {
	snapshot := game.Snapshot()
	snapshot.BotMove = move
	that.publish(ctx, GameChannel(game.ID), EventGameUpdate, snapshot)
}

func (that *redisNotifier) GameReset(ctx context.Context, gameID string) {
	that.publish(ctx, GameChannel(gameID), EventGameReset, map[string]string{"game_id": gameID})
}

func (that *redisNotifier) RoomUpdated(ctx context.Context, room *entity.Room) {
	that.publish(ctx, RoomChannel(room.Code), EventRoomUpdate, room)
}

func (that *redisNotifier) publish(ctx context.Context, channel, eventType string, payload any) {
	log := that.logger.With("channel", channel, "event", eventType)

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		log.Error("failed to marshal payload", "error", err)
		return
	}

	eventJSON, err := json.Marshal(Event{Type: eventType, Payload: payloadJSON})
	if err != nil {
		log.Error("failed to marshal event", "error", err)
		return
	}

	if err = that.client.Publish(ctx, channel, eventJSON).Err(); err != nil {
		log.Error("failed to publish event", "error", err)
	}
}
