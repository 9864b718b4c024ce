package websocket

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// frame is the envelope delivered to clients: the originating channel plus
// the event exactly as published.
type frame struct {
	Channel string          `json:"channel"`
	Event   json.RawMessage `json:"event"`
}

// Pump subscribes to every game and room event channel on Redis and
// forwards each message to the hub. One pump serves all clients of the
// process.
type Pump struct {
	logger *slog.Logger

	client *redis.Client
	hub    *Hub
}

func NewPump(logger *slog.Logger, client *redis.Client, hub *Hub) *Pump {
	return &Pump{
		logger: logger.With("component", "websocket.pump"),
		client: client,
		hub:    hub,
	}
}

// Run blocks until ctx is canceled.
func (that *Pump) Run(ctx context.Context) error {
	pubsub := that.client.PSubscribe(ctx, "game:*:events", "room:*:events")
	defer pubsub.Close()

	messages := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}

			that.forward(msg)
		}
	}
}

func (that *Pump) forward(msg *redis.Message) {
	body, err := json.Marshal(frame{
		Channel: msg.Channel,
		Event:   json.RawMessage(msg.Payload),
	})
	if err != nil {
		that.logger.Error("failed to marshal frame", "channel", msg.Channel, "error", err)
		return
	}

	that.hub.Broadcast(msg.Channel, body)
}
