package websocket

import (
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/connectfour-backend/internal/notifier"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendQueueSize  = 64
)

const (
	actionSubscribe   = "subscribe"
	actionUnsubscribe = "unsubscribe"
)

// clientMessage is what a client sends to manage its watch list. Either a
// game id or a room code names the stream; clients never address raw
// channels.
type clientMessage struct {
	Action   string `json:"action"`
	GameID   string `json:"game_id,omitempty"`
	RoomCode string `json:"room_code,omitempty"`
}

type Client struct {
	logger *slog.Logger

	hub  *Hub
	conn *websocket.Conn

	send     chan []byte
	channels map[string]bool
}

func newClient(logger *slog.Logger, hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		logger:   logger,
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, sendQueueSize),
		channels: make(map[string]bool),
	}
}

func (that *Client) run() {
	go that.writePump()
	that.readPump()
}

// readPump consumes subscribe and unsubscribe requests until the
// connection drops, then unregisters the client.
func (that *Client) readPump() {
	defer func() {
		that.hub.unregister(that)
		_ = that.conn.Close()
	}()

	that.conn.SetReadLimit(maxMessageSize)
	_ = that.conn.SetReadDeadline(time.Now().Add(pongWait))
	that.conn.SetPongHandler(func(string) error {
		return that.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := that.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				that.logger.Warn("unexpected close", "error", err)
			}
			return
		}

		var msg clientMessage
		if err = json.Unmarshal(raw, &msg); err != nil {
			that.logger.Warn("failed to unmarshal client message", "error", err)
			continue
		}

		channel, ok := channelFor(&msg)
		if !ok {
			that.logger.Warn("client message names no stream", "action", msg.Action)
			continue
		}

		switch msg.Action {
		case actionSubscribe:
			that.hub.subscribe(that, channel)
		case actionUnsubscribe:
			that.hub.unsubscribe(that, channel)
		default:
			that.logger.Warn("unknown action", "action", msg.Action)
		}
	}
}

func (that *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = that.conn.Close()
	}()

	for {
		select {
		case message, ok := <-that.send:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = that.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := that.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := that.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func channelFor(msg *clientMessage) (string, bool) {
	switch {
	case msg.GameID != "":
		return notifier.GameChannel(msg.GameID), true
	case msg.RoomCode != "":
		// codes are stored uppercase
		return notifier.RoomChannel(strings.ToUpper(msg.RoomCode)), true
	default:
		return "", false
	}
}
