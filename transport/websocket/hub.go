package websocket

import (
	"log/slog"
	"sync"
)

// Hub tracks connected clients and which event channels each one watches.
// It fans published events out to the watchers of that channel only.
type Hub struct {
	logger *slog.Logger

	mu            sync.RWMutex
	clients       map[*Client]bool
	subscriptions map[string]map[*Client]bool
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:        logger.With("component", "websocket.hub"),
		clients:       make(map[*Client]bool),
		subscriptions: make(map[string]map[*Client]bool),
	}
}

func (that *Hub) register(client *Client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.clients[client] = true
}

func (that *Hub) unregister(client *Client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.clients[client]; !ok {
		return
	}

	delete(that.clients, client)
	for channel := range client.channels {
		that.dropSubscription(channel, client)
	}

	close(client.send)
}

func (that *Hub) subscribe(client *Client, channel string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.clients[client]; !ok {
		return
	}

	watchers, ok := that.subscriptions[channel]
	if !ok {
		watchers = make(map[*Client]bool)
		that.subscriptions[channel] = watchers
	}

	watchers[client] = true
	client.channels[channel] = true
}

func (that *Hub) unsubscribe(client *Client, channel string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(client.channels, channel)
	that.dropSubscription(channel, client)
}

// dropSubscription must be called with the lock held.
func (that *Hub) dropSubscription(channel string, client *Client) {
	watchers, ok := that.subscriptions[channel]
	if !ok {
		return
	}

	delete(watchers, client)
	if len(watchers) == 0 {
		delete(that.subscriptions, channel)
	}
}

// Broadcast delivers a message to every watcher of channel. Slow clients
// with a full send queue are skipped rather than blocking the fan-out.
// The read lock is held across the sends; unregister closes send under
// the exclusive lock, so a watcher visible here cannot be closed mid-loop.
func (that *Hub) Broadcast(channel string, message []byte) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	for client := range that.subscriptions[channel] {
		select {
		case client.send <- message:
		default:
			that.logger.Warn("client send queue full, dropping message", "channel", channel)
		}
	}
}
