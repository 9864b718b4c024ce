package websocket

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub() *Hub {
	return NewHub(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
}

func TestHub_Broadcast(t *testing.T) {
	t.Run("Only watchers of the channel receive", func(t *testing.T) {
		hub := newTestHub()

		watcher := newClient(hub.logger, hub, nil)
		bystander := newClient(hub.logger, hub, nil)
		hub.register(watcher)
		hub.register(bystander)

		hub.subscribe(watcher, "game:g1:events")
		hub.subscribe(bystander, "game:g2:events")

		hub.Broadcast("game:g1:events", []byte("payload"))

		select {
		case msg := <-watcher.send:
			assert.Equal(t, "payload", string(msg))
		default:
			t.Fatal("watcher received nothing")
		}

		select {
		case <-bystander.send:
			t.Fatal("bystander should not receive")
		default:
		}
	})

	t.Run("Unsubscribed client stops receiving", func(t *testing.T) {
		hub := newTestHub()

		client := newClient(hub.logger, hub, nil)
		hub.register(client)
		hub.subscribe(client, "room:AB12CD:events")

		hub.unsubscribe(client, "room:AB12CD:events")

		hub.Broadcast("room:AB12CD:events", []byte("payload"))

		select {
		case <-client.send:
			t.Fatal("client should not receive after unsubscribe")
		default:
		}
	})

	t.Run("Unregister cleans up subscriptions", func(t *testing.T) {
		hub := newTestHub()

		client := newClient(hub.logger, hub, nil)
		hub.register(client)
		hub.subscribe(client, "game:g1:events")

		hub.unregister(client)

		// send channel is closed and the watcher set is gone
		_, open := <-client.send
		require.False(t, open)
		assert.Empty(t, hub.subscriptions)
	})

	t.Run("Disconnect during a fan-out is safe", func(t *testing.T) {
		hub := newTestHub()

		clients := make([]*Client, 0, 64)
		for i := 0; i < 64; i++ {
			client := newClient(hub.logger, hub, nil)
			hub.register(client)
			hub.subscribe(client, "game:g1:events")
			clients = append(clients, client)
		}

		// fan out while every watcher disconnects; a send must never
		// land on a closed channel
		done := make(chan struct{})
		go func() {
			defer close(done)
			for i := 0; i < 200; i++ {
				hub.Broadcast("game:g1:events", []byte("payload"))
			}
		}()

		for _, client := range clients {
			hub.unregister(client)
		}
		<-done

		assert.Empty(t, hub.subscriptions)
	})

	t.Run("Subscribe before register is ignored", func(t *testing.T) {
		hub := newTestHub()

		client := newClient(hub.logger, hub, nil)
		hub.subscribe(client, "game:g1:events")

		assert.Empty(t, hub.subscriptions)
	})
}

func TestChannelFor(t *testing.T) {
	channel, ok := channelFor(&clientMessage{Action: actionSubscribe, GameID: "g1"})
	require.True(t, ok)
	assert.Equal(t, "game:g1:events", channel)

	channel, ok = channelFor(&clientMessage{Action: actionSubscribe, RoomCode: "ab12cd"})
	require.True(t, ok)
	assert.Equal(t, "room:AB12CD:events", channel)

	_, ok = channelFor(&clientMessage{Action: actionSubscribe})
	assert.False(t, ok)
}
