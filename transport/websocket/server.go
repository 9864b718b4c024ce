package websocket

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

type Server struct {
	logger *slog.Logger

	hub      *Hub
	pump     *Pump
	upgrader websocket.Upgrader
}

func New(logger *slog.Logger, hub *Hub, pump *Pump) *Server {
	return &Server{
		logger: logger.With("component", "websocket"),
		hub:    hub,
		pump:   pump,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Start runs the event pump and the WebSocket endpoint until ctx is
// canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	pumpErrCh := make(chan error, 1)
	go func() {
		if err := that.pump.Run(ctx); err != nil {
			pumpErrCh <- err
		}
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(w, r)
	})

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	srvErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			srvErrCh <- err
		}
	}()

	select {
	case err := <-pumpErrCh:
		return fmt.Errorf("event pump error: %w", err)
	case err := <-srvErrCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}

		return nil
	}
}

func (that *Server) upgradeToWebSocket(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	client := newClient(that.logger, that.hub, conn)
	that.hub.register(client)

	log.Info("WebSocket connection established", "remote", conn.RemoteAddr().String())

	go client.run()
}
