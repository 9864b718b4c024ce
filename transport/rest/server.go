package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Server struct {
	logger *slog.Logger
	echo   *echo.Echo
}

func New(logger *slog.Logger, auth *AuthHandler, game *GameHandler, lobby *LobbyHandler) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())

	e.GET("/ping", pingHandler)

	api := e.Group("/api")

	api.POST("/auth/register", auth.Register)
	api.POST("/auth/login", auth.Login)
	api.GET("/auth/me", auth.Me, auth.RequireUser)

	api.POST("/game/local", game.CreateLocal)
	api.POST("/game/bot", game.CreateBot, auth.OptionalUser)
	api.GET("/game/:id", game.Get)
	api.POST("/game/:id/move", game.Move, auth.OptionalUser)

	lobbyGroup := api.Group("/lobby", auth.RequireUser)
	lobbyGroup.POST("/create", lobby.Create)
	lobbyGroup.POST("/join/:code", lobby.Join)
	lobbyGroup.POST("/start/:id", lobby.Start)
	lobbyGroup.POST("/leave/:id", lobby.Leave)
	lobbyGroup.POST("/reset/:id", lobby.Reset)
	lobbyGroup.GET("/:id", lobby.Get)
	lobbyGroup.GET("/code/:code", lobby.GetByCode)
	lobbyGroup.GET("/game/:id", lobby.GetByGame)

	return &Server{
		logger: logger.With("component", "rest"),
		echo:   e,
	}
}

// Start runs the HTTP server until ctx is canceled, then shuts it down
// gracefully.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.echo,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
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

func pingHandler(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "pong")
}
