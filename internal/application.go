package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/connectfour-backend/internal/ai"
	"github.com/rocketscienceinc/connectfour-backend/internal/config"
	"github.com/rocketscienceinc/connectfour-backend/internal/notifier"
	"github.com/rocketscienceinc/connectfour-backend/internal/repository"
	"github.com/rocketscienceinc/connectfour-backend/internal/repository/storage"
	"github.com/rocketscienceinc/connectfour-backend/internal/repository/storage/sqlite"
	"github.com/rocketscienceinc/connectfour-backend/internal/service"
	"github.com/rocketscienceinc/connectfour-backend/internal/usecase"
	"github.com/rocketscienceinc/connectfour-backend/transport/rest"
	"github.com/rocketscienceinc/connectfour-backend/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	sqliteStorage, err := sqlite.New(conf.SQLiteStoragePath)
	if err != nil {
		return fmt.Errorf("could not open sqlite storage: %w", err)
	}

	defer func() {
		if err = sqliteStorage.Close(); err != nil {
			log.Error("could not close sqlite storage", "error", err)
		}
	}()

	if err = sqliteStorage.Init(ctx); err != nil {
		return fmt.Errorf("could not init sqlite storage: %w", err)
	}

	gameRepo := repository.NewGameRepository(redisStorage.Connection)
	playerRepo := repository.NewPlayerRepository(redisStorage.Connection)
	roomRepo := repository.NewRoomRepository(redisStorage.Connection)
	userRepo := repository.NewUserRepository(sqliteStorage.Connection)

	eventNotifier := notifier.New(logger, redisStorage.Connection)

	authService := service.NewAuthService(conf.JWTSecretKey)
	userService := service.NewUserService(userRepo)
	gameService := service.NewGameService(gameRepo)
	playerService := service.NewPlayerService(playerRepo)
	botService := service.NewBotService(ai.New())
	gamePlayService := service.NewGamePlayService(logger, gameService, playerService, botService, eventNotifier)
	lobbyService := service.NewLobbyService(logger, roomRepo, gameService, playerService, userService, eventNotifier)

	gameUseCase := usecase.NewGameUseCase(gamePlayService)
	lobbyUseCase := usecase.NewLobbyUseCase(lobbyService)

	authHandler := rest.NewAuthHandler(logger, authService, userService)
	gameHandler := rest.NewGameHandler(logger, gameUseCase)
	lobbyHandler := rest.NewLobbyHandler(logger, lobbyUseCase)
	restServer := rest.New(logger, authHandler, gameHandler, lobbyHandler)

	hub := websocket.NewHub(logger)
	pump := websocket.NewPump(logger, redisStorage.Connection, hub)
	wsServer := websocket.New(logger, hub, pump)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := restServer.Start(ctx, conf.HTTPPort); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
