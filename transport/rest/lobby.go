package rest

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rocketscienceinc/connectfour-backend/internal/usecase"
)

type LobbyHandler struct {
	logger *slog.Logger

	lobbyUseCase *usecase.LobbyUseCase
}

func NewLobbyHandler(logger *slog.Logger, lobbyUseCase *usecase.LobbyUseCase) *LobbyHandler {
	return &LobbyHandler{
		logger:       logger.With("component", "rest.lobby"),
		lobbyUseCase: lobbyUseCase,
	}
}

func (that *LobbyHandler) Create(ctx echo.Context) error {
	log := that.logger.With("method", "Create")

	user := currentUser(ctx)

	room, err := that.lobbyUseCase.CreateRoom(ctx.Request().Context(), user.ID)
	if err != nil {
		log.Error("failed to create room", "error", err)
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, room)
}

func (that *LobbyHandler) Join(ctx echo.Context) error {
	log := that.logger.With("method", "Join")

	user := currentUser(ctx)
	code := normalizeCode(ctx.Param("code"))

	room, err := that.lobbyUseCase.JoinRoom(ctx.Request().Context(), code, user.ID)
	if err != nil {
		log.Info("join rejected", "code", code, "error", err)
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, room)
}

func (that *LobbyHandler) Start(ctx echo.Context) error {
	log := that.logger.With("method", "Start")

	user := currentUser(ctx)

	game, err := that.lobbyUseCase.StartGame(ctx.Request().Context(), ctx.Param("id"), user.ID)
	if err != nil {
		log.Info("start rejected", "room_id", ctx.Param("id"), "error", err)
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, game.Snapshot())
}

func (that *LobbyHandler) Leave(ctx echo.Context) error {
	user := currentUser(ctx)

	room, err := that.lobbyUseCase.LeaveRoom(ctx.Request().Context(), ctx.Param("id"), user.ID)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, room)
}

func (that *LobbyHandler) Reset(ctx echo.Context) error {
	user := currentUser(ctx)

	room, err := that.lobbyUseCase.ResetGame(ctx.Request().Context(), ctx.Param("id"), user.ID)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, room)
}

func (that *LobbyHandler) Get(ctx echo.Context) error {
	room, err := that.lobbyUseCase.GetRoomByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, room)
}

func (that *LobbyHandler) GetByCode(ctx echo.Context) error {
	room, err := that.lobbyUseCase.GetRoomByCode(ctx.Request().Context(), normalizeCode(ctx.Param("code")))
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, room)
}

func (that *LobbyHandler) GetByGame(ctx echo.Context) error {
	room, err := that.lobbyUseCase.GetRoomByGameID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, room)
}

// room codes are stored uppercase; accept any casing from clients
func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
