package rest

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rocketscienceinc/connectfour-backend/internal/usecase"
)

type GameHandler struct {
	logger *slog.Logger

	gameUseCase *usecase.GameUseCase
}

func NewGameHandler(logger *slog.Logger, gameUseCase *usecase.GameUseCase) *GameHandler {
	return &GameHandler{
		logger:      logger.With("component", "rest.game"),
		gameUseCase: gameUseCase,
	}
}

type createBotGameRequest struct {
	Strength string `json:"strength"`
}

type moveRequest struct {
	Column *int `json:"column"`
}

func (that *GameHandler) CreateLocal(ctx echo.Context) error {
	log := that.logger.With("method", "CreateLocal")

	game, err := that.gameUseCase.CreateLocalGame(ctx.Request().Context())
	if err != nil {
		log.Error("failed to create local game", "error", err)
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, game.Snapshot())
}

func (that *GameHandler) CreateBot(ctx echo.Context) error {
	log := that.logger.With("method", "CreateBot")

	var req createBotGameRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	game, err := that.gameUseCase.CreateBotGame(ctx.Request().Context(), req.Strength, currentUser(ctx))
	if err != nil {
		log.Error("failed to create bot game", "error", err)
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, game.Snapshot())
}

func (that *GameHandler) Get(ctx echo.Context) error {
	game, err := that.gameUseCase.GetGame(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, game.Snapshot())
}

// Move plays one column for the caller. For bot games the response covers
// the whole round, bot reply included.
func (that *GameHandler) Move(ctx echo.Context) error {
	log := that.logger.With("method", "Move")

	var req moveRequest
	if err := ctx.Bind(&req); err != nil || req.Column == nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{Error: "column is required"})
	}

	var userID string
	if user := currentUser(ctx); user != nil {
		userID = user.ID
	}

	game, botMove, err := that.gameUseCase.MakeMove(ctx.Request().Context(), ctx.Param("id"), userID, *req.Column)
	if err != nil {
		log.Info("move rejected", "game_id", ctx.Param("id"), "error", err)
		return writeError(ctx, err)
	}

	snapshot := game.Snapshot()
	snapshot.BotMove = botMove

	return ctx.JSON(http.StatusOK, snapshot)
}
