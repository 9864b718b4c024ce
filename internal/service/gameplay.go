package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfour-backend/internal/connectfour"
	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
	"github.com/rocketscienceinc/connectfour-backend/internal/notifier"
	"github.com/rocketscienceinc/connectfour-backend/internal/pkg"
)

type GamePlayService interface {
	CreateLocalGame(ctx context.Context) (*entity.Game, error)
	CreateBotGame(ctx context.Context, strength string, owner *entity.User) (*entity.Game, error)
	GetGame(ctx context.Context, gameID string) (*entity.Game, error)

	MakeMove(ctx context.Context, gameID, userID string, column int) (*entity.Game, *entity.BotMove, error)
}

type gamePlayService struct {
	logger *slog.Logger

	gameService   GameService
	playerService PlayerService
	botService    BotService
	notifier      notifier.Notifier
}

func NewGamePlayService(logger *slog.Logger, gameService GameService, playerService PlayerService, botService BotService, notifier notifier.Notifier) GamePlayService {
	return &gamePlayService{
		logger:        logger,
		gameService:   gameService,
		playerService: playerService,
		botService:    botService,
		notifier:      notifier,
	}
}

// CreateLocalGame starts a hot-seat game; both seats share one operator,
// so no player records are needed.
func (that *gamePlayService) CreateLocalGame(ctx context.Context) (*entity.Game, error) {
	game := entity.NewGame(pkg.NewID(), entity.ModeLocal)

	if err := that.gameService.UpdateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create local game: %w", err)
	}

	return game, nil
}

// CreateBotGame starts a game against the automated opponent. The human
// takes seat one; strength is recorded on the game so it survives
// restarts.
func (that *gamePlayService) CreateBotGame(ctx context.Context, strength string, owner *entity.User) (*entity.Game, error) {
	if strength != entity.StrengthHard {
		strength = entity.StrengthEasy
	}

	game := entity.NewGame(pkg.NewID(), entity.ModeBot)
	game.Strength = strength

	nickname := "Player"
	userID := ""
	if owner != nil {
		nickname = owner.Username
		userID = owner.ID
		game.OwnerID = owner.ID
	}

	human := entity.NewPlayer(pkg.NewID(), userID, nickname, game.ID, 1)
	bot := entity.NewBotPlayer(pkg.NewID(), game.ID, 2)
	game.Players = []*entity.Player{human, bot}

	for _, player := range game.Players {
		if err := that.playerService.CreateOrUpdate(ctx, player); err != nil {
			return nil, fmt.Errorf("failed to save player: %w", err)
		}
	}

	if err := that.gameService.UpdateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create bot game: %w", err)
	}

	return game, nil
}

func (that *gamePlayService) GetGame(ctx context.Context, gameID string) (*entity.Game, error) {
	game, err := that.gameService.GetGameByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	return game, nil
}

// MakeMove runs one full round: validate the mover, apply the move, and
// for bot games play the automated reply before answering, so the caller
// sees the whole round as one unit. The snapshot is published only after
// the round is committed.
func (that *gamePlayService) MakeMove(ctx context.Context, gameID, userID string, column int) (*entity.Game, *entity.BotMove, error) {
	game, err := that.gameService.GetGameByID(ctx, gameID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	if !game.IsPlaying() {
		return nil, nil, apperror.ErrGameNotActive
	}

	if err = that.validateMover(game, userID); err != nil {
		return nil, nil, err
	}

	if _, err = game.ApplyMove(column); err != nil {
		return nil, nil, fmt.Errorf("failed to make turn: %w", err)
	}

	if err = that.gameService.UpdateGame(ctx, game); err != nil {
		return nil, nil, fmt.Errorf("failed to update game: %w", err)
	}

	if !game.IsWithBot() || !that.isBotTurn(game) {
		that.notifier.GameUpdated(ctx, game)
		return game, nil, nil
	}

	botMove, err := that.botService.MakeTurn(game)
	if err != nil {
		return nil, nil, fmt.Errorf("bot failed to make turn: %w", err)
	}

	that.logger.Debug("bot replied", "game_id", game.ID, "column", botMove.Column)

	if err = that.gameService.UpdateGame(ctx, game); err != nil {
		return nil, nil, fmt.Errorf("failed to update game after bot turn: %w", err)
	}

	that.notifier.GameUpdatedWithBotMove(ctx, game, botMove)

	return game, botMove, nil
}

// validateMover enforces seat order. Hot-seat games accept either side
// since both belong to the same physical operator; bot games accept the
// human unconditionally because the bot never moves out of band; online
// games require the seated current player.
func (that *gamePlayService) validateMover(game *entity.Game, userID string) error {
	if !game.IsOnline() {
		return nil
	}

	player := game.PlayerByUser(userID)
	if player == nil || connectfour.Cell(player.Seat) != game.CurrentPlayer {
		return apperror.ErrNotYourTurn
	}

	return nil
}

func (that *gamePlayService) isBotTurn(game *entity.Game) bool {
	botPlayer := game.BotPlayer()

	return game.IsPlaying() && botPlayer != nil && connectfour.Cell(botPlayer.Seat) == game.CurrentPlayer
}
