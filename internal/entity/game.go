package entity

import (
	"time"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfour-backend/internal/connectfour"
)

const (
	StatusWaiting  = "waiting"
	StatusPlaying  = "playing"
	StatusFinished = "finished"
	StatusDraw     = "draw"
)

const (
	ModeLocal  = "local"
	ModeBot    = "bot"
	ModeOnline = "online"
)

const (
	StrengthEasy = "easy"
	StrengthHard = "hard"
)

type Game struct {
	ID            string            `json:"id"`
	Mode          string            `json:"mode"`
	Status        string            `json:"status"`
	CurrentPlayer connectfour.Cell  `json:"current_player"`
	Board         connectfour.Board `json:"board"`
	Winner        connectfour.Cell  `json:"winner,omitempty"`
	Strength      string            `json:"strength,omitempty"`
	OwnerID       string            `json:"owner_id,omitempty"`
	Players       []*Player         `json:"players,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// BotMove reports where the automated side just played.
type BotMove struct {
	Column int `json:"column"`
	Row    int `json:"row"`
}

// NewGame returns a game in the playing state with player one to move.
// Local and bot games never pass through a waiting phase.
func NewGame(id, mode string) *Game {
	now := time.Now().UTC()

	return &Game{
		ID:            id,
		Mode:          mode,
		Status:        StatusPlaying,
		CurrentPlayer: connectfour.PlayerOne,
		Board:         connectfour.NewBoard(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// ApplyMove drops a piece for the current player and advances the game:
// a winning line finishes the game and records the winner, a full board
// without one is a draw, otherwise the turn passes to the other player.
// Returns the row the piece landed in.
func (that *Game) ApplyMove(column int) (int, error) {
	if !that.IsPlaying() {
		return 0, apperror.ErrGameNotActive
	}

	board, row, err := that.Board.Drop(column, that.CurrentPlayer)
	if err != nil {
		return 0, err
	}

	that.Board = board

	switch winner := board.Winner(); {
	case winner != connectfour.Empty:
		that.Status = StatusFinished
		that.Winner = winner
	case board.IsDraw():
		that.Status = StatusDraw
	default:
		that.CurrentPlayer = connectfour.Opponent(that.CurrentPlayer)
	}

	that.UpdatedAt = time.Now().UTC()

	return row, nil
}

func (that *Game) IsPlaying() bool {
	return that.Status == StatusPlaying
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsDraw() bool {
	return that.Status == StatusDraw
}

// IsOver reports whether the game reached a terminal state.
func (that *Game) IsOver() bool {
	return that.IsFinished() || that.IsDraw()
}

func (that *Game) IsLocal() bool {
	return that.Mode == ModeLocal
}

func (that *Game) IsWithBot() bool {
	return that.Mode == ModeBot
}

func (that *Game) IsOnline() bool {
	return that.Mode == ModeOnline
}

// PlayerBySeat returns the player seated at the given side, or nil.
func (that *Game) PlayerBySeat(seat int) *Player {
	for _, player := range that.Players {
		if player.Seat == seat {
			return player
		}
	}
	return nil
}

// PlayerByUser returns the seated player backed by the given user, or nil.
func (that *Game) PlayerByUser(userID string) *Player {
	for _, player := range that.Players {
		if !player.IsBot && player.UserID == userID {
			return player
		}
	}
	return nil
}

// BotPlayer returns the automated player, or nil for human-only games.
func (that *Game) BotPlayer() *Player {
	for _, player := range that.Players {
		if player.IsBot {
			return player
		}
	}
	return nil
}

// Snapshot is the full game state as published to observers; players are
// keyed by seat so a client never needs ordering knowledge.
type Snapshot struct {
	ID            string            `json:"id"`
	Mode          string            `json:"mode"`
	Status        string            `json:"status"`
	CurrentPlayer connectfour.Cell  `json:"current_player"`
	Board         connectfour.Board `json:"board"`
	Winner        connectfour.Cell  `json:"winner,omitempty"`
	OwnerID       string            `json:"owner_id,omitempty"`
	Players       map[int]*Player   `json:"players"`
	BotMove       *BotMove          `json:"ai_move,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

func (that *Game) Snapshot() *Snapshot {
	players := make(map[int]*Player, len(that.Players))
	for _, player := range that.Players {
		players[player.Seat] = player
	}

	return &Snapshot{
		ID:            that.ID,
		Mode:          that.Mode,
		Status:        that.Status,
		CurrentPlayer: that.CurrentPlayer,
		Board:         that.Board,
		Winner:        that.Winner,
		OwnerID:       that.OwnerID,
		Players:       players,
		CreatedAt:     that.CreatedAt,
		UpdatedAt:     that.UpdatedAt,
	}
}
