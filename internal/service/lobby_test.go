package service

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

type lobbyFixture struct {
	lobby  *lobbyService
	rooms  *fakeRoomRepo
	games  *fakeGameService
	events *recordingNotifier
}

func newLobbyFixture() *lobbyFixture {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	rooms := newFakeRoomRepo()
	games := newFakeGameService()
	players := newFakePlayerService()
	users := newFakeUserService(
		&entity.User{ID: "u1", Username: "alice"},
		&entity.User{ID: "u2", Username: "bob"},
	)
	events := newRecordingNotifier()

	lobby, _ := NewLobbyService(logger, rooms, games, players, users, events).(*lobbyService)

	return &lobbyFixture{
		lobby:  lobby,
		rooms:  rooms,
		games:  games,
		events: events,
	}
}

func TestLobbyService_CreateRoom(t *testing.T) {
	t.Run("Opens a waiting room with a six character code", func(t *testing.T) {
		ctx := context.Background()
		fx := newLobbyFixture()

		room, err := fx.lobby.CreateRoom(ctx, "u1")

		require.NoError(t, err)
		assert.Equal(t, "u1", room.HostID)
		assert.True(t, room.IsWaiting())
		assert.Len(t, room.Code, 6)
	})

	t.Run("Repeated create returns the same waiting room", func(t *testing.T) {
		ctx := context.Background()
		fx := newLobbyFixture()

		first, err := fx.lobby.CreateRoom(ctx, "u1")
		require.NoError(t, err)

		second, err := fx.lobby.CreateRoom(ctx, "u1")
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, first.Code, second.Code)
	})

	t.Run("Playing room with a live game is returned as is", func(t *testing.T) {
		ctx := context.Background()
		fx := newLobbyFixture()

		room, err := fx.lobby.CreateRoom(ctx, "u1")
		require.NoError(t, err)

		game := entity.NewGame("g1", entity.ModeOnline)
		require.NoError(t, fx.games.UpdateGame(ctx, game))

		room.GuestID = "u2"
		room.GameID = "g1"
		room.Status = entity.StatusPlaying
		require.NoError(t, fx.rooms.Save(ctx, room))

		again, err := fx.lobby.CreateRoom(ctx, "u1")

		require.NoError(t, err)
		assert.Equal(t, room.ID, again.ID)
	})

	t.Run("Playing room with a concluded game is replaced", func(t *testing.T) {
		ctx := context.Background()
		fx := newLobbyFixture()

		room, err := fx.lobby.CreateRoom(ctx, "u1")
		require.NoError(t, err)

		game := entity.NewGame("g1", entity.ModeOnline)
		game.Status = entity.StatusFinished
		require.NoError(t, fx.games.UpdateGame(ctx, game))

		room.GuestID = "u2"
		room.GameID = "g1"
		room.Status = entity.StatusPlaying
		require.NoError(t, fx.rooms.Save(ctx, room))

		fresh, err := fx.lobby.CreateRoom(ctx, "u1")

		require.NoError(t, err)
		assert.NotEqual(t, room.ID, fresh.ID)
		assert.True(t, fresh.IsWaiting())

		// the stale room was archived, not deleted
		stale, err := fx.rooms.GetByID(ctx, room.ID)
		require.NoError(t, err)
		assert.True(t, stale.IsFinished())
	})

	t.Run("Allocation skips codes held by active rooms", func(t *testing.T) {
		ctx := context.Background()
		fx := newLobbyFixture()

		codes := []string{"AAAAAA", "AAAAAA", "BBBBBB"}
		fx.lobby.generateCode = func() string {
			code := codes[0]
			if len(codes) > 1 {
				codes = codes[1:]
			}
			return code
		}

		first, err := fx.lobby.CreateRoom(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "AAAAAA", first.Code)

		// When: another host rolls the same code first
		second, err := fx.lobby.CreateRoom(ctx, "u2")

		// Then: allocation retries until a free code comes up
		require.NoError(t, err)
		assert.Equal(t, "BBBBBB", second.Code)
	})

	t.Run("A finished room's code becomes reusable", func(t *testing.T) {
		ctx := context.Background()
		fx := newLobbyFixture()

		fx.lobby.generateCode = func() string { return "CCCCCC" }

		room, err := fx.lobby.CreateRoom(ctx, "u1")
		require.NoError(t, err)

		_, err = fx.lobby.LeaveRoom(ctx, room.ID, "u1")
		require.NoError(t, err)

		// When: a different host allocates after the room closed
		reused, err := fx.lobby.CreateRoom(ctx, "u2")

		require.NoError(t, err)
		assert.Equal(t, "CCCCCC", reused.Code)
	})
}

func TestLobbyService_JoinRoom(t *testing.T) {
	t.Run("Guest takes the open seat", func(t *testing.T) {
		ctx := context.Background()
		fx := newLobbyFixture()

		room, err := fx.lobby.CreateRoom(ctx, "u1")
		require.NoError(t, err)

		joined, err := fx.lobby.JoinRoom(ctx, room.Code, "u2")

		require.NoError(t, err)
		assert.Equal(t, "u2", joined.GuestID)
		assert.True(t, joined.IsWaiting())

		recorded := fx.events.recorded()
		require.Len(t, recorded, 1)
		assert.Equal(t, "room_update", recorded[0].kind)
	})

	t.Run("Unknown code is not found", func(t *testing.T) {
		ctx := context.Background()
		fx := newLobbyFixture()

		_, err := fx.lobby.JoinRoom(ctx, "ZZZZZZ", "u2")

		require.ErrorIs(t, err, apperror.ErrRoomNotFound)
	})

	t.Run("Finished room's code reads as unknown", func(t *testing.T) {
		ctx := context.Background()
		fx := newLobbyFixture()

		room, err := fx.lobby.CreateRoom(ctx, "u1")
		require.NoError(t, err)

		// host leaving terminates the room and releases its code
		_, err = fx.lobby.LeaveRoom(ctx, room.ID, "u1")
		require.NoError(t, err)

		_, err = fx.lobby.JoinRoom(ctx, room.Code, "u2")

		require.ErrorIs(t, err, apperror.ErrRoomNotFound)
	})

	t.Run("Host cannot join their own room", func(t *testing.T) {
		ctx := context.Background()
		fx := newLobbyFixture()

		room, err := fx.lobby.CreateRoom(ctx, "u1")
		require.NoError(t, err)

		_, err = fx.lobby.JoinRoom(ctx, room.Code, "u1")

		require.ErrorIs(t, err, apperror.ErrSelfJoin)
	})

	t.Run("Occupied seat rejects a second guest", func(t *testing.T) {
		ctx := context.Background()
		fx := newLobbyFixture()

		room, err := fx.lobby.CreateRoom(ctx, "u1")
		require.NoError(t, err)

		_, err = fx.lobby.JoinRoom(ctx, room.Code, "u2")
		require.NoError(t, err)

		_, err = fx.lobby.JoinRoom(ctx, room.Code, "u3")

		require.ErrorIs(t, err, apperror.ErrRoomFull)
	})

	t.Run("Playing room is unavailable", func(t *testing.T) {
		ctx := context.Background()
		fx := newLobbyFixture()

		room, err := fx.lobby.CreateRoom(ctx, "u1")
		require.NoError(t, err)

		_, err = fx.lobby.JoinRoom(ctx, room.Code, "u2")
		require.NoError(t, err)

		_, err = fx.lobby.StartGame(ctx, room.ID, "u1")
		require.NoError(t, err)

		_, err = fx.lobby.JoinRoom(ctx, room.Code, "u3")

		require.ErrorIs(t, err, apperror.ErrRoomUnavailable)
	})

	t.Run("Playing room with a concluded game is closed on join", func(t *testing.T) {
		ctx := context.Background()
		fx := newLobbyFixture()

		room, err := fx.lobby.CreateRoom(ctx, "u1")
		require.NoError(t, err)

		_, err = fx.lobby.JoinRoom(ctx, room.Code, "u2")
		require.NoError(t, err)

		game, err := fx.lobby.StartGame(ctx, room.ID, "u1")
		require.NoError(t, err)

		game.Status = entity.StatusFinished
		require.NoError(t, fx.games.UpdateGame(ctx, game))

		// When: someone joins a room whose game already ended
		_, err = fx.lobby.JoinRoom(ctx, room.Code, "u3")

		// Then: the join is refused and the room is reconciled to finished
		require.ErrorIs(t, err, apperror.ErrRoomUnavailable)

		stored, err := fx.rooms.GetByID(ctx, room.ID)
		require.NoError(t, err)
		assert.True(t, stored.IsFinished())
	})
}

func TestLobbyService_StartGame(t *testing.T) {
	t.Run("Host starts a full room", func(t *testing.T) {
		ctx := context.Background()
		fx := newLobbyFixture()

		room, err := fx.lobby.CreateRoom(ctx, "u1")
		require.NoError(t, err)

		_, err = fx.lobby.JoinRoom(ctx, room.Code, "u2")
		require.NoError(t, err)

		game, err := fx.lobby.StartGame(ctx, room.ID, "u1")

		require.NoError(t, err)
		assert.Equal(t, entity.ModeOnline, game.Mode)
		assert.True(t, game.IsPlaying())
		assert.Equal(t, "alice", game.PlayerBySeat(1).Nickname)
		assert.Equal(t, "bob", game.PlayerBySeat(2).Nickname)

		stored, err := fx.rooms.GetByID(ctx, room.ID)
		require.NoError(t, err)
		assert.True(t, stored.IsPlaying())
		assert.Equal(t, game.ID, stored.GameID)
	})

	t.Run("Only the host may start", func(t *testing.T) {
		ctx := context.Background()
		fx := newLobbyFixture()

		room, err := fx.lobby.CreateRoom(ctx, "u1")
		require.NoError(t, err)

		_, err = fx.lobby.JoinRoom(ctx, room.Code, "u2")
		require.NoError(t, err)

		_, err = fx.lobby.StartGame(ctx, room.ID, "u2")

		require.ErrorIs(t, err, apperror.ErrNotHost)
	})

	t.Run("Starting without a guest is rejected", func(t *testing.T) {
		ctx := context.Background()
		fx := newLobbyFixture()

		room, err := fx.lobby.CreateRoom(ctx, "u1")
		require.NoError(t, err)

		_, err = fx.lobby.StartGame(ctx, room.ID, "u1")

		require.ErrorIs(t, err, apperror.ErrSecondPlayerMissing)
	})

	t.Run("Repeated start returns the running game", func(t *testing.T) {
		ctx := context.Background()
		fx := newLobbyFixture()

		room, err := fx.lobby.CreateRoom(ctx, "u1")
		require.NoError(t, err)

		_, err = fx.lobby.JoinRoom(ctx, room.Code, "u2")
		require.NoError(t, err)

		first, err := fx.lobby.StartGame(ctx, room.ID, "u1")
		require.NoError(t, err)

		second, err := fx.lobby.StartGame(ctx, room.ID, "u1")
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
	})
}

func TestLobbyService_LeaveRoom(t *testing.T) {
	t.Run("Strangers cannot leave", func(t *testing.T) {
		ctx := context.Background()
		fx := newLobbyFixture()

		room, err := fx.lobby.CreateRoom(ctx, "u1")
		require.NoError(t, err)

		_, err = fx.lobby.LeaveRoom(ctx, room.ID, "u3")

		require.ErrorIs(t, err, apperror.ErrNotAParticipant)
	})

	t.Run("Guest leaving a waiting room frees the seat", func(t *testing.T) {
		ctx := context.Background()
		fx := newLobbyFixture()

		room, err := fx.lobby.CreateRoom(ctx, "u1")
		require.NoError(t, err)

		_, err = fx.lobby.JoinRoom(ctx, room.Code, "u2")
		require.NoError(t, err)

		left, err := fx.lobby.LeaveRoom(ctx, room.ID, "u2")

		require.NoError(t, err)
		assert.False(t, left.HasGuest())
		assert.True(t, left.IsWaiting())

		// the seat is open again
		rejoined, err := fx.lobby.JoinRoom(ctx, room.Code, "u3")
		require.NoError(t, err)
		assert.Equal(t, "u3", rejoined.GuestID)
	})

	t.Run("Host leaving closes the room", func(t *testing.T) {
		ctx := context.Background()
		fx := newLobbyFixture()

		room, err := fx.lobby.CreateRoom(ctx, "u1")
		require.NoError(t, err)

		left, err := fx.lobby.LeaveRoom(ctx, room.ID, "u1")

		require.NoError(t, err)
		assert.True(t, left.IsFinished())

		_, err = fx.lobby.JoinRoom(ctx, room.Code, "u2")
		require.ErrorIs(t, err, apperror.ErrRoomNotFound)
	})

	t.Run("Guest leaving mid-game closes the room", func(t *testing.T) {
		ctx := context.Background()
		fx := newLobbyFixture()

		room, err := fx.lobby.CreateRoom(ctx, "u1")
		require.NoError(t, err)

		_, err = fx.lobby.JoinRoom(ctx, room.Code, "u2")
		require.NoError(t, err)

		_, err = fx.lobby.StartGame(ctx, room.ID, "u1")
		require.NoError(t, err)

		left, err := fx.lobby.LeaveRoom(ctx, room.ID, "u2")

		require.NoError(t, err)
		assert.True(t, left.IsFinished())
	})
}

func TestLobbyService_ResetGame(t *testing.T) {
	t.Run("Participant tears the match down to the lobby", func(t *testing.T) {
		ctx := context.Background()
		fx := newLobbyFixture()

		room, err := fx.lobby.CreateRoom(ctx, "u1")
		require.NoError(t, err)

		_, err = fx.lobby.JoinRoom(ctx, room.Code, "u2")
		require.NoError(t, err)

		game, err := fx.lobby.StartGame(ctx, room.ID, "u1")
		require.NoError(t, err)

		reset, err := fx.lobby.ResetGame(ctx, room.ID, "u2")

		require.NoError(t, err)
		assert.True(t, reset.IsFinished())

		// observers of the game hear the reset before the room update
		recorded := fx.events.recorded()
		require.NotEmpty(t, recorded)
		var kinds []string
		for _, event := range recorded {
			kinds = append(kinds, event.kind)
		}
		assert.Contains(t, kinds, "game_reset")
		last := recorded[len(recorded)-1]
		assert.Equal(t, "room_update", last.kind)

		for i, event := range recorded {
			if event.kind == "game_reset" {
				assert.Equal(t, game.ID, event.gameID)
				assert.Less(t, i, len(recorded)-1)
			}
		}
	})

	t.Run("Strangers cannot reset", func(t *testing.T) {
		ctx := context.Background()
		fx := newLobbyFixture()

		room, err := fx.lobby.CreateRoom(ctx, "u1")
		require.NoError(t, err)

		_, err = fx.lobby.ResetGame(ctx, room.ID, "u3")

		require.ErrorIs(t, err, apperror.ErrNotAParticipant)
	})

	t.Run("Room without a game cannot be reset", func(t *testing.T) {
		ctx := context.Background()
		fx := newLobbyFixture()

		room, err := fx.lobby.CreateRoom(ctx, "u1")
		require.NoError(t, err)

		_, err = fx.lobby.ResetGame(ctx, room.ID, "u1")

		require.ErrorIs(t, err, apperror.ErrRoomUnavailable)
	})
}
