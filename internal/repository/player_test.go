package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
	"github.com/rocketscienceinc/connectfour-backend/testing/suite"
)

func TestPlayerRepository_CreateOrUpdate(t *testing.T) {
	ctx, st := suite.New(t)

	playerRepo := NewPlayerRepository(st.Storage)

	// Given: a seated player
	player := entity.NewPlayer("p1", "u1", "alice", "g1", 1)

	// When: CreateOrUpdate is called
	err := playerRepo.CreateOrUpdate(ctx, player)

	// Then: no error should be returned
	require.NoError(t, err)
}

func TestPlayerRepository_GetByID(t *testing.T) {
	t.Run("GetByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		playerRepo := NewPlayerRepository(st.Storage)

		player := entity.NewBotPlayer("p2", "g1", 2)

		err := playerRepo.CreateOrUpdate(ctx, player)
		require.NoError(t, err)

		// When: GetByID is called with existing ID
		retrievedPlayer, err := playerRepo.GetByID(ctx, player.ID)

		// Then: the retrieved player should match the saved player
		require.NoError(t, err)
		require.Equal(t, player.ID, retrievedPlayer.ID)
		assert.True(t, retrievedPlayer.IsBot)
		assert.Equal(t, entity.BotNickname, retrievedPlayer.Nickname)
		assert.Equal(t, 2, retrievedPlayer.Seat)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		playerRepo := NewPlayerRepository(st.Storage)

		// When: GetByID is called with non-existent ID
		retrievedPlayer, err := playerRepo.GetByID(ctx, "9999999")

		// Then: an ErrPlayerNotFound error should be returned
		require.Error(t, err)
		assert.Equal(t, ErrPlayerNotFound, err)
		assert.Empty(t, retrievedPlayer.ID)
	})
}
