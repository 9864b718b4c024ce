package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

type fakeUserRepo struct {
	users map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entity.User)}
}

func (that *fakeUserRepo) Save(_ context.Context, user *entity.User) error {
	that.users[user.ID] = user
	return nil
}

func (that *fakeUserRepo) FindByID(_ context.Context, id string) (*entity.User, error) {
	user, ok := that.users[id]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	return user, nil
}

func (that *fakeUserRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	for _, user := range that.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, apperror.ErrNotFound
}

func (that *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, user := range that.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, apperror.ErrNotFound
}

func TestUserService_Register(t *testing.T) {
	t.Run("New user is stored with a hashed password", func(t *testing.T) {
		ctx := context.Background()
		repo := newFakeUserRepo()
		users := NewUserService(repo)

		user, err := users.Register(ctx, "alice", "alice@example.com", "s3cret")

		require.NoError(t, err)
		assert.NotEmpty(t, user.ID)
		assert.Equal(t, "alice", user.Username)
		assert.NotEmpty(t, user.PasswordHash)
		assert.NotEqual(t, "s3cret", user.PasswordHash)
	})

	t.Run("Duplicate username is rejected", func(t *testing.T) {
		ctx := context.Background()
		users := NewUserService(newFakeUserRepo())

		_, err := users.Register(ctx, "alice", "alice@example.com", "s3cret")
		require.NoError(t, err)

		_, err = users.Register(ctx, "alice", "other@example.com", "s3cret")
		require.ErrorIs(t, err, apperror.ErrAlreadyExists)
	})

	t.Run("Duplicate email is rejected", func(t *testing.T) {
		ctx := context.Background()
		users := NewUserService(newFakeUserRepo())

		_, err := users.Register(ctx, "alice", "alice@example.com", "s3cret")
		require.NoError(t, err)

		_, err = users.Register(ctx, "bob", "alice@example.com", "s3cret")
		require.ErrorIs(t, err, apperror.ErrAlreadyExists)
	})
}

func TestUserService_Login(t *testing.T) {
	t.Run("Valid credentials return the user", func(t *testing.T) {
		ctx := context.Background()
		users := NewUserService(newFakeUserRepo())

		registered, err := users.Register(ctx, "alice", "alice@example.com", "s3cret")
		require.NoError(t, err)

		user, err := users.Login(ctx, "alice", "s3cret")

		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
	})

	t.Run("Wrong password is rejected", func(t *testing.T) {
		ctx := context.Background()
		users := NewUserService(newFakeUserRepo())

		_, err := users.Register(ctx, "alice", "alice@example.com", "s3cret")
		require.NoError(t, err)

		_, err = users.Login(ctx, "alice", "wrong")

		require.ErrorIs(t, err, apperror.ErrInvalidCredentials)
	})

	t.Run("Unknown username is rejected the same way", func(t *testing.T) {
		ctx := context.Background()
		users := NewUserService(newFakeUserRepo())

		_, err := users.Login(ctx, "nobody", "s3cret")

		require.ErrorIs(t, err, apperror.ErrInvalidCredentials)
	})
}
