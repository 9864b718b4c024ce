package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
	"github.com/rocketscienceinc/connectfour-backend/internal/pkg"
)

type UserService interface {
	Register(ctx context.Context, username, email, password string) (*entity.User, error)
	Login(ctx context.Context, username, password string) (*entity.User, error)
	GetUserByID(ctx context.Context, id string) (*entity.User, error)
}

type userRepo interface {
	Save(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}

type userService struct {
	userRepo userRepo
}

func NewUserService(userRepo userRepo) UserService {
	return &userService{
		userRepo: userRepo,
	}
}

func (that *userService) Register(ctx context.Context, username, email, password string) (*entity.User, error) {
	if _, err := that.userRepo.FindByUsername(ctx, username); !errors.Is(err, apperror.ErrNotFound) {
		if err != nil {
			return nil, fmt.Errorf("could not check username: %w", err)
		}
		return nil, fmt.Errorf("%w: username", apperror.ErrAlreadyExists)
	}

	if _, err := that.userRepo.FindByEmail(ctx, email); !errors.Is(err, apperror.ErrNotFound) {
		if err != nil {
			return nil, fmt.Errorf("could not check email: %w", err)
		}
		return nil, fmt.Errorf("%w: email", apperror.ErrAlreadyExists)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("could not hash password: %w", err)
	}

	user := &entity.User{
		ID:           pkg.NewID(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	if err = that.userRepo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("could not save user: %w", err)
	}

	return user, nil
}

func (that *userService) Login(ctx context.Context, username, password string) (*entity.User, error) {
	user, err := that.userRepo.FindByUsername(ctx, username)
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, apperror.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("could not find user: %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	return user, nil
}

func (that *userService) GetUserByID(ctx context.Context, id string) (*entity.User, error) {
	user, err := that.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("could not get user by id: %w", err)
	}

	return user, nil
}
