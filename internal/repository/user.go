package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

type UserRepository interface {
	Save(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}

type userRepository struct {
	conn *sql.DB
}

func NewUserRepository(conn *sql.DB) UserRepository {
	return &userRepository{
		conn: conn,
	}
}

func (that *userRepository) Save(ctx context.Context, user *entity.User) error {
	query := `INSERT INTO users (id, username, email, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`

	_, err := that.conn.ExecContext(ctx, query, user.ID, user.Username, user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("can't save user: %w", err)
	}

	return nil
}

func (that *userRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return that.find(ctx, `SELECT id, username, email, password_hash, created_at FROM users WHERE id = ?`, id)
}

func (that *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return that.find(ctx, `SELECT id, username, email, password_hash, created_at FROM users WHERE username = ?`, username)
}

func (that *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return that.find(ctx, `SELECT id, username, email, password_hash, created_at FROM users WHERE email = ?`, email)
}

func (that *userRepository) find(ctx context.Context, query string, arg any) (*entity.User, error) {
	var user entity.User

	err := that.conn.QueryRowContext(ctx, query, arg).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("can't find user: %w", err)
	}

	return &user, nil
}
