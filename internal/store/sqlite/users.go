package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/samy1995/Mealwise/internal/auth"
	"github.com/samy1995/Mealwise/internal/model"
)

func (s *Store) CreateUser(ctx context.Context, u model.User) error {
	var exists int
	err := s.DB.QueryRowContext(ctx, `SELECT 1 FROM users WHERE email = ?`, u.Email).Scan(&exists)
	if err == nil {
		return auth.ErrEmailTaken
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("check existing user: %w", err)
	}
	if _, err := s.DB.ExecContext(ctx, `INSERT INTO users(id, email, password_hash) VALUES(?, ?, ?)`, u.ID, u.Email, u.PasswordHash); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return auth.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (model.User, error) {
	return s.queryUser(ctx, `SELECT id, email, password_hash, created_at FROM users WHERE email = ?`, email)
}

func (s *Store) UserByID(ctx context.Context, id string) (model.User, error) {
	return s.queryUser(ctx, `SELECT id, email, password_hash, created_at FROM users WHERE id = ?`, id)
}

func (s *Store) queryUser(ctx context.Context, query string, arg string) (model.User, error) {
	var u model.User
	err := s.DB.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return model.User{}, auth.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("lookup user: %w", err)
	}
	return u, nil
}
