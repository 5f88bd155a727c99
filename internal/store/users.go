package store

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/inkwell-cms/inkwell/internal/model"
)

var userColumns = []string{
	"id", "email", "username", "password_hash", "is_verified",
	"created_at", "updated_at",
}

// CreateUserParams holds the fields required to insert a user.
type CreateUserParams struct {
	Email        string
	Username     string
	PasswordHash string
	IsVerified   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateUser inserts a new user and returns it with the assigned ID.
func (s *Store) CreateUser(ctx context.Context, p CreateUserParams) (model.User, error) {
	res, err := s.exec(ctx, s.sb.Insert("users").
		Columns("email", "username", "password_hash", "is_verified", "created_at", "updated_at").
		Values(p.Email, p.Username, p.PasswordHash, p.IsVerified, p.CreatedAt, p.UpdatedAt))
	if err != nil {
		return model.User{}, fmt.Errorf("inserting user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, fmt.Errorf("reading user id: %w", err)
	}
	return model.User{
		ID:           id,
		Email:        p.Email,
		Username:     p.Username,
		PasswordHash: p.PasswordHash,
		IsVerified:   p.IsVerified,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}, nil
}

// GetUser fetches a user by ID. Returns ErrNotFound when absent.
func (s *Store) GetUser(ctx context.Context, id int64) (model.User, error) {
	var u model.User
	err := s.get(ctx, &u, s.sb.Select(userColumns...).From("users").Where(sq.Eq{"id": id}))
	return u, err
}

// GetUserByEmail fetches a user by email. Returns ErrNotFound when absent.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	err := s.get(ctx, &u, s.sb.Select(userColumns...).From("users").Where(sq.Eq{"email": email}))
	return u, err
}

// UserExists reports whether a user with the given ID exists.
func (s *Store) UserExists(ctx context.Context, id int64) (bool, error) {
	return s.exists(ctx, "users", sq.Eq{"id": id})
}

// UserEmailExists reports whether the email is already taken.
func (s *Store) UserEmailExists(ctx context.Context, email string) (bool, error) {
	return s.exists(ctx, "users", sq.Eq{"email": email})
}

// UserUsernameExists reports whether the username is already taken.
func (s *Store) UserUsernameExists(ctx context.Context, username string) (bool, error) {
	return s.exists(ctx, "users", sq.Eq{"username": username})
}

// SetUserVerified marks a user as verified.
func (s *Store) SetUserVerified(ctx context.Context, id int64, verified bool, updatedAt time.Time) error {
	_, err := s.exec(ctx, s.sb.Update("users").
		Set("is_verified", verified).
		Set("updated_at", updatedAt).
		Where(sq.Eq{"id": id}))
	return err
}

// ListUsers returns all users ordered by creation time.
func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	users := make([]model.User, 0)
	err := s.selectAll(ctx, &users, s.sb.Select(userColumns...).From("users").OrderBy("created_at ASC", "id ASC"))
	return users, err
}
