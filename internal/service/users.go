package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/inkwell-cms/inkwell/internal/auth"
	"github.com/inkwell-cms/inkwell/internal/model"
	"github.com/inkwell-cms/inkwell/internal/store"
)

// UserService manages author accounts.
type UserService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(st *store.Store, logger *slog.Logger) *UserService {
	return &UserService{store: st, logger: logger}
}

// CreateUserInput carries the fields for registering a user.
type CreateUserInput struct {
	Email    string
	Username string
	Password string
}

// CreateUser registers a new user. Email and username must each be unused.
func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) (model.User, error) {
	if in.Email == "" {
		return model.User{}, invalidf("email is required")
	}
	if in.Username == "" {
		return model.User{}, invalidf("username is required")
	}
	if in.Password == "" {
		return model.User{}, invalidf("password is required")
	}

	taken, err := s.store.UserEmailExists(ctx, in.Email)
	if err != nil {
		return model.User{}, fmt.Errorf("checking email: %w", err)
	}
	if taken {
		return model.User{}, conflictf("email %q already exists", in.Email)
	}

	taken, err = s.store.UserUsernameExists(ctx, in.Username)
	if err != nil {
		return model.User{}, fmt.Errorf("checking username: %w", err)
	}
	if taken {
		return model.User{}, conflictf("username %q already exists", in.Username)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return model.User{}, fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now().UTC()
	user, err := s.store.CreateUser(ctx, store.CreateUserParams{
		Email:        in.Email,
		Username:     in.Username,
		PasswordHash: hash,
		IsVerified:   false,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return model.User{}, err
	}

	s.logger.Info("user created", "category", model.EventCategoryUser,
		"user_id", user.ID, "username", user.Username)
	return user, nil
}

// GetUser fetches a user by ID.
func (s *UserService) GetUser(ctx context.Context, id int64) (model.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return model.User{}, notFound("user", id)
	}
	return user, err
}

// VerifyUser flips the verified flag on an existing user.
func (s *UserService) VerifyUser(ctx context.Context, id int64) (model.User, error) {
	exists, err := s.store.UserExists(ctx, id)
	if err != nil {
		return model.User{}, fmt.Errorf("checking user: %w", err)
	}
	if !exists {
		return model.User{}, notFound("user", id)
	}

	if err := s.store.SetUserVerified(ctx, id, true, time.Now().UTC()); err != nil {
		return model.User{}, err
	}
	return s.store.GetUser(ctx, id)
}

// ListUsers returns all users.
func (s *UserService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.store.ListUsers(ctx)
}
