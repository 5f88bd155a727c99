package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/inkwell-cms/inkwell/internal/model"
	"github.com/inkwell-cms/inkwell/internal/service"
)

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID         int64     `json:"id"`
	Email      string    `json:"email"`
	Username   string    `json:"username"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func userToResponse(u model.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		Username:   u.Username,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

// CreateUserRequest represents the request body for registering a user.
type CreateUserRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateUser handles POST /api/v1/users
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body")
		return
	}

	user, err := h.users.CreateUser(r.Context(), service.CreateUserInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteCreated(w, userToResponse(user))
}

// GetUser handles GET /api/v1/users/{id}
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		WriteBadRequest(w, "Invalid user ID")
		return
	}

	user, err := h.users.GetUser(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteSuccess(w, userToResponse(user), nil)
}

// VerifyUser handles POST /api/v1/users/{id}/verify
func (h *Handler) VerifyUser(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		WriteBadRequest(w, "Invalid user ID")
		return
	}

	user, err := h.users.VerifyUser(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteSuccess(w, userToResponse(user), nil)
}

// ListUsers handles GET /api/v1/users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		WriteInternalError(w, "Failed to list users")
		return
	}

	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, userToResponse(u))
	}

	WriteSuccess(w, responses, &Meta{Total: int64(len(responses))})
}
