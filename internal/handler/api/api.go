// Package api provides the typed JSON API handlers, one entry point per
// operation.
package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/inkwell-cms/inkwell/internal/render"
	"github.com/inkwell-cms/inkwell/internal/service"
	"github.com/inkwell-cms/inkwell/internal/store"
)

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	users    *service.UserService
	posts    *service.PostService
	comments *service.CommentService
	taxonomy *service.TaxonomyService
	renderer *render.Renderer
}

// NewHandler creates a new API handler over the given database handle.
func NewHandler(db *sql.DB, logger *slog.Logger) *Handler {
	st := store.New(db)
	return &Handler{
		users:    service.NewUserService(st, logger),
		posts:    service.NewPostService(st, logger),
		comments: service.NewCommentService(st, logger),
		taxonomy: service.NewTaxonomyService(st, logger),
		renderer: render.NewRenderer(),
	}
}

// Routes returns the API route tree.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/status", h.Status)

	r.Route("/users", func(r chi.Router) {
		r.Post("/", h.CreateUser)
		r.Get("/", h.ListUsers)
		r.Get("/{id}", h.GetUser)
		r.Post("/{id}/verify", h.VerifyUser)
	})

	r.Route("/categories", func(r chi.Router) {
		r.Post("/", h.CreateCategory)
		r.Get("/", h.ListCategories)
		r.Get("/{id}", h.GetCategory)
		r.Put("/{id}", h.UpdateCategory)
		r.Delete("/{id}", h.DeleteCategory)
	})

	r.Route("/tags", func(r chi.Router) {
		r.Post("/", h.CreateTag)
		r.Get("/", h.ListTags)
	})

	r.Route("/posts", func(r chi.Router) {
		r.Post("/", h.CreatePost)
		r.Get("/", h.ListPosts)
		r.Get("/{id}", h.GetPost)
		r.Get("/slug/{slug}", h.GetPostBySlug)
		r.Put("/{id}", h.UpdatePost)
		r.Delete("/{id}", h.DeletePost)
		r.Post("/{id}/view", h.ViewPost)
		r.Post("/{id}/like", h.LikePost)
		r.Get("/{id}/tags", h.ListPostTags)
		r.Put("/{id}/tags/{tagID}", h.AttachTag)
		r.Delete("/{id}/tags/{tagID}", h.DetachTag)
		r.Get("/{id}/comments", h.ListComments)
		r.Post("/{id}/comments", h.CreateComment)
	})

	r.Route("/comments", func(r chi.Router) {
		r.Post("/{id}/approve", h.ApproveComment)
		r.Delete("/{id}", h.DeleteComment)
	})

	return r
}

// Response is the standard API response wrapper.
type Response struct {
	Data any   `json:"data,omitempty"`
	Meta *Meta `json:"meta,omitempty"`
}

// Meta contains pagination and other metadata.
type Meta struct {
	Total   int64 `json:"total,omitempty"`
	Page    int   `json:"page,omitempty"`
	PerPage int   `json:"per_page,omitempty"`
}

// ErrorResponse is the standard API error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, data any, meta *Meta) {
	WriteJSON(w, http.StatusOK, Response{Data: data, Meta: meta})
}

// WriteCreated writes a 201 Created JSON response.
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Response{Data: data})
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, "bad_request", message)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, "internal_error", message)
}

// writeServiceError maps a service-layer error onto the API error surface:
// NotFoundError -> 404, ConflictError -> 409, ValidationError -> 422,
// everything else -> 500.
func writeServiceError(w http.ResponseWriter, err error) {
	var nf *service.NotFoundError
	if errors.As(err, &nf) {
		WriteError(w, http.StatusNotFound, "not_found", nf.Error())
		return
	}

	var cf *service.ConflictError
	if errors.As(err, &cf) {
		WriteError(w, http.StatusConflict, "conflict", cf.Error())
		return
	}

	var vf *service.ValidationError
	if errors.As(err, &vf) {
		WriteError(w, http.StatusUnprocessableEntity, "validation_error", vf.Error())
		return
	}

	WriteInternalError(w, "Internal server error")
}

// idParam extracts a positive integer URL parameter.
func idParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// StatusResponse contains API status information.
type StatusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Status returns a fixed acknowledgement payload.
func (h *Handler) Status(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, StatusResponse{
		Status:  "ok",
		Version: "v1",
	}, nil)
}
