package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/inkwell-cms/inkwell/internal/model"
	"github.com/inkwell-cms/inkwell/internal/service"
	"github.com/inkwell-cms/inkwell/internal/store"
	"github.com/inkwell-cms/inkwell/internal/util"
)

// PostResponse represents a post in API responses. BodyHTML carries the
// markdown body rendered to sanitized HTML.
type PostResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Body        string     `json:"body"`
	BodyHTML    string     `json:"body_html,omitempty"`
	Status      string     `json:"status"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	AuthorID    int64      `json:"author_id"`
	CategoryID  *int64     `json:"category_id,omitempty"`
	ViewCount   int64      `json:"view_count"`
	LikeCount   int64      `json:"like_count"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (h *Handler) postToResponse(p model.Post, withHTML bool) PostResponse {
	resp := PostResponse{
		ID:        p.ID,
		Title:     p.Title,
		Slug:      p.Slug,
		Body:      p.Body,
		Status:    p.Status,
		AuthorID:  p.AuthorID,
		ViewCount: p.ViewCount,
		LikeCount: p.LikeCount,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.PublishedAt.Valid {
		t := p.PublishedAt.Time
		resp.PublishedAt = &t
	}
	resp.CategoryID = util.PtrFromNullInt64(p.CategoryID)
	if withHTML {
		if html, err := h.renderer.Render(p.Body); err == nil {
			resp.BodyHTML = html
		}
	}
	return resp
}

// CreatePostRequest represents the request body for creating a post.
type CreatePostRequest struct {
	Title      string `json:"title"`
	Slug       string `json:"slug"`
	Body       string `json:"body"`
	Status     string `json:"status,omitempty"`
	AuthorID   int64  `json:"author_id"`
	CategoryID *int64 `json:"category_id,omitempty"`
}

// UpdatePostRequest represents the request body for updating a post.
// Omitted fields are left unchanged; clear_category removes the category.
type UpdatePostRequest struct {
	Title         *string `json:"title,omitempty"`
	Slug          *string `json:"slug,omitempty"`
	Body          *string `json:"body,omitempty"`
	Status        *string `json:"status,omitempty"`
	CategoryID    *int64  `json:"category_id,omitempty"`
	ClearCategory bool    `json:"clear_category,omitempty"`
}

// CreatePost handles POST /api/v1/posts
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body")
		return
	}

	post, err := h.posts.CreatePost(r.Context(), service.CreatePostInput{
		Title:      req.Title,
		Slug:       req.Slug,
		Body:       req.Body,
		Status:     req.Status,
		AuthorID:   req.AuthorID,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteCreated(w, h.postToResponse(post, false))
}

// GetPost handles GET /api/v1/posts/{id}
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		WriteBadRequest(w, "Invalid post ID")
		return
	}

	post, err := h.posts.GetPost(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteSuccess(w, h.postToResponse(post, true), nil)
}

// GetPostBySlug handles GET /api/v1/posts/slug/{slug}
func (h *Handler) GetPostBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		WriteBadRequest(w, "Invalid post slug")
		return
	}

	post, err := h.posts.GetPostBySlug(r.Context(), slug)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteSuccess(w, h.postToResponse(post, true), nil)
}

// UpdatePost handles PUT /api/v1/posts/{id}
func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		WriteBadRequest(w, "Invalid post ID")
		return
	}

	var req UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body")
		return
	}

	post, err := h.posts.UpdatePost(r.Context(), id, service.UpdatePostInput{
		Title:         req.Title,
		Slug:          req.Slug,
		Body:          req.Body,
		Status:        req.Status,
		CategoryID:    req.CategoryID,
		ClearCategory: req.ClearCategory,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteSuccess(w, h.postToResponse(post, false), nil)
}

// DeletePost handles DELETE /api/v1/posts/{id}
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		WriteBadRequest(w, "Invalid post ID")
		return
	}

	if err := h.posts.DeletePost(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListPosts handles GET /api/v1/posts
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page := 1
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		page = p
	}
	perPage := 20
	if pp, err := strconv.Atoi(q.Get("per_page")); err == nil && pp > 0 && pp <= 100 {
		perPage = pp
	}

	params := store.ListPostsParams{
		Status: q.Get("status"),
		Limit:  perPage,
		Offset: (page - 1) * perPage,
	}
	if id, err := strconv.ParseInt(q.Get("author_id"), 10, 64); err == nil {
		params.AuthorID = id
	}
	if id, err := strconv.ParseInt(q.Get("category_id"), 10, 64); err == nil {
		params.CategoryID = id
	}

	posts, total, err := h.posts.ListPosts(r.Context(), params)
	if err != nil {
		WriteInternalError(w, "Failed to list posts")
		return
	}

	responses := make([]PostResponse, 0, len(posts))
	for _, p := range posts {
		responses = append(responses, h.postToResponse(p, false))
	}

	WriteSuccess(w, responses, &Meta{Total: total, Page: page, PerPage: perPage})
}

// ViewPost handles POST /api/v1/posts/{id}/view
func (h *Handler) ViewPost(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		WriteBadRequest(w, "Invalid post ID")
		return
	}

	if err := h.posts.IncrementViewCount(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// LikePost handles POST /api/v1/posts/{id}/like
func (h *Handler) LikePost(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		WriteBadRequest(w, "Invalid post ID")
		return
	}

	if err := h.posts.LikePost(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
