package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/inkwell-cms/inkwell/internal/model"
	"github.com/inkwell-cms/inkwell/internal/service"
)

// CategoryResponse represents a category in API responses.
type CategoryResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Color     string    `json:"color,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func categoryToResponse(c model.Category) CategoryResponse {
	return CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Slug:      c.Slug,
		Color:     c.Color,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// TagResponse represents a tag in API responses.
type TagResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func tagToResponse(t model.Tag) TagResponse {
	return TagResponse{
		ID:        t.ID,
		Name:      t.Name,
		Slug:      t.Slug,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// CreateCategoryRequest represents the request body for creating a category.
type CreateCategoryRequest struct {
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Color string `json:"color,omitempty"`
}

// UpdateCategoryRequest represents the request body for updating a category.
type UpdateCategoryRequest struct {
	Name  *string `json:"name,omitempty"`
	Slug  *string `json:"slug,omitempty"`
	Color *string `json:"color,omitempty"`
}

// CreateTagRequest represents the request body for creating a tag.
type CreateTagRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// CreateCategory handles POST /api/v1/categories
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body")
		return
	}

	category, err := h.taxonomy.CreateCategory(r.Context(), service.CreateCategoryInput{
		Name:  req.Name,
		Slug:  req.Slug,
		Color: req.Color,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteCreated(w, categoryToResponse(category))
}

// GetCategory handles GET /api/v1/categories/{id}
func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		WriteBadRequest(w, "Invalid category ID")
		return
	}

	category, err := h.taxonomy.GetCategory(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteSuccess(w, categoryToResponse(category), nil)
}

// ListCategories handles GET /api/v1/categories
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.taxonomy.ListCategories(r.Context())
	if err != nil {
		WriteInternalError(w, "Failed to list categories")
		return
	}

	responses := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		responses = append(responses, categoryToResponse(c))
	}

	WriteSuccess(w, responses, &Meta{Total: int64(len(responses))})
}

// UpdateCategory handles PUT /api/v1/categories/{id}
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		WriteBadRequest(w, "Invalid category ID")
		return
	}

	var req UpdateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body")
		return
	}

	category, err := h.taxonomy.UpdateCategory(r.Context(), id, service.UpdateCategoryInput{
		Name:  req.Name,
		Slug:  req.Slug,
		Color: req.Color,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteSuccess(w, categoryToResponse(category), nil)
}

// DeleteCategory handles DELETE /api/v1/categories/{id}
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		WriteBadRequest(w, "Invalid category ID")
		return
	}

	if err := h.taxonomy.DeleteCategory(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateTag handles POST /api/v1/tags
func (h *Handler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req CreateTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body")
		return
	}

	tag, err := h.taxonomy.CreateTag(r.Context(), service.CreateTagInput{
		Name: req.Name,
		Slug: req.Slug,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteCreated(w, tagToResponse(tag))
}

// ListTags handles GET /api/v1/tags
func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.taxonomy.ListTags(r.Context())
	if err != nil {
		WriteInternalError(w, "Failed to list tags")
		return
	}

	responses := make([]TagResponse, 0, len(tags))
	for _, t := range tags {
		responses = append(responses, tagToResponse(t))
	}

	WriteSuccess(w, responses, &Meta{Total: int64(len(responses))})
}

// ListPostTags handles GET /api/v1/posts/{id}/tags
func (h *Handler) ListPostTags(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		WriteBadRequest(w, "Invalid post ID")
		return
	}

	tags, err := h.taxonomy.ListPostTags(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	responses := make([]TagResponse, 0, len(tags))
	for _, t := range tags {
		responses = append(responses, tagToResponse(t))
	}

	WriteSuccess(w, responses, &Meta{Total: int64(len(responses))})
}

// AttachTag handles PUT /api/v1/posts/{id}/tags/{tagID}
func (h *Handler) AttachTag(w http.ResponseWriter, r *http.Request) {
	postID, ok := idParam(r, "id")
	if !ok {
		WriteBadRequest(w, "Invalid post ID")
		return
	}
	tagID, ok := idParam(r, "tagID")
	if !ok {
		WriteBadRequest(w, "Invalid tag ID")
		return
	}

	association, err := h.taxonomy.AttachTag(r.Context(), postID, tagID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteCreated(w, association)
}

// DetachTag handles DELETE /api/v1/posts/{id}/tags/{tagID}
// Detaching an association that does not exist succeeds.
func (h *Handler) DetachTag(w http.ResponseWriter, r *http.Request) {
	postID, ok := idParam(r, "id")
	if !ok {
		WriteBadRequest(w, "Invalid post ID")
		return
	}
	tagID, ok := idParam(r, "tagID")
	if !ok {
		WriteBadRequest(w, "Invalid tag ID")
		return
	}

	if err := h.taxonomy.DetachTag(r.Context(), postID, tagID); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
