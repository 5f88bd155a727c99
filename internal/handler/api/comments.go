package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/inkwell-cms/inkwell/internal/model"
	"github.com/inkwell-cms/inkwell/internal/service"
	"github.com/inkwell-cms/inkwell/internal/util"
)

// CommentResponse represents a comment in API responses.
type CommentResponse struct {
	ID         int64     `json:"id"`
	PostID     int64     `json:"post_id"`
	ParentID   *int64    `json:"parent_id,omitempty"`
	AuthorName string    `json:"author_name"`
	Content    string    `json:"content"`
	IsApproved bool      `json:"is_approved"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func commentToResponse(c model.Comment) CommentResponse {
	resp := CommentResponse{
		ID:         c.ID,
		PostID:     c.PostID,
		AuthorName: c.AuthorName,
		Content:    c.Content,
		IsApproved: c.IsApproved,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
	resp.ParentID = util.PtrFromNullInt64(c.ParentID)
	return resp
}

// CreateCommentRequest represents the request body for posting a comment.
// Approval state is not accepted from the caller: new comments always
// start unapproved.
type CreateCommentRequest struct {
	ParentID    *int64 `json:"parent_id,omitempty"`
	AuthorName  string `json:"author_name"`
	AuthorEmail string `json:"author_email,omitempty"`
	Content     string `json:"content"`
}

// CreateComment handles POST /api/v1/posts/{id}/comments
func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	postID, ok := idParam(r, "id")
	if !ok {
		WriteBadRequest(w, "Invalid post ID")
		return
	}

	var req CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body")
		return
	}

	comment, err := h.comments.CreateComment(r.Context(), service.CreateCommentInput{
		PostID:      postID,
		ParentID:    req.ParentID,
		AuthorName:  h.renderer.SanitizeText(req.AuthorName),
		AuthorEmail: req.AuthorEmail,
		Content:     h.renderer.SanitizeText(req.Content),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteCreated(w, commentToResponse(comment))
}

// ListComments handles GET /api/v1/posts/{id}/comments
// The approved=true query parameter filters out unapproved comments.
func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	postID, ok := idParam(r, "id")
	if !ok {
		WriteBadRequest(w, "Invalid post ID")
		return
	}

	approvedOnly := r.URL.Query().Get("approved") == "true"

	comments, err := h.comments.ListComments(r.Context(), postID, approvedOnly)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	responses := make([]CommentResponse, 0, len(comments))
	for _, c := range comments {
		responses = append(responses, commentToResponse(c))
	}

	WriteSuccess(w, responses, &Meta{Total: int64(len(responses))})
}

// ApproveComment handles POST /api/v1/comments/{id}/approve
func (h *Handler) ApproveComment(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		WriteBadRequest(w, "Invalid comment ID")
		return
	}

	comment, err := h.comments.ApproveComment(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteSuccess(w, commentToResponse(comment), nil)
}

// DeleteComment handles DELETE /api/v1/comments/{id}
// The comment and its entire reply subtree are removed; deleting an
// absent comment succeeds.
func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		WriteBadRequest(w, "Invalid comment ID")
		return
	}

	if err := h.comments.DeleteComment(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
