package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/inkwell-cms/inkwell/internal/model"
	"github.com/inkwell-cms/inkwell/internal/store"
	"github.com/inkwell-cms/inkwell/internal/util"
)

// PostService manages posts and their publication lifecycle.
type PostService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewPostService creates a new PostService.
func NewPostService(st *store.Store, logger *slog.Logger) *PostService {
	return &PostService{store: st, logger: logger}
}

// CreatePostInput carries the fields for creating a post.
type CreatePostInput struct {
	Title      string
	Slug       string
	Body       string
	Status     string
	AuthorID   int64
	CategoryID *int64
}

// CreatePost validates referential integrity and inserts a post.
// An empty slug is derived from the title. A post created directly in
// the published status gets published_at stamped at creation time.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (model.Post, error) {
	if in.Title == "" {
		return model.Post{}, invalidf("title is required")
	}
	if in.Slug == "" {
		in.Slug = util.Slugify(in.Title)
	}
	if !util.IsValidSlug(in.Slug) {
		return model.Post{}, invalidf("invalid slug %q", in.Slug)
	}
	status := in.Status
	if status == "" {
		status = model.PostStatusDraft
	}
	if !model.ValidPostStatus(status) {
		return model.Post{}, invalidf("invalid status %q", status)
	}

	exists, err := s.store.UserExists(ctx, in.AuthorID)
	if err != nil {
		return model.Post{}, fmt.Errorf("checking author: %w", err)
	}
	if !exists {
		return model.Post{}, notFound("author", in.AuthorID)
	}

	if in.CategoryID != nil {
		exists, err := s.store.CategoryExists(ctx, *in.CategoryID)
		if err != nil {
			return model.Post{}, fmt.Errorf("checking category: %w", err)
		}
		if !exists {
			return model.Post{}, notFound("category", *in.CategoryID)
		}
	}

	taken, err := s.store.PostSlugExists(ctx, in.Slug)
	if err != nil {
		return model.Post{}, fmt.Errorf("checking slug: %w", err)
	}
	if taken {
		return model.Post{}, conflictf("slug %q already exists", in.Slug)
	}

	now := time.Now().UTC()
	var publishedAt sql.NullTime
	if status == model.PostStatusPublished {
		publishedAt = sql.NullTime{Time: now, Valid: true}
	}

	post, err := s.store.CreatePost(ctx, store.CreatePostParams{
		Title:       in.Title,
		Slug:        in.Slug,
		Body:        in.Body,
		Status:      status,
		PublishedAt: publishedAt,
		AuthorID:    in.AuthorID,
		CategoryID:  util.NullInt64FromPtr(in.CategoryID),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return model.Post{}, err
	}

	s.logger.Info("post created", "category", model.EventCategoryPost,
		"post_id", post.ID, "slug", post.Slug, "status", post.Status)
	return post, nil
}

// UpdatePostInput carries optional updates to a post. Nil fields are left
// unchanged. ClearCategory removes the category association.
type UpdatePostInput struct {
	Title         *string
	Slug          *string
	Body          *string
	Status        *string
	CategoryID    *int64
	ClearCategory bool
}

// UpdatePost applies a partial update to an existing post.
//
// Status transitions between draft, published and archived are
// unrestricted. published_at is stamped the first time the post enters
// the published status and is never re-stamped or cleared afterwards,
// including on a published -> draft -> published round trip.
func (s *PostService) UpdatePost(ctx context.Context, id int64, in UpdatePostInput) (model.Post, error) {
	existing, err := s.store.GetPost(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return model.Post{}, notFound("post", id)
	}
	if err != nil {
		return model.Post{}, err
	}

	params := store.UpdatePostParams{
		ID:          existing.ID,
		Title:       existing.Title,
		Slug:        existing.Slug,
		Body:        existing.Body,
		Status:      existing.Status,
		PublishedAt: existing.PublishedAt,
		CategoryID:  existing.CategoryID,
		UpdatedAt:   time.Now().UTC(),
	}

	if in.Title != nil && *in.Title != "" {
		params.Title = *in.Title
	}
	if in.Slug != nil && *in.Slug != "" {
		if !util.IsValidSlug(*in.Slug) {
			return model.Post{}, invalidf("invalid slug %q", *in.Slug)
		}
		taken, err := s.store.PostSlugExistsExcluding(ctx, *in.Slug, existing.ID)
		if err != nil {
			return model.Post{}, fmt.Errorf("checking slug: %w", err)
		}
		if taken {
			return model.Post{}, conflictf("slug %q already exists", *in.Slug)
		}
		params.Slug = *in.Slug
	}
	if in.Body != nil {
		params.Body = *in.Body
	}

	switch {
	case in.ClearCategory:
		params.CategoryID = sql.NullInt64{}
	case in.CategoryID != nil:
		exists, err := s.store.CategoryExists(ctx, *in.CategoryID)
		if err != nil {
			return model.Post{}, fmt.Errorf("checking category: %w", err)
		}
		if !exists {
			return model.Post{}, notFound("category", *in.CategoryID)
		}
		params.CategoryID = util.NullInt64FromPtr(in.CategoryID)
	}

	if in.Status != nil {
		if !model.ValidPostStatus(*in.Status) {
			return model.Post{}, invalidf("invalid status %q", *in.Status)
		}
		params.Status = *in.Status
		// One-way latch: only the first transition into published stamps it.
		if *in.Status == model.PostStatusPublished && !existing.PublishedAt.Valid {
			params.PublishedAt = sql.NullTime{Time: time.Now().UTC(), Valid: true}
		}
	}

	if err := s.store.UpdatePost(ctx, params); err != nil {
		return model.Post{}, err
	}
	return s.store.GetPost(ctx, id)
}

// GetPost fetches a post by ID.
func (s *PostService) GetPost(ctx context.Context, id int64) (model.Post, error) {
	post, err := s.store.GetPost(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return model.Post{}, notFound("post", id)
	}
	return post, err
}

// GetPostBySlug fetches a post by slug.
func (s *PostService) GetPostBySlug(ctx context.Context, slug string) (model.Post, error) {
	post, err := s.store.GetPostBySlug(ctx, slug)
	if errors.Is(err, store.ErrNotFound) {
		return model.Post{}, &NotFoundError{Entity: "post", Slug: slug}
	}
	return post, err
}

// ListPosts returns posts matching the filters.
func (s *PostService) ListPosts(ctx context.Context, p store.ListPostsParams) ([]model.Post, int64, error) {
	posts, err := s.store.ListPosts(ctx, p)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.store.CountPosts(ctx, p)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// DeletePost removes a post together with its comments and tag
// associations. Users, categories and tags are shared resources and are
// left untouched.
func (s *PostService) DeletePost(ctx context.Context, id int64) error {
	exists, err := s.store.PostExists(ctx, id)
	if err != nil {
		return fmt.Errorf("checking post: %w", err)
	}
	if !exists {
		return notFound("post", id)
	}

	err = s.store.WithTx(ctx, func(tx *store.Store) error {
		if err := tx.DeleteCommentsForPost(ctx, id); err != nil {
			return fmt.Errorf("deleting comments: %w", err)
		}
		if err := tx.DeletePostTagsForPost(ctx, id); err != nil {
			return fmt.Errorf("deleting tag associations: %w", err)
		}
		if err := tx.DeletePost(ctx, id); err != nil {
			return fmt.Errorf("deleting post: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("post deleted", "category", model.EventCategoryPost, "post_id", id)
	return nil
}

// IncrementViewCount bumps the post's view counter.
func (s *PostService) IncrementViewCount(ctx context.Context, id int64) error {
	exists, err := s.store.PostExists(ctx, id)
	if err != nil {
		return fmt.Errorf("checking post: %w", err)
	}
	if !exists {
		return notFound("post", id)
	}
	return s.store.IncrementPostViews(ctx, id)
}

// LikePost bumps the post's like counter.
func (s *PostService) LikePost(ctx context.Context, id int64) error {
	exists, err := s.store.PostExists(ctx, id)
	if err != nil {
		return fmt.Errorf("checking post: %w", err)
	}
	if !exists {
		return notFound("post", id)
	}
	return s.store.IncrementPostLikes(ctx, id)
}
