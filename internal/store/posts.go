package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/inkwell-cms/inkwell/internal/model"
)

var postColumns = []string{
	"id", "title", "slug", "body", "status", "published_at",
	"author_id", "category_id", "view_count", "like_count",
	"created_at", "updated_at",
}

// CreatePostParams holds the fields required to insert a post.
type CreatePostParams struct {
	Title       string
	Slug        string
	Body        string
	Status      string
	PublishedAt sql.NullTime
	AuthorID    int64
	CategoryID  sql.NullInt64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreatePost inserts a new post and returns it with the assigned ID.
func (s *Store) CreatePost(ctx context.Context, p CreatePostParams) (model.Post, error) {
	res, err := s.exec(ctx, s.sb.Insert("posts").
		Columns("title", "slug", "body", "status", "published_at",
			"author_id", "category_id", "view_count", "like_count",
			"created_at", "updated_at").
		Values(p.Title, p.Slug, p.Body, p.Status, p.PublishedAt,
			p.AuthorID, p.CategoryID, 0, 0, p.CreatedAt, p.UpdatedAt))
	if err != nil {
		return model.Post{}, fmt.Errorf("inserting post: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Post{}, fmt.Errorf("reading post id: %w", err)
	}
	return model.Post{
		ID:          id,
		Title:       p.Title,
		Slug:        p.Slug,
		Body:        p.Body,
		Status:      p.Status,
		PublishedAt: p.PublishedAt,
		AuthorID:    p.AuthorID,
		CategoryID:  p.CategoryID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}, nil
}

// GetPost fetches a post by ID. Returns ErrNotFound when absent.
func (s *Store) GetPost(ctx context.Context, id int64) (model.Post, error) {
	var p model.Post
	err := s.get(ctx, &p, s.sb.Select(postColumns...).From("posts").Where(sq.Eq{"id": id}))
	return p, err
}

// GetPostBySlug fetches a post by slug. Returns ErrNotFound when absent.
func (s *Store) GetPostBySlug(ctx context.Context, slug string) (model.Post, error) {
	var p model.Post
	err := s.get(ctx, &p, s.sb.Select(postColumns...).From("posts").Where(sq.Eq{"slug": slug}))
	return p, err
}

// PostExists reports whether a post with the given ID exists.
func (s *Store) PostExists(ctx context.Context, id int64) (bool, error) {
	return s.exists(ctx, "posts", sq.Eq{"id": id})
}

// PostSlugExists reports whether the slug is already taken.
func (s *Store) PostSlugExists(ctx context.Context, slug string) (bool, error) {
	return s.exists(ctx, "posts", sq.Eq{"slug": slug})
}

// PostSlugExistsExcluding reports whether another post already uses the slug.
func (s *Store) PostSlugExistsExcluding(ctx context.Context, slug string, id int64) (bool, error) {
	return s.exists(ctx, "posts", sq.And{sq.Eq{"slug": slug}, sq.NotEq{"id": id}})
}

// UpdatePostParams holds the full set of mutable post fields.
type UpdatePostParams struct {
	ID          int64
	Title       string
	Slug        string
	Body        string
	Status      string
	PublishedAt sql.NullTime
	CategoryID  sql.NullInt64
	UpdatedAt   time.Time
}

// UpdatePost rewrites the mutable fields of a post.
func (s *Store) UpdatePost(ctx context.Context, p UpdatePostParams) error {
	_, err := s.exec(ctx, s.sb.Update("posts").
		Set("title", p.Title).
		Set("slug", p.Slug).
		Set("body", p.Body).
		Set("status", p.Status).
		Set("published_at", p.PublishedAt).
		Set("category_id", p.CategoryID).
		Set("updated_at", p.UpdatedAt).
		Where(sq.Eq{"id": p.ID}))
	return err
}

// DeletePost removes a post row.
func (s *Store) DeletePost(ctx context.Context, id int64) error {
	_, err := s.exec(ctx, s.sb.Delete("posts").Where(sq.Eq{"id": id}))
	return err
}

// IncrementPostViews bumps the view counter by one.
func (s *Store) IncrementPostViews(ctx context.Context, id int64) error {
	_, err := s.exec(ctx, s.sb.Update("posts").
		Set("view_count", sq.Expr("view_count + 1")).
		Where(sq.Eq{"id": id}))
	return err
}

// IncrementPostLikes bumps the like counter by one.
func (s *Store) IncrementPostLikes(ctx context.Context, id int64) error {
	_, err := s.exec(ctx, s.sb.Update("posts").
		Set("like_count", sq.Expr("like_count + 1")).
		Where(sq.Eq{"id": id}))
	return err
}

// ListPostsParams filters and paginates post listings.
// Zero-valued filters are ignored.
type ListPostsParams struct {
	Status     string
	AuthorID   int64
	CategoryID int64
	Limit      int
	Offset     int
}

// ListPosts returns posts matching the filters, newest first.
func (s *Store) ListPosts(ctx context.Context, p ListPostsParams) ([]model.Post, error) {
	b := s.sb.Select(postColumns...).From("posts").OrderBy("created_at DESC", "id DESC")
	if p.Status != "" {
		b = b.Where(sq.Eq{"status": p.Status})
	}
	if p.AuthorID != 0 {
		b = b.Where(sq.Eq{"author_id": p.AuthorID})
	}
	if p.CategoryID != 0 {
		b = b.Where(sq.Eq{"category_id": p.CategoryID})
	}
	if p.Limit > 0 {
		b = b.Limit(uint64(p.Limit)).Offset(uint64(p.Offset))
	}

	posts := make([]model.Post, 0)
	err := s.selectAll(ctx, &posts, b)
	return posts, err
}

// CountPosts returns the number of posts matching the filters.
func (s *Store) CountPosts(ctx context.Context, p ListPostsParams) (int64, error) {
	pred := sq.And{}
	if p.Status != "" {
		pred = append(pred, sq.Eq{"status": p.Status})
	}
	if p.AuthorID != 0 {
		pred = append(pred, sq.Eq{"author_id": p.AuthorID})
	}
	if p.CategoryID != 0 {
		pred = append(pred, sq.Eq{"category_id": p.CategoryID})
	}
	if len(pred) == 0 {
		return s.count(ctx, "posts", nil)
	}
	return s.count(ctx, "posts", pred)
}
