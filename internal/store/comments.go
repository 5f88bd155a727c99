package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/inkwell-cms/inkwell/internal/model"
)

var commentColumns = []string{
	"id", "post_id", "parent_id", "author_name", "author_email",
	"content", "is_approved", "created_at", "updated_at",
}

// CreateCommentParams holds the fields required to insert a comment.
// Comments are always inserted unapproved.
type CreateCommentParams struct {
	PostID      int64
	ParentID    sql.NullInt64
	AuthorName  string
	AuthorEmail string
	Content     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateComment inserts a new comment and returns it with the assigned ID.
func (s *Store) CreateComment(ctx context.Context, p CreateCommentParams) (model.Comment, error) {
	res, err := s.exec(ctx, s.sb.Insert("comments").
		Columns("post_id", "parent_id", "author_name", "author_email",
			"content", "is_approved", "created_at", "updated_at").
		Values(p.PostID, p.ParentID, p.AuthorName, p.AuthorEmail,
			p.Content, false, p.CreatedAt, p.UpdatedAt))
	if err != nil {
		return model.Comment{}, fmt.Errorf("inserting comment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Comment{}, fmt.Errorf("reading comment id: %w", err)
	}
	return model.Comment{
		ID:          id,
		PostID:      p.PostID,
		ParentID:    p.ParentID,
		AuthorName:  p.AuthorName,
		AuthorEmail: p.AuthorEmail,
		Content:     p.Content,
		IsApproved:  false,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}, nil
}

// GetComment fetches a comment by ID. Returns ErrNotFound when absent.
func (s *Store) GetComment(ctx context.Context, id int64) (model.Comment, error) {
	var c model.Comment
	err := s.get(ctx, &c, s.sb.Select(commentColumns...).From("comments").Where(sq.Eq{"id": id}))
	return c, err
}

// CommentExists reports whether a comment with the given ID exists.
func (s *Store) CommentExists(ctx context.Context, id int64) (bool, error) {
	return s.exists(ctx, "comments", sq.Eq{"id": id})
}

// ApproveComment flips the approval flag on a comment.
func (s *Store) ApproveComment(ctx context.Context, id int64, updatedAt time.Time) error {
	_, err := s.exec(ctx, s.sb.Update("comments").
		Set("is_approved", true).
		Set("updated_at", updatedAt).
		Where(sq.Eq{"id": id}))
	return err
}

// ListChildCommentIDs returns the IDs of all direct children of the given
// parent comments. Returns an empty slice when parentIDs is empty.
func (s *Store) ListChildCommentIDs(ctx context.Context, parentIDs []int64) ([]int64, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	ids := make([]int64, 0)
	b := s.sb.Select("id").From("comments").
		Where(sq.Eq{"parent_id": parentIDs}).
		OrderBy("id ASC")
	err := s.selectAll(ctx, &ids, b)
	return ids, err
}

// DeleteComments removes the given comment rows in one statement.
func (s *Store) DeleteComments(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.exec(ctx, s.sb.Delete("comments").Where(sq.Eq{"id": ids}))
	return err
}

// DeleteCommentsForPost removes every comment belonging to the post.
func (s *Store) DeleteCommentsForPost(ctx context.Context, postID int64) error {
	_, err := s.exec(ctx, s.sb.Delete("comments").Where(sq.Eq{"post_id": postID}))
	return err
}

// ListCommentsForPost returns the comments on a post in creation order.
// When approvedOnly is true, unapproved comments are filtered out.
func (s *Store) ListCommentsForPost(ctx context.Context, postID int64, approvedOnly bool) ([]model.Comment, error) {
	b := s.sb.Select(commentColumns...).From("comments").
		Where(sq.Eq{"post_id": postID}).
		OrderBy("created_at ASC", "id ASC")
	if approvedOnly {
		b = b.Where(sq.Eq{"is_approved": true})
	}
	comments := make([]model.Comment, 0)
	err := s.selectAll(ctx, &comments, b)
	return comments, err
}

// CountCommentsForPost returns the number of comments on a post.
func (s *Store) CountCommentsForPost(ctx context.Context, postID int64) (int64, error) {
	return s.count(ctx, "comments", sq.Eq{"post_id": postID})
}
