package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/inkwell-cms/inkwell/internal/model"
	"github.com/inkwell-cms/inkwell/internal/store"
	"github.com/inkwell-cms/inkwell/internal/util"
)

// CommentService manages threaded comments on posts.
type CommentService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewCommentService creates a new CommentService.
func NewCommentService(st *store.Store, logger *slog.Logger) *CommentService {
	return &CommentService{store: st, logger: logger}
}

// CreateCommentInput carries the fields for posting a comment.
// Approval state is not caller-controlled: every comment starts unapproved.
type CreateCommentInput struct {
	PostID      int64
	ParentID    *int64
	AuthorName  string
	AuthorEmail string
	Content     string
}

// CreateComment validates the target post and, for replies, that the
// parent comment exists and belongs to the same post, then inserts the
// comment unapproved.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (model.Comment, error) {
	if in.Content == "" {
		return model.Comment{}, invalidf("content is required")
	}

	exists, err := s.store.PostExists(ctx, in.PostID)
	if err != nil {
		return model.Comment{}, fmt.Errorf("checking post: %w", err)
	}
	if !exists {
		return model.Comment{}, notFound("post", in.PostID)
	}

	if in.ParentID != nil {
		parent, err := s.store.GetComment(ctx, *in.ParentID)
		if errors.Is(err, store.ErrNotFound) {
			return model.Comment{}, notFound("parent comment", *in.ParentID)
		}
		if err != nil {
			return model.Comment{}, fmt.Errorf("checking parent: %w", err)
		}
		if parent.PostID != in.PostID {
			return model.Comment{}, invalidf(
				"parent comment %d must belong to the same post (parent is on post %d, comment targets post %d)",
				parent.ID, parent.PostID, in.PostID)
		}
	}

	now := time.Now().UTC()
	comment, err := s.store.CreateComment(ctx, store.CreateCommentParams{
		PostID:      in.PostID,
		ParentID:    util.NullInt64FromPtr(in.ParentID),
		AuthorName:  in.AuthorName,
		AuthorEmail: in.AuthorEmail,
		Content:     in.Content,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return model.Comment{}, err
	}

	s.logger.Info("comment created", "category", model.EventCategoryComment,
		"comment_id", comment.ID, "post_id", comment.PostID)
	return comment, nil
}

// GetComment fetches a comment by ID.
func (s *CommentService) GetComment(ctx context.Context, id int64) (model.Comment, error) {
	comment, err := s.store.GetComment(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return model.Comment{}, notFound("comment", id)
	}
	return comment, err
}

// ApproveComment flips the approval flag on an existing comment.
func (s *CommentService) ApproveComment(ctx context.Context, id int64) (model.Comment, error) {
	exists, err := s.store.CommentExists(ctx, id)
	if err != nil {
		return model.Comment{}, fmt.Errorf("checking comment: %w", err)
	}
	if !exists {
		return model.Comment{}, notFound("comment", id)
	}

	if err := s.store.ApproveComment(ctx, id, time.Now().UTC()); err != nil {
		return model.Comment{}, err
	}
	return s.store.GetComment(ctx, id)
}

// DeleteComment removes a comment and its entire reply subtree.
//
// The traversal is an explicit worklist rather than recursion: starting
// from the target, direct children are collected level by level until the
// frontier is empty, then levels are deleted deepest-first inside one
// transaction so that no comment is removed while it still has live
// children. Deleting a comment that does not exist is a no-op success.
// Sibling branches and comments on other posts are never touched.
func (s *CommentService) DeleteComment(ctx context.Context, id int64) error {
	return s.store.WithTx(ctx, func(tx *store.Store) error {
		exists, err := tx.CommentExists(ctx, id)
		if err != nil {
			return fmt.Errorf("checking comment: %w", err)
		}
		if !exists {
			// Already absent: deletion of something missing is not an error.
			return nil
		}

		levels := [][]int64{{id}}
		for {
			children, err := tx.ListChildCommentIDs(ctx, levels[len(levels)-1])
			if err != nil {
				return fmt.Errorf("collecting replies: %w", err)
			}
			if len(children) == 0 {
				break
			}
			levels = append(levels, children)
		}

		deleted := 0
		for i := len(levels) - 1; i >= 0; i-- {
			if err := tx.DeleteComments(ctx, levels[i]); err != nil {
				return fmt.Errorf("deleting replies: %w", err)
			}
			deleted += len(levels[i])
		}

		s.logger.Info("comment subtree deleted", "category", model.EventCategoryComment,
			"comment_id", id, "removed", deleted)
		return nil
	})
}

// ListComments returns the comments on a post in creation order.
func (s *CommentService) ListComments(ctx context.Context, postID int64, approvedOnly bool) ([]model.Comment, error) {
	exists, err := s.store.PostExists(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("checking post: %w", err)
	}
	if !exists {
		return nil, notFound("post", postID)
	}
	return s.store.ListCommentsForPost(ctx, postID, approvedOnly)
}
