package store

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/inkwell-cms/inkwell/internal/model"
)

var tagColumns = []string{"id", "name", "slug", "created_at", "updated_at"}

// CreateTagParams holds the fields required to insert a tag.
type CreateTagParams struct {
	Name      string
	Slug      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateTag inserts a new tag and returns it with the assigned ID.
func (s *Store) CreateTag(ctx context.Context, p CreateTagParams) (model.Tag, error) {
	res, err := s.exec(ctx, s.sb.Insert("tags").
		Columns("name", "slug", "created_at", "updated_at").
		Values(p.Name, p.Slug, p.CreatedAt, p.UpdatedAt))
	if err != nil {
		return model.Tag{}, fmt.Errorf("inserting tag: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Tag{}, fmt.Errorf("reading tag id: %w", err)
	}
	return model.Tag{
		ID:        id,
		Name:      p.Name,
		Slug:      p.Slug,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}, nil
}

// GetTag fetches a tag by ID. Returns ErrNotFound when absent.
func (s *Store) GetTag(ctx context.Context, id int64) (model.Tag, error) {
	var t model.Tag
	err := s.get(ctx, &t, s.sb.Select(tagColumns...).From("tags").Where(sq.Eq{"id": id}))
	return t, err
}

// TagExists reports whether a tag with the given ID exists.
func (s *Store) TagExists(ctx context.Context, id int64) (bool, error) {
	return s.exists(ctx, "tags", sq.Eq{"id": id})
}

// TagNameExists reports whether the name is already taken.
func (s *Store) TagNameExists(ctx context.Context, name string) (bool, error) {
	return s.exists(ctx, "tags", sq.Eq{"name": name})
}

// TagSlugExists reports whether the slug is already taken.
func (s *Store) TagSlugExists(ctx context.Context, slug string) (bool, error) {
	return s.exists(ctx, "tags", sq.Eq{"slug": slug})
}

// ListTags returns all tags ordered by name.
func (s *Store) ListTags(ctx context.Context) ([]model.Tag, error) {
	tags := make([]model.Tag, 0)
	err := s.selectAll(ctx, &tags, s.sb.Select(tagColumns...).From("tags").OrderBy("name ASC"))
	return tags, err
}

// PostTagExists reports whether the (post, tag) association already exists.
func (s *Store) PostTagExists(ctx context.Context, postID, tagID int64) (bool, error) {
	return s.exists(ctx, "post_tags", sq.Eq{"post_id": postID, "tag_id": tagID})
}

// AttachPostTag inserts a (post, tag) association row.
func (s *Store) AttachPostTag(ctx context.Context, postID, tagID int64) (model.PostTag, error) {
	res, err := s.exec(ctx, s.sb.Insert("post_tags").
		Columns("post_id", "tag_id").
		Values(postID, tagID))
	if err != nil {
		return model.PostTag{}, fmt.Errorf("inserting post tag: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.PostTag{}, fmt.Errorf("reading post tag id: %w", err)
	}
	return model.PostTag{ID: id, PostID: postID, TagID: tagID}, nil
}

// DetachPostTag removes a (post, tag) association row if present.
func (s *Store) DetachPostTag(ctx context.Context, postID, tagID int64) error {
	_, err := s.exec(ctx, s.sb.Delete("post_tags").
		Where(sq.Eq{"post_id": postID, "tag_id": tagID}))
	return err
}

// DeletePostTagsForPost removes every association belonging to the post.
func (s *Store) DeletePostTagsForPost(ctx context.Context, postID int64) error {
	_, err := s.exec(ctx, s.sb.Delete("post_tags").Where(sq.Eq{"post_id": postID}))
	return err
}

// ListTagsForPost returns the tags attached to a post, ordered by name.
func (s *Store) ListTagsForPost(ctx context.Context, postID int64) ([]model.Tag, error) {
	tags := make([]model.Tag, 0)
	b := s.sb.Select("t.id", "t.name", "t.slug", "t.created_at", "t.updated_at").
		From("tags t").
		Join("post_tags pt ON pt.tag_id = t.id").
		Where(sq.Eq{"pt.post_id": postID}).
		OrderBy("t.name ASC")
	err := s.selectAll(ctx, &tags, b)
	return tags, err
}

// CountPostTags returns the number of association rows for the pair.
// Used by tests to assert the uniqueness invariant.
func (s *Store) CountPostTags(ctx context.Context, postID, tagID int64) (int64, error) {
	return s.count(ctx, "post_tags", sq.Eq{"post_id": postID, "tag_id": tagID})
}
