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

// TaxonomyService manages categories, tags and post-tag associations.
type TaxonomyService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewTaxonomyService creates a new TaxonomyService.
func NewTaxonomyService(st *store.Store, logger *slog.Logger) *TaxonomyService {
	return &TaxonomyService{store: st, logger: logger}
}

// CreateCategoryInput carries the fields for creating a category.
type CreateCategoryInput struct {
	Name  string
	Slug  string
	Color string
}

// CreateCategory inserts a category. Name and slug must each be unused.
// An empty slug is derived from the name.
func (s *TaxonomyService) CreateCategory(ctx context.Context, in CreateCategoryInput) (model.Category, error) {
	if in.Name == "" {
		return model.Category{}, invalidf("name is required")
	}
	if in.Slug == "" {
		in.Slug = util.Slugify(in.Name)
	}
	if !util.IsValidSlug(in.Slug) {
		return model.Category{}, invalidf("invalid slug %q", in.Slug)
	}

	taken, err := s.store.CategoryNameExists(ctx, in.Name)
	if err != nil {
		return model.Category{}, fmt.Errorf("checking name: %w", err)
	}
	if taken {
		return model.Category{}, conflictf("category name %q already exists", in.Name)
	}

	taken, err = s.store.CategorySlugExists(ctx, in.Slug)
	if err != nil {
		return model.Category{}, fmt.Errorf("checking slug: %w", err)
	}
	if taken {
		return model.Category{}, conflictf("slug %q already exists", in.Slug)
	}

	now := time.Now().UTC()
	return s.store.CreateCategory(ctx, store.CreateCategoryParams{
		Name:      in.Name,
		Slug:      in.Slug,
		Color:     in.Color,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// GetCategory fetches a category by ID.
func (s *TaxonomyService) GetCategory(ctx context.Context, id int64) (model.Category, error) {
	c, err := s.store.GetCategory(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return model.Category{}, notFound("category", id)
	}
	return c, err
}

// ListCategories returns all categories.
func (s *TaxonomyService) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.store.ListCategories(ctx)
}

// UpdateCategoryInput carries optional updates to a category.
type UpdateCategoryInput struct {
	Name  *string
	Slug  *string
	Color *string
}

// UpdateCategory applies a partial update to an existing category.
func (s *TaxonomyService) UpdateCategory(ctx context.Context, id int64, in UpdateCategoryInput) (model.Category, error) {
	existing, err := s.store.GetCategory(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return model.Category{}, notFound("category", id)
	}
	if err != nil {
		return model.Category{}, err
	}

	params := store.UpdateCategoryParams{
		ID:        existing.ID,
		Name:      existing.Name,
		Slug:      existing.Slug,
		Color:     existing.Color,
		UpdatedAt: time.Now().UTC(),
	}

	if in.Name != nil && *in.Name != "" {
		taken, err := s.store.CategoryNameExistsExcluding(ctx, *in.Name, existing.ID)
		if err != nil {
			return model.Category{}, fmt.Errorf("checking name: %w", err)
		}
		if taken {
			return model.Category{}, conflictf("category name %q already exists", *in.Name)
		}
		params.Name = *in.Name
	}
	if in.Slug != nil && *in.Slug != "" {
		if !util.IsValidSlug(*in.Slug) {
			return model.Category{}, invalidf("invalid slug %q", *in.Slug)
		}
		taken, err := s.store.CategorySlugExistsExcluding(ctx, *in.Slug, existing.ID)
		if err != nil {
			return model.Category{}, fmt.Errorf("checking slug: %w", err)
		}
		if taken {
			return model.Category{}, conflictf("slug %q already exists", *in.Slug)
		}
		params.Slug = *in.Slug
	}
	if in.Color != nil {
		params.Color = *in.Color
	}

	if err := s.store.UpdateCategory(ctx, params); err != nil {
		return model.Category{}, err
	}
	return s.store.GetCategory(ctx, id)
}

// DeleteCategory removes a category. Posts referencing it keep existing
// with their category cleared; categories are shared, not owned.
func (s *TaxonomyService) DeleteCategory(ctx context.Context, id int64) error {
	exists, err := s.store.CategoryExists(ctx, id)
	if err != nil {
		return fmt.Errorf("checking category: %w", err)
	}
	if !exists {
		return notFound("category", id)
	}

	return s.store.WithTx(ctx, func(tx *store.Store) error {
		if err := tx.ClearPostCategory(ctx, id); err != nil {
			return fmt.Errorf("clearing post categories: %w", err)
		}
		return tx.DeleteCategory(ctx, id)
	})
}

// CreateTagInput carries the fields for creating a tag.
type CreateTagInput struct {
	Name string
	Slug string
}

// CreateTag inserts a tag. Name and slug must each be unused.
// An empty slug is derived from the name.
func (s *TaxonomyService) CreateTag(ctx context.Context, in CreateTagInput) (model.Tag, error) {
	if in.Name == "" {
		return model.Tag{}, invalidf("name is required")
	}
	if in.Slug == "" {
		in.Slug = util.Slugify(in.Name)
	}
	if !util.IsValidSlug(in.Slug) {
		return model.Tag{}, invalidf("invalid slug %q", in.Slug)
	}

	taken, err := s.store.TagNameExists(ctx, in.Name)
	if err != nil {
		return model.Tag{}, fmt.Errorf("checking name: %w", err)
	}
	if taken {
		return model.Tag{}, conflictf("tag name %q already exists", in.Name)
	}

	taken, err = s.store.TagSlugExists(ctx, in.Slug)
	if err != nil {
		return model.Tag{}, fmt.Errorf("checking slug: %w", err)
	}
	if taken {
		return model.Tag{}, conflictf("slug %q already exists", in.Slug)
	}

	now := time.Now().UTC()
	return s.store.CreateTag(ctx, store.CreateTagParams{
		Name:      in.Name,
		Slug:      in.Slug,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// ListTags returns all tags.
func (s *TaxonomyService) ListTags(ctx context.Context) ([]model.Tag, error) {
	return s.store.ListTags(ctx)
}

// ListPostTags returns the tags attached to an existing post.
func (s *TaxonomyService) ListPostTags(ctx context.Context, postID int64) ([]model.Tag, error) {
	exists, err := s.store.PostExists(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("checking post: %w", err)
	}
	if !exists {
		return nil, notFound("post", postID)
	}
	return s.store.ListTagsForPost(ctx, postID)
}

// AttachTag associates a tag with a post. Both endpoints must exist and
// the pair must not already be associated.
func (s *TaxonomyService) AttachTag(ctx context.Context, postID, tagID int64) (model.PostTag, error) {
	exists, err := s.store.PostExists(ctx, postID)
	if err != nil {
		return model.PostTag{}, fmt.Errorf("checking post: %w", err)
	}
	if !exists {
		return model.PostTag{}, notFound("post", postID)
	}

	exists, err = s.store.TagExists(ctx, tagID)
	if err != nil {
		return model.PostTag{}, fmt.Errorf("checking tag: %w", err)
	}
	if !exists {
		return model.PostTag{}, notFound("tag", tagID)
	}

	associated, err := s.store.PostTagExists(ctx, postID, tagID)
	if err != nil {
		return model.PostTag{}, fmt.Errorf("checking association: %w", err)
	}
	if associated {
		return model.PostTag{}, conflictf("post %d is already associated with tag %d", postID, tagID)
	}

	return s.store.AttachPostTag(ctx, postID, tagID)
}

// DetachTag removes a post-tag association. Removing an association that
// does not exist is a no-op success.
func (s *TaxonomyService) DetachTag(ctx context.Context, postID, tagID int64) error {
	return s.store.DetachPostTag(ctx, postID, tagID)
}
