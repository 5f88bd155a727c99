package store

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/inkwell-cms/inkwell/internal/model"
)

var categoryColumns = []string{"id", "name", "slug", "color", "created_at", "updated_at"}

// CreateCategoryParams holds the fields required to insert a category.
type CreateCategoryParams struct {
	Name      string
	Slug      string
	Color     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateCategory inserts a new category and returns it with the assigned ID.
func (s *Store) CreateCategory(ctx context.Context, p CreateCategoryParams) (model.Category, error) {
	res, err := s.exec(ctx, s.sb.Insert("categories").
		Columns("name", "slug", "color", "created_at", "updated_at").
		Values(p.Name, p.Slug, p.Color, p.CreatedAt, p.UpdatedAt))
	if err != nil {
		return model.Category{}, fmt.Errorf("inserting category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Category{}, fmt.Errorf("reading category id: %w", err)
	}
	return model.Category{
		ID:        id,
		Name:      p.Name,
		Slug:      p.Slug,
		Color:     p.Color,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}, nil
}

// GetCategory fetches a category by ID. Returns ErrNotFound when absent.
func (s *Store) GetCategory(ctx context.Context, id int64) (model.Category, error) {
	var c model.Category
	err := s.get(ctx, &c, s.sb.Select(categoryColumns...).From("categories").Where(sq.Eq{"id": id}))
	return c, err
}

// GetCategoryBySlug fetches a category by slug. Returns ErrNotFound when absent.
func (s *Store) GetCategoryBySlug(ctx context.Context, slug string) (model.Category, error) {
	var c model.Category
	err := s.get(ctx, &c, s.sb.Select(categoryColumns...).From("categories").Where(sq.Eq{"slug": slug}))
	return c, err
}

// CategoryExists reports whether a category with the given ID exists.
func (s *Store) CategoryExists(ctx context.Context, id int64) (bool, error) {
	return s.exists(ctx, "categories", sq.Eq{"id": id})
}

// CategoryNameExists reports whether the name is already taken.
func (s *Store) CategoryNameExists(ctx context.Context, name string) (bool, error) {
	return s.exists(ctx, "categories", sq.Eq{"name": name})
}

// CategorySlugExists reports whether the slug is already taken.
func (s *Store) CategorySlugExists(ctx context.Context, slug string) (bool, error) {
	return s.exists(ctx, "categories", sq.Eq{"slug": slug})
}

// CategorySlugExistsExcluding reports whether another category already uses the slug.
func (s *Store) CategorySlugExistsExcluding(ctx context.Context, slug string, id int64) (bool, error) {
	return s.exists(ctx, "categories", sq.And{sq.Eq{"slug": slug}, sq.NotEq{"id": id}})
}

// CategoryNameExistsExcluding reports whether another category already uses the name.
func (s *Store) CategoryNameExistsExcluding(ctx context.Context, name string, id int64) (bool, error) {
	return s.exists(ctx, "categories", sq.And{sq.Eq{"name": name}, sq.NotEq{"id": id}})
}

// UpdateCategoryParams holds the full set of mutable category fields.
type UpdateCategoryParams struct {
	ID        int64
	Name      string
	Slug      string
	Color     string
	UpdatedAt time.Time
}

// UpdateCategory rewrites the mutable fields of a category.
func (s *Store) UpdateCategory(ctx context.Context, p UpdateCategoryParams) error {
	_, err := s.exec(ctx, s.sb.Update("categories").
		Set("name", p.Name).
		Set("slug", p.Slug).
		Set("color", p.Color).
		Set("updated_at", p.UpdatedAt).
		Where(sq.Eq{"id": p.ID}))
	return err
}

// DeleteCategory removes a category row.
func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	_, err := s.exec(ctx, s.sb.Delete("categories").Where(sq.Eq{"id": id}))
	return err
}

// ClearPostCategory nulls out category_id on every post referencing the category.
func (s *Store) ClearPostCategory(ctx context.Context, categoryID int64) error {
	_, err := s.exec(ctx, s.sb.Update("posts").
		Set("category_id", nil).
		Where(sq.Eq{"category_id": categoryID}))
	return err
}

// ListCategories returns all categories ordered by name.
func (s *Store) ListCategories(ctx context.Context) ([]model.Category, error) {
	categories := make([]model.Category, 0)
	err := s.selectAll(ctx, &categories, s.sb.Select(categoryColumns...).From("categories").OrderBy("name ASC"))
	return categories, err
}
