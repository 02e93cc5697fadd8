package blog

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"inkwell/internal/models"
	"inkwell/internal/slug"
)

const categoryConflictMsg = "a category with this name already exists"

// CategoryService manages categories.
type CategoryService struct {
	repo         Repository
	cache        PostCache
	strictRename bool
}

// CreateCategoryInput holds the fields accepted by Create.
type CreateCategoryInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// UpdateCategoryInput holds the fields accepted by Update. Nil fields are
// left unchanged.
type UpdateCategoryInput struct {
	ID          uuid.UUID `json:"-"`
	Name        *string   `json:"name,omitempty"`
	Description *string   `json:"description,omitempty"`
}

// List returns every category, newest first, with its post count.
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	items, err := s.repo.Categories().List(ctx)
	if err != nil {
		return nil, fromStore(err, "list categories", categoryConflictMsg)
	}
	return items, nil
}

// GetByID returns a category together with the posts filed under it.
func (s *CategoryService) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	c, err := s.repo.Categories().FindByID(ctx, id)
	if err != nil {
		return nil, fromStore(err, "get category", categoryConflictMsg)
	}
	if c == nil {
		return nil, notFound("category not found")
	}

	posts, err := s.repo.Categories().Posts(ctx, id)
	if err != nil {
		return nil, fromStore(err, "get category posts", categoryConflictMsg)
	}
	if posts == nil {
		posts = []models.Post{}
	}
	// Embedded posts carry their full category set, like every other post.
	if err := resolveCategories(ctx, s.repo.Posts(), posts); err != nil {
		return nil, fromStore(err, "get category posts", categoryConflictMsg)
	}
	c.Posts = posts
	c.PostCount = len(posts)
	return c, nil
}

// Create validates and inserts a new category. The slug is derived from
// the name and must not be taken.
func (s *CategoryService) Create(ctx context.Context, in CreateCategoryInput) (*models.Category, error) {
	if err := firstError(validateCategoryName(in.Name), validateDescription(in.Description)); err != nil {
		return nil, err
	}
	sl, serr := categorySlug(in.Name)
	if serr != nil {
		return nil, serr
	}

	existing, err := s.repo.Categories().FindBySlug(ctx, sl)
	if err != nil {
		return nil, fromStore(err, "create category", categoryConflictMsg)
	}
	if existing != nil {
		return nil, conflict(categoryConflictMsg)
	}

	created, err := s.repo.Categories().Create(ctx, &models.Category{
		Name:        in.Name,
		Slug:        sl,
		Description: optionalText(in.Description),
	})
	if err != nil {
		return nil, fromStore(err, "create category", categoryConflictMsg)
	}

	slog.Info("category created", "id", created.ID, "slug", created.Slug)
	return created, nil
}

// Update changes a category's name and/or description. A new name
// recomputes the slug.
func (s *CategoryService) Update(ctx context.Context, in UpdateCategoryInput) (*models.Category, error) {
	var checks []*Error
	if in.Name != nil {
		checks = append(checks, validateCategoryName(*in.Name))
	}
	checks = append(checks, validateDescription(in.Description))
	if err := firstError(checks...); err != nil {
		return nil, err
	}

	var updated *models.Category
	err := s.repo.WithTx(ctx, func(tx Repository) error {
		c, err := tx.Categories().FindByID(ctx, in.ID)
		if err != nil {
			return err
		}
		if c == nil {
			return notFound("category not found")
		}

		if in.Name != nil {
			sl, serr := categorySlug(*in.Name)
			if serr != nil {
				return serr
			}
			if s.strictRename && sl != c.Slug {
				other, err := tx.Categories().FindBySlug(ctx, sl)
				if err != nil {
					return err
				}
				if other != nil && other.ID != c.ID {
					return conflict(categoryConflictMsg)
				}
			}
			c.Name = *in.Name
			c.Slug = sl
		}
		if in.Description != nil {
			c.Description = optionalText(in.Description)
		}

		updated, err = tx.Categories().Update(ctx, c)
		if err != nil {
			return err
		}
		if updated == nil {
			return notFound("category not found")
		}
		return nil
	})
	if err != nil {
		return nil, fromStore(err, "update category", categoryConflictMsg)
	}

	// Cached posts embed category names and slugs.
	s.cache.InvalidateAll(ctx)

	slog.Info("category updated", "id", updated.ID, "slug", updated.Slug)
	return updated, nil
}

// Delete removes a category. Its associations go with it; the posts stay.
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Categories().Delete(ctx, id)
	if err != nil {
		return fromStore(err, "delete category", categoryConflictMsg)
	}
	if !deleted {
		return notFound("category not found")
	}

	s.cache.InvalidateAll(ctx)

	slog.Info("category deleted", "id", id)
	return nil
}

// categorySlug derives a category slug, rejecting names that produce an
// empty one.
func categorySlug(name string) (string, *Error) {
	sl := slug.Generate(name)
	if sl == "" {
		return "", validationError("name must contain at least one letter or digit")
	}
	return sl, nil
}
