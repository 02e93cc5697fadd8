package blog

import (
	"context"

	"github.com/google/uuid"

	"inkwell/internal/models"
	"inkwell/internal/store"
)

// PostRepository is the persistence the post service needs.
// Find methods return (nil, nil) when no row matches.
type PostRepository interface {
	List(ctx context.Context, f store.PostFilter) ([]models.Post, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	FindBySlug(ctx context.Context, slug string) (*models.Post, error)
	Create(ctx context.Context, p *models.Post) (*models.Post, error)
	Update(ctx context.Context, p *models.Post) (*models.Post, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	AddCategories(ctx context.Context, postID uuid.UUID, categoryIDs []uuid.UUID) error
	ClearCategories(ctx context.Context, postID uuid.UUID) error
	CategoriesFor(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID][]models.Category, error)
}

// CategoryRepository is the persistence the category service needs.
// Find methods return (nil, nil) when no row matches.
type CategoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	Posts(ctx context.Context, categoryID uuid.UUID) ([]models.Post, error)
	Create(ctx context.Context, c *models.Category) (*models.Category, error)
	Update(ctx context.Context, c *models.Category) (*models.Category, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// Repository groups the table repositories and runs units of work
// atomically.
type Repository interface {
	Posts() PostRepository
	Categories() CategoryRepository
	WithTx(ctx context.Context, fn func(tx Repository) error) error
}

// NewRepository adapts a PostgreSQL store to Repository.
func NewRepository(s *store.Store) Repository {
	return pgRepository{s: s}
}

type pgRepository struct {
	s *store.Store
}

func (r pgRepository) Posts() PostRepository           { return r.s.Posts }
func (r pgRepository) Categories() CategoryRepository { return r.s.Categories }

func (r pgRepository) WithTx(ctx context.Context, fn func(tx Repository) error) error {
	return r.s.WithTx(ctx, func(tx *store.Store) error {
		return fn(pgRepository{s: tx})
	})
}

// PostCache is an optional read-through cache for posts looked up by slug.
type PostCache interface {
	Get(ctx context.Context, slug string) (*models.Post, bool)
	Set(ctx context.Context, post *models.Post)
	Invalidate(ctx context.Context, slugs ...string)
	InvalidateAll(ctx context.Context)
}

// noCache is used when no PostCache is configured.
type noCache struct{}

func (noCache) Get(context.Context, string) (*models.Post, bool) { return nil, false }
func (noCache) Set(context.Context, *models.Post)                {}
func (noCache) Invalidate(context.Context, ...string)            {}
func (noCache) InvalidateAll(context.Context)                    {}
