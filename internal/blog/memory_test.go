package blog

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/models"
	"inkwell/internal/store"
)

// memDB mirrors the PostgreSQL schema rules the services rely on: unique
// slugs and names, foreign keys on post_categories, and cascade deletes.
// It is not safe for concurrent use.
type memDB struct {
	posts      map[uuid.UUID]models.Post
	categories map[uuid.UUID]models.Category
	links      map[models.PostCategory]struct{}
	now        time.Time
}

func newMemDB() *memDB {
	return &memDB{
		posts:      map[uuid.UUID]models.Post{},
		categories: map[uuid.UUID]models.Category{},
		links:      map[models.PostCategory]struct{}{},
		now:        time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// tick advances the fake clock so every write gets a distinct timestamp.
func (db *memDB) tick() time.Time {
	db.now = db.now.Add(time.Millisecond)
	return db.now
}

func (db *memDB) clone() *memDB {
	return &memDB{
		posts:      maps.Clone(db.posts),
		categories: maps.Clone(db.categories),
		links:      maps.Clone(db.links),
		now:        db.now,
	}
}

// memRepo implements Repository over a memDB.
type memRepo struct {
	db *memDB
}

func newMemRepo() *memRepo { return &memRepo{db: newMemDB()} }

func (r *memRepo) Posts() PostRepository           { return memPosts{r.db} }
func (r *memRepo) Categories() CategoryRepository { return memCategories{r.db} }

// WithTx runs fn against a copy and keeps the copy only on success.
func (r *memRepo) WithTx(ctx context.Context, fn func(tx Repository) error) error {
	tx := &memRepo{db: r.db.clone()}
	if err := fn(tx); err != nil {
		return err
	}
	r.db = tx.db
	return nil
}

// linkCount returns the number of association rows.
func (r *memRepo) linkCount() int { return len(r.db.links) }

type memPosts struct{ db *memDB }

func sortNewestFirst[T any](items []T, createdAt func(T) time.Time) {
	slices.SortFunc(items, func(a, b T) int { return createdAt(b).Compare(createdAt(a)) })
}

func (m memPosts) List(_ context.Context, f store.PostFilter) ([]models.Post, error) {
	var items []models.Post
	for _, p := range m.db.posts {
		if f.Published != nil && p.Published != *f.Published {
			continue
		}
		items = append(items, p)
	}
	sortNewestFirst(items, func(p models.Post) time.Time { return p.CreatedAt })

	if f.Offset >= len(items) {
		return []models.Post{}, nil
	}
	items = items[f.Offset:]
	if f.Limit > 0 && f.Limit < len(items) {
		items = items[:f.Limit]
	}
	return items, nil
}

func (m memPosts) FindByID(_ context.Context, id uuid.UUID) (*models.Post, error) {
	p, ok := m.db.posts[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m memPosts) FindBySlug(_ context.Context, slug string) (*models.Post, error) {
	for _, p := range m.db.posts {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, nil
}

func (m memPosts) slugTaken(slug string, except uuid.UUID) bool {
	for _, p := range m.db.posts {
		if p.Slug == slug && p.ID != except {
			return true
		}
	}
	return false
}

func (m memPosts) Create(_ context.Context, p *models.Post) (*models.Post, error) {
	if m.slugTaken(p.Slug, uuid.Nil) {
		return nil, fmt.Errorf("create post: %w", store.ErrUniqueViolation)
	}
	row := *p
	row.ID = uuid.New()
	row.CreatedAt = m.db.tick()
	row.UpdatedAt = row.CreatedAt
	row.Categories = nil
	m.db.posts[row.ID] = row
	return &row, nil
}

func (m memPosts) Update(_ context.Context, p *models.Post) (*models.Post, error) {
	existing, ok := m.db.posts[p.ID]
	if !ok {
		return nil, nil
	}
	if m.slugTaken(p.Slug, p.ID) {
		return nil, fmt.Errorf("update post: %w", store.ErrUniqueViolation)
	}
	row := *p
	row.CreatedAt = existing.CreatedAt
	row.UpdatedAt = m.db.tick()
	row.Categories = nil
	m.db.posts[row.ID] = row
	return &row, nil
}

func (m memPosts) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	if _, ok := m.db.posts[id]; !ok {
		return false, nil
	}
	delete(m.db.posts, id)
	for link := range m.db.links {
		if link.PostID == id {
			delete(m.db.links, link)
		}
	}
	return true, nil
}

func (m memPosts) AddCategories(_ context.Context, postID uuid.UUID, categoryIDs []uuid.UUID) error {
	if _, ok := m.db.posts[postID]; !ok && len(categoryIDs) > 0 {
		return fmt.Errorf("add post categories: %w", store.ErrForeignKeyViolation)
	}
	for _, id := range categoryIDs {
		if _, ok := m.db.categories[id]; !ok {
			return fmt.Errorf("add post categories: %w", store.ErrForeignKeyViolation)
		}
		link := models.PostCategory{PostID: postID, CategoryID: id}
		if _, ok := m.db.links[link]; ok {
			return fmt.Errorf("add post categories: %w", store.ErrUniqueViolation)
		}
		m.db.links[link] = struct{}{}
	}
	return nil
}

func (m memPosts) ClearCategories(_ context.Context, postID uuid.UUID) error {
	for link := range m.db.links {
		if link.PostID == postID {
			delete(m.db.links, link)
		}
	}
	return nil
}

func (m memPosts) CategoriesFor(_ context.Context, postIDs []uuid.UUID) (map[uuid.UUID][]models.Category, error) {
	result := make(map[uuid.UUID][]models.Category, len(postIDs))
	for _, id := range postIDs {
		result[id] = []models.Category{}
	}
	for link := range m.db.links {
		if _, wanted := result[link.PostID]; wanted {
			result[link.PostID] = append(result[link.PostID], m.db.categories[link.CategoryID])
		}
	}
	for id := range result {
		slices.SortFunc(result[id], func(a, b models.Category) int {
			switch {
			case a.Name < b.Name:
				return -1
			case a.Name > b.Name:
				return 1
			}
			return 0
		})
	}
	return result, nil
}

type memCategories struct{ db *memDB }

func (m memCategories) List(_ context.Context) ([]models.Category, error) {
	items := []models.Category{}
	for _, c := range m.db.categories {
		c.PostCount = 0
		for link := range m.db.links {
			if link.CategoryID == c.ID {
				c.PostCount++
			}
		}
		items = append(items, c)
	}
	sortNewestFirst(items, func(c models.Category) time.Time { return c.CreatedAt })
	return items, nil
}

func (m memCategories) FindByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	c, ok := m.db.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (m memCategories) FindBySlug(_ context.Context, slug string) (*models.Category, error) {
	for _, c := range m.db.categories {
		if c.Slug == slug {
			return &c, nil
		}
	}
	return nil, nil
}

func (m memCategories) Posts(_ context.Context, categoryID uuid.UUID) ([]models.Post, error) {
	items := []models.Post{}
	for link := range m.db.links {
		if link.CategoryID == categoryID {
			items = append(items, m.db.posts[link.PostID])
		}
	}
	sortNewestFirst(items, func(p models.Post) time.Time { return p.CreatedAt })
	return items, nil
}

func (m memCategories) taken(c *models.Category) bool {
	for _, other := range m.db.categories {
		if other.ID != c.ID && (other.Slug == c.Slug || other.Name == c.Name) {
			return true
		}
	}
	return false
}

func (m memCategories) Create(_ context.Context, c *models.Category) (*models.Category, error) {
	row := *c
	row.ID = uuid.New()
	if m.taken(&row) {
		return nil, fmt.Errorf("create category: %w", store.ErrUniqueViolation)
	}
	row.CreatedAt = m.db.tick()
	m.db.categories[row.ID] = row
	return &row, nil
}

func (m memCategories) Update(_ context.Context, c *models.Category) (*models.Category, error) {
	existing, ok := m.db.categories[c.ID]
	if !ok {
		return nil, nil
	}
	if m.taken(c) {
		return nil, fmt.Errorf("update category: %w", store.ErrUniqueViolation)
	}
	row := *c
	row.CreatedAt = existing.CreatedAt
	row.Posts = nil
	m.db.categories[row.ID] = row
	return &row, nil
}

func (m memCategories) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	if _, ok := m.db.categories[id]; !ok {
		return false, nil
	}
	delete(m.db.categories, id)
	for link := range m.db.links {
		if link.CategoryID == id {
			delete(m.db.links, link)
		}
	}
	return true, nil
}

// memCache is a PostCache that records invalidations.
type memCache struct {
	posts       map[string]models.Post
	invalidated []string
	cleared     int
}

func newMemCache() *memCache { return &memCache{posts: map[string]models.Post{}} }

func (c *memCache) Get(_ context.Context, slug string) (*models.Post, bool) {
	p, ok := c.posts[slug]
	if !ok {
		return nil, false
	}
	return &p, true
}

func (c *memCache) Set(_ context.Context, p *models.Post) { c.posts[p.Slug] = *p }

func (c *memCache) Invalidate(_ context.Context, slugs ...string) {
	for _, s := range slugs {
		delete(c.posts, s)
		c.invalidated = append(c.invalidated, s)
	}
}

func (c *memCache) InvalidateAll(context.Context) {
	clear(c.posts)
	c.cleared++
}
