// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

// PostStore handles posts and their category associations.
type PostStore struct {
	db DBTX
}

// NewPostStore creates a new PostStore with the given database handle.
func NewPostStore(db DBTX) *PostStore {
	return &PostStore{db: db}
}

const (
	postColumns          = `id, title, slug, content, excerpt, published, created_at, updated_at`
	qualifiedPostColumns = `p.id, p.title, p.slug, p.content, p.excerpt, p.published, p.created_at, p.updated_at`
)

// PostFilter narrows a post listing. Limit and Offset are applied in SQL.
type PostFilter struct {
	Published *bool
	Limit     int
	Offset    int
}

// scanPost scans a row into a Post struct.
func scanPost(row scanner) (*models.Post, error) {
	var p models.Post
	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt,
		&p.Published, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns posts newest first, filtered by publish state when set.
// Categories are not resolved; see CategoriesFor.
func (s *PostStore) List(ctx context.Context, f PostFilter) ([]models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts`
	var args []any
	if f.Published != nil {
		args = append(args, *f.Published)
		query += fmt.Sprintf(` WHERE published = $%d`, len(args))
	}
	query += ` ORDER BY created_at DESC, id`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(` OFFSET $%d`, len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	items := []models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// FindByID retrieves a post by its UUID. Returns nil if not found.
func (s *PostStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// FindBySlug retrieves a post by its slug regardless of publish state.
// Returns nil if not found.
func (s *PostStore) FindBySlug(ctx context.Context, slug string) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE slug = $1`, slug)
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	return p, nil
}

// Create inserts a new post and returns it with the generated ID and timestamps.
func (s *PostStore) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO posts (title, slug, content, excerpt, published)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+postColumns,
		p.Title, p.Slug, p.Content, p.Excerpt, p.Published,
	)
	result, err := scanPost(row)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", classify(err))
	}
	return result, nil
}

// Update writes every mutable column and refreshes updated_at.
// Returns nil if no post has the given ID.
func (s *PostStore) Update(ctx context.Context, p *models.Post) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE posts SET
			title = $1, slug = $2, content = $3, excerpt = $4, published = $5,
			updated_at = GREATEST(NOW(), created_at)
		WHERE id = $6
		RETURNING `+postColumns,
		p.Title, p.Slug, p.Content, p.Excerpt, p.Published, p.ID,
	)
	result, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update post: %w", classify(err))
	}
	return result, nil
}

// Delete removes a post by ID together with its post_categories rows
// (ON DELETE CASCADE). Reports whether a row was deleted.
func (s *PostStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	var deleted uuid.UUID
	err := s.db.QueryRowContext(ctx, `DELETE FROM posts WHERE id = $1 RETURNING id`, id).Scan(&deleted)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("delete post: %w", err)
	}
	return true, nil
}

// AddCategories links a post to each of the given categories in a single
// statement. A missing category fails with ErrForeignKeyViolation.
func (s *PostStore) AddCategories(ctx context.Context, postID uuid.UUID, categoryIDs []uuid.UUID) error {
	if len(categoryIDs) == 0 {
		return nil
	}

	values := make([]string, 0, len(categoryIDs))
	args := []any{postID}
	for _, id := range categoryIDs {
		args = append(args, id)
		values = append(values, fmt.Sprintf("($1, $%d)", len(args)))
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO post_categories (post_id, category_id) VALUES `+strings.Join(values, ", "),
		args...,
	)
	if err != nil {
		return fmt.Errorf("add post categories: %w", classify(err))
	}
	return nil
}

// ClearCategories removes every category association of a post.
func (s *PostStore) ClearCategories(ctx context.Context, postID uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM post_categories WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("clear post categories: %w", err)
	}
	return nil
}

// CategoriesFor resolves the categories of each given post. Every requested
// ID is present in the result, mapped to an empty slice when the post has
// no categories. Categories are ordered by name.
func (s *PostStore) CategoriesFor(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID][]models.Category, error) {
	result := make(map[uuid.UUID][]models.Category, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}

	ids := make([]string, 0, len(postIDs))
	for _, id := range postIDs {
		result[id] = []models.Category{}
		ids = append(ids, id.String())
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT pc.post_id, c.id, c.name, c.slug, c.description, c.created_at
		FROM post_categories pc
		JOIN categories c ON c.id = pc.category_id
		WHERE pc.post_id = ANY($1::uuid[])
		ORDER BY c.name
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("list post categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var postID uuid.UUID
		var c models.Category
		if err := rows.Scan(&postID, &c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan post category: %w", err)
		}
		result[postID] = append(result[postID], c)
	}
	return result, rows.Err()
}
