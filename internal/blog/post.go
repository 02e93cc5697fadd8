package blog

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"inkwell/internal/models"
	"inkwell/internal/slug"
	"inkwell/internal/store"
)

const postConflictMsg = "a post with this title already exists"

// PostService manages posts and their category associations.
type PostService struct {
	repo  Repository
	cache PostCache
}

// ListPostsInput filters and pages a post listing.
//
// Limit and Offset page the publish-filtered, newest-first query. The
// CategoryID filter is applied to that page afterwards, so a page can hold
// fewer than Limit posts even when more posts in the category exist.
type ListPostsInput struct {
	Published  *bool
	CategoryID *uuid.UUID
	Limit      *int // nil means 50
	Offset     int
}

// CreatePostInput holds the fields accepted by Create.
type CreatePostInput struct {
	Title       string      `json:"title"`
	Content     string      `json:"content"`
	Excerpt     *string     `json:"excerpt,omitempty"`
	Published   bool        `json:"published"`
	CategoryIDs []uuid.UUID `json:"category_ids,omitempty"`
}

// UpdatePostInput holds the fields accepted by Update. Nil fields are left
// unchanged. A non-nil CategoryIDs, even an empty one, replaces the whole
// category set.
type UpdatePostInput struct {
	ID          uuid.UUID    `json:"-"`
	Title       *string      `json:"title,omitempty"`
	Content     *string      `json:"content,omitempty"`
	Excerpt     *string      `json:"excerpt,omitempty"`
	Published   *bool        `json:"published,omitempty"`
	CategoryIDs *[]uuid.UUID `json:"category_ids,omitempty"`
}

// List returns posts newest first with their categories resolved.
func (s *PostService) List(ctx context.Context, in ListPostsInput) ([]models.Post, error) {
	limit, offset, verr := normalizePage(in.Limit, in.Offset)
	if verr != nil {
		return nil, verr
	}

	posts, err := s.repo.Posts().List(ctx, store.PostFilter{
		Published: in.Published,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		return nil, fromStore(err, "list posts", postConflictMsg)
	}
	if err := resolveCategories(ctx, s.repo.Posts(), posts); err != nil {
		return nil, fromStore(err, "list posts", postConflictMsg)
	}

	if in.CategoryID == nil {
		return posts, nil
	}
	filtered := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if p.HasCategory(*in.CategoryID) {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// GetBySlug returns the post with the given slug, drafts included.
func (s *PostService) GetBySlug(ctx context.Context, sl string) (*models.Post, error) {
	if cached, ok := s.cache.Get(ctx, sl); ok {
		return cached, nil
	}

	p, err := s.repo.Posts().FindBySlug(ctx, sl)
	if err != nil {
		return nil, fromStore(err, "get post", postConflictMsg)
	}
	if p == nil {
		return nil, notFound("post not found")
	}
	if err := resolveOne(ctx, s.repo.Posts(), p); err != nil {
		return nil, fromStore(err, "get post", postConflictMsg)
	}

	s.cache.Set(ctx, p)
	return p, nil
}

// GetByID returns the post with the given ID.
func (s *PostService) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	p, err := s.repo.Posts().FindByID(ctx, id)
	if err != nil {
		return nil, fromStore(err, "get post", postConflictMsg)
	}
	if p == nil {
		return nil, notFound("post not found")
	}
	if err := resolveOne(ctx, s.repo.Posts(), p); err != nil {
		return nil, fromStore(err, "get post", postConflictMsg)
	}
	return p, nil
}

// Create validates and inserts a post and its category links in one
// transaction. A category ID that does not exist aborts the whole insert.
func (s *PostService) Create(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := firstError(
		validateTitle(in.Title),
		validateContent(in.Content),
		validateExcerpt(in.Excerpt),
	); err != nil {
		return nil, err
	}
	sl, serr := postSlug(in.Title)
	if serr != nil {
		return nil, serr
	}

	existing, err := s.repo.Posts().FindBySlug(ctx, sl)
	if err != nil {
		return nil, fromStore(err, "create post", postConflictMsg)
	}
	if existing != nil {
		return nil, conflict(postConflictMsg)
	}

	var created *models.Post
	err = s.repo.WithTx(ctx, func(tx Repository) error {
		p, err := tx.Posts().Create(ctx, &models.Post{
			Title:     in.Title,
			Slug:      sl,
			Content:   in.Content,
			Excerpt:   optionalText(in.Excerpt),
			Published: in.Published,
		})
		if err != nil {
			return err
		}
		if err := tx.Posts().AddCategories(ctx, p.ID, distinct(in.CategoryIDs)); err != nil {
			return err
		}
		if err := resolveOne(ctx, tx.Posts(), p); err != nil {
			return err
		}
		created = p
		return nil
	})
	if err != nil {
		return nil, fromStore(err, "create post", postConflictMsg)
	}

	slog.Info("post created", "id", created.ID, "slug", created.Slug, "categories", len(created.Categories))
	return created, nil
}

// Update applies the supplied fields to a post. updated_at is refreshed on
// every call. A new title recomputes the slug.
func (s *PostService) Update(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	checks := []*Error{validateExcerpt(in.Excerpt)}
	if in.Title != nil {
		checks = append(checks, validateTitle(*in.Title))
	}
	if in.Content != nil {
		checks = append(checks, validateContent(*in.Content))
	}
	if err := firstError(checks...); err != nil {
		return nil, err
	}

	var (
		updated *models.Post
		oldSlug string
	)
	err := s.repo.WithTx(ctx, func(tx Repository) error {
		p, err := tx.Posts().FindByID(ctx, in.ID)
		if err != nil {
			return err
		}
		if p == nil {
			return notFound("post not found")
		}
		oldSlug = p.Slug

		if in.Title != nil {
			sl, serr := postSlug(*in.Title)
			if serr != nil {
				return serr
			}
			p.Title = *in.Title
			p.Slug = sl
		}
		if in.Content != nil {
			p.Content = *in.Content
		}
		if in.Excerpt != nil {
			p.Excerpt = optionalText(in.Excerpt)
		}
		if in.Published != nil {
			p.Published = *in.Published
		}

		updated, err = tx.Posts().Update(ctx, p)
		if err != nil {
			return err
		}
		if updated == nil {
			return notFound("post not found")
		}

		// Full replace: drop every link, then insert the new set.
		if in.CategoryIDs != nil {
			if err := tx.Posts().ClearCategories(ctx, updated.ID); err != nil {
				return err
			}
			if err := tx.Posts().AddCategories(ctx, updated.ID, distinct(*in.CategoryIDs)); err != nil {
				return err
			}
		}
		return resolveOne(ctx, tx.Posts(), updated)
	})
	if err != nil {
		return nil, fromStore(err, "update post", postConflictMsg)
	}

	s.cache.Invalidate(ctx, oldSlug, updated.Slug)

	slog.Info("post updated", "id", updated.ID, "slug", updated.Slug, "published", updated.Published)
	return updated, nil
}

// Delete removes a post and its category links.
func (s *PostService) Delete(ctx context.Context, id uuid.UUID) error {
	var sl string
	err := s.repo.WithTx(ctx, func(tx Repository) error {
		p, err := tx.Posts().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return notFound("post not found")
		}
		sl = p.Slug

		deleted, err := tx.Posts().Delete(ctx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return notFound("post not found")
		}
		return nil
	})
	if err != nil {
		return fromStore(err, "delete post", postConflictMsg)
	}

	s.cache.Invalidate(ctx, sl)

	slog.Info("post deleted", "id", id, "slug", sl)
	return nil
}

// postSlug derives a post slug, rejecting titles that produce an empty one.
func postSlug(title string) (string, *Error) {
	sl := slug.Generate(title)
	if sl == "" {
		return "", validationError("title must contain at least one letter or digit")
	}
	return sl, nil
}

// resolveCategories fills in Categories for each post with one query.
func resolveCategories(ctx context.Context, repo PostRepository, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
	}
	byPost, err := repo.CategoriesFor(ctx, ids)
	if err != nil {
		return err
	}
	for i := range posts {
		posts[i].Categories = byPost[posts[i].ID]
		if posts[i].Categories == nil {
			posts[i].Categories = []models.Category{}
		}
	}
	return nil
}

func resolveOne(ctx context.Context, repo PostRepository, p *models.Post) error {
	posts := []models.Post{*p}
	if err := resolveCategories(ctx, repo, posts); err != nil {
		return err
	}
	p.Categories = posts[0].Categories
	return nil
}

// distinct drops repeated IDs, keeping first-seen order.
func distinct(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
