// Package blog implements the post and category services: validation,
// slug derivation and uniqueness, association maintenance and filtered
// listing on top of a Repository.
package blog

// Config tunes service behavior.
type Config struct {
	// Cache, when set, serves PostService.GetBySlug reads.
	Cache PostCache

	// StrictCategoryRename rejects a category rename whose new slug is
	// already taken by another category before touching the row. When
	// false the rename goes straight to the store, and only the store's
	// unique constraint can refuse it.
	StrictCategoryRename bool
}

// Services bundles the services sharing one repository.
type Services struct {
	Posts      *PostService
	Categories *CategoryService
}

// New builds the services over repo.
func New(repo Repository, cfg Config) *Services {
	cache := cfg.Cache
	if cache == nil {
		cache = noCache{}
	}
	return &Services{
		Posts:      &PostService{repo: repo, cache: cache},
		Categories: &CategoryService{repo: repo, cache: cache, strictRename: cfg.StrictCategoryRename},
	}
}
