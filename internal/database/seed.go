package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// seedCategories are created on an empty development database.
var seedCategories = []struct {
	name, slug, description string
}{
	{"Engineering", "engineering", "Notes from building software."},
	{"Announcements", "announcements", "Product and site news."},
}

// Seed populates the database with initial development data.
// It creates a couple of categories and a published welcome post, and is a
// no-op when any post already exists.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM posts").Scan(&count); err != nil {
		return fmt.Errorf("seed check posts: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin tx: %w", err)
	}
	defer tx.Rollback()

	var categoryID string
	for i, c := range seedCategories {
		var id string
		err := tx.QueryRow(`
			INSERT INTO categories (name, slug, description)
			VALUES ($1, $2, $3)
			ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name
			RETURNING id
		`, c.name, c.slug, c.description).Scan(&id)
		if err != nil {
			return fmt.Errorf("seed insert category %s: %w", c.slug, err)
		}
		if i == len(seedCategories)-1 {
			categoryID = id
		}
	}

	var postID string
	err = tx.QueryRow(`
		INSERT INTO posts (title, slug, content, excerpt, published)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING id
	`, "Welcome to Inkwell", "welcome-to-inkwell",
		"This is the first post. Edit or delete it, then start writing.",
		"Your blog is ready.",
	).Scan(&postID)
	if err != nil {
		return fmt.Errorf("seed insert post: %w", err)
	}

	if _, err := tx.Exec(
		`INSERT INTO post_categories (post_id, category_id) VALUES ($1, $2)`,
		postID, categoryID,
	); err != nil {
		return fmt.Errorf("seed insert post category: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with sample content",
		"categories", len(seedCategories),
		"post", "welcome-to-inkwell",
	)
	return nil
}
