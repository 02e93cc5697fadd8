// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is a named bucket posts can be filed under. A post may belong
// to any number of categories through PostCategory rows.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`

	// Virtual fields populated by store methods.
	PostCount int    `json:"post_count"`
	Posts     []Post `json:"posts,omitempty"`
}

// PostCategory is one edge of the post/category many-to-many relation.
type PostCategory struct {
	PostID     uuid.UUID `json:"post_id"`
	CategoryID uuid.UUID `json:"category_id"`
}
