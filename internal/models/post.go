// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// summaryLen is how many characters of content Summary keeps when a
	// post has no excerpt.
	summaryLen = 150

	// wordsPerMinute is the reading speed assumed by ReadingTime.
	wordsPerMinute = 200
)

// Post is a blog entry. Published is a plain flag; drafts and published
// posts can be toggled back and forth freely.
type Post struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Content   string    `json:"content"`
	Excerpt   *string   `json:"excerpt"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Categories is resolved through post_categories.
	Categories []Category `json:"categories"`
}

// Summary returns the excerpt, or a truncated prefix of the content when
// the excerpt is missing or blank.
func (p *Post) Summary() string {
	if p.Excerpt != nil && strings.TrimSpace(*p.Excerpt) != "" {
		return *p.Excerpt
	}
	runes := []rune(p.Content)
	if len(runes) <= summaryLen {
		return p.Content
	}
	return strings.TrimSpace(string(runes[:summaryLen])) + "..."
}

// ReadingTime estimates minutes needed to read the content. Never less than 1.
func (p *Post) ReadingTime() int {
	words := len(strings.Fields(p.Content))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}

// CategoryIDs returns the IDs of the resolved categories.
func (p *Post) CategoryIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(p.Categories))
	for _, c := range p.Categories {
		ids = append(ids, c.ID)
	}
	return ids
}

// HasCategory reports whether the post is filed under the given category.
func (p *Post) HasCategory(id uuid.UUID) bool {
	for _, c := range p.Categories {
		if c.ID == id {
			return true
		}
	}
	return false
}
