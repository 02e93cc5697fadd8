// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkwell/internal/blog"
	"inkwell/internal/markdown"
	"inkwell/internal/models"
)

// postView is the reader-facing shape of a post: the stored Markdown plus
// its rendered HTML and the derived summary fields.
type postView struct {
	*models.Post
	ContentHTML string `json:"content_html"`
	Summary     string `json:"summary"`
	ReadingTime int    `json:"reading_time"`
}

func postNotFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, errorBody{Kind: blog.KindNotFound, Message: "post not found"})
}

// PostsList handles GET /api/posts?published=&category_id=&limit=&offset=.
func (a *API) PostsList(w http.ResponseWriter, r *http.Request) {
	in, err := parseListQuery(r.URL.Query())
	if err != nil {
		writeValidation(w, err.Error())
		return
	}

	posts, err := a.posts.List(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}
	writeJSON(w, http.StatusOK, posts)
}

// parseListQuery reads the listing filters. Bounds on limit and offset are
// left to the service.
func parseListQuery(q url.Values) (blog.ListPostsInput, error) {
	var in blog.ListPostsInput

	if v := q.Get("published"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return in, fmt.Errorf("published must be true or false")
		}
		in.Published = &b
	}
	if v := q.Get("category_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return in, fmt.Errorf("category_id must be a UUID")
		}
		in.CategoryID = &id
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return in, fmt.Errorf("limit must be an integer")
		}
		in.Limit = &n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return in, fmt.Errorf("offset must be an integer")
		}
		in.Offset = n
	}
	return in, nil
}

// PostGet handles GET /api/posts/{id}.
func (a *API) PostGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		postNotFound(w)
		return
	}

	p, err := a.posts.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// PostGetBySlug handles GET /api/posts/slug/{slug}. It answers with the
// reader view, content rendered from Markdown.
func (a *API) PostGetBySlug(w http.ResponseWriter, r *http.Request) {
	p, err := a.posts.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	rendered, err := markdown.ToHTML(p.Content)
	if err != nil {
		writeError(w, r, fmt.Errorf("render post %s: %w", p.Slug, err))
		return
	}

	writeJSON(w, http.StatusOK, postView{
		Post:        p,
		ContentHTML: rendered,
		Summary:     p.Summary(),
		ReadingTime: p.ReadingTime(),
	})
}

// PostCreate handles POST /api/posts.
func (a *API) PostCreate(w http.ResponseWriter, r *http.Request) {
	var in blog.CreatePostInput
	if err := decodeBody(w, r, &in); err != nil {
		writeValidation(w, err.Error())
		return
	}

	p, err := a.posts.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// PostUpdate handles PATCH /api/posts/{id}.
func (a *API) PostUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		postNotFound(w)
		return
	}

	var in blog.UpdatePostInput
	if err := decodeBody(w, r, &in); err != nil {
		writeValidation(w, err.Error())
		return
	}
	in.ID = id

	p, err := a.posts.Update(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// PostDelete handles DELETE /api/posts/{id}.
func (a *API) PostDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		postNotFound(w)
		return
	}

	if err := a.posts.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w)
}
