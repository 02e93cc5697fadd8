// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"inkwell/internal/blog"
	"inkwell/internal/models"
)

// categoryNotFound answers requests naming a malformed category id.
func categoryNotFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, errorBody{Kind: blog.KindNotFound, Message: "category not found"})
}

// CategoriesList handles GET /api/categories.
func (a *API) CategoriesList(w http.ResponseWriter, r *http.Request) {
	categories, err := a.categories.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}

// CategoryGet handles GET /api/categories/{id}.
func (a *API) CategoryGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		categoryNotFound(w)
		return
	}

	c, err := a.categories.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// CategoryCreate handles POST /api/categories.
func (a *API) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	var in blog.CreateCategoryInput
	if err := decodeBody(w, r, &in); err != nil {
		writeValidation(w, err.Error())
		return
	}

	c, err := a.categories.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// CategoryUpdate handles PATCH /api/categories/{id}.
func (a *API) CategoryUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		categoryNotFound(w)
		return
	}

	var in blog.UpdateCategoryInput
	if err := decodeBody(w, r, &in); err != nil {
		writeValidation(w, err.Error())
		return
	}
	in.ID = id

	c, err := a.categories.Update(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// CategoryDelete handles DELETE /api/categories/{id}.
func (a *API) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		categoryNotFound(w)
		return
	}

	if err := a.categories.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w)
}
