// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers exposes the blog services as a JSON HTTP API. Handlers
// only decode input, call a service and encode the result or a typed failure.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkwell/internal/blog"
	"inkwell/internal/models"
)

// maxBodyBytes caps request bodies accepted by create and update handlers.
const maxBodyBytes = 1 << 20

// PostService is the subset of blog.PostService used by the API.
type PostService interface {
	List(ctx context.Context, in blog.ListPostsInput) ([]models.Post, error)
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	Create(ctx context.Context, in blog.CreatePostInput) (*models.Post, error)
	Update(ctx context.Context, in blog.UpdatePostInput) (*models.Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CategoryService is the subset of blog.CategoryService used by the API.
type CategoryService interface {
	List(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	Create(ctx context.Context, in blog.CreateCategoryInput) (*models.Category, error)
	Update(ctx context.Context, in blog.UpdateCategoryInput) (*models.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// API groups the post and category handlers.
type API struct {
	posts      PostService
	categories CategoryService
}

// NewAPI creates the API handler group.
func NewAPI(posts PostService, categories CategoryService) *API {
	return &API{posts: posts, categories: categories}
}

// errorBody is the JSON shape of every failed response.
type errorBody struct {
	Kind    blog.Kind `json:"kind"`
	Message string    `json:"message"`
}

// statusFor maps a failure kind to its HTTP status.
func statusFor(kind blog.Kind) int {
	switch kind {
	case blog.KindValidation:
		return http.StatusBadRequest
	case blog.KindNotFound:
		return http.StatusNotFound
	case blog.KindConflict:
		return http.StatusConflict
	case blog.KindIntegrity:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("encode response failed", "error", err)
	}
}

// writeError encodes err as {"kind","message"}. Internal failures are
// logged and their detail is withheld from the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := blog.KindOf(err)
	body := errorBody{Kind: kind, Message: "internal server error"}

	var be *blog.Error
	if kind != blog.KindInternal && errors.As(err, &be) {
		body.Message = be.Message
	} else {
		body.Kind = blog.KindInternal
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}

	writeJSON(w, statusFor(body.Kind), body)
}

// writeValidation reports a malformed request as a validation failure.
func writeValidation(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Kind: blog.KindValidation, Message: msg})
}

// writeSuccess answers a delete with {"success":true}.
func writeSuccess(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// decodeBody strictly decodes a single JSON object from the request body.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return errors.New("request body is required")
		case errors.As(err, &maxErr):
			return fmt.Errorf("request body exceeds %d bytes", maxErr.Limit)
		default:
			return fmt.Errorf("invalid request body: %v", err)
		}
	}
	if dec.More() {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}

// pathID parses the {id} URL parameter. ok is false when it is not a UUID,
// which callers report as not found: no entity can have that id.
func pathID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	return id, err == nil
}
