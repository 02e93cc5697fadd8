package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// captureLogs swaps the default slog logger for one writing to a buffer.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestLogger(t *testing.T) {
	t.Run("calls next handler and returns correct status", func(t *testing.T) {
		var called bool
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
		rr := httptest.NewRecorder()
		Logger(inner).ServeHTTP(rr, req)

		if !called {
			t.Error("next handler should have been called")
		}
		if rr.Code != http.StatusOK {
			t.Errorf("status: got %d, want 200", rr.Code)
		}
	})

	t.Run("logs status and path", func(t *testing.T) {
		logs := captureLogs(t)
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		req := httptest.NewRequest(http.MethodGet, "/api/posts/slug/missing", nil)
		rr := httptest.NewRecorder()
		Logger(inner).ServeHTTP(rr, req)

		if rr.Code != http.StatusNotFound {
			t.Errorf("status: got %d, want 404", rr.Code)
		}
		out := logs.String()
		if !strings.Contains(out, "status=404") {
			t.Errorf("log should contain status=404, got %q", out)
		}
		if !strings.Contains(out, "path=/api/posts/slug/missing") {
			t.Errorf("log should contain path, got %q", out)
		}
	})

	t.Run("write without explicit WriteHeader logs 200", func(t *testing.T) {
		logs := captureLogs(t)
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("hello"))
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rr := httptest.NewRecorder()
		Logger(inner).ServeHTTP(rr, req)

		if rr.Body.String() != "hello" {
			t.Errorf("body: got %q, want %q", rr.Body.String(), "hello")
		}
		if !strings.Contains(logs.String(), "status=200") {
			t.Errorf("log should contain status=200, got %q", logs.String())
		}
		if !strings.Contains(logs.String(), "bytes=5") {
			t.Errorf("log should contain bytes=5, got %q", logs.String())
		}
	})

	t.Run("no body and no header logs 200", func(t *testing.T) {
		logs := captureLogs(t)
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		Logger(inner).ServeHTTP(httptest.NewRecorder(), req)

		if !strings.Contains(logs.String(), "status=200") {
			t.Errorf("log should contain status=200, got %q", logs.String())
		}
	})

	t.Run("server errors log at error level", func(t *testing.T) {
		logs := captureLogs(t)
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		req := httptest.NewRequest(http.MethodPost, "/api/posts", nil)
		Logger(inner).ServeHTTP(httptest.NewRecorder(), req)

		if !strings.Contains(logs.String(), "level=ERROR") {
			t.Errorf("log should be at ERROR level, got %q", logs.String())
		}
	})

	t.Run("includes request id", func(t *testing.T) {
		logs := captureLogs(t)
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
		})

		handler := chimw.RequestID(Logger(inner))
		req := httptest.NewRequest(http.MethodPost, "/api/categories", nil)
		req.Header.Set(chimw.RequestIDHeader, "req-abc")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		if !strings.Contains(logs.String(), "request_id=req-abc") {
			t.Errorf("log should contain request id, got %q", logs.String())
		}
	})
}
