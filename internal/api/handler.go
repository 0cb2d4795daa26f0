// Package api provides HTTP handlers for the bookmarking service.
package api

import (
	"bytes"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/ashureev/bookmarkd/internal/config"
	"github.com/ashureev/bookmarkd/internal/store"
)

// Handler provides common handler utilities.
type Handler struct {
	repo      store.Repository
	cfg       *config.Config
	templates *template.Template
}

// NewHandler creates a new Handler with common dependencies.
func NewHandler(repo store.Repository, cfg *config.Config, templates *template.Template) *Handler {
	return &Handler{
		repo:      repo,
		cfg:       cfg,
		templates: templates,
	}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// render executes the named template into a buffer first so a template
// failure never leaves a half-written page.
func (h *Handler) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("Failed to render template", "template", name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Debug("Failed to write response", "template", name, "error", err)
	}
}

// renderError renders the error page.
func (h *Handler) renderError(w http.ResponseWriter, status int, message string, details []string) {
	h.render(w, status, "error", map[string]any{
		"Message": message,
		"Details": details,
	})
}
