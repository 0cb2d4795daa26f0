package api

import (
	"html"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ashureev/bookmarkd/internal/appconf"
)

const homeBookmarkLimit = 20

// RegisterHome registers the application root.
func (h *Handler) RegisterHome(r chi.Router) {
	r.Get("/", h.Home)
}

// Home sends visitors to the installer until a configuration record exists,
// then lists the most recent public bookmarks.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	if !appconf.Exists(h.cfg.ConfigPath) {
		http.Redirect(w, r, "/install", http.StatusSeeOther)
		return
	}

	rec, err := appconf.Load(h.cfg.ConfigPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", h.cfg.ConfigPath, "error", err)
		h.renderError(w, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	count, err := h.repo.Count(r.Context())
	if err != nil {
		slog.Error("Failed to count bookmarks", "error", err)
		h.renderError(w, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	bookmarks, err := h.repo.Recent(r.Context(), homeBookmarkLimit, false)
	if err != nil {
		slog.Error("Failed to list bookmarks", "error", err)
		h.renderError(w, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	// The title was escaped when stored.
	h.render(w, http.StatusOK, "home", map[string]any{
		"Title":     html.UnescapeString(rec.String("general.title")),
		"Count":     count,
		"Bookmarks": bookmarks,
	})
}
