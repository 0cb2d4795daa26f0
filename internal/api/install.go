package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ashureev/bookmarkd/internal/install"
	"github.com/ashureev/bookmarkd/internal/middleware"
	"github.com/ashureev/bookmarkd/internal/session"
	"github.com/ashureev/bookmarkd/internal/timezone"
	"github.com/ashureev/bookmarkd/internal/urlutil"
)

// InstallHandler serves the first-run install flow.
type InstallHandler struct {
	*Handler
	catalog  *timezone.Catalog
	sessions *session.Manager
}

// NewInstallHandler creates a new install handler.
func NewInstallHandler(base *Handler, catalog *timezone.Catalog, sessions *session.Manager) *InstallHandler {
	return &InstallHandler{Handler: base, catalog: catalog, sessions: sessions}
}

// RegisterRoutes registers install routes.
func (h *InstallHandler) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.NoStore)
		r.Get("/install", h.Index)
		r.Post("/install", h.Submit)
	})
}

// orchestrator is created per request so the installed check runs against
// the current state of the configuration record.
func (h *InstallHandler) orchestrator() (*install.Orchestrator, error) {
	return install.New(install.Deps{
		Config:    h.cfg,
		Catalog:   h.catalog,
		Bookmarks: h.repo,
	})
}

// Index runs the session check and renders the install form.
func (h *InstallHandler) Index(w http.ResponseWriter, r *http.Request) {
	o, err := h.orchestrator()
	if err != nil {
		h.fail(w, r, err)
		return
	}

	sess := h.sessions.Load(r)
	_, testSession := r.URL.Query()[install.TestSessionParam]

	out, err := o.Index(sess, install.IndexRequest{
		TestSession:    testSession,
		AcceptLanguage: r.Header.Get("Accept-Language"),
	})
	if saveErr := sess.Save(r, w); saveErr != nil {
		slog.Warn("Failed to save session", "path", sess.SavePath(), "error", saveErr)
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, out)
}

// Submit derives and writes the configuration from the install form.
func (h *InstallHandler) Submit(w http.ResponseWriter, r *http.Request) {
	o, err := h.orchestrator()
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderError(w, http.StatusBadRequest, "Invalid form submission: "+err.Error(), nil)
		return
	}

	out, err := o.Submit(r.Context(), install.Input{
		Continent:   r.PostForm.Get("continent"),
		City:        r.PostForm.Get("city"),
		Login:       r.PostForm.Get("setlogin"),
		Password:    r.PostForm.Get("setpassword"),
		Title:       r.PostForm.Get("title"),
		Language:    r.PostForm.Get("language"),
		UpdateCheck: r.PostForm.Get("updateCheck"),
		EnableAPI:   r.PostForm.Get("enableApi"),
		IndexURL:    urlutil.IndexURL(r),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, out)
}

func (h *InstallHandler) respond(w http.ResponseWriter, r *http.Request, out install.Outcome) {
	switch out.Kind {
	case install.Redirect:
		http.Redirect(w, r, out.Location, http.StatusSeeOther)
	case install.Render:
		h.render(w, http.StatusOK, out.Template, out.Fields)
	case install.ErrorPage:
		h.renderError(w, http.StatusInternalServerError, out.Message, out.Details)
	default:
		slog.Error("Unknown install outcome", "kind", out.Kind)
		h.renderError(w, http.StatusInternalServerError, "Unexpected installation state.", nil)
	}
}

func (h *InstallHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var ie *install.Error
	if !errors.As(err, &ie) {
		slog.Error("Install request failed", "error", err)
		h.renderError(w, http.StatusInternalServerError, "An unexpected error occurred.", nil)
		return
	}

	switch ie.Kind {
	case install.AlreadyInstalled:
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	case install.ResourcePermission, install.SessionMisconfigured:
		slog.Warn("Install precondition failed", "kind", ie.Kind.String(), "details", ie.Details)
	}

	out := install.ErrorOutcome(ie)
	h.renderError(w, statusFor(ie.Kind), out.Message, out.Details)
}

func statusFor(k install.Kind) int {
	switch k {
	case install.SessionMisconfigured:
		return http.StatusOK
	default:
		return http.StatusInternalServerError
	}
}
