package install

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ashureev/bookmarkd/internal/appconf"
	"github.com/ashureev/bookmarkd/internal/config"
	"github.com/ashureev/bookmarkd/internal/i18n"
	"github.com/ashureev/bookmarkd/internal/permissions"
	"github.com/ashureev/bookmarkd/internal/timezone"
)

// BookmarkStore is the part of the bookmark store the installer needs.
type BookmarkStore interface {
	Count(ctx context.Context) (int, error)
	Initialize(ctx context.Context) error
}

// Deps are the collaborators of an Orchestrator. Optional hooks default to
// the real filesystem implementations.
type Deps struct {
	Config    *config.Config
	Catalog   *timezone.Catalog
	Bookmarks BookmarkStore

	// Installed reports whether a record exists at path.
	Installed func(path string) bool
	// CheckPermissions lists inaccessible resources.
	CheckPermissions func() []string
	// WriteRecord persists the record at path.
	WriteRecord func(path string, rec *appconf.Record) error
}

// Orchestrator sequences one install request.
type Orchestrator struct {
	cfg         *config.Config
	catalog     *timezone.Catalog
	bookmarks   BookmarkStore
	builder     *Builder
	permissions func() []string
	write       func(path string, rec *appconf.Record) error
}

// IndexRequest is a GET of the install page.
type IndexRequest struct {
	// TestSession is true when the test_session parameter is present.
	TestSession bool
	// AcceptLanguage pre-selects the language offered on the form.
	AcceptLanguage string
}

// New returns an orchestrator, or an AlreadyInstalled error when the
// configuration record exists. No other collaborator is touched in that case.
func New(d Deps) (*Orchestrator, error) {
	installed := d.Installed
	if installed == nil {
		installed = appconf.Exists
	}
	if installed(d.Config.ConfigPath) {
		return nil, &Error{Kind: AlreadyInstalled, Message: "the application is already installed"}
	}

	o := &Orchestrator{
		cfg:         d.Config,
		catalog:     d.Catalog,
		bookmarks:   d.Bookmarks,
		permissions: d.CheckPermissions,
		write:       d.WriteRecord,
	}
	if o.permissions == nil {
		resources := permissions.FromConfig(d.Config)
		o.permissions = func() []string { return permissions.Check(resources) }
	}
	if o.write == nil {
		o.write = appconf.Write
	}
	o.builder = NewBuilder(d.Catalog, func() *appconf.Record { return appconf.Defaults(d.Config) })
	return o, nil
}

// Index handles a GET of the install page. Until sessions are confirmed to
// persist, it answers with redirects (or the diagnostic error); afterwards it
// renders the install form.
func (o *Orchestrator) Index(sess SessionStore, req IndexRequest) (Outcome, error) {
	if errs := o.permissions(); len(errs) > 0 {
		return Outcome{}, &Error{
			Kind:    ResourcePermission,
			Message: "Insufficient permissions:",
			Details: errs,
		}
	}

	switch Probe(sess, req.TestSession) {
	case ProbeWriteAndReload:
		return RedirectTo(installProbePath), nil
	case ProbeFailed:
		return Outcome{}, &Error{
			Kind:    SessionMisconfigured,
			Message: fmt.Sprintf(sessionDiagnostic, sess.SavePath()),
		}
	case ProbeStripMarker:
		return RedirectTo(installPath), nil
	}

	return RenderTemplate(TemplateInstall, o.formFields(req)), nil
}

const sessionDiagnostic = "Sessions do not seem to work correctly on your server. " +
	"Make sure the session directory is set correctly and that the server has write access to it. " +
	"It currently points to %s. " +
	"On some browsers, accessing your server via a hostname like 'localhost' " +
	"or any custom hostname without a dot causes cookie storage to fail. " +
	"We recommend accessing your server via its IP address or Fully Qualified Domain Name."

func (o *Orchestrator) formFields(req IndexRequest) map[string]any {
	return map[string]any{
		"continents": o.catalog.Continents,
		"cities":     o.catalog.Cities,
		"continent":  o.catalog.Default.Continent,
		"city":       o.catalog.Default.City,
		"languages":  i18n.Available(),
		"language":   i18n.Preferred(req.AcceptLanguage),
	}
}

// Submit handles a POST of the install form. The form is only ever served
// after the session check succeeded, so the session is not consulted here.
func (o *Orchestrator) Submit(ctx context.Context, in Input) (Outcome, error) {
	if !i18n.IsAvailable(in.Language) {
		slog.Warn("Unknown language submitted, storing it as is", "language", in.Language)
	}
	rec := o.builder.Derive(in)

	if err := o.write(o.cfg.ConfigPath, rec); err != nil {
		slog.Error("Failed to write configuration file after installation",
			"path", o.cfg.ConfigPath, "error", err)
		return Outcome{}, &Error{Kind: PersistenceFailure, Message: err.Error(), Err: err}
	}
	slog.Info("Configuration written", "path", o.cfg.ConfigPath,
		"login", rec.String("credentials.login"), "timezone", rec.String("general.timezone"))

	n, err := o.bookmarks.Count(ctx)
	if err != nil {
		slog.Error("Failed to count bookmarks after installation", "error", err)
		return Outcome{}, &Error{Kind: SeedFailure, Message: err.Error(), Err: err}
	}
	if n == 0 {
		if err := o.bookmarks.Initialize(ctx); err != nil {
			slog.Error("Failed to seed bookmarks after installation", "error", err)
			return Outcome{}, &Error{Kind: SeedFailure, Message: err.Error(), Err: err}
		}
		slog.Info("Seeded bookmark store")
	}

	return RedirectTo(applicationRootURL), nil
}
