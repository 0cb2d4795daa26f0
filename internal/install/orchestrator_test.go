package install

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ashureev/bookmarkd/internal/appconf"
)

func newTestOrchestrator(t *testing.T, bookmarks *fakeBookmarks, w *recordingWriter) *Orchestrator {
	t.Helper()
	o, err := New(Deps{
		Config:           testConfig(t),
		Catalog:          testCatalog,
		Bookmarks:        bookmarks,
		CheckPermissions: func() []string { return nil },
		WriteRecord:      w.write,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return o
}

func TestNewAlreadyInstalled(t *testing.T) {
	called := false
	_, err := New(Deps{
		Config:           testConfig(t),
		Installed:        func(string) bool { return true },
		CheckPermissions: func() []string { called = true; return nil },
	})
	if KindOf(err) != AlreadyInstalled {
		t.Fatalf("Expected AlreadyInstalled, got %v", err)
	}
	if called {
		t.Error("Expected no other collaborator to run")
	}
}

func TestIndexFreshSessionRedirectsToProbe(t *testing.T) {
	o := newTestOrchestrator(t, &fakeBookmarks{}, &recordingWriter{})
	sess := newFakeSession()

	out, err := o.Index(sess, IndexRequest{})
	if err != nil {
		t.Fatalf("Index failed: %v", err)
	}
	if out.Kind != Redirect || out.Location != "/install?test_session" {
		t.Fatalf("Expected redirect to /install?test_session, got %+v", out)
	}
	if sess.Get(SessionTestedKey) != SessionWorking {
		t.Error("Expected the session marker to be written")
	}
}

func TestIndexRoundTripStripsMarker(t *testing.T) {
	o := newTestOrchestrator(t, &fakeBookmarks{}, &recordingWriter{})
	sess := newFakeSession()
	sess.values[SessionTestedKey] = SessionWorking

	out, err := o.Index(sess, IndexRequest{TestSession: true})
	if err != nil {
		t.Fatalf("Index failed: %v", err)
	}
	if out.Kind != Redirect || out.Location != "/install" {
		t.Fatalf("Expected redirect to /install, got %+v", out)
	}
}

func TestIndexLostSessionIsMisconfigured(t *testing.T) {
	o := newTestOrchestrator(t, &fakeBookmarks{}, &recordingWriter{})

	_, err := o.Index(newFakeSession(), IndexRequest{TestSession: true})
	if KindOf(err) != SessionMisconfigured {
		t.Fatalf("Expected SessionMisconfigured, got %v", err)
	}
	var ie *Error
	errors.As(err, &ie)
	if !strings.Contains(ie.Message, "/var/lib/bookmarkd/sessions") {
		t.Errorf("Expected the session save path in the message, got %q", ie.Message)
	}

	page := ErrorOutcome(ie)
	if page.Kind != ErrorPage || page.Template != TemplateError {
		t.Errorf("Unexpected error outcome %+v", page)
	}
}

func TestIndexPermissionErrorsListEveryProblem(t *testing.T) {
	o := newTestOrchestrator(t, &fakeBookmarks{}, &recordingWriter{})
	o.permissions = func() []string {
		return []string{`"data" directory is not writable`, `"cache" directory is not writable`}
	}
	sess := newFakeSession()

	_, err := o.Index(sess, IndexRequest{})
	var ie *Error
	if !errors.As(err, &ie) || ie.Kind != ResourcePermission {
		t.Fatalf("Expected ResourcePermission, got %v", err)
	}
	if len(ie.Details) != 2 {
		t.Errorf("Expected both problems reported, got %v", ie.Details)
	}
	if sess.sets != 0 {
		t.Error("Expected the session check not to run")
	}
}

func TestIndexConfirmedRendersFormIdempotently(t *testing.T) {
	o := newTestOrchestrator(t, &fakeBookmarks{}, &recordingWriter{})
	sess := newFakeSession()
	sess.values[SessionTestedKey] = SessionWorking

	first, err := o.Index(sess, IndexRequest{AcceptLanguage: "fr"})
	if err != nil {
		t.Fatalf("Index failed: %v", err)
	}
	if first.Kind != Render || first.Template != TemplateInstall {
		t.Fatalf("Expected install form, got %+v", first)
	}
	if first.Fields["continent"] != "Europe" || first.Fields["city"] != "Paris" {
		t.Errorf("Expected Europe/Paris preselected, got %v/%v", first.Fields["continent"], first.Fields["city"])
	}
	if first.Fields["language"] != "fr" {
		t.Errorf("Expected fr preselected, got %v", first.Fields["language"])
	}

	for i := 0; i < 3; i++ {
		again, err := o.Index(sess, IndexRequest{AcceptLanguage: "fr"})
		if err != nil {
			t.Fatalf("Index failed: %v", err)
		}
		if again.Kind != Render || again.Template != first.Template ||
			again.Fields["continent"] != first.Fields["continent"] ||
			again.Fields["language"] != first.Fields["language"] {
			t.Fatalf("Expected identical form on repeat, got %+v", again)
		}
	}
	if sess.sets != 0 {
		t.Error("Expected no session writes once confirmed")
	}
}

func TestHandshakeNeverRendersFormWithBrokenSessions(t *testing.T) {
	o := newTestOrchestrator(t, &fakeBookmarks{}, &recordingWriter{})

	// Every sequence of up to six requests, with and without the marker.
	for mask := 0; mask < 1<<6; mask++ {
		sess := newFakeSession()
		sess.forgetful = true
		for i := 0; i < 6; i++ {
			out, err := o.Index(sess, IndexRequest{TestSession: mask&(1<<i) != 0})
			if err == nil && out.Kind == Render {
				t.Fatalf("Form rendered on request %d of sequence %06b without a working session", i, mask)
			}
		}
	}
}

func TestHandshakeFollowingRedirects(t *testing.T) {
	o := newTestOrchestrator(t, &fakeBookmarks{}, &recordingWriter{})
	sess := newFakeSession()

	req := IndexRequest{}
	for hops := 0; hops < 3; hops++ {
		out, err := o.Index(sess, req)
		if err != nil {
			t.Fatalf("Index failed: %v", err)
		}
		if out.Kind == Render {
			if hops != 2 {
				t.Errorf("Expected the form after two redirects, got it after %d", hops)
			}
			return
		}
		req = IndexRequest{TestSession: strings.Contains(out.Location, TestSessionParam)}
	}
	t.Fatal("Expected the form to be rendered")
}

func TestSubmitWritesRecordAndSeeds(t *testing.T) {
	bookmarks := &fakeBookmarks{}
	w := &recordingWriter{}
	o := newTestOrchestrator(t, bookmarks, w)

	out, err := o.Submit(context.Background(), Input{
		Continent: "Europe",
		City:      "Paris",
		Login:     "alice",
		Password:  "secret",
		Language:  "en",
		IndexURL:  "http://localhost/",
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if out.Kind != Redirect || out.Location != "/" {
		t.Fatalf("Expected redirect to /, got %+v", out)
	}

	if w.path != o.cfg.ConfigPath {
		t.Errorf("Expected write to %q, got %q", o.cfg.ConfigPath, w.path)
	}
	rec := w.written
	if rec.String("general.timezone") != "Europe/Paris" || rec.String("credentials.login") != "alice" {
		t.Errorf("Unexpected record: timezone=%q login=%q", rec.String("general.timezone"), rec.String("credentials.login"))
	}
	if rec.String("resource.datastore") != o.cfg.DBPath {
		t.Error("Expected defaults to be part of the record")
	}
	if bookmarks.initialized != 1 {
		t.Errorf("Expected one seed run, got %d", bookmarks.initialized)
	}
}

func TestSubmitInvalidTimezoneUsesUTC(t *testing.T) {
	w := &recordingWriter{}
	o := newTestOrchestrator(t, &fakeBookmarks{}, w)

	if _, err := o.Submit(context.Background(), Input{Continent: "Europe", City: "Gotham", Login: "alice", Password: "x"}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if got := w.written.String("general.timezone"); got != "UTC" {
		t.Errorf("Expected UTC, got %q", got)
	}
}

func TestSubmitSkipsSeedWhenBookmarksExist(t *testing.T) {
	bookmarks := &fakeBookmarks{count: 3}
	o := newTestOrchestrator(t, bookmarks, &recordingWriter{})

	if _, err := o.Submit(context.Background(), Input{Login: "alice", Password: "x"}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if bookmarks.initialized != 0 {
		t.Error("Expected no seeding when bookmarks exist")
	}
}

func TestSubmitPersistenceFailure(t *testing.T) {
	bookmarks := &fakeBookmarks{}
	w := &recordingWriter{err: errors.New("disk full")}
	o := newTestOrchestrator(t, bookmarks, w)

	out, err := o.Submit(context.Background(), Input{Login: "alice", Password: "x"})
	var ie *Error
	if !errors.As(err, &ie) || ie.Kind != PersistenceFailure {
		t.Fatalf("Expected PersistenceFailure, got %v", err)
	}
	if ie.Message != "disk full" {
		t.Errorf("Expected the raw failure message, got %q", ie.Message)
	}
	if out.Kind == Redirect {
		t.Error("Expected no redirect on persistence failure")
	}
	if bookmarks.initialized != 0 {
		t.Error("Expected no seeding after a failed write")
	}
}

func TestSubmitSeedFailure(t *testing.T) {
	bookmarks := &fakeBookmarks{initErr: errors.New("database is locked")}
	o := newTestOrchestrator(t, bookmarks, &recordingWriter{})

	_, err := o.Submit(context.Background(), Input{Login: "alice", Password: "x"})
	if KindOf(err) != SeedFailure {
		t.Fatalf("Expected SeedFailure, got %v", err)
	}
}

func TestSubmitThenNewReportsAlreadyInstalled(t *testing.T) {
	cfg := testConfig(t)
	o, err := New(Deps{
		Config:           cfg,
		Catalog:          testCatalog,
		Bookmarks:        &fakeBookmarks{},
		CheckPermissions: func() []string { return nil },
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, err := o.Submit(context.Background(), Input{Login: "alice", Password: "secret"}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if !appconf.Exists(cfg.ConfigPath) {
		t.Fatal("Expected the record on disk")
	}

	_, err = New(Deps{Config: cfg, Catalog: testCatalog})
	if KindOf(err) != AlreadyInstalled {
		t.Fatalf("Expected AlreadyInstalled after install, got %v", err)
	}
}
