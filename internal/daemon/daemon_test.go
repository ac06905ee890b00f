package daemon_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"reelqueue/internal/daemon"
	"reelqueue/internal/logging"
	"reelqueue/internal/plex"
	"reelqueue/internal/requests"
	"reelqueue/internal/services"
	"reelqueue/internal/testsupport"
)

type stubCatalog struct {
	onServer map[string]bool
	existErr error
	results  map[string][]plex.MediaItem
}

func (s *stubCatalog) Exists(_ context.Context, _, title string) (bool, error) {
	if s.existErr != nil {
		return false, s.existErr
	}
	return s.onServer[title], nil
}

func (s *stubCatalog) Search(_ context.Context, keyword string) ([]plex.MediaItem, error) {
	return s.results[keyword], nil
}

func (s *stubCatalog) SameDirector(context.Context, string, string) (plex.Director, []plex.MediaItem, error) {
	return plex.Director{}, nil, nil
}
func (s *stubCatalog) Sessions(context.Context) ([]plex.Session, error)       { return nil, nil }
func (s *stubCatalog) TerminateSession(context.Context, string, string) error { return nil }
func (s *stubCatalog) SetRemotePublish(context.Context, bool) error           { return nil }

func newTestDaemon(t *testing.T, catalog plex.Client) *daemon.Daemon {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	d, err := daemon.New(cfg, store, catalog, nil, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	return d
}

func TestDaemonStartStop(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	d, err := daemon.New(cfg, store, &stubCatalog{}, nil, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	status := d.Status(ctx)
	if !status.Running {
		t.Fatal("expected daemon to report running")
	}

	// Second start should fail
	if err := d.Start(ctx); err == nil {
		t.Fatal("expected second start to fail")
	}

	d.Stop()
	status = d.Status(ctx)
	if status.Running {
		t.Fatal("expected daemon to be stopped")
	}

	// Stop flushed the queue snapshot.
	if _, err := os.Stat(cfg.SnapshotPath()); err != nil {
		t.Fatalf("expected shutdown snapshot at %s: %v", cfg.SnapshotPath(), err)
	}
}

func TestSubmitRequestAdmits(t *testing.T) {
	d := newTestDaemon(t, &stubCatalog{})
	ctx := context.Background()

	request, disposition, err := d.SubmitRequest(ctx, "alice", "Psych")
	if err != nil {
		t.Fatalf("SubmitRequest: %v", err)
	}
	if !disposition.Admitted() {
		t.Fatalf("expected admission, got %s", disposition)
	}
	if request == nil || request.Title != "Psych" {
		t.Fatalf("unexpected request: %+v", request)
	}
}

func TestSubmitRequestKeepsWhitespaceDistinct(t *testing.T) {
	d := newTestDaemon(t, &stubCatalog{})
	ctx := context.Background()

	if _, _, err := d.SubmitRequest(ctx, "alice", "Psych "); err != nil {
		t.Fatalf("SubmitRequest: %v", err)
	}
	request, disposition, err := d.SubmitRequest(ctx, "bob", "Psych")
	if err != nil {
		t.Fatalf("SubmitRequest: %v", err)
	}
	if !disposition.Admitted() {
		t.Fatalf("expected distinct title admitted, got disposition %q", disposition)
	}
	if request.Title != "Psych" {
		t.Fatalf("title must be stored as received, got %q", request.Title)
	}

	// Removal is exact too: the padded entry stays when the bare title goes.
	if err := d.RemoveRequest(ctx, "Psych"); err != nil {
		t.Fatalf("RemoveRequest: %v", err)
	}
	remaining, err := d.ListRequests(ctx)
	if err != nil {
		t.Fatalf("ListRequests: %v", err)
	}
	if len(remaining) != 1 || remaining[0].Title != "Psych " {
		t.Fatalf("expected padded title to remain, got %+v", remaining)
	}
}

func TestSubmitRequestRejectsTitleOnServer(t *testing.T) {
	d := newTestDaemon(t, &stubCatalog{onServer: map[string]bool{"Psych": true}})
	ctx := context.Background()

	request, disposition, err := d.SubmitRequest(ctx, "alice", "Psych")
	if err != nil {
		t.Fatalf("SubmitRequest: %v", err)
	}
	if disposition != requests.DispositionOnServer {
		t.Fatalf("expected on-server rejection, got %s", disposition)
	}
	if request != nil {
		t.Fatalf("expected no queued request, got %+v", request)
	}

	list, err := d.ListRequests(ctx)
	if err != nil {
		t.Fatalf("ListRequests: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty queue, got %d entries", len(list))
	}
}

func TestSubmitRequestRejectsAlreadyQueued(t *testing.T) {
	d := newTestDaemon(t, &stubCatalog{})
	ctx := context.Background()

	if _, _, err := d.SubmitRequest(ctx, "alice", "Psych"); err != nil {
		t.Fatalf("SubmitRequest: %v", err)
	}

	_, disposition, err := d.SubmitRequest(ctx, "bob", "Psych")
	if err != nil {
		t.Fatalf("SubmitRequest: %v", err)
	}
	if disposition != requests.DispositionQueued {
		t.Fatalf("expected already-queued rejection, got %s", disposition)
	}
}

func TestSubmitRequestBlocksOnCatalogFailure(t *testing.T) {
	failure := services.Wrap(services.ErrCatalogUnavailable, "plex", "/library/sections", "request failed", errors.New("connection refused"))
	d := newTestDaemon(t, &stubCatalog{existErr: failure})

	_, _, err := d.SubmitRequest(context.Background(), "alice", "Psych")
	if !services.IsUnavailable(err) {
		t.Fatalf("expected catalog unavailable error, got %v", err)
	}
}

func TestSubmitRequestValidatesTitle(t *testing.T) {
	d := newTestDaemon(t, &stubCatalog{})

	_, _, err := d.SubmitRequest(context.Background(), "alice", "   ")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRemoveRequest(t *testing.T) {
	d := newTestDaemon(t, &stubCatalog{})
	ctx := context.Background()

	if _, _, err := d.SubmitRequest(ctx, "alice", "Psych"); err != nil {
		t.Fatalf("SubmitRequest: %v", err)
	}

	if err := d.RemoveRequest(ctx, "Psych"); err != nil {
		t.Fatalf("RemoveRequest: %v", err)
	}
	if err := d.RemoveRequest(ctx, "Psych"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for absent title, got %v", err)
	}
}

func TestReconcileNowResolvesAvailableTitle(t *testing.T) {
	catalog := &stubCatalog{results: map[string][]plex.MediaItem{
		"Psych": {{RatingKey: "1", Title: "Psych", Kind: plex.KindShow}},
	}}
	d := newTestDaemon(t, catalog)
	ctx := context.Background()

	if _, _, err := d.SubmitRequest(ctx, "alice", "Psych"); err != nil {
		t.Fatalf("SubmitRequest: %v", err)
	}

	resolved, err := d.ReconcileNow(ctx)
	if err != nil {
		t.Fatalf("ReconcileNow: %v", err)
	}
	if resolved == nil || resolved.Title != "Psych" {
		t.Fatalf("expected Psych resolved, got %+v", resolved)
	}

	list, err := d.ListRequests(ctx)
	if err != nil {
		t.Fatalf("ListRequests: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty queue after resolution, got %d", len(list))
	}
}

func TestExportImportSnapshotRoundTrip(t *testing.T) {
	d := newTestDaemon(t, &stubCatalog{})
	ctx := context.Background()

	if _, _, err := d.SubmitRequest(ctx, "alice", "Psych"); err != nil {
		t.Fatalf("SubmitRequest: %v", err)
	}

	path, err := d.ExportSnapshot(ctx, "")
	if err != nil {
		t.Fatalf("ExportSnapshot: %v", err)
	}

	if _, err := d.ClearRequests(ctx); err != nil {
		t.Fatalf("ClearRequests: %v", err)
	}

	restored, err := d.ImportSnapshot(ctx, path)
	if err != nil {
		t.Fatalf("ImportSnapshot: %v", err)
	}
	if restored != 1 {
		t.Fatalf("expected 1 restored request, got %d", restored)
	}
}

func TestTestNotificationWithoutTopic(t *testing.T) {
	d := newTestDaemon(t, &stubCatalog{})

	sent, detail, err := d.TestNotification(context.Background())
	if err != nil {
		t.Fatalf("TestNotification: %v", err)
	}
	if sent {
		t.Fatal("expected no delivery without a configured topic")
	}
	if detail == "" {
		t.Fatal("expected explanatory detail")
	}
}
