package ipc_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"reelqueue/internal/daemon"
	"reelqueue/internal/ipc"
	"reelqueue/internal/logging"
	"reelqueue/internal/plex"
	"reelqueue/internal/testsupport"
)

type stubCatalog struct {
	sessions []plex.Session
}

func (s *stubCatalog) Exists(context.Context, string, string) (bool, error) { return false, nil }
func (s *stubCatalog) Search(context.Context, string) ([]plex.MediaItem, error) {
	return []plex.MediaItem{{Title: "Knives Out", Kind: plex.KindMovie, Year: 2019}}, nil
}
func (s *stubCatalog) SameDirector(context.Context, string, string) (plex.Director, []plex.MediaItem, error) {
	return plex.Director{ID: "9", Tag: "Rian Johnson"}, []plex.MediaItem{{Title: "Looper", Kind: plex.KindMovie}}, nil
}
func (s *stubCatalog) Sessions(context.Context) ([]plex.Session, error) {
	return s.sessions, nil
}
func (s *stubCatalog) TerminateSession(context.Context, string, string) error { return nil }
func (s *stubCatalog) SetRemotePublish(context.Context, bool) error           { return nil }

func startServer(t *testing.T) (*ipc.Client, *daemon.Daemon) {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	logger := logging.NewNop()
	catalog := &stubCatalog{sessions: []plex.Session{
		{SessionID: "1", Title: "Pilot", GrandparentTitle: "Psych", User: "alice"},
	}}
	d, err := daemon.New(cfg, store, catalog, nil, logger)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() {
		d.Close()
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	socket := filepath.Join(cfg.Paths.DataDir, "reelqueued.sock")
	if err := os.MkdirAll(cfg.Paths.DataDir, 0o755); err != nil {
		t.Fatalf("mkdir data dir: %v", err)
	}
	srv, err := ipc.NewServer(ctx, socket, d, logger)
	if err != nil {
		if strings.Contains(err.Error(), "operation not permitted") {
			t.Skipf("skipping IPC server test: %v", err)
		}
		t.Fatalf("ipc.NewServer: %v", err)
	}
	srv.Serve()
	t.Cleanup(func() {
		srv.Close()
	})

	time.Sleep(50 * time.Millisecond)

	client, err := ipc.Dial(socket)
	if err != nil {
		t.Fatalf("ipc.Dial: %v", err)
	}
	t.Cleanup(func() {
		client.Close()
	})
	return client, d
}

func TestIPCRequestLifecycle(t *testing.T) {
	client, _ := startServer(t)

	submit, err := client.Submit("alice", "Psych")
	if err != nil {
		t.Fatalf("Submit RPC failed: %v", err)
	}
	if submit.Disposition != "admitted" {
		t.Fatalf("expected admission, got %q", submit.Disposition)
	}
	if submit.Request == nil || submit.Request.Title != "Psych" {
		t.Fatalf("unexpected request payload: %+v", submit.Request)
	}

	dup, err := client.Submit("bob", "Psych")
	if err != nil {
		t.Fatalf("duplicate Submit RPC failed: %v", err)
	}
	if dup.Disposition != "queued" {
		t.Fatalf("expected already-queued disposition, got %q", dup.Disposition)
	}

	list, err := client.List()
	if err != nil {
		t.Fatalf("List RPC failed: %v", err)
	}
	if len(list.Requests) != 1 || list.Requests[0].Requestor != "alice" {
		t.Fatalf("unexpected list: %+v", list.Requests)
	}

	if _, err := client.Remove("Psych"); err != nil {
		t.Fatalf("Remove RPC failed: %v", err)
	}
	if _, err := client.Remove("Psych"); err == nil {
		t.Fatal("expected error removing absent title")
	}
}

func TestIPCCatalogAndSessions(t *testing.T) {
	client, _ := startServer(t)

	search, err := client.Search("knives")
	if err != nil {
		t.Fatalf("Search RPC failed: %v", err)
	}
	if len(search.Items) != 1 || search.Items[0].Kind != "Movie" {
		t.Fatalf("unexpected search items: %+v", search.Items)
	}

	director, err := client.SameDirector("Knives Out")
	if err != nil {
		t.Fatalf("SameDirector RPC failed: %v", err)
	}
	if director.Director != "Rian Johnson" || len(director.Items) != 1 {
		t.Fatalf("unexpected director response: %+v", director)
	}

	sessions, err := client.Sessions()
	if err != nil {
		t.Fatalf("Sessions RPC failed: %v", err)
	}
	if len(sessions.Sessions) != 1 || sessions.Sessions[0].Show != "Psych" {
		t.Fatalf("unexpected sessions: %+v", sessions.Sessions)
	}

	stopped, err := client.StopSession("Psych", "")
	if err != nil {
		t.Fatalf("StopSession RPC failed: %v", err)
	}
	if stopped.Session.Show != "Psych" {
		t.Fatalf("unexpected stopped session: %+v", stopped.Session)
	}

	reset, err := client.ResetConnection()
	if err != nil {
		t.Fatalf("ResetConnection RPC failed: %v", err)
	}
	if !reset.Reset {
		t.Fatal("expected reset acknowledgement")
	}
}

func TestIPCStatusAndHealth(t *testing.T) {
	client, d := startServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := d.Start(ctx); err != nil {
		t.Fatalf("daemon.Start: %v", err)
	}

	status, err := client.Status()
	if err != nil {
		t.Fatalf("Status RPC failed: %v", err)
	}
	if !status.Running {
		t.Fatal("expected running daemon in status")
	}
	if status.PID != os.Getpid() {
		t.Fatalf("expected pid %d, got %d", os.Getpid(), status.PID)
	}

	health, err := client.DatabaseHealth()
	if err != nil {
		t.Fatalf("DatabaseHealth RPC failed: %v", err)
	}
	if !health.DatabaseExists || !health.DatabaseReadable {
		t.Fatalf("unexpected health: %+v", health)
	}

	stop, err := client.Stop()
	if err != nil {
		t.Fatalf("Stop RPC failed: %v", err)
	}
	if !stop.Stopped {
		t.Fatal("expected stop acknowledgement")
	}
}

func TestIPCSnapshotRoundTrip(t *testing.T) {
	client, _ := startServer(t)

	if _, err := client.Submit("alice", "Psych"); err != nil {
		t.Fatalf("Submit RPC failed: %v", err)
	}

	exported, err := client.SnapshotExport("")
	if err != nil {
		t.Fatalf("SnapshotExport RPC failed: %v", err)
	}
	if exported.Path == "" {
		t.Fatal("expected snapshot path")
	}

	if _, err := client.Clear(); err != nil {
		t.Fatalf("Clear RPC failed: %v", err)
	}

	imported, err := client.SnapshotImport(exported.Path)
	if err != nil {
		t.Fatalf("SnapshotImport RPC failed: %v", err)
	}
	if imported.Restored != 1 {
		t.Fatalf("expected 1 restored request, got %d", imported.Restored)
	}
}
