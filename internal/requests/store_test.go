package requests_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"reelqueue/internal/logging"
	"reelqueue/internal/requests"
	"reelqueue/internal/testsupport"
)

func TestAddRejectsDuplicateTitle(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	first, err := store.Add(ctx, "alice", "The Thin Man")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if first.ID == "" {
		t.Fatal("expected generated request id")
	}

	if _, err := store.Add(ctx, "bob", "The Thin Man"); !errors.Is(err, requests.ErrDuplicateTitle) {
		t.Fatalf("expected ErrDuplicateTitle, got %v", err)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected single row after duplicate submission, got %d", count)
	}
}

func TestAddRejectsEmptyTitle(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))

	if _, err := store.Add(context.Background(), "alice", "   "); !errors.Is(err, requests.ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
}

func TestListPreservesInsertionOrder(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	titles := []string{"Psych", "Monk", "Burn Notice"}
	for _, title := range titles {
		testsupport.SeedRequest(t, store, "alice", title)
	}

	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != len(titles) {
		t.Fatalf("expected %d requests, got %d", len(titles), len(list))
	}
	for i, title := range titles {
		if list[i].Title != title {
			t.Fatalf("position %d: expected %q, got %q", i, title, list[i].Title)
		}
	}
}

func TestRemoveByTitle(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	testsupport.SeedRequest(t, store, "alice", "Psych")

	removed, err := store.RemoveByTitle(ctx, "Psych")
	if err != nil {
		t.Fatalf("RemoveByTitle: %v", err)
	}
	if !removed {
		t.Fatal("expected removal of queued title")
	}

	removed, err = store.RemoveByTitle(ctx, "Psych")
	if err != nil {
		t.Fatalf("RemoveByTitle (absent): %v", err)
	}
	if removed {
		t.Fatal("expected no-op removal for absent title")
	}
}

func TestGetByTitleReturnsNilWhenAbsent(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))

	req, err := store.GetByTitle(context.Background(), "Nothing Here")
	if err != nil {
		t.Fatalf("GetByTitle: %v", err)
	}
	if req != nil {
		t.Fatalf("expected nil for absent title, got %+v", req)
	}
}

func TestClearEmptiesQueue(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	testsupport.SeedRequest(t, store, "alice", "Psych")
	testsupport.SeedRequest(t, store, "bob", "Monk")

	cleared, err := store.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if cleared != 2 {
		t.Fatalf("expected 2 cleared rows, got %d", cleared)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty queue, got %d rows", count)
	}
}

func TestAddKeepsWhitespaceDistinctTitles(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	if _, err := store.Add(ctx, "alice", "Psych "); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := store.Add(ctx, "bob", "Psych"); err != nil {
		t.Fatalf("padded and bare titles must coexist, got %v", err)
	}

	removed, err := store.RemoveByTitle(ctx, "Psych")
	if err != nil {
		t.Fatalf("RemoveByTitle: %v", err)
	}
	if !removed {
		t.Fatal("expected exact title removed")
	}
	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].Title != "Psych " {
		t.Fatalf("expected padded title untouched, got %+v", list)
	}
}

func TestOpenWithRecoveryMovesUnreadableDatabase(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	if err := os.WriteFile(cfg.DatabasePath(), []byte("not a database"), 0o644); err != nil {
		t.Fatalf("write garbage db: %v", err)
	}

	store, err := requests.OpenWithRecovery(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("OpenWithRecovery: %v", err)
	}
	defer store.Close()

	count, err := store.Count(context.Background())
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty queue after recovery, got %d", count)
	}

	moved, err := filepath.Glob(cfg.DatabasePath() + ".broken-*")
	if err != nil {
		t.Fatalf("Glob: %v", err)
	}
	if len(moved) != 1 {
		t.Fatalf("expected unreadable database moved aside, got %v", moved)
	}
}

func TestCheckHealthReportsRowCount(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))

	testsupport.SeedRequest(t, store, "alice", "Psych")

	health, err := store.CheckHealth(context.Background())
	if err != nil {
		t.Fatalf("CheckHealth: %v", err)
	}
	if !health.DatabaseExists || !health.DatabaseReadable || !health.IntegrityCheck {
		t.Fatalf("expected healthy store: %+v", health)
	}
	if health.TotalRequests != 1 {
		t.Fatalf("expected 1 queued request, got %d", health.TotalRequests)
	}
}
