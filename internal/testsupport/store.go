package testsupport

import (
	"context"
	"testing"

	"reelqueue/internal/config"
	"reelqueue/internal/requests"
)

// MustOpenStore opens a requests.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *requests.Store {
	t.Helper()

	store, err := requests.Open(cfg)
	if err != nil {
		t.Fatalf("requests.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// SeedRequest adds a queued request for tests using the provided store.
func SeedRequest(t testing.TB, store *requests.Store, requestor, title string) *requests.Request {
	t.Helper()

	req, err := store.Add(context.Background(), requestor, title)
	if err != nil {
		t.Fatalf("store.Add: %v", err)
	}
	return req
}
