package requests

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"reelqueue/internal/services"
)

// snapshotVersion is the snapshot document version. Restores check it so the
// format can evolve independently of the database schema.
const snapshotVersion = 1

// Snapshot is a self-describing export of the full ordered request sequence.
type Snapshot struct {
	Version  int              `json:"version"`
	SavedAt  time.Time        `json:"saved_at"`
	Requests []SnapshotRecord `json:"requests"`
}

// SnapshotRecord is one queued request in a snapshot.
type SnapshotRecord struct {
	ID        string    `json:"id,omitempty"`
	Requestor string    `json:"requestor"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// Snapshot serializes the full ordered request sequence.
func (s *Store) Snapshot(ctx context.Context) ([]byte, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, services.Wrap(services.ErrPersistence, "requests", "snapshot", "list queue", err)
	}

	doc := Snapshot{Version: snapshotVersion, SavedAt: time.Now().UTC()}
	doc.Requests = make([]SnapshotRecord, 0, len(list))
	for _, request := range list {
		doc.Requests = append(doc.Requests, SnapshotRecord{
			ID:        request.ID,
			Requestor: request.Requestor,
			Title:     request.Title,
			CreatedAt: request.CreatedAt,
		})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, services.Wrap(services.ErrPersistence, "requests", "snapshot", "marshal", err)
	}
	return data, nil
}

// Restore replaces the queue contents with the requests from a snapshot,
// preserving their order. Records without an ID (hand-edited snapshots) are
// assigned fresh ones.
func (s *Store) Restore(ctx context.Context, data []byte) (int, error) {
	var doc Snapshot
	if err := json.Unmarshal(data, &doc); err != nil {
		return 0, services.Wrap(services.ErrPersistence, "requests", "restore", "parse snapshot", err)
	}
	if doc.Version != snapshotVersion {
		return 0, services.Wrap(services.ErrPersistence, "requests", "restore",
			fmt.Sprintf("snapshot version %d, expected %d", doc.Version, snapshotVersion), nil)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, services.Wrap(services.ErrPersistence, "requests", "restore", "begin tx", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM requests`); err != nil {
		return 0, services.Wrap(services.ErrPersistence, "requests", "restore", "clear queue", err)
	}

	for _, record := range doc.Requests {
		id := record.ID
		if id == "" {
			id = uuid.NewString()
		}
		created := record.CreatedAt
		if created.IsZero() {
			created = time.Now().UTC()
		}
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO requests (request_id, requestor, title, created_at) VALUES (?, ?, ?, ?)`,
			id,
			record.Requestor,
			record.Title,
			created.UTC().Format(time.RFC3339Nano),
		); err != nil {
			return 0, services.Wrap(services.ErrPersistence, "requests", "restore",
				fmt.Sprintf("insert %q", record.Title), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, services.Wrap(services.ErrPersistence, "requests", "restore", "commit", err)
	}
	return len(doc.Requests), nil
}

// WriteSnapshot writes the current queue to path atomically. Used on graceful
// shutdown and by the export command.
func (s *Store) WriteSnapshot(ctx context.Context, path string) error {
	data, err := s.Snapshot(ctx)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return services.Wrap(services.ErrPersistence, "requests", "write snapshot", "create directory", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return services.Wrap(services.ErrPersistence, "requests", "write snapshot", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return services.Wrap(services.ErrPersistence, "requests", "write snapshot", "rename", err)
	}
	return nil
}

// LoadSnapshot restores the queue from a snapshot file.
func (s *Store) LoadSnapshot(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, services.Wrap(services.ErrPersistence, "requests", "load snapshot", path, err)
	}
	return s.Restore(ctx, data)
}
