package requests

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"reelqueue/internal/config"
	"reelqueue/internal/logging"
)

// Store manages request persistence backed by SQLite. Insertion order is the
// display order: requests list first-requested first.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the request database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.DatabasePath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// OpenWithRecovery opens the request database, falling back to a fresh empty
// one when the existing file cannot be read. The unreadable file is moved
// aside rather than deleted so an operator can recover it. A schema version
// mismatch is not recovered from: that refusal carries export guidance and
// must reach the operator.
func OpenWithRecovery(cfg *config.Config, logger *slog.Logger) (*Store, error) {
	store, err := Open(cfg)
	if err == nil {
		return store, nil
	}
	if errors.Is(err, ErrSchemaMismatch) {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	dbPath := cfg.DatabasePath()
	asidePath := fmt.Sprintf("%s.broken-%s", dbPath, time.Now().UTC().Format("20060102T150405"))
	if renameErr := os.Rename(dbPath, asidePath); renameErr != nil {
		return nil, fmt.Errorf("open request database: %w (move aside also failed: %v)", err, renameErr)
	}
	for _, sidecar := range []string{dbPath + "-wal", dbPath + "-shm"} {
		_ = os.Remove(sidecar)
	}

	logger.Error("request database unreadable, starting with an empty queue",
		logging.String("db_path", dbPath),
		logging.String("moved_to", asidePath),
		logging.Error(err),
		logging.String(logging.FieldEventType, "database_recovered"),
		logging.String(logging.FieldErrorHint, "inspect the moved file and re-import a snapshot if one exists"),
	)
	return Open(cfg)
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Add appends a new request. Titles are matched byte-for-byte; a duplicate
// returns ErrDuplicateTitle and leaves the queue unchanged.
func (s *Store) Add(ctx context.Context, requestor, title string) (*Request, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrEmptyTitle
	}

	now := time.Now().UTC()
	requestID := uuid.NewString()

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO requests (request_id, requestor, title, created_at) VALUES (?, ?, ?, ?)`,
		requestID,
		requestor,
		title,
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateTitle
		}
		return nil, fmt.Errorf("insert request: %w", err)
	}

	return &Request{ID: requestID, Requestor: requestor, Title: title, CreatedAt: now}, nil
}

// GetByTitle fetches the request with the exact title, or nil when absent.
func (s *Store) GetByTitle(ctx context.Context, title string) (*Request, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT request_id, requestor, title, created_at FROM requests WHERE title = ?`,
		title,
	)
	request, err := scanRequest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get request: %w", err)
	}
	return request, nil
}

// List returns all pending requests in insertion order.
func (s *Store) List(ctx context.Context) ([]*Request, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT request_id, requestor, title, created_at FROM requests ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	defer rows.Close()

	var result []*Request
	for rows.Next() {
		request, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, request)
	}
	return result, rows.Err()
}

// RemoveByTitle deletes the request whose title matches exactly. Returns false
// when no such request exists. Removal is the single serialization point for
// the reconciler and admin evictions racing on the same title: exactly one
// caller observes true.
func (s *Store) RemoveByTitle(ctx context.Context, title string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM requests WHERE title = ?`, title)
	if err != nil {
		return false, fmt.Errorf("delete request: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// Count returns the number of pending requests.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM requests`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count requests: %w", err)
	}
	return count, nil
}

// Clear removes all requests and reports how many were deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM requests`)
	if err != nil {
		return 0, fmt.Errorf("clear requests: %w", err)
	}
	return res.RowsAffected()
}

// CheckHealth returns diagnostic information about the request database.
func (s *Store) CheckHealth(ctx context.Context) (DatabaseHealth, error) {
	health := DatabaseHealth{DBPath: s.path, SchemaVersion: schemaVersion}

	if s.path == "" {
		return health, errors.New("request database path is unknown")
	}

	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			health.DatabaseExists = false
			return health, nil
		}
		return health, fmt.Errorf("stat request database: %w", err)
	}
	if info.IsDir() {
		return health, fmt.Errorf("request database path %q is a directory", s.path)
	}
	health.DatabaseExists = true

	if s.db == nil {
		return health, errors.New("request database connection unavailable")
	}

	connCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(connCtx); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("ping request database: %w", err)
	}
	health.DatabaseReadable = true

	row := s.db.QueryRowContext(connCtx, "SELECT COUNT(*) FROM requests")
	if err := row.Scan(&health.TotalRequests); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("count requests: %w", err)
	}

	row = s.db.QueryRowContext(connCtx, "PRAGMA integrity_check")
	var integrityResult string
	if err := row.Scan(&integrityResult); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("integrity check: %w", err)
	}
	health.IntegrityCheck = strings.EqualFold(integrityResult, "ok")

	return health, nil
}

func scanRequest(scanner interface{ Scan(dest ...any) error }) (*Request, error) {
	var (
		requestID  string
		requestor  string
		title      string
		createdRaw string
	)
	if err := scanner.Scan(&requestID, &requestor, &title, &createdRaw); err != nil {
		return nil, err
	}

	request := &Request{ID: requestID, Requestor: requestor, Title: title}
	if created, err := parseTimeString(createdRaw); err == nil {
		request.CreatedAt = created
	}
	return request, nil
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
