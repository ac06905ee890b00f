package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"reelqueue/internal/config"
	"reelqueue/internal/logging"
	"reelqueue/internal/notifications"
	"reelqueue/internal/plex"
	"reelqueue/internal/reconciler"
	"reelqueue/internal/requests"
	"reelqueue/internal/sessions"
	"reelqueue/internal/services"
)

const shutdownSnapshotTimeout = 5 * time.Second

// Daemon coordinates the background services and enforces single-instance execution.
type Daemon struct {
	cfg        *config.Config
	logger     *slog.Logger
	store      *requests.Store
	catalog    plex.Client
	notifier   notifications.Service
	reconciler *reconciler.Manager
	sessions   *sessions.Control

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running        bool
	Reconciler     reconciler.StatusSummary
	QueuedCount    int
	DBPath         string
	SnapshotPath   string
	LockFilePath   string
	NtfyConfigured bool
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *requests.Store, catalog plex.Client, notifier notifications.Service, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || catalog == nil {
		return nil, errors.New("daemon requires config, store, and catalog client")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if notifier == nil {
		notifier = notifications.NewService(cfg)
	}

	lockPath := filepath.Join(cfg.Paths.DataDir, "reelqueued.lock")
	return &Daemon{
		cfg:        cfg,
		logger:     logger,
		store:      store,
		catalog:    catalog,
		notifier:   notifier,
		reconciler: reconciler.NewManager(cfg, store, catalog, notifier, logger),
		sessions:   sessions.NewControl(catalog, logger),
		lockPath:   lockPath,
		lock:       flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock and launches the reconciler.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another reelqueue daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	if err := d.reconciler.Start(runCtx); err != nil {
		_ = d.lock.Unlock()
		cancel()
		d.cancel = nil
		return fmt.Errorf("start reconciler: %w", err)
	}

	d.running.Store(true)
	d.logger.Info("reelqueue daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop halts background processing, flushes the queue snapshot, and releases
// the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.reconciler.Stop()

	flushCtx, cancel := context.WithTimeout(context.Background(), shutdownSnapshotTimeout)
	defer cancel()
	if err := d.store.WriteSnapshot(flushCtx, d.cfg.SnapshotPath()); err != nil {
		d.logger.Warn("failed to write shutdown snapshot", logging.Error(err))
	}

	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("reelqueue daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// SubmitRequest admits a new request unless the title is already on the
// server or already queued. Admission checks the movie section first, then
// the TV section, each for an exact title match. Titles are taken exactly as
// received; two titles differing only by whitespace or case are distinct. A
// catalog failure blocks admission rather than risking a duplicate of
// something already available.
func (d *Daemon) SubmitRequest(ctx context.Context, requestor, title string) (*requests.Request, requests.Disposition, error) {
	requestor = strings.TrimSpace(requestor)
	if strings.TrimSpace(title) == "" {
		return nil, "", services.Wrap(services.ErrValidation, "daemon", "submit", "title required", nil)
	}
	if requestor == "" {
		requestor = "unknown"
	}

	for _, section := range []string{d.cfg.Plex.MoviesSection, d.cfg.Plex.TVSection} {
		exists, err := d.catalog.Exists(ctx, section, title)
		if err != nil {
			return nil, "", err
		}
		if exists {
			return nil, requests.DispositionOnServer, nil
		}
	}

	request, err := d.store.Add(ctx, requestor, title)
	if err != nil {
		if errors.Is(err, requests.ErrDuplicateTitle) {
			return nil, requests.DispositionQueued, nil
		}
		return nil, "", err
	}

	d.logger.Info("request queued",
		logging.String(logging.FieldRequestor, requestor),
		logging.String(logging.FieldTitle, title),
		logging.String(logging.FieldRequestID, request.ID),
		logging.String(logging.FieldEventType, "request_queued"),
	)
	if err := d.notifier.NotifyRequestQueued(ctx, requestor, title); err != nil {
		d.logger.Warn("queued notification failed", logging.Error(err))
	}
	return request, requests.DispositionAdmitted, nil
}

// RemoveRequest drops a queued title. The title must match the stored entry
// exactly. Removing an absent title reports ErrNotFound so callers can
// distinguish it from a successful removal.
func (d *Daemon) RemoveRequest(ctx context.Context, title string) error {
	if strings.TrimSpace(title) == "" {
		return services.Wrap(services.ErrValidation, "daemon", "remove", "title required", nil)
	}
	removed, err := d.store.RemoveByTitle(ctx, title)
	if err != nil {
		return err
	}
	if !removed {
		return services.Wrap(services.ErrNotFound, "daemon", "remove",
			fmt.Sprintf("%q is not queued", title), nil)
	}
	d.logger.Info("request removed",
		logging.String(logging.FieldTitle, title),
		logging.String(logging.FieldEventType, "request_removed"),
	)
	return nil
}

// ListRequests returns the queue in submission order.
func (d *Daemon) ListRequests(ctx context.Context) ([]*requests.Request, error) {
	return d.store.List(ctx)
}

// ClearRequests removes every queued request and returns how many were dropped.
func (d *Daemon) ClearRequests(ctx context.Context) (int64, error) {
	cleared, err := d.store.Clear(ctx)
	if err != nil {
		return 0, err
	}
	if cleared > 0 {
		d.logger.Info("queue cleared", logging.Int64("removed", cleared))
	}
	return cleared, nil
}

// Search runs a server-wide keyword search against the catalog.
func (d *Daemon) Search(ctx context.Context, keyword string) ([]plex.MediaItem, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, services.Wrap(services.ErrValidation, "daemon", "search", "keyword required", nil)
	}
	return d.catalog.Search(ctx, keyword)
}

// SameDirector lists the movies sharing a director with the named title.
func (d *Daemon) SameDirector(ctx context.Context, title string) (plex.Director, []plex.MediaItem, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return plex.Director{}, nil, services.Wrap(services.ErrValidation, "daemon", "same-director", "title required", nil)
	}
	return d.catalog.SameDirector(ctx, d.cfg.Plex.MoviesSection, title)
}

// ListSessions returns the playback sessions active on the server.
func (d *Daemon) ListSessions(ctx context.Context) ([]sessions.Info, error) {
	return d.sessions.List(ctx)
}

// StopSession terminates the first session playing the named title or show.
func (d *Daemon) StopSession(ctx context.Context, name, reason string) (sessions.Info, error) {
	return d.sessions.Stop(ctx, name, reason)
}

// ResetConnection bounces the server's remote publish preference.
func (d *Daemon) ResetConnection(ctx context.Context) error {
	return d.sessions.ResetConnection(ctx)
}

// ReconcileNow runs a reconciliation pass outside the regular schedule.
func (d *Daemon) ReconcileNow(ctx context.Context) (*requests.Request, error) {
	return d.reconciler.RunPass(ctx)
}

// ExportSnapshot writes the queue snapshot to the given path, or to the
// configured location when path is empty, and returns the path written.
func (d *Daemon) ExportSnapshot(ctx context.Context, path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = d.cfg.SnapshotPath()
	}
	if err := d.store.WriteSnapshot(ctx, path); err != nil {
		return "", err
	}
	return path, nil
}

// ImportSnapshot replaces the queue contents from a snapshot file and
// returns how many requests were restored.
func (d *Daemon) ImportSnapshot(ctx context.Context, path string) (int, error) {
	if strings.TrimSpace(path) == "" {
		path = d.cfg.SnapshotPath()
	}
	restored, err := d.store.LoadSnapshot(ctx, path)
	if err != nil {
		return 0, err
	}
	d.logger.Info("queue restored from snapshot",
		logging.String("path", path),
		logging.Int("restored", restored),
	)
	return restored, nil
}

// DatabaseHealth returns detailed request database diagnostics.
func (d *Daemon) DatabaseHealth(ctx context.Context) (requests.DatabaseHealth, error) {
	return d.store.CheckHealth(ctx)
}

// TestNotification triggers a test notification using the current configuration.
func (d *Daemon) TestNotification(ctx context.Context) (bool, string, error) {
	if strings.TrimSpace(d.cfg.Notifications.NtfyTopic) == "" {
		return false, "ntfy topic not configured", nil
	}
	if err := d.notifier.TestNotification(ctx); err != nil {
		return false, "failed to send notification", err
	}
	return true, "test notification sent", nil
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) Status {
	count, err := d.store.Count(ctx)
	if err != nil {
		d.logger.Warn("failed to read queue count", logging.Error(err))
	}
	return Status{
		Running:        d.running.Load(),
		Reconciler:     d.reconciler.Status(),
		QueuedCount:    count,
		DBPath:         d.cfg.DatabasePath(),
		SnapshotPath:   d.cfg.SnapshotPath(),
		LockFilePath:   d.lockPath,
		NtfyConfigured: strings.TrimSpace(d.cfg.Notifications.NtfyTopic) != "",
	}
}
