package reconciler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"reelqueue/internal/config"
	"reelqueue/internal/logging"
	"reelqueue/internal/notifications"
	"reelqueue/internal/plex"
	"reelqueue/internal/requests"
)

// Manager owns the background reconciliation loop.
type Manager struct {
	cfg      *config.Config
	store    *requests.Store
	catalog  plex.Client
	notifier notifications.Service
	logger   *slog.Logger
	interval time.Duration

	mu       sync.RWMutex
	running  bool
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	lastPass time.Time
	lastErr  error
	matched  int
}

// NewManager constructs a reconciliation manager from daemon configuration.
func NewManager(cfg *config.Config, store *requests.Store, catalog plex.Client, notifier notifications.Service, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Manager{
		cfg:      cfg,
		store:    store,
		catalog:  catalog,
		notifier: notifier,
		logger:   logger.With(logging.String(logging.FieldComponent, "reconciler")),
		interval: time.Duration(cfg.Reconciler.IntervalSeconds) * time.Second,
	}
}

// Start begins background reconciliation.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return errors.New("reconciler already running")
	}
	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.running = true
	m.wg.Add(1)
	m.mu.Unlock()

	go m.run(runCtx)
	return nil
}

// Stop terminates background reconciliation and waits for completion.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	cancel := m.cancel
	m.running = false
	m.cancel = nil
	m.mu.Unlock()

	cancel()
	m.wg.Wait()
}

func (m *Manager) run(ctx context.Context) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := m.RunPass(ctx); err != nil && !errors.Is(err, context.Canceled) {
				m.logger.Error("reconciliation pass failed",
					logging.Error(err),
					logging.String(logging.FieldEventType, "reconcile_pass_failed"),
					logging.String(logging.FieldErrorHint, "check queue database access"),
				)
			}
		}
	}
}

// RunPass walks the queue in submission order and resolves the first request
// whose title now appears in catalog search results. The requestor is
// notified before the request is removed, so a failed removal can at worst
// repeat the announcement on a later pass. At most one request resolves per
// pass; the rest wait for the next tick.
func (m *Manager) RunPass(ctx context.Context) (*requests.Request, error) {
	m.mu.Lock()
	m.lastPass = time.Now()
	m.mu.Unlock()

	queued, err := m.store.List(ctx)
	if err != nil {
		m.setLastError(err)
		return nil, err
	}

	var scanErr error
	for _, request := range queued {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// A failed lookup means no answer for this request this pass. The
		// scan moves on so one broken title cannot starve the rest.
		items, err := m.catalog.Search(ctx, request.Title)
		if err != nil {
			m.logger.Warn("catalog lookup failed, request stays queued",
				logging.String(logging.FieldTitle, request.Title),
				logging.Error(err),
				logging.String(logging.FieldEventType, "catalog_unavailable"),
			)
			scanErr = err
			continue
		}
		if len(items) == 0 {
			continue
		}

		return m.resolve(ctx, request)
	}

	m.setLastError(scanErr)
	return nil, nil
}

func (m *Manager) resolve(ctx context.Context, request *requests.Request) (*requests.Request, error) {
	if err := m.notifier.NotifyAvailable(ctx, request.Requestor, request.Title); err != nil {
		m.logger.Warn("availability notification failed",
			logging.String(logging.FieldRequestor, request.Requestor),
			logging.String(logging.FieldTitle, request.Title),
			logging.Error(err),
			logging.String(logging.FieldEventType, "notify_failed"),
		)
	}

	removed, err := m.store.RemoveByTitle(ctx, request.Title)
	if err != nil {
		m.setLastError(err)
		return nil, err
	}
	if !removed {
		// Someone beat us to it; nothing left to do.
		return nil, nil
	}

	m.mu.Lock()
	m.matched++
	m.lastErr = nil
	m.mu.Unlock()

	m.logger.Info("request available on server",
		logging.String(logging.FieldRequestor, request.Requestor),
		logging.String(logging.FieldTitle, request.Title),
		logging.String(logging.FieldRequestID, request.ID),
		logging.String(logging.FieldEventType, "request_resolved"),
	)
	return request, nil
}

// StatusSummary represents lightweight reconciler diagnostics.
type StatusSummary struct {
	Running  bool
	Interval time.Duration
	LastPass time.Time
	LastErr  string
	Matched  int
}

// Status returns the latest reconciler information.
func (m *Manager) Status() StatusSummary {
	m.mu.RLock()
	defer m.mu.RUnlock()

	summary := StatusSummary{
		Running:  m.running,
		Interval: m.interval,
		LastPass: m.lastPass,
		Matched:  m.matched,
	}
	if m.lastErr != nil {
		summary.LastErr = m.lastErr.Error()
	}
	return summary
}

func (m *Manager) setLastError(err error) {
	m.mu.Lock()
	m.lastErr = err
	m.mu.Unlock()
}
