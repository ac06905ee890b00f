package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"sync"
	"time"

	"log/slog"

	"reelqueue/internal/daemon"
	"reelqueue/internal/logging"
	"reelqueue/internal/plex"
	"reelqueue/internal/requests"
)

// Server exposes daemon control via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	daemon    *daemon.Daemon
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, logger *slog.Logger) (*Server, error) {
	if d == nil {
		return nil, errors.New("ipc server requires daemon")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	rpcServer := rpc.NewServer()
	srv := &service{daemon: d, logger: logger, ctx: ctx}
	if err := rpcServer.RegisterName("Reelqueue", srv); err != nil {
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:      path,
		daemon:    d,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve starts accepting RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("IPC server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("accept failed",
					logging.Error(err),
					logging.String(logging.FieldEventType, "ipc_accept_failed"),
					logging.String(logging.FieldErrorHint, "Check socket permissions and restart the daemon if needed"))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("failed to remove socket",
			logging.String("socket", s.path),
			logging.Error(err),
			logging.String(logging.FieldEventType, "ipc_socket_cleanup_failed"),
			logging.String(logging.FieldErrorHint, "Remove the socket file manually"))
	}
}

type service struct {
	daemon *daemon.Daemon
	logger *slog.Logger
	ctx    context.Context
}

func (s *service) log() *slog.Logger {
	if s.logger == nil {
		return logging.NewNop()
	}
	return s.logger.With(logging.String(logging.FieldComponent, "ipc"))
}

func convertRequest(request *requests.Request) *RequestEntry {
	if request == nil {
		return nil
	}
	return &RequestEntry{
		ID:        request.ID,
		Requestor: request.Requestor,
		Title:     request.Title,
		CreatedAt: request.CreatedAt.Format(time.RFC3339),
	}
}

func convertMedia(items []plex.MediaItem) []MediaEntry {
	entries := make([]MediaEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, MediaEntry{
			Title:   item.Title,
			Kind:    item.Kind.Display(),
			Year:    item.Year,
			Section: item.Section,
		})
	}
	return entries
}

func (s *service) Ping(_ PingRequest, resp *PingResponse) error {
	resp.PID = os.Getpid()
	return nil
}

func (s *service) Stop(_ StopRequest, resp *StopResponse) error {
	s.log().Debug("daemon stop requested")
	s.daemon.Stop()
	resp.Stopped = true
	s.log().Info("daemon stopped via IPC",
		logging.String(logging.FieldEventType, "daemon_stop"))
	return nil
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	status := s.daemon.Status(s.ctx)
	resp.Running = status.Running
	resp.QueuedCount = status.QueuedCount
	resp.IntervalSeconds = int(status.Reconciler.Interval / time.Second)
	if !status.Reconciler.LastPass.IsZero() {
		resp.LastPass = status.Reconciler.LastPass.Format(time.RFC3339)
	}
	resp.LastError = status.Reconciler.LastErr
	resp.Matched = status.Reconciler.Matched
	resp.DBPath = status.DBPath
	resp.SnapshotPath = status.SnapshotPath
	resp.LockPath = status.LockFilePath
	resp.NtfyConfigured = status.NtfyConfigured
	resp.PID = os.Getpid()
	return nil
}

func (s *service) Submit(req SubmitRequest, resp *SubmitResponse) error {
	request, disposition, err := s.daemon.SubmitRequest(s.ctx, req.Requestor, req.Title)
	if err != nil {
		return err
	}
	resp.Disposition = string(disposition)
	resp.Request = convertRequest(request)
	return nil
}

func (s *service) Remove(req RemoveRequest, resp *RemoveResponse) error {
	if err := s.daemon.RemoveRequest(s.ctx, req.Title); err != nil {
		return err
	}
	resp.Removed = true
	return nil
}

func (s *service) List(_ ListRequest, resp *ListResponse) error {
	queued, err := s.daemon.ListRequests(s.ctx)
	if err != nil {
		return err
	}
	resp.Requests = make([]RequestEntry, 0, len(queued))
	for _, request := range queued {
		if entry := convertRequest(request); entry != nil {
			resp.Requests = append(resp.Requests, *entry)
		}
	}
	return nil
}

func (s *service) Clear(_ ClearRequest, resp *ClearResponse) error {
	s.log().Debug("queue clear requested")
	removed, err := s.daemon.ClearRequests(s.ctx)
	if err != nil {
		return err
	}
	resp.Removed = removed
	return nil
}

func (s *service) Search(req SearchRequest, resp *SearchResponse) error {
	items, err := s.daemon.Search(s.ctx, req.Keyword)
	if err != nil {
		return err
	}
	resp.Items = convertMedia(items)
	return nil
}

func (s *service) SameDirector(req SameDirectorRequest, resp *SameDirectorResponse) error {
	director, items, err := s.daemon.SameDirector(s.ctx, req.Title)
	if err != nil {
		return err
	}
	resp.Director = director.Tag
	resp.Items = convertMedia(items)
	return nil
}

func (s *service) Sessions(_ SessionListRequest, resp *SessionListResponse) error {
	active, err := s.daemon.ListSessions(s.ctx)
	if err != nil {
		return err
	}
	resp.Sessions = make([]SessionEntry, 0, len(active))
	for _, session := range active {
		resp.Sessions = append(resp.Sessions, SessionEntry{
			Title:  session.Title,
			Show:   session.Show,
			User:   session.User,
			Player: session.Player,
			State:  session.State,
		})
	}
	return nil
}

func (s *service) StopSession(req SessionStopRequest, resp *SessionStopResponse) error {
	stopped, err := s.daemon.StopSession(s.ctx, req.Name, req.Reason)
	if err != nil {
		return err
	}
	resp.Session = SessionEntry{
		Title:  stopped.Title,
		Show:   stopped.Show,
		User:   stopped.User,
		Player: stopped.Player,
		State:  stopped.State,
	}
	return nil
}

func (s *service) ResetConnection(_ ResetConnectionRequest, resp *ResetConnectionResponse) error {
	if err := s.daemon.ResetConnection(s.ctx); err != nil {
		return err
	}
	resp.Reset = true
	return nil
}

func (s *service) Reconcile(_ ReconcileRequest, resp *ReconcileResponse) error {
	resolved, err := s.daemon.ReconcileNow(s.ctx)
	if err != nil {
		return err
	}
	resp.Resolved = convertRequest(resolved)
	return nil
}

func (s *service) SnapshotExport(req SnapshotExportRequest, resp *SnapshotExportResponse) error {
	path, err := s.daemon.ExportSnapshot(s.ctx, req.Path)
	if err != nil {
		return err
	}
	resp.Path = path
	return nil
}

func (s *service) SnapshotImport(req SnapshotImportRequest, resp *SnapshotImportResponse) error {
	restored, err := s.daemon.ImportSnapshot(s.ctx, req.Path)
	if err != nil {
		return err
	}
	resp.Restored = restored
	return nil
}

func (s *service) DatabaseHealth(_ DatabaseHealthRequest, resp *DatabaseHealthResponse) error {
	health, err := s.daemon.DatabaseHealth(s.ctx)
	if err != nil && health.Error == "" {
		return err
	}
	resp.DBPath = health.DBPath
	resp.DatabaseExists = health.DatabaseExists
	resp.DatabaseReadable = health.DatabaseReadable
	resp.SchemaVersion = health.SchemaVersion
	resp.IntegrityCheck = health.IntegrityCheck
	resp.TotalRequests = health.TotalRequests
	resp.Error = health.Error
	return err
}

func (s *service) TestNotification(_ TestNotificationRequest, resp *TestNotificationResponse) error {
	sent, message, err := s.daemon.TestNotification(s.ctx)
	resp.Sent = sent
	resp.Message = message
	return err
}
