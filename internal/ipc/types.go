package ipc

// RequestEntry is the wire form of a queued request.
type RequestEntry struct {
	ID        string `json:"id"`
	Requestor string `json:"requestor"`
	Title     string `json:"title"`
	CreatedAt string `json:"created_at"`
}

// MediaEntry is the wire form of a catalog search result.
type MediaEntry struct {
	Title   string `json:"title"`
	Kind    string `json:"kind"`
	Year    int    `json:"year,omitempty"`
	Section string `json:"section,omitempty"`
}

// SessionEntry is the wire form of an active playback session.
type SessionEntry struct {
	Title  string `json:"title"`
	Show   string `json:"show,omitempty"`
	User   string `json:"user"`
	Player string `json:"player"`
	State  string `json:"state"`
}

// StopRequest stops daemon background processing.
type StopRequest struct{}

// StopResponse indicates stop result.
type StopResponse struct {
	Stopped bool `json:"stopped"`
}

// PingRequest checks daemon liveness.
type PingRequest struct{}

// PingResponse acknowledges a ping.
type PingResponse struct {
	PID int `json:"pid"`
}

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// StatusResponse represents combined daemon/reconciler status information.
type StatusResponse struct {
	Running         bool   `json:"running"`
	QueuedCount     int    `json:"queued_count"`
	IntervalSeconds int    `json:"interval_seconds"`
	LastPass        string `json:"last_pass,omitempty"`
	LastError       string `json:"last_error,omitempty"`
	Matched         int    `json:"matched"`
	DBPath          string `json:"db_path"`
	SnapshotPath    string `json:"snapshot_path"`
	LockPath        string `json:"lock_path"`
	NtfyConfigured  bool   `json:"ntfy_configured"`
	PID             int    `json:"pid"`
}

// SubmitRequest queues a new title for a requestor.
type SubmitRequest struct {
	Requestor string `json:"requestor"`
	Title     string `json:"title"`
}

// SubmitResponse reports the admission outcome.
type SubmitResponse struct {
	Disposition string        `json:"disposition"`
	Request     *RequestEntry `json:"request,omitempty"`
}

// RemoveRequest drops a queued title.
type RemoveRequest struct {
	Title string `json:"title"`
}

// RemoveResponse acknowledges a removal.
type RemoveResponse struct {
	Removed bool `json:"removed"`
}

// ListRequest fetches the queue contents.
type ListRequest struct{}

// ListResponse contains queued requests in submission order.
type ListResponse struct {
	Requests []RequestEntry `json:"requests"`
}

// ClearRequest removes all queued requests.
type ClearRequest struct{}

// ClearResponse reports number of removed entries.
type ClearResponse struct {
	Removed int64 `json:"removed"`
}

// SearchRequest runs a catalog keyword search.
type SearchRequest struct {
	Keyword string `json:"keyword"`
}

// SearchResponse contains catalog matches.
type SearchResponse struct {
	Items []MediaEntry `json:"items"`
}

// SameDirectorRequest lists movies sharing a director with the named title.
type SameDirectorRequest struct {
	Title string `json:"title"`
}

// SameDirectorResponse contains the director and their credits.
type SameDirectorResponse struct {
	Director string       `json:"director"`
	Items    []MediaEntry `json:"items"`
}

// SessionListRequest fetches active playback sessions.
type SessionListRequest struct{}

// SessionListResponse contains active sessions.
type SessionListResponse struct {
	Sessions []SessionEntry `json:"sessions"`
}

// SessionStopRequest terminates the first session playing a title or show.
type SessionStopRequest struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// SessionStopResponse identifies the session that was stopped.
type SessionStopResponse struct {
	Session SessionEntry `json:"session"`
}

// ResetConnectionRequest bounces the server's remote publish preference.
type ResetConnectionRequest struct{}

// ResetConnectionResponse acknowledges the reset.
type ResetConnectionResponse struct {
	Reset bool `json:"reset"`
}

// ReconcileRequest triggers an immediate reconciliation pass.
type ReconcileRequest struct{}

// ReconcileResponse reports the pass outcome.
type ReconcileResponse struct {
	Resolved *RequestEntry `json:"resolved,omitempty"`
}

// SnapshotExportRequest writes the queue snapshot to disk.
type SnapshotExportRequest struct {
	Path string `json:"path"`
}

// SnapshotExportResponse reports where the snapshot was written.
type SnapshotExportResponse struct {
	Path string `json:"path"`
}

// SnapshotImportRequest replaces the queue from a snapshot file.
type SnapshotImportRequest struct {
	Path string `json:"path"`
}

// SnapshotImportResponse reports how many requests were restored.
type SnapshotImportResponse struct {
	Restored int `json:"restored"`
}

// DatabaseHealthRequest fetches detailed database diagnostics.
type DatabaseHealthRequest struct{}

// DatabaseHealthResponse reports database health information.
type DatabaseHealthResponse struct {
	DBPath           string `json:"db_path"`
	DatabaseExists   bool   `json:"database_exists"`
	DatabaseReadable bool   `json:"database_readable"`
	SchemaVersion    int    `json:"schema_version"`
	IntegrityCheck   bool   `json:"integrity_check"`
	TotalRequests    int    `json:"total_requests"`
	Error            string `json:"error"`
}

// TestNotificationRequest triggers a notification test.
type TestNotificationRequest struct{}

// TestNotificationResponse reports notification test outcome.
type TestNotificationResponse struct {
	Sent    bool   `json:"sent"`
	Message string `json:"message"`
}
