package requests

import "time"

// Request is a pending (requestor, title) pair awaiting catalog availability.
// Title identity is the exact byte string the user typed: case-sensitive,
// untrimmed. Requestor is metadata only and never participates in equality.
type Request struct {
	ID        string
	Requestor string
	Title     string
	CreatedAt time.Time
}

// Disposition describes the outcome of a submit operation.
type Disposition string

const (
	// DispositionAdmitted means the title was appended to the queue.
	DispositionAdmitted Disposition = "admitted"
	// DispositionOnServer means the title already exists in the Plex library.
	DispositionOnServer Disposition = "on_server"
	// DispositionQueued means an identical title is already waiting in the queue.
	DispositionQueued Disposition = "queued"
)

// Admitted reports whether the disposition represents a successful admission.
func (d Disposition) Admitted() bool {
	return d == DispositionAdmitted
}

// DatabaseHealth captures diagnostic information about the request database.
type DatabaseHealth struct {
	DBPath           string
	DatabaseExists   bool
	DatabaseReadable bool
	SchemaVersion    int
	IntegrityCheck   bool
	TotalRequests    int
	Error            string
}
