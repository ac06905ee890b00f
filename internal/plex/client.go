package plex

import "context"

// Client defines the Plex server operations the daemon depends on.
type Client interface {
	// Exists reports whether the named library section contains an entry
	// whose title matches exactly.
	Exists(ctx context.Context, section, title string) (bool, error)

	// Search runs a server-wide keyword search and returns matching movies,
	// shows, and episodes.
	Search(ctx context.Context, keyword string) ([]MediaItem, error)

	// SameDirector resolves the director of the named movie and returns the
	// other movies in the section credited to them.
	SameDirector(ctx context.Context, section, title string) (Director, []MediaItem, error)

	// Sessions lists the playback sessions currently active on the server.
	Sessions(ctx context.Context) ([]Session, error)

	// TerminateSession stops the identified playback session with a message
	// shown to the viewer.
	TerminateSession(ctx context.Context, sessionID, reason string) error

	// SetRemotePublish flips the preference that announces the server to
	// plex.tv. Toggling it off and back on forces remote clients to
	// re-resolve their connection.
	SetRemotePublish(ctx context.Context, enabled bool) error
}
