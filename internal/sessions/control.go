package sessions

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"reelqueue/internal/logging"
	"reelqueue/internal/plex"
	"reelqueue/internal/services"
)

// Info describes one active session for display.
type Info struct {
	SessionID string
	Title     string
	Show      string
	User      string
	Player    string
	State     string
}

// DisplayName renders the session the way operators read it: episodes carry
// their show name, everything else is just the title.
func (i Info) DisplayName() string {
	if i.Show != "" {
		return fmt.Sprintf("Show: %s\n\tTitle: %s", i.Show, i.Title)
	}
	return i.Title
}

// Matches reports whether name identifies this session, either by the exact
// title being played or by the show it belongs to.
func (i Info) Matches(name string) bool {
	return i.Title == name || (i.Show != "" && i.Show == name)
}

// Control drives session operations against a Plex server.
type Control struct {
	catalog plex.Client
	logger  *slog.Logger
}

// NewControl wires a Plex client into a session controller.
func NewControl(catalog plex.Client, logger *slog.Logger) *Control {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Control{
		catalog: catalog,
		logger:  logger.With(logging.String(logging.FieldComponent, "sessions")),
	}
}

// List returns the sessions currently active on the server.
func (c *Control) List(ctx context.Context) ([]Info, error) {
	active, err := c.catalog.Sessions(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]Info, 0, len(active))
	for _, session := range active {
		infos = append(infos, Info{
			SessionID: session.SessionID,
			Title:     session.Title,
			Show:      session.GrandparentTitle,
			User:      session.User,
			Player:    session.Player,
			State:     session.State,
		})
	}
	return infos, nil
}

// Stop terminates the first active session playing the named title or show.
// Later matches are left alone so an operator can stop streams one at a time.
// A name matching no session is an error.
func (c *Control) Stop(ctx context.Context, name, reason string) (Info, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Info{}, services.Wrap(services.ErrValidation, "sessions", "stop", "session name required", nil)
	}
	if reason == "" {
		reason = "Stopped by server administrator"
	}

	active, err := c.List(ctx)
	if err != nil {
		return Info{}, err
	}

	for _, session := range active {
		if !session.Matches(name) {
			continue
		}
		if err := c.catalog.TerminateSession(ctx, session.SessionID, reason); err != nil {
			return Info{}, err
		}
		c.logger.Info("session stopped",
			logging.String(logging.FieldTitle, session.Title),
			logging.String("user", session.User),
			logging.String(logging.FieldEventType, "session_stopped"),
		)
		return session, nil
	}

	return Info{}, services.Wrap(services.ErrNotFound, "sessions", "stop",
		fmt.Sprintf("no active session playing %q", name), nil)
}

// ResetConnection bounces the remote publish preference so remote clients
// re-resolve their connection to the server. Both steps must succeed; a
// failure names the step that broke so the operator knows whether the
// server was left unpublished.
func (c *Control) ResetConnection(ctx context.Context) error {
	if err := c.catalog.SetRemotePublish(ctx, false); err != nil {
		return fmt.Errorf("disable remote publish: %w", err)
	}
	if err := c.catalog.SetRemotePublish(ctx, true); err != nil {
		return fmt.Errorf("re-enable remote publish: %w", err)
	}
	c.logger.Info("remote publish preference bounced",
		logging.String(logging.FieldEventType, "connection_reset"),
	)
	return nil
}
