package sessions_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"reelqueue/internal/logging"
	"reelqueue/internal/plex"
	"reelqueue/internal/services"
	"reelqueue/internal/sessions"
)

type fakeServer struct {
	sessions    []plex.Session
	sessionsErr error

	terminated  []string
	publishErrs map[bool]error
	publishLog  []bool
}

func (f *fakeServer) Sessions(context.Context) ([]plex.Session, error) {
	return f.sessions, f.sessionsErr
}

func (f *fakeServer) TerminateSession(_ context.Context, sessionID, _ string) error {
	f.terminated = append(f.terminated, sessionID)
	return nil
}

func (f *fakeServer) SetRemotePublish(_ context.Context, enabled bool) error {
	f.publishLog = append(f.publishLog, enabled)
	if f.publishErrs != nil {
		return f.publishErrs[enabled]
	}
	return nil
}

func (f *fakeServer) Exists(context.Context, string, string) (bool, error) { return false, nil }
func (f *fakeServer) Search(context.Context, string) ([]plex.MediaItem, error) {
	return nil, nil
}
func (f *fakeServer) SameDirector(context.Context, string, string) (plex.Director, []plex.MediaItem, error) {
	return plex.Director{}, nil, nil
}

func TestListCarriesShowContext(t *testing.T) {
	server := &fakeServer{sessions: []plex.Session{
		{SessionID: "1", Title: "Pilot", GrandparentTitle: "Psych", User: "alice"},
		{SessionID: "2", Title: "Knives Out", User: "bob"},
	}}
	ctl := sessions.NewControl(server, logging.NewNop())

	infos, err := ctl.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(infos))
	}

	episode := infos[0].DisplayName()
	if !strings.Contains(episode, "Show: Psych") || !strings.Contains(episode, "Title: Pilot") {
		t.Fatalf("unexpected episode display: %q", episode)
	}
	if infos[1].DisplayName() != "Knives Out" {
		t.Fatalf("unexpected movie display: %q", infos[1].DisplayName())
	}
}

func TestStopMatchesEpisodeByShowName(t *testing.T) {
	server := &fakeServer{sessions: []plex.Session{
		{SessionID: "1", Title: "Pilot", GrandparentTitle: "Psych"},
		{SessionID: "2", Title: "Knives Out"},
	}}
	ctl := sessions.NewControl(server, logging.NewNop())

	stopped, err := ctl.Stop(context.Background(), "Psych", "")
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if stopped.Title != "Pilot" || stopped.Show != "Psych" {
		t.Fatalf("unexpected stopped session: %+v", stopped)
	}
	if len(server.terminated) != 1 || server.terminated[0] != "1" {
		t.Fatalf("expected session 1 terminated, got %v", server.terminated)
	}
}

func TestStopMatchesExactTitle(t *testing.T) {
	server := &fakeServer{sessions: []plex.Session{
		{SessionID: "2", Title: "Knives Out"},
	}}
	ctl := sessions.NewControl(server, logging.NewNop())

	stopped, err := ctl.Stop(context.Background(), "Knives Out", "bedtime")
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if stopped.Title != "Knives Out" {
		t.Fatalf("unexpected stopped session: %+v", stopped)
	}
}

func TestStopTerminatesOnlyFirstMatch(t *testing.T) {
	server := &fakeServer{sessions: []plex.Session{
		{SessionID: "1", Title: "Pilot", GrandparentTitle: "Psych"},
		{SessionID: "2", Title: "Spellingg Bee", GrandparentTitle: "Psych"},
	}}
	ctl := sessions.NewControl(server, logging.NewNop())

	stopped, err := ctl.Stop(context.Background(), "Psych", "")
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if stopped.SessionID != "1" {
		t.Fatalf("expected first match stopped, got %+v", stopped)
	}
	if len(server.terminated) != 1 {
		t.Fatalf("later matches must be left alone, got %v", server.terminated)
	}
}

func TestStopUnknownNameIsNotFound(t *testing.T) {
	server := &fakeServer{sessions: []plex.Session{
		{SessionID: "1", Title: "Pilot", GrandparentTitle: "Psych"},
	}}
	ctl := sessions.NewControl(server, logging.NewNop())

	_, err := ctl.Stop(context.Background(), "Monk", "")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(server.terminated) != 0 {
		t.Fatalf("expected nothing terminated, got %v", server.terminated)
	}
}

func TestStopRejectsEmptyName(t *testing.T) {
	ctl := sessions.NewControl(&fakeServer{}, logging.NewNop())

	_, err := ctl.Stop(context.Background(), "  ", "")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestResetConnectionBouncesPublishPreference(t *testing.T) {
	server := &fakeServer{}
	ctl := sessions.NewControl(server, logging.NewNop())

	if err := ctl.ResetConnection(context.Background()); err != nil {
		t.Fatalf("ResetConnection: %v", err)
	}
	want := []bool{false, true}
	if len(server.publishLog) != 2 || server.publishLog[0] != want[0] || server.publishLog[1] != want[1] {
		t.Fatalf("expected off-then-on toggle, got %v", server.publishLog)
	}
}

func TestResetConnectionNamesFailedStep(t *testing.T) {
	server := &fakeServer{publishErrs: map[bool]error{
		true: errors.New("forbidden"),
	}}
	ctl := sessions.NewControl(server, logging.NewNop())

	err := ctl.ResetConnection(context.Background())
	if err == nil {
		t.Fatal("expected error when re-enable fails")
	}
	if !strings.Contains(err.Error(), "re-enable remote publish") {
		t.Fatalf("expected failing step named, got %v", err)
	}
}
