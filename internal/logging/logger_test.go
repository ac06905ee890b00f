package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestConsoleHandlerPromotesComponent(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl, false))

	logger.Info("request admitted",
		String(FieldComponent, "daemon"),
		String(FieldTitle, "The Office (US)"),
	)

	line := buf.String()
	if !strings.Contains(line, "INFO daemon: request admitted") {
		t.Fatalf("expected component prefix, got %q", line)
	}
	if !strings.Contains(line, `title="The Office (US)"`) {
		t.Fatalf("expected quoted title attr, got %q", line)
	}
}

func TestConsoleHandlerFlattensGroups(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl, false)).WithGroup("plex")

	logger.Warn("slow response", Duration("elapsed", 0))

	if !strings.Contains(buf.String(), "plex.elapsed=") {
		t.Fatalf("expected group-prefixed key, got %q", buf.String())
	}
}

func TestConsoleHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelWarn)
	logger := slog.New(newConsoleHandler(&buf, lvl, false))

	logger.Info("suppressed")
	if buf.Len() != 0 {
		t.Fatalf("info line should be suppressed at warn level, got %q", buf.String())
	}

	logger.Error("kept")
	if !strings.Contains(buf.String(), "ERROR kept") {
		t.Fatalf("expected error line, got %q", buf.String())
	}
}

func TestParseLevelDefaultsToInfo(t *testing.T) {
	if got := parseLevel("verbose"); got != slog.LevelInfo {
		t.Fatalf("unknown level should map to info, got %v", got)
	}
	if got := parseLevel("DEBUG"); got != slog.LevelDebug {
		t.Fatalf("expected debug, got %v", got)
	}
}
