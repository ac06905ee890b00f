package testsupport

import (
	"path/filepath"
	"testing"

	"reelqueue/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t   testing.TB
	cfg *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Plex.URL = "http://127.0.0.1:32400"
	cfgVal.Plex.Token = "test-token"

	builder := &configBuilder{
		t:   t,
		cfg: &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithPlexServer points the test config at the given Plex base URL.
func WithPlexServer(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Plex.URL = url
	}
}

// WithNtfyTopic enables notifications against the given topic URL.
func WithNtfyTopic(topic string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Notifications.NtfyTopic = topic
	}
}

// WithReconcileInterval overrides the reconciliation interval in seconds.
func WithReconcileInterval(seconds int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Reconciler.IntervalSeconds = seconds
	}
}
