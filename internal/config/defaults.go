package config

const (
	defaultDataDir            = "~/.local/share/reelqueue"
	defaultLogDir             = "~/.local/share/reelqueue/logs"
	defaultMoviesSection      = "Movies"
	defaultTVSection          = "TV Shows"
	defaultPlexRequestTimeout = 10
	defaultNtfyRequestTimeout = 10
	defaultReconcilerInterval = 60
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Plex: Plex{
			MoviesSection:  defaultMoviesSection,
			TVSection:      defaultTVSection,
			RequestTimeout: defaultPlexRequestTimeout,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyRequestTimeout,
			Queue:          true,
			Errors:         true,
		},
		Reconciler: Reconciler{
			IntervalSeconds: defaultReconcilerInterval,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
