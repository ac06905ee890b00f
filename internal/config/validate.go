package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePlex(); err != nil {
		return err
	}
	if err := c.validateReconciler(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePlex() error {
	if c.Plex.URL == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/reelqueue/config.toml"
		}
		return fmt.Errorf("plex.url is required. Set PLEX_URL env var or edit %s (create with 'reelqueue config init')", defaultPath)
	}
	parsed, err := url.Parse(c.Plex.URL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("plex.url %q must be an absolute URL", c.Plex.URL)
	}
	if c.Plex.Token == "" {
		return errors.New("plex.token is required. Set PLEX_TOKEN env var or add it to the config file")
	}
	if strings.TrimSpace(c.Plex.MoviesSection) == "" || strings.TrimSpace(c.Plex.TVSection) == "" {
		return errors.New("plex.movies_section and plex.tv_section must be set")
	}
	return nil
}

func (c *Config) validateReconciler() error {
	if c.Reconciler.IntervalSeconds < 1 {
		return errors.New("reconciler.interval_seconds must be at least 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
