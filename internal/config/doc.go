// Package config loads, normalizes, and validates the TOML configuration used
// by both the daemon and the CLI. Load falls back to defaults when no file
// exists; Plex credentials may come from PLEX_URL and PLEX_TOKEN environment
// variables. All path fields are tilde-expanded and made absolute before any
// other package sees them.
package config
