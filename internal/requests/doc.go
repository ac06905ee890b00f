// Package requests persists the media request queue in SQLite. Titles are
// unique across the queue, so concurrent submissions of the same title
// resolve to a single row. The package also exports a versioned JSON
// snapshot format for operator-driven backup and restore.
package requests
