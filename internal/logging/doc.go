// Package logging wires slog with the console and JSON handlers the daemon
// uses. The console handler promotes the component attribute into the message
// prefix and renders remaining attributes as key=value pairs; the JSON handler
// normalizes field names for ingestion. NewNop provides a silent logger for
// tests and optional dependencies.
package logging
