// Package notifications delivers queue events via pluggable notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and gracefully degrades to a no-op when no topic is set.
// Availability announcements and error alerts can be toggled independently so
// operators can keep one without the other.
package notifications
