// Package plex talks to a Plex Media Server over its HTTP API.
//
// The HTTP-backed client resolves library section keys once and caches them,
// answers exact-title existence checks against a named section, runs
// server-wide keyword searches, lists and terminates playback sessions, and
// flips the remote publish preference used to re-announce the server to
// plex.tv. All catalog lookups decode the XML MediaContainer payloads the
// server produces by default.
package plex
