// Package daemon coordinates the long-running reelqueue process.
//
// It wires configuration, request storage, the Plex client, the reconciler,
// and session control into a single lifecycle with flock-based locking to
// prevent multiple instances. The daemon owns request admission, exposes the
// operations the IPC surface serves, and flushes a queue snapshot on
// shutdown.
//
// Keep orchestration logic here: catalog lookups, queue persistence, and
// session control live in their respective packages while the daemon focuses
// on startup, shutdown, and high level coordination.
package daemon
