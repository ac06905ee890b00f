// Package main hosts the reelqueue CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into IPC calls
// against the daemon: request submission and withdrawal, queue inspection,
// catalog searches, session control, connection diagnostics, and
// configuration scaffolding. It centralizes configuration resolution and
// socket discovery so subcommands can focus on user experience instead of
// wiring.
package main
