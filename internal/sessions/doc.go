// Package sessions exposes playback session control on top of the Plex
// client: listing what is currently streaming, stopping a session by the
// title being watched, and bouncing the remote publish preference when
// remote clients lose their connection.
package sessions
