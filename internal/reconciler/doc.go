// Package reconciler runs the periodic loop that checks queued requests
// against the Plex catalog. When a queued title starts matching catalog
// search results the requestor is notified and the request leaves the queue.
// Catalog failures are treated as "no answer this pass" so transient server
// trouble never drops a request.
package reconciler
