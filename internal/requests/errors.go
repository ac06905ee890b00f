package requests

import "errors"

// ErrDuplicateTitle is returned when an insert collides with an existing
// queued title. The unique index enforces this under concurrent submits:
// at most one of two racing Add calls for the same title succeeds.
var ErrDuplicateTitle = errors.New("title already queued")

// ErrEmptyTitle is returned when a submitted title is empty.
var ErrEmptyTitle = errors.New("title must not be empty")
