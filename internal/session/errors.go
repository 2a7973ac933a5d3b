package session

import "errors"

var (
	// ErrNotFound means the session identifier has no live record.
	// Callers recover by treating the request as anonymous.
	ErrNotFound = errors.New("session not found")

	// ErrStoreUnavailable means the backing store could not be
	// reached. Unlike a miss, this is surfaced to the caller.
	ErrStoreUnavailable = errors.New("session store unavailable")
)
