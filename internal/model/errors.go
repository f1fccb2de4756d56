package model

import "errors"

// User-visible failures. Everything else in the pipeline degrades to the next
// fallback tier instead of surfacing.
var (
	// ErrInvalidQuery rejects an empty query before any work is done.
	ErrInvalidQuery = errors.New("query must not be empty")

	// ErrNoIndexAvailable means no retrieval tier could produce candidates:
	// the remote engine is down or disabled and the local index is empty.
	ErrNoIndexAvailable = errors.New("no index available")
)
