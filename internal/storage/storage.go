package storage

import "errors"

// Sentinel errors the services wrap around driver failures so callers can
// branch with errors.Is without knowing the storage backend.
var (
	ErrNotFound = errors.New("not found")
	ErrExists   = errors.New("already exists")
)
