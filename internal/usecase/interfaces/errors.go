package interfaces

import "errors"

// Storage-level signals every repository implementation must translate its
// engine-specific failures into. Use cases never inspect driver error
// strings.
var (
	// ErrStatusConflict means a conditional status write lost a race:
	// another writer already advanced the entity past the expected status.
	ErrStatusConflict = errors.New("status changed concurrently")

	// ErrDuplicateKey means a uniqueness constraint rejected a create or
	// reservation (duplicate entity for a request, or a code collision).
	ErrDuplicateKey = errors.New("duplicate key")
)
