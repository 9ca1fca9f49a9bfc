package resume

import "errors"

// Sentinel errors surfaced by the builder and the overlay store. Handlers
// translate them to HTTP statuses; nothing store-specific crosses that
// boundary unwrapped.
var (
	// ErrNotFound: the résumé or profile record does not exist (404).
	ErrNotFound = errors.New("not found")
	// ErrPersistence: a write hit a constraint violation or referenced a
	// missing row (409).
	ErrPersistence = errors.New("persistence conflict")
	// ErrService: the store misbehaved in a way the caller cannot fix (500).
	ErrService = errors.New("service failure")
	// ErrMasterResume: the master résumé is undeletable (400).
	ErrMasterResume = errors.New("master resume cannot be deleted")
	// ErrInvalidPayload: an edit payload failed schema validation (400).
	ErrInvalidPayload = errors.New("invalid payload")
)
