package types

import "errors"

// Sentinel errors returned by the storage engine. Callers match them with
// errors.Is; wrapped variants carry operation context.
var (
	// ErrNotFound indicates a referenced entity id does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidID indicates an empty or malformed entity id.
	ErrInvalidID = errors.New("invalid id")

	// ErrInvalidName indicates an empty name where one is required.
	ErrInvalidName = errors.New("invalid name")

	// ErrInvalidParent indicates a folder parent reference that crosses
	// locations or would create a containment cycle, or a tag parented to
	// itself.
	ErrInvalidParent = errors.New("invalid parent")

	// ErrUnsupportedVersion indicates a backup archive whose schema version
	// is not recognized by this build.
	ErrUnsupportedVersion = errors.New("unsupported backup version")

	// ErrClosed indicates an operation on a store that has been closed.
	ErrClosed = errors.New("store closed")
)
