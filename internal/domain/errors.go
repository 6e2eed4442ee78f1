package domain

import "errors"

var (
	// ErrNotFound covers entities that do not exist or are soft deleted.
	ErrNotFound = errors.New("not found")

	// ErrParentNotFound is returned when a parent folder id does not resolve
	// to a live folder in the same workspace.
	ErrParentNotFound = errors.New("parent folder not found")

	// ErrConflict is returned when a name collides with a live sibling.
	ErrConflict = errors.New("name already exists")

	// ErrInvalidName is returned for names with forbidden characters or
	// exceeding the maximum length.
	ErrInvalidName = errors.New("invalid name")

	// ErrBlobWriteFailed marks a failed or timed-out blob upload. The caller
	// may retry the whole operation; no partial metadata exists.
	ErrBlobWriteFailed = errors.New("blob write failed")

	// ErrBlobDeleteFailed marks a failed blob delete. Deletes are idempotent,
	// retrying is safe.
	ErrBlobDeleteFailed = errors.New("blob delete failed")

	// ErrIntegrity is returned when stored content does not match the
	// checksum recorded in metadata.
	ErrIntegrity = errors.New("content checksum mismatch")

	// ErrUnauthorized is returned when the acting user has no permission on
	// the target entity.
	ErrUnauthorized = errors.New("unauthorized")
)
