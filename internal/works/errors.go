package works

import "errors"

// Error kinds surfaced by the store and service. Controllers translate these
// to HTTP statuses at the boundary; nothing else inspects error text.
var (
	ErrNotFound        = errors.New("work not found")
	ErrFileNotFound    = errors.New("file not found")
	ErrExists          = errors.New("work already exists")
	ErrCorrupted       = errors.New("work record corrupted")
	ErrInvalidID       = errors.New("invalid work id")
	ErrInvalidName     = errors.New("invalid file name")
	ErrBadExtension    = errors.New("unsupported file extension")
	ErrBadFileType     = errors.New("unsupported file type")
	ErrMissingPlatform = errors.New("platform parameter missing")
	ErrTooLarge        = errors.New("file exceeds size limit")
	ErrRateLimited     = errors.New("action rate limited")
)
