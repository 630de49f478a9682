package domain

import "errors"

// Sentinel errors for library operations
var (
	// ErrServiceUnavailable indicates the file service could not be reached
	// or answered with a non-success status on a list fetch
	ErrServiceUnavailable = errors.New("file service unavailable")

	// ErrUploadFailed indicates an upload batch failed in whole
	ErrUploadFailed = errors.New("upload failed")

	// ErrDeleteFailed indicates the service refused or failed a delete
	ErrDeleteFailed = errors.New("delete failed")

	// ErrInvalidName indicates a rename to an empty or whitespace-only name
	ErrInvalidName = errors.New("name must not be empty")

	// ErrEntryNotFound indicates the requested entry does not exist
	ErrEntryNotFound = errors.New("entry not found")
)
