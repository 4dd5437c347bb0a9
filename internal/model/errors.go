package model

import "errors"

var (
	// ErrInvalidFileType rejects uploads whose extension is not an accepted model format.
	ErrInvalidFileType = errors.New("invalid file type")
	// ErrFileTooLarge signals that the upload exceeds configured limits.
	ErrFileTooLarge = errors.New("file too large")
	// ErrStorageInit indicates the base storage directories could not be created or accessed.
	ErrStorageInit = errors.New("storage initialization failed")
	// ErrWriteFailed indicates one of the persistence writes failed; the whole save is failed.
	ErrWriteFailed = errors.New("model write failed")
	// ErrModelNotFound signals that the resolution cascade was exhausted without a match.
	ErrModelNotFound = errors.New("model not found")
	// ErrStorageUnavailable marks a filesystem operation that exceeded its deadline; retryable.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
