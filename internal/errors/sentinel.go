package errors

import "errors"

// Sentinel errors for known conditions.
var (
	// ErrValidation indicates an invalid settings or pipeline file.
	ErrValidation = errors.New("validation error")

	// ErrPermission indicates insufficient filesystem permissions.
	ErrPermission = errors.New("permission denied")

	// ErrNotFound indicates a file, executable, or task was not found.
	ErrNotFound = errors.New("not found")

	// ErrUpload indicates the uploader process exited unsuccessfully.
	ErrUpload = errors.New("upload failed")
)
