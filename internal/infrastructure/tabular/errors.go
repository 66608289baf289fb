package tabular

import "errors"

// Common parse errors
var (
	// ErrEmptyFile is returned when the uploaded file is empty
	ErrEmptyFile = errors.New("uploaded file is empty")

	// ErrInvalidEncoding is returned when the file is not valid UTF-8
	ErrInvalidEncoding = errors.New("invalid file encoding")

	// ErrMissingHeader is returned when the file has no header row
	ErrMissingHeader = errors.New("file missing header row")

	// ErrFileTooLarge is returned when the file exceeds the configured size limit
	ErrFileTooLarge = errors.New("file exceeds maximum allowed size")

	// ErrTooManyRows is returned when the file exceeds the configured row limit
	ErrTooManyRows = errors.New("file exceeds maximum allowed row count")
)
