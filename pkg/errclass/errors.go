// Package errclass defines the stable, machine-readable error classes
// surfaced by every public zpak operation.
package errclass

import "fmt"

// ZpakError is a stable, machine-readable error class.
type ZpakError struct {
	Code    string
	Message string
}

func (e *ZpakError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ZpakError) Is(target error) bool {
	t, ok := target.(*ZpakError)
	return ok && e.Code == t.Code
}

// WithMessage returns a new ZpakError with the same Code but a specific message.
func (e *ZpakError) WithMessage(msg string) *ZpakError {
	return &ZpakError{Code: e.Code, Message: msg}
}

// WithMessagef returns a new ZpakError with a formatted message.
func (e *ZpakError) WithMessagef(format string, args ...any) *ZpakError {
	return &ZpakError{Code: e.Code, Message: fmt.Sprintf(format, args...)}
}

// All stable error classes (8 total).
var (
	ErrInvalidArgument   = &ZpakError{Code: "E_INVALID_ARGUMENT"}
	ErrUnsupportedPath   = &ZpakError{Code: "E_UNSUPPORTED_PATH"}
	ErrPathTooLong       = &ZpakError{Code: "E_PATH_TOO_LONG"}
	ErrNotFound          = &ZpakError{Code: "E_NOT_FOUND"}
	ErrDirectoryNotFound = &ZpakError{Code: "E_DIRECTORY_NOT_FOUND"}
	ErrAccessDenied      = &ZpakError{Code: "E_ACCESS_DENIED"}
	ErrCorruptArchive    = &ZpakError{Code: "E_CORRUPT_ARCHIVE"}
	ErrIOFailure         = &ZpakError{Code: "E_IO_FAILURE"}
)
