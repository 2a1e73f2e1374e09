package cli

import (
	"errors"

	"github.com/zpak-project/zpak/pkg/errclass"
)

// Exit codes for each error class. Code 1 is reserved for faults outside
// the taxonomy.
const (
	exitGeneric           = 1
	exitInvalidArgument   = 2
	exitUnsupportedPath   = 3
	exitPathTooLong       = 4
	exitNotFound          = 5
	exitDirectoryNotFound = 6
	exitAccessDenied      = 7
	exitCorruptArchive    = 8
	exitIOFailure         = 9
)

func exitCode(err error) int {
	switch {
	case errors.Is(err, errclass.ErrInvalidArgument):
		return exitInvalidArgument
	case errors.Is(err, errclass.ErrUnsupportedPath):
		return exitUnsupportedPath
	case errors.Is(err, errclass.ErrPathTooLong):
		return exitPathTooLong
	case errors.Is(err, errclass.ErrNotFound):
		return exitNotFound
	case errors.Is(err, errclass.ErrDirectoryNotFound):
		return exitDirectoryNotFound
	case errors.Is(err, errclass.ErrAccessDenied):
		return exitAccessDenied
	case errors.Is(err, errclass.ErrCorruptArchive):
		return exitCorruptArchive
	case errors.Is(err, errclass.ErrIOFailure):
		return exitIOFailure
	default:
		return exitGeneric
	}
}
