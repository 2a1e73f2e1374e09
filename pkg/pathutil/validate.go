// Package pathutil provides path validation and entry-name normalization
// for zpak.
package pathutil

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/zpak-project/zpak/pkg/errclass"
)

const (
	// maxPathLen is the longest path accepted, in bytes.
	maxPathLen = 4096
	// maxComponentLen is the longest single path component accepted, in bytes.
	maxComponentLen = 255
)

// uriSchemeRegex matches URI-style prefixes such as "file://" or "http://".
// The scheme must be at least two characters so Windows drive specs like
// "C://" are not misread as schemes.
var uriSchemeRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]+://`)

// Validate rejects malformed paths before any I/O is attempted. It is
// non-mutating: on success the caller keeps using the path as given.
func Validate(path string) error {
	if strings.TrimSpace(path) == "" {
		return errclass.ErrInvalidArgument.WithMessage("path must not be empty")
	}

	for _, r := range path {
		if r == 0 || unicode.IsControl(r) {
			return errclass.ErrInvalidArgument.WithMessagef("path must not contain control characters: %q", path)
		}
	}

	if uriSchemeRegex.MatchString(path) {
		return errclass.ErrUnsupportedPath.WithMessagef("URI-style paths are not supported: %s", path)
	}

	if len(path) > maxPathLen {
		return errclass.ErrPathTooLong.WithMessagef("path is %d bytes, limit is %d", len(path), maxPathLen)
	}
	for _, comp := range strings.FieldsFunc(path, isSeparator) {
		if len(comp) > maxComponentLen {
			return errclass.ErrPathTooLong.WithMessagef("path component is %d bytes, limit is %d", len(comp), maxComponentLen)
		}
	}

	return nil
}

func isSeparator(r rune) bool {
	return r == '/' || r == '\\'
}

// ToEntryName converts a host-relative path into its canonical stored form:
// forward-slash separators and NFC-normalized text. This is one half of the
// single normalization boundary between host paths and archive entry names.
func ToEntryName(hostRel string) string {
	return norm.NFC.String(filepath.ToSlash(hostRel))
}

// FromEntryName converts a stored entry name back to the host's separator
// convention. The counterpart of ToEntryName.
func FromEntryName(name string) string {
	return filepath.FromSlash(name)
}
