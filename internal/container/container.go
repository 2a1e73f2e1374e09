// Package container wraps the archive container format behind a small
// handle API: open an existing archive for reading, create a fresh one for
// writing, enumerate entries, and stream entry content. The byte-level
// format itself (ZIP) is a trusted black box; this package's job is owning
// the underlying stream and translating its failures into zpak error
// classes.
package container

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"

	"github.com/zpak-project/zpak/pkg/errclass"
	"github.com/zpak-project/zpak/pkg/pathutil"
)

// Mode is the open mode of a Handle.
type Mode int

const (
	// Read handles enumerate and stream existing entries.
	Read Mode = iota
	// Create handles accept new entries.
	Create
)

// Method selects the per-entry compression method for Create handles.
type Method uint16

const (
	// MethodStore writes entries uncompressed.
	MethodStore Method = Method(zip.Store)
	// MethodDeflate writes entries DEFLATE-compressed.
	MethodDeflate Method = Method(zip.Deflate)
)

// ParseMethod translates a configuration string into a Method.
func ParseMethod(s string) (Method, error) {
	switch s {
	case "store":
		return MethodStore, nil
	case "deflate", "":
		return MethodDeflate, nil
	default:
		return 0, errclass.ErrInvalidArgument.WithMessagef("unknown compression method: %s", s)
	}
}

// Entry is one named byte stream inside an open archive.
type Entry struct {
	file *zip.File
}

// Name returns the stored entry name, always in forward-slash form.
func (e Entry) Name() string {
	return e.file.Name
}

// Size returns the uncompressed size of the entry in bytes.
func (e Entry) Size() uint64 {
	return e.file.UncompressedSize64
}

// IsDir reports whether the entry records a directory rather than a file.
// zpak never writes directory entries, but archives produced elsewhere may
// carry them.
func (e Entry) IsDir() bool {
	return e.file.FileInfo().IsDir()
}

// Open returns a reader over the entry's content. The caller must close it
// before opening the next entry.
func (e Entry) Open() (io.ReadCloser, error) {
	rc, err := e.file.Open()
	if err != nil {
		return nil, errclass.ErrCorruptArchive.WithMessagef("open entry %s: %v", e.file.Name, err)
	}
	return rc, nil
}

// Handle is an open archive container. It exclusively owns the underlying
// byte stream; Close releases it.
type Handle struct {
	mode   Mode
	stream afero.File
	reader *zip.Reader
	writer *zip.Writer
	method Method
}

// Mode returns the handle's open mode.
func (h *Handle) Mode() Mode {
	return h.mode
}

// Entries returns the archive's entries in stored order.
// Only valid on Read handles.
func (h *Handle) Entries() []Entry {
	if h.mode != Read {
		return nil
	}
	entries := make([]Entry, 0, len(h.reader.File))
	for _, f := range h.reader.File {
		entries = append(entries, Entry{file: f})
	}
	return entries
}

// CreateEntry adds a new entry with the given stored name and returns the
// writer for its content. The writer stays valid until the next CreateEntry
// or Close call. Only valid on Create handles.
func (h *Handle) CreateEntry(name string) (io.Writer, error) {
	if h.mode != Create {
		return nil, errclass.ErrInvalidArgument.WithMessage("handle is not open for writing")
	}
	w, err := h.writer.CreateHeader(&zip.FileHeader{
		Name:   name,
		Method: uint16(h.method),
	})
	if err != nil {
		return nil, errclass.ErrIOFailure.WithMessagef("create entry %s: %v", name, err)
	}
	return w, nil
}

// Close flushes any pending writes and releases the underlying stream.
func (h *Handle) Close() error {
	var errs []error
	if h.writer != nil {
		if err := h.writer.Close(); err != nil {
			errs = append(errs, errclass.ErrIOFailure.WithMessagef("finalize archive: %v", err))
		}
	}
	if err := h.stream.Close(); err != nil {
		errs = append(errs, errclass.ErrIOFailure.WithMessagef("close archive stream: %v", err))
	}
	return errors.Join(errs...)
}

// OpenRead validates path and opens the archive at it for reading.
// The returned handle owns the underlying stream.
func OpenRead(fsys afero.Fs, path string) (*Handle, error) {
	if err := pathutil.Validate(path); err != nil {
		return nil, err
	}

	f, err := fsys.Open(path)
	if err != nil {
		switch {
		case os.IsNotExist(err):
			return nil, errclass.ErrNotFound.WithMessagef("archive does not exist: %s", path)
		case os.IsPermission(err):
			return nil, errclass.ErrAccessDenied.WithMessagef("open archive: %v", err)
		default:
			return nil, errclass.ErrIOFailure.WithMessagef("open archive: %v", err)
		}
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errclass.ErrIOFailure.WithMessagef("stat archive: %v", err)
	}

	r, err := zip.NewReader(f, info.Size())
	if err != nil {
		f.Close()
		if errors.Is(err, zip.ErrFormat) || errors.Is(err, zip.ErrChecksum) {
			return nil, errclass.ErrCorruptArchive.WithMessagef("not a valid archive: %s", path)
		}
		return nil, errclass.ErrIOFailure.WithMessagef("read archive: %v", err)
	}

	return &Handle{mode: Read, stream: f, reader: r}, nil
}

// CreateArchive validates path and opens a fresh archive at it for writing,
// truncating any existing file. Entries are written with the given method.
func CreateArchive(fsys afero.Fs, path string, method Method) (*Handle, error) {
	if err := pathutil.Validate(path); err != nil {
		return nil, err
	}

	f, err := fsys.Create(path)
	if err != nil {
		if os.IsPermission(err) {
			return nil, errclass.ErrAccessDenied.WithMessagef("create archive: %v", err)
		}
		return nil, errclass.ErrIOFailure.WithMessagef("create archive: %v", err)
	}

	return &Handle{mode: Create, stream: f, writer: zip.NewWriter(f), method: method}, nil
}

// String returns the method's configuration name.
func (m Method) String() string {
	switch m {
	case MethodStore:
		return "store"
	case MethodDeflate:
		return "deflate"
	default:
		return fmt.Sprintf("method-%d", uint16(m))
	}
}
