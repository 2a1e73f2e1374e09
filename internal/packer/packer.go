// Package packer builds a new archive from the file tree rooted at a source
// directory.
package packer

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/zpak-project/zpak/internal/container"
	"github.com/zpak-project/zpak/pkg/errclass"
	"github.com/zpak-project/zpak/pkg/fsys"
	"github.com/zpak-project/zpak/pkg/pathutil"
	"github.com/zpak-project/zpak/pkg/progress"
)

// Packer packs directory trees into archive containers. It holds no state
// between calls; each CreateFromDirectory is a self-contained transformation
// over the injected filesystem.
type Packer struct {
	fsys     afero.Fs
	method   container.Method
	logger   *log.Logger
	progress progress.Callback
}

// Option configures a Packer.
type Option func(*Packer)

// WithMethod selects the per-entry compression method.
func WithMethod(m container.Method) Option {
	return func(p *Packer) { p.method = m }
}

// WithLogger sets the logger used for per-operation reporting.
func WithLogger(l *log.Logger) Option {
	return func(p *Packer) { p.logger = l }
}

// WithProgress sets the callback invoked after each packed file.
func WithProgress(cb progress.Callback) Option {
	return func(p *Packer) { p.progress = cb }
}

// New creates a Packer over the given filesystem.
func New(fs afero.Fs, opts ...Option) *Packer {
	p := &Packer{
		fsys:     fs,
		method:   container.MethodDeflate,
		logger:   log.Default(),
		progress: progress.Noop,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CreateFromDirectory packs every file under sourcePath into a fresh archive
// at destinationPath, overwriting any existing destination. Entry names are
// the files' paths relative to sourcePath with separators rewritten to
// forward slashes. Symbolic links and reparse points are excluded at any
// depth and never followed; hidden and read-only files are included. Empty
// subdirectories are not represented.
//
// The enumeration is a single snapshot: files created under sourcePath after
// it is taken are not packed, and files removed before their individual copy
// surface that one file's error. No stronger consistency with concurrent
// writers is attempted.
func (p *Packer) CreateFromDirectory(sourcePath, destinationPath string) error {
	if err := pathutil.Validate(sourcePath); err != nil {
		return err
	}
	if err := pathutil.Validate(destinationPath); err != nil {
		return err
	}

	info, err := p.fsys.Stat(sourcePath)
	if err != nil {
		if os.IsNotExist(err) {
			return errclass.ErrDirectoryNotFound.WithMessagef("source directory does not exist: %s", sourcePath)
		}
		return errclass.ErrIOFailure.WithMessagef("stat source: %v", err)
	}
	if !info.IsDir() {
		return errclass.ErrDirectoryNotFound.WithMessagef("source is not a directory: %s", sourcePath)
	}

	records, err := fsys.SnapshotFiles(p.fsys, sourcePath)
	if err != nil {
		if os.IsPermission(err) {
			return errclass.ErrAccessDenied.WithMessagef("enumerate source: %v", err)
		}
		return errclass.ErrIOFailure.WithMessagef("enumerate source: %v", err)
	}

	handle, err := container.CreateArchive(p.fsys, destinationPath, p.method)
	if err != nil {
		return err
	}
	// Release the destination stream on failure; the partial file is left
	// in place.
	closed := false
	defer func() {
		if !closed {
			handle.Close()
		}
	}()

	prog := progress.New("pack", len(records), p.progress)
	for _, rec := range records {
		if err := p.packFile(handle, rec); err != nil {
			return err
		}
		prog.Increment(rec.RelativePath)
	}

	closed = true
	if err := handle.Close(); err != nil {
		return err
	}

	p.logger.Info("packed directory", "source", sourcePath, "archive", destinationPath, "entries", len(records))
	return nil
}

// packFile streams one source file into a new archive entry. Both streams
// are scoped to this call.
func (p *Packer) packFile(handle *container.Handle, rec fsys.SourceFileRecord) error {
	name := pathutil.ToEntryName(rec.RelativePath)
	p.logger.Debug("adding entry", "name", name)

	w, err := handle.CreateEntry(name)
	if err != nil {
		return err
	}

	src, err := p.fsys.Open(rec.AbsolutePath)
	if err != nil {
		switch {
		case os.IsNotExist(err):
			// The file vanished between the snapshot and this copy.
			return errclass.ErrNotFound.WithMessagef("source file disappeared during packing: %s", rec.AbsolutePath)
		case os.IsPermission(err):
			return errclass.ErrAccessDenied.WithMessagef("open source file: %v", err)
		default:
			return errclass.ErrIOFailure.WithMessagef("open source file: %v", err)
		}
	}
	defer src.Close()

	if _, err := io.Copy(w, src); err != nil {
		return errclass.ErrIOFailure.WithMessagef("copy %s: %v", rec.AbsolutePath, err)
	}
	return nil
}
