// Package extractor materializes the entries of an open archive into a
// destination directory.
package extractor

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/zpak-project/zpak/internal/container"
	"github.com/zpak-project/zpak/pkg/errclass"
	"github.com/zpak-project/zpak/pkg/pathutil"
	"github.com/zpak-project/zpak/pkg/progress"
)

// Extractor unpacks archive entries onto the injected filesystem. It holds
// no state between calls.
type Extractor struct {
	fsys     afero.Fs
	logger   *log.Logger
	progress progress.Callback
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger used for per-operation reporting.
func WithLogger(l *log.Logger) Option {
	return func(e *Extractor) { e.logger = l }
}

// WithProgress sets the callback invoked after each extracted entry.
func WithProgress(cb progress.Callback) Option {
	return func(e *Extractor) { e.progress = cb }
}

// New creates an Extractor over the given filesystem.
func New(fs afero.Fs, opts ...Option) *Extractor {
	e := &Extractor{
		fsys:     fs,
		logger:   log.Default(),
		progress: progress.Noop,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract writes every entry of handle into destinationDir, creating the
// directory if absent. Entry names are normalized from their stored
// forward-slash form to the host convention, so an archive built on one
// platform extracts verbatim on another. Extraction proceeds in the
// handle's entry order; on failure, entries already written stay in place.
func (e *Extractor) Extract(handle *container.Handle, destinationDir string) error {
	if err := pathutil.Validate(destinationDir); err != nil {
		return err
	}

	if err := e.fsys.MkdirAll(destinationDir, 0755); err != nil {
		if os.IsPermission(err) {
			return errclass.ErrAccessDenied.WithMessagef("create destination directory: %v", err)
		}
		return errclass.ErrIOFailure.WithMessagef("create destination directory: %v", err)
	}

	entries := handle.Entries()
	prog := progress.New("unpack", len(entries), e.progress)
	for _, entry := range entries {
		if err := e.extractEntry(entry, destinationDir); err != nil {
			return err
		}
		prog.Increment(entry.Name())
	}

	e.logger.Info("extracted archive", "destination", destinationDir, "entries", len(entries))
	return nil
}

// extractEntry streams one entry to its destination file. Both streams are
// scoped to this call.
func (e *Extractor) extractEntry(entry container.Entry, destinationDir string) error {
	rel := pathutil.FromEntryName(entry.Name())
	if !filepath.IsLocal(rel) {
		return errclass.ErrInvalidArgument.WithMessagef("entry name escapes destination: %s", entry.Name())
	}
	dst := filepath.Join(destinationDir, rel)

	if entry.IsDir() {
		if err := e.fsys.MkdirAll(dst, 0755); err != nil {
			return errclass.ErrIOFailure.WithMessagef("create directory entry: %v", err)
		}
		return nil
	}

	if err := e.fsys.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		if os.IsPermission(err) {
			return errclass.ErrAccessDenied.WithMessagef("create parent directory: %v", err)
		}
		return errclass.ErrIOFailure.WithMessagef("create parent directory: %v", err)
	}

	e.logger.Debug("extracting entry", "name", entry.Name())

	rc, err := entry.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := e.fsys.Create(dst)
	if err != nil {
		if os.IsPermission(err) {
			return errclass.ErrAccessDenied.WithMessagef("create destination file: %v", err)
		}
		return errclass.ErrIOFailure.WithMessagef("create destination file: %v", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, rc); err != nil {
		return errclass.ErrIOFailure.WithMessagef("write %s: %v", dst, err)
	}
	return nil
}
