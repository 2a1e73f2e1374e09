// Package fsys supplies the file-system capability helpers the pack and
// unpack pipelines need on top of an injected afero.Fs: attribute probing,
// existence checks, and snapshot enumeration of a source tree.
//
// Every zpak component receives its afero.Fs at construction instead of
// calling into the os package, so tests can substitute afero.NewMemMapFs.
package fsys

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Attributes describes the file-system attributes zpak cares about.
type Attributes struct {
	IsDir      bool
	IsSymlink  bool
	IsReadOnly bool
	IsHidden   bool
}

// SourceFileRecord is one file discovered during traversal of a source
// directory: its absolute path on the host plus its path relative to the
// traversal root, both in host separator convention.
type SourceFileRecord struct {
	AbsolutePath string
	RelativePath string
}

// Exists reports whether path exists on fsys.
func Exists(fsys afero.Fs, path string) (bool, error) {
	return afero.Exists(fsys, path)
}

// Stat returns the attributes of path. Symlink detection uses lstat when the
// filesystem supports it; filesystems without lstat (such as the in-memory
// one) report IsSymlink false.
func Stat(fsys afero.Fs, path string) (Attributes, error) {
	info, err := lstat(fsys, path)
	if err != nil {
		return Attributes{}, err
	}
	return attrsOf(path, info), nil
}

func attrsOf(path string, info os.FileInfo) Attributes {
	return Attributes{
		IsDir:      info.IsDir(),
		IsSymlink:  info.Mode()&os.ModeSymlink != 0,
		IsReadOnly: info.Mode().Perm()&0200 == 0,
		IsHidden:   strings.HasPrefix(filepath.Base(path), "."),
	}
}

func lstat(fsys afero.Fs, path string) (os.FileInfo, error) {
	if ls, ok := fsys.(afero.Lstater); ok {
		info, _, err := ls.LstatIfPossible(path)
		return info, err
	}
	return fsys.Stat(path)
}

// SnapshotFiles enumerates every file under root, recursively, in one pass.
// The returned slice is a point-in-time snapshot: files created under root
// after SnapshotFiles returns are not in it, and files removed afterwards
// still appear (their later open will fail). Hidden and read-only files are
// included; symbolic links and reparse points are excluded at any depth and
// are never followed, which is what keeps link cycles from looping the
// traversal. Empty directories yield no records.
func SnapshotFiles(fsys afero.Fs, root string) ([]SourceFileRecord, error) {
	var records []SourceFileRecord

	err := afero.Walk(fsys, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if info.Mode()&os.ModeSymlink != 0 {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		records = append(records, SourceFileRecord{
			AbsolutePath: path,
			RelativePath: rel,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
