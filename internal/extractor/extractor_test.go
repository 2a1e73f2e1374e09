package extractor_test

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zpak-project/zpak/internal/container"
	"github.com/zpak-project/zpak/internal/extractor"
	"github.com/zpak-project/zpak/pkg/errclass"
)

func makeArchive(t *testing.T, fs afero.Fs, path string, entries map[string]string) *container.Handle {
	t.Helper()
	h, err := container.CreateArchive(fs, path, container.MethodDeflate)
	require.NoError(t, err)
	for name, content := range entries {
		w, err := h.CreateEntry(name)
		require.NoError(t, err)
		_, err = io.WriteString(w, content)
		require.NoError(t, err)
	}
	require.NoError(t, h.Close())

	opened, err := container.OpenRead(fs, path)
	require.NoError(t, err)
	t.Cleanup(func() { opened.Close() })
	return opened
}

func readFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	return string(data)
}

func TestExtract_NestedEntries(t *testing.T) {
	fs := afero.NewMemMapFs()
	h := makeArchive(t, fs, "/a.zip", map[string]string{
		"top.txt":        "top",
		"sub/deep/c.txt": "deep",
	})

	e := extractor.New(fs)
	require.NoError(t, e.Extract(h, "/dest"))

	assert.Equal(t, "top", readFile(t, fs, filepath.Join("/dest", "top.txt")))
	assert.Equal(t, "deep", readFile(t, fs, filepath.Join("/dest", "sub", "deep", "c.txt")))
}

func TestExtract_CreatesDestination(t *testing.T) {
	fs := afero.NewMemMapFs()
	h := makeArchive(t, fs, "/a.zip", nil)

	e := extractor.New(fs)
	require.NoError(t, e.Extract(h, "/fresh/dest"))

	isDir, err := afero.IsDir(fs, "/fresh/dest")
	require.NoError(t, err)
	assert.True(t, isDir)
}

func TestExtract_ExistingDestinationIsIdempotent(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/dest", 0755))
	require.NoError(t, afero.WriteFile(fs, "/dest/unrelated.txt", []byte("keep me"), 0644))
	h := makeArchive(t, fs, "/a.zip", map[string]string{"new.txt": "new"})

	e := extractor.New(fs)
	require.NoError(t, e.Extract(h, "/dest"))

	assert.Equal(t, "keep me", readFile(t, fs, "/dest/unrelated.txt"))
	assert.Equal(t, "new", readFile(t, fs, "/dest/new.txt"))
}

func TestExtract_InvalidDestination(t *testing.T) {
	fs := afero.NewMemMapFs()
	h := makeArchive(t, fs, "/a.zip", nil)
	e := extractor.New(fs)

	for _, dest := range []string{"", "   ", "x\x00y"} {
		err := e.Extract(h, dest)
		require.ErrorIs(t, err, errclass.ErrInvalidArgument, "should reject: %q", dest)
	}
}

func TestExtract_RejectsEscapingEntryNames(t *testing.T) {
	fs := afero.NewMemMapFs()
	h := makeArchive(t, fs, "/a.zip", map[string]string{"../evil.txt": "x"})

	e := extractor.New(fs)
	err := e.Extract(h, "/dest")
	require.ErrorIs(t, err, errclass.ErrInvalidArgument)

	exists, err := afero.Exists(fs, "/evil.txt")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestExtract_DirectoryEntries(t *testing.T) {
	fs := afero.NewMemMapFs()
	h := makeArchive(t, fs, "/a.zip", map[string]string{"dir/": "", "dir/f.txt": "x"})

	e := extractor.New(fs)
	require.NoError(t, e.Extract(h, "/dest"))

	isDir, err := afero.IsDir(fs, "/dest/dir")
	require.NoError(t, err)
	assert.True(t, isDir)
	assert.Equal(t, "x", readFile(t, fs, "/dest/dir/f.txt"))
}

func TestExtract_Progress(t *testing.T) {
	fs := afero.NewMemMapFs()
	h := makeArchive(t, fs, "/a.zip", map[string]string{"a": "1", "b": "2"})

	var count int
	e := extractor.New(fs, extractor.WithProgress(func(op string, current, total int, message string) {
		assert.Equal(t, "unpack", op)
		count++
	}))
	require.NoError(t, e.Extract(h, "/dest"))
	assert.Equal(t, 2, count)
}
