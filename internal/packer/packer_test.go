package packer_test

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zpak-project/zpak/internal/container"
	"github.com/zpak-project/zpak/internal/extractor"
	"github.com/zpak-project/zpak/internal/packer"
	"github.com/zpak-project/zpak/pkg/errclass"
)

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0644))
}

func entryNames(t *testing.T, fs afero.Fs, archive string) []string {
	t.Helper()
	h, err := container.OpenRead(fs, archive)
	require.NoError(t, err)
	defer h.Close()

	var names []string
	for _, e := range h.Entries() {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func TestCreateFromDirectory_EntryNaming(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/src/a.txt", "a")
	writeFile(t, fs, "/src/sub/b.txt", "b")
	writeFile(t, fs, "/src/sub/deep/c.txt", "c")

	p := packer.New(fs)
	require.NoError(t, p.CreateFromDirectory("/src", "/out.zip"))

	assert.Equal(t, []string{"a.txt", "sub/b.txt", "sub/deep/c.txt"}, entryNames(t, fs, "/out.zip"))
}

func TestCreateFromDirectory_ContentPreserved(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/src/data.bin", "some\x00binary\xffcontent")

	p := packer.New(fs, packer.WithMethod(container.MethodStore))
	require.NoError(t, p.CreateFromDirectory("/src", "/out.zip"))

	h, err := container.OpenRead(fs, "/out.zip")
	require.NoError(t, err)
	defer h.Close()

	entries := h.Entries()
	require.Len(t, entries, 1)
	rc, err := entries[0].Open()
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "some\x00binary\xffcontent", string(data))
}

func TestCreateFromDirectory_IncludesHiddenFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/src/.gitignore", "*.tmp")
	writeFile(t, fs, "/src/.config/settings", "k=v")

	p := packer.New(fs)
	require.NoError(t, p.CreateFromDirectory("/src", "/out.zip"))

	assert.Equal(t, []string{".config/settings", ".gitignore"}, entryNames(t, fs, "/out.zip"))
}

func TestCreateFromDirectory_IncludesReadOnlyFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/src/locked.txt", "ro")
	require.NoError(t, fs.Chmod("/src/locked.txt", 0444))

	p := packer.New(fs)
	require.NoError(t, p.CreateFromDirectory("/src", "/out.zip"))

	assert.Equal(t, []string{"locked.txt"}, entryNames(t, fs, "/out.zip"))
}

func TestCreateFromDirectory_EmptySource(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/src/empty/nested", 0755))

	p := packer.New(fs)
	require.NoError(t, p.CreateFromDirectory("/src", "/out.zip"))

	assert.Empty(t, entryNames(t, fs, "/out.zip"))
}

func TestCreateFromDirectory_OverwritesDestination(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/src/a.txt", "a")
	require.NoError(t, afero.WriteFile(fs, "/out.zip", []byte("stale bytes"), 0644))

	p := packer.New(fs)
	require.NoError(t, p.CreateFromDirectory("/src", "/out.zip"))

	assert.Equal(t, []string{"a.txt"}, entryNames(t, fs, "/out.zip"))
}

func TestCreateFromDirectory_SourceMissing(t *testing.T) {
	fs := afero.NewMemMapFs()
	p := packer.New(fs)

	err := p.CreateFromDirectory("/nope", "/out.zip")
	require.ErrorIs(t, err, errclass.ErrDirectoryNotFound)
}

func TestCreateFromDirectory_SourceIsFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/plain.txt", "not a directory")

	p := packer.New(fs)
	err := p.CreateFromDirectory("/plain.txt", "/out.zip")
	require.ErrorIs(t, err, errclass.ErrDirectoryNotFound)

	// The destination must not have been touched.
	exists, err := afero.Exists(fs, "/out.zip")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCreateFromDirectory_InvalidArguments(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/src/a.txt", "a")
	p := packer.New(fs)

	for _, tc := range []struct {
		name     string
		src, dst string
		want     error
	}{
		{"empty source", "", "/out.zip", errclass.ErrInvalidArgument},
		{"whitespace source", "  ", "/out.zip", errclass.ErrInvalidArgument},
		{"empty destination", "/src", "", errclass.ErrInvalidArgument},
		{"control char destination", "/src", "/out\x00.zip", errclass.ErrInvalidArgument},
		{"uri destination", "/src", "file:///out.zip", errclass.ErrUnsupportedPath},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := p.CreateFromDirectory(tc.src, tc.dst)
			require.ErrorIs(t, err, tc.want)

			exists, err := afero.Exists(fs, "/out.zip")
			require.NoError(t, err)
			assert.False(t, exists, "no filesystem mutation on invalid call")
		})
	}
}

func TestCreateFromDirectory_ExcludesSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation requires privileges on windows")
	}
	src := t.TempDir()
	out := filepath.Join(t.TempDir(), "out.zip")
	fs := afero.NewOsFs()

	require.NoError(t, os.WriteFile(filepath.Join(src, "real.txt"), []byte("x"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(src, "sub"), 0755))
	require.NoError(t, os.Symlink(filepath.Join(src, "real.txt"), filepath.Join(src, "sub", "link.txt")))
	require.NoError(t, os.Symlink(src, filepath.Join(src, "sub", "cycle")))

	p := packer.New(fs)
	require.NoError(t, p.CreateFromDirectory(src, out))

	assert.Equal(t, []string{"real.txt"}, entryNames(t, fs, out))
}

func TestRoundTrip_ByteIdentical(t *testing.T) {
	fs := afero.NewMemMapFs()
	files := map[string]string{
		"/src/readme.md":          "# readme",
		"/src/bin/tool":           "\x7fELF\x00\x01\x02",
		"/src/docs/guide/ch1.txt": "chapter one",
		"/src/.env":               "SECRET=1",
	}
	for path, content := range files {
		writeFile(t, fs, path, content)
	}

	p := packer.New(fs)
	require.NoError(t, p.CreateFromDirectory("/src", "/out.zip"))

	h, err := container.OpenRead(fs, "/out.zip")
	require.NoError(t, err)
	defer h.Close()
	require.NoError(t, extractor.New(fs).Extract(h, "/restored"))

	for path, content := range files {
		restored := "/restored" + path[len("/src"):]
		data, err := afero.ReadFile(fs, restored)
		require.NoError(t, err, "missing restored file: %s", restored)
		assert.Equal(t, content, string(data), "content mismatch: %s", restored)
	}
}

func TestCreateFromDirectory_Progress(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/src/a.txt", "a")
	writeFile(t, fs, "/src/b.txt", "b")

	var messages []string
	p := packer.New(fs, packer.WithProgress(func(op string, current, total int, message string) {
		assert.Equal(t, "pack", op)
		assert.Equal(t, 2, total)
		messages = append(messages, message)
	}))
	require.NoError(t, p.CreateFromDirectory("/src", "/out.zip"))

	sort.Strings(messages)
	assert.Equal(t, []string{"a.txt", "b.txt"}, messages)
}
