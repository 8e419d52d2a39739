package fattree

import (
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testingGoFs(t *testing.T) GoFs {
	t.Helper()
	return NewGoFS(testingNew(t, testingBuild(t, testLayout(), contentTree()), Options{}))
}

func TestGoFS(t *testing.T) {
	gofs := testingGoFs(t)
	if err := fstest.TestFS(gofs,
		"README.TXT",
		"HelloWorldThisIsALoongFileName.txt",
		"docs/guide.md",
		"docs/IMAGES/LOGO.PNG",
		"EMPTY",
		"zero.txt",
	); err != nil {
		t.Fatal(err)
	}
}

func TestGoFs_invalidPaths(t *testing.T) {
	gofs := testingGoFs(t)

	for _, name := range []string{"/README.TXT", "docs/", "docs/../README.TXT", "./docs", ""} {
		t.Run(name, func(t *testing.T) {
			_, err := gofs.Open(name)
			assert.True(t, errors.Is(err, fs.ErrInvalid), "Open: error %v is no fs.ErrInvalid", err)

			_, err = gofs.Stat(name)
			assert.True(t, errors.Is(err, fs.ErrInvalid), "Stat: error %v is no fs.ErrInvalid", err)
		})
	}
}

func TestGoFs_root(t *testing.T) {
	gofs := testingGoFs(t)

	info, err := gofs.Stat(".")
	require.NoError(t, err)
	assert.Equal(t, ".", info.Name())
	assert.True(t, info.IsDir())

	entries, err := fs.ReadDir(gofs, ".")
	require.NoError(t, err)

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	// fs.ReadDir sorts by name.
	assert.Equal(t, []string{"EMPTY", "HelloWorldThisIsALoongFileName.txt", "README.TXT", "docs", "zero.txt"}, names)
	assert.Equal(t, fs.ModeDir, entries[0].Type())
}

func TestGoFs_WalkDir(t *testing.T) {
	gofs := testingGoFs(t)

	var paths []string
	require.NoError(t, fs.WalkDir(gofs, "docs", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		paths = append(paths, path)
		return nil
	}))
	assert.Equal(t, []string{"docs", "docs/IMAGES", "docs/IMAGES/LOGO.PNG", "docs/guide.md"}, paths)

	data, err := fs.ReadFile(gofs, "docs/IMAGES/LOGO.PNG")
	require.NoError(t, err)
	assert.Equal(t, logoContent, data)
}

func TestGoFs_notExist(t *testing.T) {
	_, err := testingGoFs(t).Open("docs/missing.txt")
	assert.True(t, errors.Is(err, fs.ErrNotExist), "error %v is no fs.ErrNotExist", err)
}
