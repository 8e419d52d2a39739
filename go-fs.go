package fattree

import (
	"io/fs"
)

type GoDirEntry struct {
	fs.FileInfo
}

func (g GoDirEntry) Type() fs.FileMode {
	return g.FileInfo.Mode().Type()
}

func (g GoDirEntry) Info() (fs.FileInfo, error) {
	return g.FileInfo, nil
}

type GoFile struct {
	*File
}

func (g GoFile) ReadDir(n int) ([]fs.DirEntry, error) {
	entries, err := g.File.Readdir(n)

	goEntries := make([]fs.DirEntry, len(entries))
	for i, e := range entries {
		goEntries[i] = GoDirEntry{e}
	}

	return goEntries, err
}

// GoFs just wraps the afero implementation to be compatible with fs.FS.
type GoFs struct {
	*Fs
}

var (
	_ fs.FS     = GoFs{}
	_ fs.StatFS = GoFs{}
)

// NewGoFS exposes v as fs.FS.
func NewGoFS(v *Volume) GoFs {
	return GoFs{NewFs(v)}
}

func (g GoFs) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}

	file, err := g.Fs.open(name)
	if err != nil {
		return nil, err
	}
	if name == "." {
		file.entry.LongName = "."
	}

	return GoFile{file}, nil
}

func (g GoFs) Stat(name string) (fs.FileInfo, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrInvalid}
	}

	if name == "." {
		return g.volume.rootEntry(".").FileInfo(), nil
	}
	return g.Fs.Stat(name)
}
