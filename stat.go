package fattree

import (
	"os"
	"time"
)

// FileInfo exposes the entry as os.FileInfo. Sys() returns the Entry itself.
func (e Entry) FileInfo() os.FileInfo {
	return entryFileInfo{e}
}

type entryFileInfo struct {
	entry Entry
}

func (i entryFileInfo) Name() string {
	return i.entry.DisplayName()
}

func (i entryFileInfo) Size() int64 {
	return int64(i.entry.FileSize)
}

func (i entryFileInfo) Mode() os.FileMode {
	mode := os.FileMode(0444)
	if i.entry.Attribute&AttrReadOnly == 0 {
		mode |= 0222
	}
	if i.IsDir() {
		return mode | os.ModeDir | 0111
	}
	return mode
}

func (i entryFileInfo) ModTime() time.Time {
	return i.entry.ModTime()
}

func (i entryFileInfo) IsDir() bool {
	return i.entry.IsDir()
}

func (i entryFileInfo) Sys() interface{} {
	return i.entry
}
