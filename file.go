package fattree

import (
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/aligator/fattree/checkpoint"
	"github.com/spf13/afero"
)

// fileSystem provides all methods needed from a volume for File.
// It mainly exists to be able to mock the Volume in tests.
// Generated mock using mockgen:
//  mockgen -source=file.go -destination=file_mock_test.go -package fattree
type fileSystem interface {
	readFileAt(first Cluster, p []byte, off int64) (int, error)
	readDir(cluster Cluster) ([]Entry, error)
}

// File is a read-only afero.File for an entry of a Volume.
type File struct {
	fs    fileSystem
	path  string
	entry Entry

	offset int64

	// children is read on the first Readdir call.
	children  []Entry
	loaded    bool
	dirOffset int
}

var _ afero.File = (*File)(nil)

// Entry is the directory entry the file was opened from.
func (f *File) Entry() Entry {
	return f.entry
}

func (f *File) Close() error {
	if f.fs == nil {
		return afero.ErrFileClosed
	}

	f.fs = nil
	f.children = nil
	f.loaded = false
	f.offset = 0
	f.dirOffset = 0

	return nil
}

func (f *File) size() int64 {
	return int64(f.entry.FileSize)
}

func (f *File) checkRead(op string) error {
	if f.fs == nil {
		return &os.PathError{Op: op, Path: f.path, Err: afero.ErrFileClosed}
	}
	if f.entry.IsDir() {
		return &os.PathError{Op: op, Path: f.path, Err: syscall.EISDIR}
	}
	return nil
}

func (f *File) Read(p []byte) (n int, err error) {
	if err := f.checkRead("read"); err != nil {
		return 0, err
	}
	if len(p) == 0 {
		return 0, nil
	}

	// Reading a file if the size has been already reached, makes no sense.
	if f.size() <= f.offset {
		return 0, io.EOF
	}

	n, err = f.ReadAt(p, f.offset)
	f.offset += int64(n)

	if err == io.EOF && n > 0 {
		return n, nil
	}
	return n, err
}

// ReadAt reads len(p) bytes at off. Reading over the end of the file returns io.EOF
// together with the bytes up to the end.
func (f *File) ReadAt(p []byte, off int64) (n int, err error) {
	if err := f.checkRead("readat"); err != nil {
		return 0, err
	}
	if off < 0 {
		return 0, &os.PathError{Op: "readat", Path: f.path, Err: syscall.EINVAL}
	}

	// Reading over the end makes no sense.
	if f.size() <= off {
		return 0, io.EOF
	}

	want := len(p)
	if rest := f.size() - off; rest < int64(want) {
		want = int(rest)
	}

	n, err = f.fs.readFileAt(f.entry.FirstCluster(), p[:want], off)
	if err != nil {
		return n, checkpoint.Wrap(err, ErrReadFile)
	}

	if want < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Seek jumps to a specific offset in the file. This affects all Read operation except ReadAt.
// May return a syscall.EINVAL error if the whence value is invalid.
// May return an afero.ErrOutOfRange error if the offset is out of range.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	if f.fs == nil {
		return 0, &os.PathError{Op: "seek", Path: f.path, Err: afero.ErrFileClosed}
	}

	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		offset = f.offset + offset
	case io.SeekEnd:
		offset = f.size() + offset
	default:
		return 0, checkpoint.Wrap(ErrSeekFile, fmt.Errorf("%w, offset: %v, whence: %v", syscall.EINVAL, offset, whence))
	}

	if offset < 0 || offset > f.size() {
		return 0, checkpoint.Wrap(afero.ErrOutOfRange, fmt.Errorf("%w, offset: %v, whence: %v", ErrSeekFile, offset, whence))
	}

	f.offset = offset
	return offset, nil
}

func (f *File) Write(p []byte) (n int, err error) {
	return 0, &os.PathError{Op: "write", Path: f.path, Err: syscall.EPERM}
}

func (f *File) WriteAt(p []byte, off int64) (n int, err error) {
	return 0, &os.PathError{Op: "writeat", Path: f.path, Err: syscall.EPERM}
}

func (f *File) Name() string {
	return f.path
}

// Readdir reads the contents of a directory.
// May return syscall.ENOTDIR if the current File is no directory.
//
// With count > 0 at most count entries are returned and io.EOF once all entries were returned.
// With count <= 0 all remaining entries are returned.
func (f *File) Readdir(count int) ([]os.FileInfo, error) {
	if f.fs == nil {
		return nil, &os.PathError{Op: "readdir", Path: f.path, Err: afero.ErrFileClosed}
	}
	if !f.entry.IsDir() {
		return nil, checkpoint.Wrap(syscall.ENOTDIR, ErrReadDir)
	}

	if !f.loaded {
		children, err := f.fs.readDir(f.entry.FirstCluster())
		if err != nil {
			return nil, checkpoint.Wrap(err, ErrReadDir)
		}
		f.children = children
		f.loaded = true
	}

	content := f.children[f.dirOffset:]
	if count > 0 {
		if len(content) == 0 {
			return nil, io.EOF
		}
		if len(content) > count {
			content = content[:count]
		}
	}
	f.dirOffset += len(content)

	result := make([]os.FileInfo, len(content))
	for i := range content {
		result[i] = content[i].FileInfo()
	}

	return result, nil
}

func (f *File) Readdirnames(count int) ([]string, error) {
	content, err := f.Readdir(count)
	if err != nil {
		return nil, checkpoint.Wrap(err, ErrReadDir)
	}

	names := make([]string, len(content))
	for i, entry := range content {
		names[i] = entry.Name()
	}

	return names, nil
}

func (f *File) Stat() (os.FileInfo, error) {
	return f.entry.FileInfo(), nil
}

func (f *File) Sync() error {
	return nil
}

func (f *File) Truncate(size int64) error {
	return &os.PathError{Op: "truncate", Path: f.path, Err: syscall.EPERM}
}

func (f *File) WriteString(s string) (ret int, err error) {
	return f.Write([]byte(s))
}
