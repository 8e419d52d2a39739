package fattree

import (
	"os"
	"path"
	"strings"
	"syscall"
	"time"

	"github.com/aligator/fattree/checkpoint"
	"github.com/spf13/afero"
)

// Fs exposes a Volume as read-only afero.Fs.
// Every method which would change the volume fails with syscall.EPERM.
//
// Names are looked up case-insensitively, by long name as well as by short name.
type Fs struct {
	volume *Volume
}

var _ afero.Fs = (*Fs)(nil)

// NewFs wraps v.
func NewFs(v *Volume) *Fs {
	return &Fs{volume: v}
}

// readFileAt fills p with the content of the file starting at first, beginning at offset off.
// The caller limits p to the file size, so running out of clusters is an error.
func (v *Volume) readFileAt(first Cluster, p []byte, off int64) (int, error) {
	clusterSize := int64(v.geometry.ClusterSize())
	if clusterSize == 0 {
		return 0, checkpoint.Wrapf(ErrInvalidGeometry, "cluster size is 0")
	}

	current := first
	for skip := off / clusterSize; skip > 0; skip-- {
		next, err := v.NextCluster(current)
		if err != nil {
			return 0, checkpoint.From(err)
		}
		if next.IsEndOfChain() {
			return 0, checkpoint.Wrapf(ErrShortRead, "chain of cluster %d ends before offset %d", uint32(first), off)
		}
		current = next
	}

	pos := off % clusterSize
	n := 0
	for n < len(p) {
		base, err := v.geometry.ClusterAddress(current)
		if err != nil {
			return n, checkpoint.From(err)
		}

		chunk := clusterSize - pos
		if rest := int64(len(p) - n); rest < chunk {
			chunk = rest
		}

		data, err := v.src.Read(base+pos, int(chunk))
		n += copy(p[n:], data)
		if err != nil {
			return n, checkpoint.From(err)
		}

		if n == len(p) {
			break
		}

		next, err := v.NextCluster(current)
		if err != nil {
			return n, checkpoint.From(err)
		}
		if next.IsEndOfChain() {
			return n, checkpoint.Wrapf(ErrShortRead, "chain of cluster %d ends after %d bytes", uint32(first), off+int64(n))
		}
		current = next
		pos = 0
	}

	return n, nil
}

// readDir lists the directory starting at cluster without the "." and ".." entries and the volume label.
func (v *Volume) readDir(cluster Cluster) ([]Entry, error) {
	entries, err := v.OpenDir(cluster).ReadAll()
	if err != nil {
		return nil, checkpoint.From(err)
	}

	result := entries[:0]
	for _, e := range entries {
		if e.IsDotEntry() || e.IsVolumeLabel() {
			continue
		}
		result = append(result, e)
	}
	return result, nil
}

// rootEntry is a synthetic entry for the root directory which has none on disk.
func (v *Volume) rootEntry(name string) Entry {
	root := v.geometry.RootCluster
	return Entry{
		EntryHeader: EntryHeader{
			Attribute:      AttrDirectory,
			FirstClusterHI: uint16(root >> 16),
			FirstClusterLO: uint16(root),
		},
		LongName: name,
	}
}

func matches(e Entry, name string) bool {
	return strings.EqualFold(e.DisplayName(), name) || strings.EqualFold(e.ShortName(), name)
}

// lookup resolves a slash separated path. It returns the path in its cleaned form.
func (fs *Fs) lookup(name string) (string, Entry, error) {
	cleaned := path.Clean("/" + name)
	entry := fs.volume.rootEntry("/")

	if cleaned == "/" {
		return cleaned, entry, nil
	}

	for _, part := range strings.Split(cleaned[1:], "/") {
		if !entry.IsDir() {
			return cleaned, Entry{}, syscall.ENOTDIR
		}

		children, err := fs.volume.readDir(entry.FirstCluster())
		if err != nil {
			return cleaned, Entry{}, err
		}

		found := false
		for _, child := range children {
			if matches(child, part) {
				entry = child
				found = true
				break
			}
		}
		if !found {
			return cleaned, Entry{}, os.ErrNotExist
		}
	}

	return cleaned, entry, nil
}

func (fs *Fs) open(name string) (*File, error) {
	cleaned, entry, err := fs.lookup(name)
	if err != nil {
		return nil, &os.PathError{Op: "open", Path: name, Err: err}
	}

	return &File{
		fs:    fs.volume,
		path:  cleaned,
		entry: entry,
	}, nil
}

func (fs *Fs) Open(name string) (afero.File, error) {
	return fs.open(name)
}

// OpenFile only supports os.O_RDONLY.
func (fs *Fs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if flag&(os.O_WRONLY|os.O_RDWR|os.O_APPEND|os.O_CREATE|os.O_TRUNC) != 0 {
		return nil, &os.PathError{Op: "open", Path: name, Err: syscall.EPERM}
	}
	return fs.open(name)
}

func (fs *Fs) Stat(name string) (os.FileInfo, error) {
	_, entry, err := fs.lookup(name)
	if err != nil {
		return nil, &os.PathError{Op: "stat", Path: name, Err: err}
	}
	return entry.FileInfo(), nil
}

// Name is the volume label.
func (fs *Fs) Name() string {
	return fs.volume.geometry.VolumeLabel
}

func (fs *Fs) Create(name string) (afero.File, error) {
	return nil, &os.PathError{Op: "create", Path: name, Err: syscall.EPERM}
}

func (fs *Fs) Mkdir(name string, perm os.FileMode) error {
	return &os.PathError{Op: "mkdir", Path: name, Err: syscall.EPERM}
}

func (fs *Fs) MkdirAll(path string, perm os.FileMode) error {
	return &os.PathError{Op: "mkdir", Path: path, Err: syscall.EPERM}
}

func (fs *Fs) Remove(name string) error {
	return &os.PathError{Op: "remove", Path: name, Err: syscall.EPERM}
}

func (fs *Fs) RemoveAll(path string) error {
	return &os.PathError{Op: "remove", Path: path, Err: syscall.EPERM}
}

func (fs *Fs) Rename(oldname, newname string) error {
	return &os.LinkError{Op: "rename", Old: oldname, New: newname, Err: syscall.EPERM}
}

func (fs *Fs) Chmod(name string, mode os.FileMode) error {
	return &os.PathError{Op: "chmod", Path: name, Err: syscall.EPERM}
}

func (fs *Fs) Chown(name string, uid, gid int) error {
	return &os.PathError{Op: "chown", Path: name, Err: syscall.EPERM}
}

func (fs *Fs) Chtimes(name string, atime time.Time, mtime time.Time) error {
	return &os.PathError{Op: "chtimes", Path: name, Err: syscall.EPERM}
}
