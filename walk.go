package fattree

import (
	"errors"
	"io"
	"path"

	"github.com/sirupsen/logrus"
)

// SkipDir can be returned by a WalkFunc to skip the children of the directory entry it was called for.
var SkipDir = errors.New("skip this directory")

// WalkFunc is called for every entry found by Walk, in pre-order.
// path is the slash separated path of the entry and depth is 0 for entries of the root directory.
//
// If a directory cannot be read completely, the function is called once more with the path
// and depth of that directory and the error, and the entry is zero.
// The rest of that directory is skipped in any case. Returning a non-nil error
// (other than SkipDir) stops the walk and Walk returns that error.
type WalkFunc func(path string, depth int, entry Entry, err error) error

// WalkOptions limits a walk.
type WalkOptions struct {
	// MaxDepth limits how many directory levels are visited. 0 means no limit,
	// 1 only lists the root directory.
	MaxDepth int

	// Log receives warnings about directories which are not entered.
	// logrus.StandardLogger() is used if it is nil.
	Log logrus.FieldLogger
}

type walkFrame struct {
	dir   *Dir
	path  string
	depth int
}

// Walk visits all entries of the volume depth first.
// The "." and ".." entries and the volume label are not reported.
//
// Directories are kept on an explicit stack, so deeply nested images do not grow the call stack.
// A directory cluster which was already visited is not entered a second time.
func Walk(v *Volume, fn WalkFunc, opts WalkOptions) error {
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	root := v.Geometry().RootCluster
	visited := map[Cluster]bool{root: true}
	stack := []walkFrame{{dir: v.Root()}}

	for len(stack) > 0 {
		frame := stack[len(stack)-1]

		entry, err := frame.dir.Next()
		if err == io.EOF {
			stack = stack[:len(stack)-1]
			continue
		}
		if err != nil {
			stack = stack[:len(stack)-1]
			if err := fn(frame.path, frame.depth, Entry{}, err); err != nil && err != SkipDir {
				return err
			}
			continue
		}

		if entry.IsDotEntry() || entry.IsVolumeLabel() {
			continue
		}

		entryPath := path.Join(frame.path, entry.DisplayName())
		err = fn(entryPath, frame.depth, entry, nil)
		if err == SkipDir {
			continue
		}
		if err != nil {
			return err
		}

		if !entry.IsDir() {
			continue
		}

		if opts.MaxDepth > 0 && frame.depth+1 >= opts.MaxDepth {
			continue
		}

		cluster := entry.FirstCluster()
		fields := logrus.Fields{"path": entryPath, "cluster": uint32(cluster)}
		if !cluster.Valid() {
			log.WithFields(fields).Warn("directory has no valid first cluster, not entering it")
			continue
		}
		if visited[cluster] {
			log.WithFields(fields).Warn("directory cluster was already visited, not entering it")
			continue
		}
		visited[cluster] = true

		stack = append(stack, walkFrame{
			dir:   v.OpenDir(cluster),
			path:  entryPath,
			depth: frame.depth + 1,
		})
	}

	return nil
}
