package fattree

import (
	"github.com/aligator/fattree/checkpoint"
	"github.com/sirupsen/logrus"
)

// Options changes how a Volume is read.
type Options struct {
	// SkipDeleted continues a directory scan behind deleted entries.
	// By default a deleted entry ends the scan just like the end-of-directory marker.
	SkipDeleted bool

	// FATCopy selects the FAT copy used to follow cluster chains. 0 is the primary FAT.
	FATCopy int

	// Log receives debug output about chain traversal.
	// logrus.StandardLogger() is used if it is nil.
	Log logrus.FieldLogger
}

// Volume is an opened FAT32 volume.
// It only reads from its Source and keeps no other state than the decoded geometry,
// so it can be shared by any number of directory scans.
type Volume struct {
	src      Source
	geometry Geometry
	opts     Options
	log      logrus.FieldLogger
}

// New reads the boot sector from src and returns the volume it describes.
func New(src Source) (*Volume, error) {
	return NewWithOptions(src, Options{})
}

// NewWithOptions is like New but allows to change the scan behaviour.
func NewWithOptions(src Source, opts Options) (*Volume, error) {
	buf, err := src.Read(0, BootSectorSize)
	if err != nil {
		return nil, checkpoint.Wrap(err, ErrShortBootSector)
	}

	geometry, err := ParseBootSector(buf)
	if err != nil {
		return nil, checkpoint.From(err)
	}

	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	log.WithFields(logrus.Fields{
		"bytesPerSector":    geometry.BytesPerSector,
		"sectorsPerCluster": geometry.SectorsPerCluster,
		"reservedSectors":   geometry.ReservedSectorCount,
		"fats":              geometry.NumFATs,
		"sectorsPerFAT":     geometry.SectorsPerFAT,
		"rootCluster":       geometry.RootCluster,
	}).Debug("decoded boot sector")

	return &Volume{
		src:      src,
		geometry: geometry,
		opts:     opts,
		log:      log,
	}, nil
}

// Geometry returns the decoded boot sector values.
func (v *Volume) Geometry() Geometry {
	return v.geometry
}

// Root opens the root directory.
func (v *Volume) Root() *Dir {
	return v.OpenDir(v.geometry.RootCluster)
}

// OpenDir opens the directory starting at cluster.
func (v *Volume) OpenDir(cluster Cluster) *Dir {
	return &Dir{
		volume: v,
		cursor: NewCursor(cluster),
	}
}
