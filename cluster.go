package fattree

import (
	"fmt"

	"github.com/aligator/fattree/checkpoint"
)

// Cluster is a 28 bit cluster index. Data clusters start at 2.
type Cluster uint32

const (
	// ClusterMask strips the four reserved high bits of a FAT entry.
	ClusterMask Cluster = 0x0FFFFFFF

	// EndOfChain is the sentinel written after the last cluster of a chain.
	EndOfChain Cluster = 0x0FFFFFFF

	// BadCluster marks a cluster which must not be used.
	BadCluster Cluster = 0x0FFFFFF7

	firstDataCluster Cluster = 2
	endOfChainMin    Cluster = 0x0FFFFFF8
)

// Valid reports whether c can address a data cluster.
func (c Cluster) Valid() bool {
	return c >= firstDataCluster
}

// IsEndOfChain reports whether no cluster follows c.
// Any value in 0x0FFFFFF8 to 0x0FFFFFFF ends a chain.
func (c Cluster) IsEndOfChain() bool {
	return c&ClusterMask >= endOfChainMin
}

func (c Cluster) String() string {
	if c.IsEndOfChain() {
		return "EOC"
	}
	return fmt.Sprintf("%d", uint32(c))
}

// ClusterSize is the number of bytes in one cluster.
func (g Geometry) ClusterSize() uint32 {
	return uint32(g.SectorsPerCluster) * uint32(g.BytesPerSector)
}

// FirstDataSector is the sector at which cluster 2 starts.
func (g Geometry) FirstDataSector() uint32 {
	return uint32(g.ReservedSectorCount) + uint32(g.NumFATs)*g.SectorsPerFAT
}

// ClusterCount is the number of data clusters on the volume
// or 0 if the geometry does not describe any.
func (g Geometry) ClusterCount() uint32 {
	first := g.FirstDataSector()
	if g.SectorsPerCluster == 0 || g.TotalSectors <= first {
		return 0
	}
	return (g.TotalSectors - first) / uint32(g.SectorsPerCluster)
}

// ClusterAddress translates a cluster index into the absolute byte offset of its first byte.
// Cluster 0 and 1 do not exist in the data region, for them ErrInvalidCluster is returned.
func (g Geometry) ClusterAddress(c Cluster) (int64, error) {
	if !c.Valid() {
		return 0, checkpoint.Wrapf(ErrInvalidCluster, "cluster %d has no address", uint32(c))
	}

	sector := int64(c-firstDataCluster)*int64(g.SectorsPerCluster) + int64(g.FirstDataSector())
	return sector * int64(g.BytesPerSector), nil
}

// FATEntryOffset is the absolute byte offset of the entry of c in the given FAT copy.
// Copy 0 is the primary FAT which starts right after the reserved sectors.
// Adding NumFATs*SectorsPerFAT to the reserved sectors, as some readers do, would point into the data region instead.
func (g Geometry) FATEntryOffset(c Cluster, index int) (int64, error) {
	if g.BytesPerSector == 0 {
		return 0, checkpoint.Wrapf(ErrInvalidGeometry, "bytes per sector is 0")
	}
	if index < 0 || (index > 0 && index >= int(g.NumFATs)) {
		return 0, checkpoint.Wrapf(ErrInvalidGeometry, "FAT copy %d does not exist, volume has %d", index, g.NumFATs)
	}

	offset := int64(c) * 4
	bps := int64(g.BytesPerSector)
	sector := int64(index)*int64(g.SectorsPerFAT) + int64(g.ReservedSectorCount) + offset/bps
	return sector*bps + offset%bps, nil
}
