package fattree

import (
	"encoding/binary"
	"strings"

	"github.com/aligator/fattree/checkpoint"
	"github.com/go-restruct/restruct"
)

// Geometry contains the layout of a volume as decoded from its boot sector.
// It is never changed after decoding.
type Geometry struct {
	BytesPerSector      uint16
	SectorsPerCluster   uint8
	ReservedSectorCount uint16
	NumFATs             uint8
	TotalSectors        uint32
	SectorsPerFAT       uint32
	RootCluster         Cluster

	// Informational fields, they are not used for addressing.
	OEMName        string
	VolumeID       uint32
	VolumeLabel    string
	FileSystemType string
	Signature      bool
}

// ParseBootSector decodes the geometry from the first 512 bytes of a volume.
// The content is not validated: any 512 byte buffer results in some geometry.
// Only a buffer shorter than 512 bytes is rejected.
func ParseBootSector(buf []byte) (Geometry, error) {
	if len(buf) < BootSectorSize {
		return Geometry{}, checkpoint.Wrapf(ErrShortBootSector, "got %d bytes", len(buf))
	}

	bs := BootSector{}
	err := restruct.Unpack(buf[:bootSectorHeaderSize], binary.LittleEndian, &bs)
	if err != nil {
		return Geometry{}, checkpoint.Wrap(err, ErrShortBootSector)
	}

	return Geometry{
		BytesPerSector:      bs.BytesPerSector,
		SectorsPerCluster:   bs.SectorsPerCluster,
		ReservedSectorCount: bs.ReservedSectorCount,
		NumFATs:             bs.NumFATs,
		TotalSectors:        bs.TotalSectors32,
		SectorsPerFAT:       bs.FAT32.FATSize,
		RootCluster:         Cluster(bs.FAT32.RootCluster),

		OEMName:        trimField(bs.BSOEMName[:]),
		VolumeID:       bs.FAT32.BSVolumeID,
		VolumeLabel:    trimField(bs.FAT32.BSVolumeLabel[:]),
		FileSystemType: trimField(bs.FAT32.BSFileSystemType[:]),
		Signature:      buf[510] == 0x55 && buf[511] == 0xAA,
	}, nil
}

func trimField(b []byte) string {
	return strings.TrimRight(string(b), " \x00")
}
