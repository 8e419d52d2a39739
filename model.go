// File model contains the structs which match the on-disk structures of a FAT32 volume.
// They are unpacked with restruct, so the field order and sizes must match the disk layout exactly.

package fattree

// Attr is the attribute byte of a directory entry.
type Attr uint8

const (
	AttrReadOnly  Attr = 0x01
	AttrHidden    Attr = 0x02
	AttrSystem    Attr = 0x04
	AttrVolumeID  Attr = 0x08
	AttrDirectory Attr = 0x10
	AttrArchive   Attr = 0x20
	AttrLongName       = AttrReadOnly | AttrHidden | AttrSystem | AttrVolumeID
)

const (
	// BootSectorSize is the size of the reserved region read to decode the geometry.
	BootSectorSize = 512

	// SlotSize is the size of one directory slot.
	SlotSize = 32

	// bootSectorHeaderSize is the part of the boot sector covered by BootSector.
	bootSectorHeaderSize = 90

	shortNameLength = 11

	// longNameChars is the number of UTF-16 code units in one LFN fragment.
	longNameChars = 13

	// lastLongEntry flags the fragment with the highest ordinal.
	lastLongEntry = 0x40

	// EndOfDirectory in the first name byte means no further entries follow.
	EndOfDirectory = 0x00

	// DeletedMarker in the first name byte marks a deleted entry.
	DeletedMarker = 0xE5
)

// BootSector is the BIOS parameter block followed by the FAT32 extension.
type BootSector struct {
	BSJumpBoot          [3]byte
	BSOEMName           [8]byte
	BytesPerSector      uint16
	SectorsPerCluster   byte
	ReservedSectorCount uint16
	NumFATs             byte
	RootEntryCount      uint16
	TotalSectors16      uint16
	Media               byte
	FATSize16           uint16
	SectorsPerTrack     uint16
	NumberOfHeads       uint16
	HiddenSectors       uint32
	TotalSectors32      uint32
	FAT32               FAT32SpecificData
}

type FAT32SpecificData struct {
	FATSize          uint32
	ExtFlags         uint16
	FSVersion        uint16
	RootCluster      uint32
	FSInfo           uint16
	BkBootSector     uint16
	Reserved         [12]byte
	BSDriveNumber    byte
	BSReserved1      byte
	BSBootSignature  byte
	BSVolumeID       uint32
	BSVolumeLabel    [11]byte
	BSFileSystemType [8]byte
}

// EntryHeader is a short directory entry.
type EntryHeader struct {
	Name            [shortNameLength]byte
	Attribute       Attr
	NTReserved      byte
	CreateTimeTenth byte
	CreateTime      uint16
	CreateDate      uint16
	LastAccessDate  uint16
	FirstClusterHI  uint16
	WriteTime       uint16
	WriteDate       uint16
	FirstClusterLO  uint16
	FileSize        uint32
}

// FirstCluster recombines the two halves of the first cluster.
func (h EntryHeader) FirstCluster() Cluster {
	return Cluster(uint32(h.FirstClusterHI)<<16 | uint32(h.FirstClusterLO))
}

// LongFilenameEntry is one fragment of a long file name.
type LongFilenameEntry struct {
	Sequence  byte
	First     [5]uint16
	Attribute Attr
	EntryType byte
	Checksum  byte
	Second    [6]uint16
	Zero      [2]byte
	Third     [2]uint16
}

// Ordinal is the 1-based position of the fragment inside the name.
func (l LongFilenameEntry) Ordinal() int {
	return int(l.Sequence &^ lastLongEntry)
}

// IsLast reports whether this fragment carries the end of the name.
func (l LongFilenameEntry) IsLast() bool {
	return l.Sequence&lastLongEntry == lastLongEntry
}

func (l LongFilenameEntry) chars() []uint16 {
	units := make([]uint16, 0, longNameChars)
	units = append(units, l.First[:]...)
	units = append(units, l.Second[:]...)
	return append(units, l.Third[:]...)
}
