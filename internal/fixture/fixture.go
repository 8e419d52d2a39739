// Package fixture builds small FAT32 images in memory.
//
// The images contain a boot sector, the FAT copies, the directory clusters
// and the content of files which have one. Other file clusters are allocated
// and chained but stay zero.
package fixture

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-restruct/restruct"
)

const (
	slotSize      = 32
	longNameChars = 13

	attrVolumeID  = 0x08
	attrDirectory = 0x10
	attrArchive   = 0x20
	attrLongName  = 0x0F

	lastLongEntry = 0x40
	deletedMarker = 0xE5

	// EndOfChain is written to the FAT entry of the last cluster of a chain.
	EndOfChain = uint32(0x0FFFFFFF)

	mediaFixed = 0xF8
)

// ErrFull is returned when the image has no free cluster left.
var ErrFull = errors.New("no free cluster left in the image")

// Layout is the geometry of the image to build.
type Layout struct {
	BytesPerSector    uint16
	SectorsPerCluster uint8
	ReservedSectors   uint16
	NumFATs           uint8
	// Clusters is the number of data clusters.
	Clusters uint32
	// Label is written to the boot sector and as volume label entry into the root directory.
	Label string
}

// DefaultLayout uses 512 byte clusters, so directories with more than 15 entries span clusters.
func DefaultLayout() Layout {
	return Layout{
		BytesPerSector:    512,
		SectorsPerCluster: 1,
		ReservedSectors:   32,
		NumFATs:           2,
		Clusters:          256,
	}
}

// Node is a file or directory to put into the image.
// A file with Content gets that content and its length as size, otherwise Size zero bytes are allocated.
type Node struct {
	Name     string
	Dir      bool
	Size     uint32
	Content  []byte
	ModTime  time.Time
	Deleted  bool
	Children []Node
}

// Image is an image under construction.
type Image struct {
	layout        Layout
	sectorsPerFAT uint32
	fat           []uint32
	data          []byte
	next          uint32
	root          uint32
}

// New allocates an empty image. The root cluster defaults to 2.
func New(layout Layout) *Image {
	fatBytes := (layout.Clusters + 2) * 4
	bps := uint32(layout.BytesPerSector)
	sectorsPerFAT := (fatBytes + bps - 1) / bps

	fat := make([]uint32, layout.Clusters+2)
	fat[0] = 0x0FFFFF00 | mediaFixed
	fat[1] = EndOfChain

	im := &Image{
		layout:        layout,
		sectorsPerFAT: sectorsPerFAT,
		fat:           fat,
		next:          2,
		root:          2,
	}
	im.data = make([]byte, int64(im.TotalSectors())*int64(bps))
	return im
}

// SectorsPerFAT is the size of one FAT copy.
func (im *Image) SectorsPerFAT() uint32 {
	return im.sectorsPerFAT
}

// TotalSectors is the size of the whole image in sectors.
func (im *Image) TotalSectors() uint32 {
	return uint32(im.layout.ReservedSectors) +
		uint32(im.layout.NumFATs)*im.sectorsPerFAT +
		im.layout.Clusters*uint32(im.layout.SectorsPerCluster)
}

// ClusterSize is the number of bytes in one cluster.
func (im *Image) ClusterSize() int {
	return int(im.layout.BytesPerSector) * int(im.layout.SectorsPerCluster)
}

// ClusterOffset is the byte offset of cluster c inside the image.
func (im *Image) ClusterOffset(c uint32) int64 {
	sector := int64(im.layout.ReservedSectors) +
		int64(im.layout.NumFATs)*int64(im.sectorsPerFAT) +
		int64(c-2)*int64(im.layout.SectorsPerCluster)
	return sector * int64(im.layout.BytesPerSector)
}

// SetRootCluster changes the root cluster written to the boot sector.
func (im *Image) SetRootCluster(c uint32) {
	im.root = c
}

// Alloc takes n consecutive free clusters and chains them.
func (im *Image) Alloc(n int) ([]uint32, error) {
	if n == 0 {
		return nil, nil
	}
	if uint64(im.next)+uint64(n) > uint64(len(im.fat)) {
		return nil, ErrFull
	}

	chain := make([]uint32, n)
	for i := range chain {
		chain[i] = im.next
		im.next++
	}
	im.Link(chain...)
	return chain, nil
}

// Link writes the FAT entries so that chain[i] is followed by chain[i+1]
// and the last cluster ends the chain.
func (im *Image) Link(chain ...uint32) {
	for i, c := range chain {
		if i == len(chain)-1 {
			im.fat[c] = EndOfChain
		} else {
			im.fat[c] = chain[i+1]
		}
		if c >= im.next {
			im.next = c + 1
		}
	}
}

// SetFAT overwrites a single raw FAT entry.
func (im *Image) SetFAT(c, value uint32) {
	im.fat[c] = value
}

// WriteSlots writes the slots one after another into the clusters of chain.
func (im *Image) WriteSlots(chain []uint32, slots [][]byte) error {
	perCluster := im.ClusterSize() / slotSize
	if len(slots) > perCluster*len(chain) {
		return fmt.Errorf("%d slots do not fit into %d clusters", len(slots), len(chain))
	}

	for i, slot := range slots {
		offset := im.ClusterOffset(chain[i/perCluster]) + int64(i%perCluster)*slotSize
		copy(im.data[offset:offset+slotSize], slot)
	}
	return nil
}

// WriteData writes data into the clusters of chain, continuing in the next cluster when one is full.
func (im *Image) WriteData(chain []uint32, data []byte) error {
	size := im.ClusterSize()
	if len(data) > size*len(chain) {
		return fmt.Errorf("%d bytes do not fit into %d clusters", len(data), len(chain))
	}

	for i := 0; i*size < len(data); i++ {
		end := (i + 1) * size
		if end > len(data) {
			end = len(data)
		}
		copy(im.data[im.ClusterOffset(chain[i]):], data[i*size:end])
	}
	return nil
}

// Bytes writes the boot sector and the FAT copies and returns the image.
func (im *Image) Bytes() ([]byte, error) {
	boot, err := im.bootSector()
	if err != nil {
		return nil, err
	}
	copy(im.data, boot)
	im.data[510] = 0x55
	im.data[511] = 0xAA

	raw := make([]byte, len(im.fat)*4)
	for i, entry := range im.fat {
		binary.LittleEndian.PutUint32(raw[i*4:], entry)
	}
	for n := 0; n < int(im.layout.NumFATs); n++ {
		offset := (int64(im.layout.ReservedSectors) + int64(n)*int64(im.sectorsPerFAT)) * int64(im.layout.BytesPerSector)
		copy(im.data[offset:], raw)
	}

	return im.data, nil
}

type bootSector struct {
	JumpBoot          [3]byte
	OEMName           [8]byte
	BytesPerSector    uint16
	SectorsPerCluster uint8
	ReservedSectors   uint16
	NumFATs           uint8
	RootEntryCount    uint16
	TotalSectors16    uint16
	Media             uint8
	FATSize16         uint16
	SectorsPerTrack   uint16
	NumberOfHeads     uint16
	HiddenSectors     uint32
	TotalSectors32    uint32
	FATSize32         uint32
	ExtFlags          uint16
	FSVersion         uint16
	RootCluster       uint32
	FSInfo            uint16
	BkBootSector      uint16
	Reserved          [12]byte
	DriveNumber       uint8
	Reserved1         uint8
	BootSignature     uint8
	VolumeID          uint32
	VolumeLabel       [11]byte
	FileSystemType    [8]byte
}

func (im *Image) bootSector() ([]byte, error) {
	bs := bootSector{
		JumpBoot:          [3]byte{0xEB, 0x58, 0x90},
		OEMName:           [8]byte{'f', 'a', 't', 't', 'r', 'e', 'e', ' '},
		BytesPerSector:    im.layout.BytesPerSector,
		SectorsPerCluster: im.layout.SectorsPerCluster,
		ReservedSectors:   im.layout.ReservedSectors,
		NumFATs:           im.layout.NumFATs,
		Media:             mediaFixed,
		SectorsPerTrack:   32,
		NumberOfHeads:     64,
		TotalSectors32:    im.TotalSectors(),
		FATSize32:         im.sectorsPerFAT,
		RootCluster:       im.root,
		FSInfo:            1,
		BkBootSector:      6,
		DriveNumber:       0x80,
		BootSignature:     0x29,
		VolumeID:          0x1234ABCD,
		VolumeLabel:       pad11(im.layout.Label, "NO NAME"),
		FileSystemType:    [8]byte{'F', 'A', 'T', '3', '2', ' ', ' ', ' '},
	}
	return restruct.Pack(binary.LittleEndian, &bs)
}

func pad11(s, fallback string) [11]byte {
	if s == "" {
		s = fallback
	}
	var out [11]byte
	copy(out[:], strings.Repeat(" ", 11))
	copy(out[:], strings.ToUpper(s))
	return out
}
