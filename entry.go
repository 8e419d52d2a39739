package fattree

import (
	"encoding/binary"
	"strings"
	"time"
	"unicode/utf16"

	"github.com/aligator/fattree/checkpoint"
	"github.com/go-restruct/restruct"
)

// currentDirMarker is the first name byte of the "." and ".." entries.
const currentDirMarker = '.'

// Entry is a directory entry as it is presented to callers:
// the short entry together with the long name reassembled from the fragments in front of it.
type Entry struct {
	EntryHeader

	// LongName is empty if no fragments preceded the short entry.
	LongName string
}

// IsLongNameSlot reports whether the slot is a fragment of a long name.
func IsLongNameSlot(slot []byte) bool {
	return len(slot) >= SlotSize && Attr(slot[11])&AttrLongName == AttrLongName
}

// DecodeShortEntry decodes a 32 byte slot as short entry.
func DecodeShortEntry(slot []byte) (EntryHeader, error) {
	if len(slot) < SlotSize {
		return EntryHeader{}, checkpoint.Wrapf(ErrShortSlot, "got %d bytes", len(slot))
	}

	h := EntryHeader{}
	err := restruct.Unpack(slot[:SlotSize], binary.LittleEndian, &h)
	if err != nil {
		return EntryHeader{}, checkpoint.Wrap(err, ErrShortSlot)
	}
	return h, nil
}

// LongName collects the fragments of a long file name.
// Fragment k covers the code units (k-1)*13 to k*13, independent of the order
// the fragments are added in. The zero value is ready to use.
type LongName struct {
	units  []uint16
	end    int
	hasEnd bool
}

// Add decodes slot as long name fragment and stores its characters at the position given by the ordinal.
// The fragment flagged as last fixes the end of the name right behind its characters.
func (n *LongName) Add(slot []byte) error {
	if len(slot) < SlotSize {
		return checkpoint.Wrapf(ErrShortSlot, "got %d bytes", len(slot))
	}

	fragment := LongFilenameEntry{}
	err := restruct.Unpack(slot[:SlotSize], binary.LittleEndian, &fragment)
	if err != nil {
		return checkpoint.Wrap(err, ErrShortSlot)
	}

	ordinal := fragment.Ordinal()
	if ordinal == 0 {
		return checkpoint.From(ErrInvalidOrdinal)
	}

	start := (ordinal - 1) * longNameChars
	if missing := start + longNameChars - len(n.units); missing > 0 {
		n.units = append(n.units, make([]uint16, missing)...)
	}
	copy(n.units[start:], fragment.chars())

	if fragment.IsLast() {
		n.end = start + longNameChars
		n.hasEnd = true
	}
	return nil
}

// Len is the number of code units stored so far, including padding.
func (n *LongName) Len() int {
	return len(n.units)
}

// String returns the name up to the end set by the last fragment or the first NUL, whichever comes first.
func (n *LongName) String() string {
	units := n.units
	if n.hasEnd && n.end < len(units) {
		units = units[:n.end]
	}
	for i, u := range units {
		if u == 0 {
			units = units[:i]
			break
		}
	}
	return string(utf16.Decode(units))
}

// Reset drops all fragments but keeps the allocated buffer.
func (n *LongName) Reset() {
	n.units = n.units[:0]
	n.end = 0
	n.hasEnd = false
}

// ShortName formats the 8.3 name as NAME.EXT.
func (e Entry) ShortName() string {
	name := strings.TrimRight(string(e.Name[:8]), " ")
	ext := strings.TrimRight(string(e.Name[8:11]), " ")

	if ext != "" {
		name += "."
	}

	return name + ext
}

// DisplayName is the long name if there is one, the short name otherwise.
func (e Entry) DisplayName() string {
	if e.LongName != "" {
		return e.LongName
	}
	return e.ShortName()
}

func (e Entry) IsDir() bool {
	return e.Attribute&AttrDirectory == AttrDirectory
}

func (e Entry) IsVolumeLabel() bool {
	return e.Attribute&AttrVolumeID == AttrVolumeID
}

// IsDotEntry reports the "." and ".." entries of a subdirectory.
func (e Entry) IsDotEntry() bool {
	return e.Name[0] == currentDirMarker
}

// ModTime is the last write time or time.Time{} if the stored date is invalid.
func (e Entry) ModTime() time.Time {
	return ParseTimestamp(e.WriteDate, e.WriteTime)
}
