package fixture

import (
	"encoding/binary"
	"fmt"
	"strings"
	"time"
	"unicode/utf16"

	"github.com/go-restruct/restruct"
)

type shortSlot struct {
	Name            [11]byte
	Attribute       uint8
	NTReserved      uint8
	CreateTimeTenth uint8
	CreateTime      uint16
	CreateDate      uint16
	LastAccessDate  uint16
	FirstClusterHI  uint16
	WriteTime       uint16
	WriteDate       uint16
	FirstClusterLO  uint16
	FileSize        uint32
}

type longSlot struct {
	Sequence  uint8
	First     [5]uint16
	Attribute uint8
	EntryType uint8
	Checksum  uint8
	Second    [6]uint16
	Zero      uint16
	Third     [2]uint16
}

// ShortSlot encodes a short directory entry.
func ShortSlot(name [11]byte, attr uint8, cluster, size uint32, modTime time.Time) []byte {
	s := shortSlot{
		Name:           name,
		Attribute:      attr,
		FirstClusterHI: uint16(cluster >> 16),
		FirstClusterLO: uint16(cluster),
		FileSize:       size,
	}
	if !modTime.IsZero() {
		s.WriteTime = fatTime(modTime)
		s.WriteDate = fatDate(modTime)
		s.CreateTime = s.WriteTime
		s.CreateDate = s.WriteDate
	}
	return mustPack(&s)
}

// LongSlots encodes name as long name fragments in storage order, the highest ordinal first.
// The name is terminated by a NUL and padded with 0xFFFF unless it fills the last fragment completely.
func LongSlots(name string, checksum uint8) [][]byte {
	units := utf16.Encode([]rune(name))
	count := (len(units) + longNameChars - 1) / longNameChars
	if len(units)%longNameChars != 0 {
		units = append(units, 0)
		for len(units)%longNameChars != 0 {
			units = append(units, 0xFFFF)
		}
	}

	slots := make([][]byte, 0, count)
	for ordinal := count; ordinal >= 1; ordinal-- {
		part := units[(ordinal-1)*longNameChars : ordinal*longNameChars]
		l := longSlot{
			Sequence:  uint8(ordinal),
			Attribute: attrLongName,
			Checksum:  checksum,
		}
		if ordinal == count {
			l.Sequence |= lastLongEntry
		}
		copy(l.First[:], part[0:5])
		copy(l.Second[:], part[5:11])
		copy(l.Third[:], part[11:13])
		slots = append(slots, mustPack(&l))
	}
	return slots
}

// Checksum is the short name checksum stored in every long name fragment.
func Checksum(name [11]byte) uint8 {
	var sum uint8
	for _, c := range name {
		sum = (sum&1)<<7 + sum>>1 + c
	}
	return sum
}

// ShortName pads name and extension into the 11 byte on-disk form.
func ShortName(base, ext string) [11]byte {
	var out [11]byte
	copy(out[:], strings.Repeat(" ", 11))
	copy(out[:8], base)
	copy(out[8:], ext)
	return out
}

// EntrySlots encodes a node as the slots of its directory entry.
// Names which are no valid upper case 8.3 names get long name fragments.
// Their short name is the upper cased name for alias 0 and BASE~alias otherwise.
func EntrySlots(node Node, cluster uint32, alias int) [][]byte {
	short, needsLong := shortAlias(node.Name, alias)

	attr := uint8(attrArchive)
	if node.Dir {
		attr = attrDirectory
	}

	var slots [][]byte
	if needsLong {
		slots = LongSlots(node.Name, Checksum(short))
	}
	slots = append(slots, ShortSlot(short, attr, cluster, node.Size, node.ModTime))

	if node.Deleted {
		for _, slot := range slots {
			slot[0] = deletedMarker
		}
	}
	return slots
}

func splitName(name string) (string, string) {
	if i := strings.LastIndex(name, "."); i > 0 {
		return name[:i], name[i+1:]
	}
	return name, ""
}

func shortAlias(name string, alias int) ([11]byte, bool) {
	base, ext := splitName(name)
	if len(base) <= 8 && len(ext) <= 3 && validShort(base) && validShort(ext) {
		return ShortName(base, ext), false
	}

	base = strings.ToUpper(keepShortChars(base))
	ext = strings.ToUpper(keepShortChars(ext))
	if len(ext) > 3 {
		ext = ext[:3]
	}
	if alias == 0 {
		if len(base) > 8 {
			base = base[:8]
		}
		return ShortName(base, ext), true
	}

	suffix := fmt.Sprintf("~%d", alias)
	if len(base) > 8-len(suffix) {
		base = base[:8-len(suffix)]
	}
	return ShortName(base+suffix, ext), true
}

// fitsUpper reports whether name only differs from a valid 8.3 name by case.
func fitsUpper(name string) bool {
	base, ext := splitName(name)
	return base != "" && len(base) <= 8 && len(ext) <= 3 &&
		keepShortChars(base) == base && keepShortChars(ext) == ext
}

// ShortNamer hands out the aliases of one directory, so that no two entries share a short name.
// The numeric tails count per directory and start at 1, as mkfs and mtools do.
type ShortNamer struct {
	used map[[11]byte]bool
}

// NewShortNamer starts an empty directory.
func NewShortNamer() *ShortNamer {
	return &ShortNamer{used: map[[11]byte]bool{}}
}

// Alias returns the alias to pass to EntrySlots for name and reserves the resulting short name.
func (n *ShortNamer) Alias(name string) int {
	alias := 1
	if fitsUpper(name) {
		alias = 0
	}
	for ; ; alias++ {
		short, needsLong := shortAlias(name, alias)
		if !needsLong || !n.used[short] {
			n.used[short] = true
			return alias
		}
	}
}

func validShort(s string) bool {
	for _, r := range s {
		if !isShortChar(r) || (r >= 'a' && r <= 'z') {
			return false
		}
	}
	return true
}

func keepShortChars(s string) string {
	var b strings.Builder
	for _, r := range s {
		if isShortChar(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isShortChar(r rune) bool {
	switch {
	case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return true
	}
	return strings.ContainsRune("$%'-_@~`!(){}^#&", r)
}

func fatTime(t time.Time) uint16 {
	return uint16(t.Hour())<<11 | uint16(t.Minute())<<5 | uint16(t.Second()/2)
}

func fatDate(t time.Time) uint16 {
	return uint16(t.Year()-1980)<<9 | uint16(t.Month())<<5 | uint16(t.Day())
}

func mustPack(v interface{}) []byte {
	b, err := restruct.Pack(binary.LittleEndian, v)
	if err != nil {
		panic(err)
	}
	return b
}
