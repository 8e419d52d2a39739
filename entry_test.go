package fattree

import (
	"errors"
	"testing"
	"time"

	"github.com/aligator/fattree/internal/fixture"
	"github.com/google/go-cmp/cmp"
)

func TestIsLongNameSlot(t *testing.T) {
	tests := []struct {
		name string
		attr byte
		want bool
	}{
		{name: "all of read-only, hidden, system and volume id", attr: 0x0F, want: true},
		{name: "long name with archive bit", attr: 0x2F, want: true},
		{name: "volume label", attr: 0x08, want: false},
		{name: "directory", attr: 0x10, want: false},
		{name: "hidden system file", attr: 0x06, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot := make([]byte, SlotSize)
			slot[0] = 'A'
			slot[11] = tt.attr
			if got := IsLongNameSlot(slot); got != tt.want {
				t.Errorf("IsLongNameSlot() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecodeShortEntry(t *testing.T) {
	slot := fixture.ShortSlot(fixture.ShortName("HELLO", "TXT"), 0x21, 0x00120034, 4711, testModTime)

	got, err := DecodeShortEntry(slot)
	if err != nil {
		t.Fatal(err)
	}

	want := EntryHeader{
		Name:           [11]byte{'H', 'E', 'L', 'L', 'O', ' ', ' ', ' ', 'T', 'X', 'T'},
		Attribute:      AttrReadOnly | AttrArchive,
		CreateTime:     got.WriteTime,
		CreateDate:     got.WriteDate,
		FirstClusterHI: 0x0012,
		WriteTime:      got.WriteTime,
		WriteDate:      got.WriteDate,
		FirstClusterLO: 0x0034,
		FileSize:       4711,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DecodeShortEntry() unexpected header: diff (-want +got):\n%s", diff)
	}
	if got.FirstCluster() != 0x00120034 {
		t.Errorf("EntryHeader.FirstCluster() = %#x, want 0x120034", uint32(got.FirstCluster()))
	}
	if !ParseTimestamp(got.WriteDate, got.WriteTime).Equal(testModTime) {
		t.Errorf("write time = %v, want %v", ParseTimestamp(got.WriteDate, got.WriteTime), testModTime)
	}

	if _, err := DecodeShortEntry(slot[:31]); !errors.Is(err, ErrShortSlot) {
		t.Errorf("DecodeShortEntry() on 31 bytes error = %v, want ErrShortSlot", err)
	}
}

func TestLongName_Add(t *testing.T) {
	tests := []struct {
		name string
		long string
	}{
		{name: "single fragment", long: "guide.md"},
		{name: "exactly one fragment without terminator", long: "thirteen.char"},
		{name: "two fragments", long: "fourteen.chars"},
		{name: "three fragments", long: "HelloWorldThisIsALoongFileName.txt"},
		{name: "non ascii", long: "Grüße aus Köln 😀.txt"},
		{name: "maximum length", long: longString(255)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n LongName
			for _, slot := range fixture.LongSlots(tt.long, 0) {
				if !IsLongNameSlot(slot) {
					t.Fatalf("generated slot is no long name slot")
				}
				if err := n.Add(slot); err != nil {
					t.Fatalf("LongName.Add() error = %v", err)
				}
			}
			if got := n.String(); got != tt.long {
				t.Errorf("LongName.String() = %q, want %q", got, tt.long)
			}
		})
	}
}

func longString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = 'a' + byte(i%26)
	}
	return string(b)
}

func TestLongName_orderIndependent(t *testing.T) {
	slots := fixture.LongSlots("a name spread over three fragments", 0)
	if len(slots) != 3 {
		t.Fatalf("got %d fragments, want 3", len(slots))
	}

	var n LongName
	for _, i := range []int{2, 0, 1} {
		if err := n.Add(slots[i]); err != nil {
			t.Fatal(err)
		}
	}
	if got := n.String(); got != "a name spread over three fragments" {
		t.Errorf("LongName.String() = %q", got)
	}
}

func TestLongName_terminatorFromLastFragment(t *testing.T) {
	// A fragment flagged as last without a NUL ends the name behind its 13 characters,
	// even if a fragment with a higher ordinal was stored before.
	slots := fixture.LongSlots("0123456789abcdefghijklmnopqrstuvwxyz", 0)
	second, first := slots[1], slots[2]
	first[0] |= lastLongEntry

	var n LongName
	for _, slot := range [][]byte{second, first} {
		if err := n.Add(slot); err != nil {
			t.Fatal(err)
		}
	}
	if got := n.String(); got != "0123456789abc" {
		t.Errorf("LongName.String() = %q, want 0123456789abc", got)
	}
}

func TestLongName_invalidOrdinal(t *testing.T) {
	slot := fixture.LongSlots("x", 0)[0]
	slot[0] = lastLongEntry

	var n LongName
	if err := n.Add(slot); !errors.Is(err, ErrInvalidOrdinal) {
		t.Errorf("LongName.Add() error = %v, want ErrInvalidOrdinal", err)
	}
	if err := n.Add(slot[:10]); !errors.Is(err, ErrShortSlot) {
		t.Errorf("LongName.Add() error = %v, want ErrShortSlot", err)
	}
}

func TestLongName_Reset(t *testing.T) {
	var n LongName
	for _, slot := range fixture.LongSlots("something long enough", 0) {
		if err := n.Add(slot); err != nil {
			t.Fatal(err)
		}
	}
	n.Reset()
	if got := n.String(); got != "" {
		t.Errorf("LongName.String() after Reset() = %q, want empty", got)
	}
	if n.Len() != 0 {
		t.Errorf("LongName.Len() after Reset() = %d, want 0", n.Len())
	}
}

func TestEntry_ShortName(t *testing.T) {
	tests := []struct {
		name  string
		short [11]byte
		want  string
	}{
		{name: "only 8.3 filename", short: [11]byte{'H', 'E', 'L', 'L', 'O', ' ', ' ', ' ', 'T', 'X', 'T'}, want: "HELLO.TXT"},
		{name: "short extension", short: [11]byte{'H', 'E', 'L', 'L', 'O', ' ', ' ', ' ', 'T', 'X', ' '}, want: "HELLO.TX"},
		{name: "no extension", short: [11]byte{'H', 'E', 'L', 'L', 'O', ' ', ' ', ' ', ' ', ' ', ' '}, want: "HELLO"},
		{name: "full base name", short: [11]byte{'H', 'E', 'L', 'L', 'O', 'W', '~', '1', 'T', 'X', 'T'}, want: "HELLOW~1.TXT"},
		{name: "dot entry", short: [11]byte{'.', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' '}, want: "."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Entry{EntryHeader: EntryHeader{Name: tt.short}}
			if got := e.ShortName(); got != tt.want {
				t.Errorf("Entry.ShortName() = %v, want %v", got, tt.want)
			}
			if got := e.DisplayName(); got != tt.want {
				t.Errorf("Entry.DisplayName() = %v, want %v", got, tt.want)
			}
		})
	}

	e := Entry{EntryHeader: EntryHeader{Name: fixture.ShortName("HELLOW~1", "TXT")}, LongName: "HelloWorld.txt"}
	if got := e.DisplayName(); got != "HelloWorld.txt" {
		t.Errorf("Entry.DisplayName() = %v, want the long name", got)
	}
}

func TestEntry_attributes(t *testing.T) {
	tests := []struct {
		name      string
		entry     Entry
		wantDir   bool
		wantLabel bool
		wantDot   bool
	}{
		{name: "file", entry: Entry{EntryHeader: EntryHeader{Name: fixture.ShortName("A", ""), Attribute: AttrArchive}}},
		{name: "directory", entry: Entry{EntryHeader: EntryHeader{Name: fixture.ShortName("A", ""), Attribute: AttrDirectory}}, wantDir: true},
		{name: "volume label", entry: Entry{EntryHeader: EntryHeader{Name: fixture.ShortName("LABEL", ""), Attribute: AttrVolumeID | AttrArchive}}, wantLabel: true},
		{name: "dot dot", entry: Entry{EntryHeader: EntryHeader{Name: fixture.ShortName("..", ""), Attribute: AttrDirectory}}, wantDir: true, wantDot: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entry.IsDir(); got != tt.wantDir {
				t.Errorf("Entry.IsDir() = %v, want %v", got, tt.wantDir)
			}
			if got := tt.entry.IsVolumeLabel(); got != tt.wantLabel {
				t.Errorf("Entry.IsVolumeLabel() = %v, want %v", got, tt.wantLabel)
			}
			if got := tt.entry.IsDotEntry(); got != tt.wantDot {
				t.Errorf("Entry.IsDotEntry() = %v, want %v", got, tt.wantDot)
			}
		})
	}
}

func TestEntry_ModTime(t *testing.T) {
	e := Entry{EntryHeader: EntryHeader{WriteDate: 0x5264, WriteTime: 0x528F}}
	want := time.Date(2021, 3, 4, 10, 20, 30, 0, time.UTC)
	if got := e.ModTime(); !got.Equal(want) {
		t.Errorf("Entry.ModTime() = %v, want %v", got, want)
	}

	if got := (Entry{}).ModTime(); !got.IsZero() {
		t.Errorf("Entry{}.ModTime() = %v, want zero time", got)
	}
}
