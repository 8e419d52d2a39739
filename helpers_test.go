package fattree

import (
	"testing"
	"time"

	"github.com/aligator/fattree/internal/fixture"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/afero"
)

var testModTime = time.Date(2021, 3, 4, 10, 20, 30, 0, time.UTC)

// testTree is the content of the image most tests work on.
// With fixture.DefaultLayout the clusters are allocated as follows:
//  2: root, 3-5: README.TXT, 6: the long file, 7: docs, 8: guide.md,
//  9: IMAGES, 10-11: LOGO.PNG, 12: EMPTY
var testTree = []fixture.Node{
	{Name: "README.TXT", Size: 1200, ModTime: testModTime},
	{Name: "HelloWorldThisIsALoongFileName.txt", Size: 10},
	{Name: "docs", Dir: true, Children: []fixture.Node{
		{Name: "guide.md", Size: 3},
		{Name: "IMAGES", Dir: true, Children: []fixture.Node{
			{Name: "LOGO.PNG", Size: 600},
		}},
	}},
	{Name: "EMPTY", Dir: true},
}

func testLayout() fixture.Layout {
	layout := fixture.DefaultLayout()
	layout.Label = "FATTREE"
	return layout
}

func quietLogger() *logrus.Logger {
	log, _ := test.NewNullLogger()
	return log
}

func testingImage(t *testing.T, data []byte) *Image {
	t.Helper()

	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "fat32.img", data, 0644); err != nil {
		t.Fatal(err)
	}

	img, err := OpenImage(fs, "fat32.img")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		img.Close()
	})
	return img
}

func testingBuild(t *testing.T, layout fixture.Layout, root []fixture.Node) []byte {
	t.Helper()

	data, err := fixture.Build(layout, root)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func testingNew(t *testing.T, data []byte, opts Options) *Volume {
	t.Helper()

	if opts.Log == nil {
		opts.Log = quietLogger()
	}
	v, err := NewWithOptions(testingImage(t, data), opts)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func testingImageBytes(t *testing.T, im *fixture.Image) []byte {
	t.Helper()

	data, err := im.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func shortSlots(names ...string) [][]byte {
	slots := make([][]byte, len(names))
	for i, name := range names {
		slots[i] = fixture.ShortSlot(fixture.ShortName(name, ""), 0x20, 0, 0, time.Time{})
	}
	return slots
}

func entryNames(entries []Entry) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.DisplayName()
	}
	return names
}

// testGeometry is the geometry from the address translation example.
var testGeometry = Geometry{
	BytesPerSector:      512,
	SectorsPerCluster:   1,
	ReservedSectorCount: 32,
	NumFATs:             2,
	TotalSectors:        1000,
	SectorsPerFAT:       100,
	RootCluster:         2,
}
