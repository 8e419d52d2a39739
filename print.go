package fattree

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	indent    = " | "
	dirSuffix = " <DIR>"

	timeLayout = "2006-01-02 15:04:05"
)

// PrintOptions selects what Fprint shows for each entry.
type PrintOptions struct {
	Sizes      bool
	Times      bool
	ShortNames bool
	MaxDepth   int

	Log logrus.FieldLogger
}

// Fprint writes the directory tree of the volume to w, one entry per line,
// indented by " | " per directory level. Directories are marked with " <DIR>".
//
// Directories which cannot be read are logged and skipped, only write errors are returned.
func Fprint(w io.Writer, v *Volume, opts PrintOptions) error {
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	return Walk(v, func(path string, depth int, entry Entry, err error) error {
		if err != nil {
			log.WithError(err).WithField("path", "/"+path).Warn("could not read directory")
			return nil
		}

		_, err = io.WriteString(w, formatLine(depth, entry, opts))
		return err
	}, WalkOptions{
		MaxDepth: opts.MaxDepth,
		Log:      log,
	})
}

func formatLine(depth int, entry Entry, opts PrintOptions) string {
	var b strings.Builder
	b.WriteString(strings.Repeat(indent, depth))

	if opts.ShortNames {
		b.WriteString(entry.ShortName())
	} else {
		b.WriteString(entry.DisplayName())
	}

	if entry.IsDir() {
		b.WriteString(dirSuffix)
	} else if opts.Sizes {
		fmt.Fprintf(&b, " (%d bytes)", entry.FileSize)
	}

	if opts.Times {
		if t := entry.ModTime(); !t.IsZero() {
			b.WriteString("  ")
			b.WriteString(t.Format(timeLayout))
		}
	}

	b.WriteByte('\n')
	return b.String()
}
