// Command fattree prints the directory tree of a FAT32 image.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aligator/fattree"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var defaultLogFormatter = &log.TextFormatter{}

// infoFormatter prints Info() log events as plain lines.
type infoFormatter struct {
}

func (f *infoFormatter) Format(entry *log.Entry) ([]byte, error) {
	if entry.Level == log.InfoLevel {
		return append([]byte(entry.Message), '\n'), nil
	}
	return defaultLogFormatter.Format(entry)
}

// newLogger writes to out. Verbose switches back to the standard formatter and enables debug output.
func newLogger(out io.Writer, verbose bool) *log.Logger {
	logger := log.New()
	logger.SetOutput(out)
	logger.SetFormatter(new(infoFormatter))
	logger.SetLevel(log.InfoLevel)
	if verbose {
		logger.SetFormatter(defaultLogFormatter)
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

type flags struct {
	size        bool
	time        bool
	short       bool
	skipDeleted bool
	info        bool
	verbose     bool
	maxDepth    int
	fatCopy     int
	cat         string
}

func (f *flags) register(set *pflag.FlagSet) {
	set.BoolVarP(&f.size, "size", "s", false, "Show the size of every file")
	set.BoolVarP(&f.time, "time", "t", false, "Show the last write time of every entry")
	set.BoolVar(&f.short, "short", false, "Print the 8.3 short names instead of the long names")
	set.BoolVar(&f.skipDeleted, "skip-deleted", false, "Continue behind deleted entries instead of ending the directory there")
	set.BoolVar(&f.info, "info", false, "Print the boot sector geometry and the root directory chain instead of the tree")
	set.BoolVarP(&f.verbose, "verbose", "v", false, "Verbose execution")
	set.IntVarP(&f.maxDepth, "max-depth", "d", 0, "Descend at most this many directory levels, 0 means no limit")
	set.IntVar(&f.fatCopy, "fat", 0, "FAT copy used to follow cluster chains")
	set.StringVar(&f.cat, "cat", "", "Write the content of the file at this path to stdout instead of the tree")
}

func newCmd(fs afero.Fs) *cobra.Command {
	var opts flags

	cmd := &cobra.Command{
		Use:           "fattree [flags] IMAGE",
		Short:         "print the directory tree of a FAT32 image",
		Long:          `Print all files and directories of a FAT32 image, one per line and indented by their depth.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(cmd.ErrOrStderr(), opts.verbose)
			return run(fs, args[0], cmd.OutOrStdout(), logger, opts)
		},
	}

	set := pflag.NewFlagSet("fattree", pflag.ContinueOnError)
	opts.register(set)
	cmd.Flags().AddFlagSet(set)

	return cmd
}

func run(fs afero.Fs, path string, out io.Writer, logger *log.Logger, opts flags) error {
	if opts.maxDepth < 0 {
		return fmt.Errorf("max-depth must not be negative, got %d", opts.maxDepth)
	}

	img, err := fattree.OpenImage(fs, path)
	if err != nil {
		return err
	}
	defer img.Close()

	logger.WithField("size", img.Size()).Debugf("opened %s", img.Name())

	v, err := fattree.NewWithOptions(img, fattree.Options{
		SkipDeleted: opts.skipDeleted,
		FATCopy:     opts.fatCopy,
		Log:         logger,
	})
	if err != nil {
		return err
	}

	if opts.info {
		return printInfo(out, v)
	}
	if opts.cat != "" {
		return cat(out, fattree.NewFs(v), opts.cat)
	}

	return fattree.Fprint(out, v, fattree.PrintOptions{
		Sizes:      opts.size,
		Times:      opts.time,
		ShortNames: opts.short,
		MaxDepth:   opts.maxDepth,
		Log:        logger,
	})
}

func printInfo(out io.Writer, v *fattree.Volume) error {
	g := v.Geometry()

	chain, err := v.Chain(g.RootCluster)
	if err != nil {
		return err
	}
	clusters := make([]string, len(chain))
	for i, c := range chain {
		clusters[i] = c.String()
	}

	_, err = fmt.Fprintf(out, `OEM name:            %s
Volume label:        %s
Volume ID:           %08X
File system type:    %s
Bytes per sector:    %d
Sectors per cluster: %d
Reserved sectors:    %d
FATs:                %d
Sectors per FAT:     %d
Total sectors:       %d
Data clusters:       %d
Boot signature:      %t
Root chain:          %s
`,
		g.OEMName,
		g.VolumeLabel,
		g.VolumeID,
		g.FileSystemType,
		g.BytesPerSector,
		g.SectorsPerCluster,
		g.ReservedSectorCount,
		g.NumFATs,
		g.SectorsPerFAT,
		g.TotalSectors,
		g.ClusterCount(),
		g.Signature,
		strings.Join(clusters, " -> "),
	)
	return err
}

func cat(out io.Writer, fs afero.Fs, name string) error {
	f, err := fs.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(out, f)
	return err
}

func main() {
	if err := newCmd(afero.NewOsFs()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "fattree:", err)
		os.Exit(1)
	}
}
