// Command mkfixture writes a small FAT32 image which can be used to try fattree.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/aligator/fattree/internal/fixture"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// sample is the content of the generated image.
func sample(modTime time.Time) []fixture.Node {
	return []fixture.Node{
		{Name: "README.TXT", Size: 1337, ModTime: modTime},
		{Name: "HelloWorldThisIsALoongFileName.txt", Size: 42, ModTime: modTime},
		{Name: "removed.txt", Size: 10, Deleted: true},
		{Name: "docs", Dir: true, ModTime: modTime, Children: []fixture.Node{
			{Name: "guide.md", Size: 2048, ModTime: modTime},
			{Name: "IMAGES", Dir: true, Children: []fixture.Node{
				{Name: "LOGO.PNG", Size: 4096},
				{Name: "Screenshot from the release.png", Size: 9000},
			}},
		}},
		{Name: "EMPTY", Dir: true},
	}
}

func newCmd(fs afero.Fs) *cobra.Command {
	var (
		label    string
		clusters uint32
	)

	cmd := &cobra.Command{
		Use:          "mkfixture [flags] OUT",
		Short:        "write a sample FAT32 image",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			layout := fixture.DefaultLayout()
			layout.Label = label
			layout.Clusters = clusters

			modTime := time.Date(2021, 1, 2, 3, 4, 6, 0, time.UTC)
			data, err := fixture.Build(layout, sample(modTime))
			if err != nil {
				return fmt.Errorf("unable to build the image: %v", err)
			}

			if err := afero.WriteFile(fs, args[0], data, 0644); err != nil {
				return fmt.Errorf("unable to write %s: %v", args[0], err)
			}
			log.Infof("Wrote %d bytes to %s", len(data), args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&label, "label", "FATTREE", "Volume label of the image")
	cmd.Flags().Uint32Var(&clusters, "clusters", 256, "Number of data clusters")

	return cmd
}

func main() {
	if err := newCmd(afero.NewOsFs()).Execute(); err != nil {
		os.Exit(1)
	}
}
