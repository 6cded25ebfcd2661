package main

import (
	"fmt"
	"image/png"
	"os"

	"github.com/spf13/cobra"
)

var normalmapCmd = &cobra.Command{
	Use:   "normalmap <out.png>",
	Short: "Export the packed normal texture",
	Long: `Write the terrain normals as a PNG, one pixel per grid cell, each
component packed as n/2+0.5.`,
	Args: cobra.ExactArgs(1),
	RunE: runNormalmap,
}

func runNormalmap(cmd *cobra.Command, args []string) (err error) {
	_, lvl, err := loadLevel()
	if err != nil {
		return err
	}

	f, err := os.Create(args[0])
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if err := png.Encode(f, lvl.Terrain.NormalTexture()); err != nil {
		return fmt.Errorf("encoding normal map: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%dx%d)\n", args[0], lvl.Terrain.Size(), lvl.Terrain.Size())
	return nil
}
