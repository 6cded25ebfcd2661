package main

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/Faultbox/rally-terrain/internal/game/placement"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print terrain and placement summary",
	Long: `Build the configured level and print its grid, bounds, mesh sizes and the
number of placements per model.`,
	Args: cobra.NoArgs,
	RunE: runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	_, lvl, err := loadLevel()
	if err != nil {
		return err
	}

	t := lvl.Terrain
	mesh := t.Mesh()
	tr := t.Transform()
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Level       %s\n", lvl.Name)
	fmt.Fprintf(out, "Height map  %s (%dx%d)\n", lvl.HeightMap, t.Size(), t.Size())
	fmt.Fprintf(out, "Cell size   %.3f\n", tr.CellSize())
	fmt.Fprintf(out, "Bounds      min %v  max %v\n", mesh.Bounds.Min, mesh.Bounds.Max)
	fmt.Fprintf(out, "Vertices    %d\n", len(mesh.Vertices))
	fmt.Fprintf(out, "Indices     %d\n", len(mesh.Indices))
	fmt.Fprintf(out, "Primitives  %d\n", mesh.PrimitiveCount())

	if lvl.ObjectSize == 0 {
		fmt.Fprintln(out, "Objects     none (height-only level)")
		return nil
	}

	fmt.Fprintf(out, "Object map  %s (%dx%d)\n", lvl.ObjectMap, lvl.ObjectSize, lvl.ObjectSize)
	fmt.Fprintln(out)

	counts := placement.Counts(lvl.Events)
	fmt.Fprintf(out, "  %-12s  %s\n", "Model", "Count")
	fmt.Fprintf(out, "  %-12s  %s\n", "-----", "-----")
	for _, m := range slices.Sorted(maps.Keys(counts)) {
		fmt.Fprintf(out, "  %-12s  %d\n", m, counts[m])
	}
	return nil
}
