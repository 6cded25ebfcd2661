package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Faultbox/rally-terrain/internal/game/placement"
)

var (
	flagObjectsJSON bool
	flagObjectsType int
)

var objectsCmd = &cobra.Command{
	Use:   "objects",
	Short: "List decoded placements",
	Long: `Decode the object map and list the resulting events in decode order.

Examples:
  terraintool objects
  terraintool objects --type 255
  terraintool objects --json > placements.json`,
	Args: cobra.NoArgs,
	RunE: runObjects,
}

func init() {
	objectsCmd.Flags().BoolVar(&flagObjectsJSON, "json", false, "Write events as JSON")
	objectsCmd.Flags().IntVar(&flagObjectsType, "type", -1, "Only list this type id")
}

func runObjects(cmd *cobra.Command, args []string) error {
	_, lvl, err := loadLevel()
	if err != nil {
		return err
	}

	events := lvl.Events
	if flagObjectsType >= 0 {
		filtered := events[:0:0]
		for _, e := range events {
			if int(e.Request.Descriptor.ID) == flagObjectsType {
				filtered = append(filtered, e)
			}
		}
		events = filtered
	}

	out := cmd.OutOrStdout()
	if flagObjectsJSON {
		return placement.WriteJSON(out, events)
	}

	if len(events) == 0 {
		fmt.Fprintln(out, "No placements.")
		return nil
	}

	fmt.Fprintf(out, "  %-20s  %-4s  %-12s  %-7s  %-26s  %s\n", "Event", "Type", "Model", "Pixel", "Position", "Rotation")
	for _, e := range events {
		r := e.Request
		fmt.Fprintf(out, "  %-20s  %-4d  %-12s  %-7d  (%7.1f %7.1f %7.1f)  %.3f\n",
			e.Type, r.Descriptor.ID, r.Descriptor.Model, r.Pixel,
			r.Position.X, r.Position.Y, r.Position.Z, r.Rotation)
	}
	return nil
}
