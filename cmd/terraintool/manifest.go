package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Faultbox/rally-terrain/internal/manifest"
)

var flagManifestDB string

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Save, list, show or delete manifest entries",
	Long: `The manifest is a SQLite database of decoded placements per level, so
placements can be compared between builds of the type table.

Examples:
  terraintool manifest save --name hills
  terraintool manifest list
  terraintool manifest show hills
  terraintool manifest delete hills`,
}

var manifestSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Decode the configured level and store its placements",
	Args:  cobra.NoArgs,
	RunE:  runManifestSave,
}

var manifestListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored levels",
	Args:  cobra.NoArgs,
	RunE:  runManifestList,
}

var manifestShowCmd = &cobra.Command{
	Use:   "show <level>",
	Short: "Show the placements stored for a level",
	Args:  cobra.ExactArgs(1),
	RunE:  runManifestShow,
}

var manifestDeleteCmd = &cobra.Command{
	Use:   "delete <level>",
	Short: "Delete a stored level",
	Args:  cobra.ExactArgs(1),
	RunE:  runManifestDelete,
}

func init() {
	manifestCmd.PersistentFlags().StringVar(&flagManifestDB, "db", "", "Path to manifest database (default from config)")

	manifestCmd.AddCommand(manifestSaveCmd)
	manifestCmd.AddCommand(manifestListCmd)
	manifestCmd.AddCommand(manifestShowCmd)
	manifestCmd.AddCommand(manifestDeleteCmd)
}

func openManifest() (*manifest.Store, error) {
	path := flagManifestDB
	if path == "" {
		cfg, err := loadConfig()
		if err != nil {
			return nil, err
		}
		path = cfg.Manifest.Path
	}
	return manifest.Open(path)
}

func runManifestSave(cmd *cobra.Command, args []string) error {
	_, lvl, err := loadLevel()
	if err != nil {
		return err
	}

	store, err := openManifest()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SaveLevel(lvl.Info(), lvl.Events); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%d events)\n", lvl.Name, len(lvl.Events))
	return nil
}

func runManifestList(cmd *cobra.Command, args []string) error {
	store, err := openManifest()
	if err != nil {
		return err
	}
	defer store.Close()

	levels, err := store.Levels()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(levels) == 0 {
		fmt.Fprintln(out, "No levels stored yet.")
		return nil
	}

	fmt.Fprintf(out, "  %-16s  %-6s  %-7s  %-10s  %s\n", "Level", "Size", "Objects", "Placements", "Saved")
	fmt.Fprintf(out, "  %-16s  %-6s  %-7s  %-10s  %s\n", "-----", "----", "-------", "----------", "-----")
	for _, l := range levels {
		fmt.Fprintf(out, "  %-16s  %-6d  %-7d  %-10d  %s\n",
			l.Name, l.Size, l.ObjectSize, l.Placements, l.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func runManifestShow(cmd *cobra.Command, args []string) error {
	store, err := openManifest()
	if err != nil {
		return err
	}
	defer store.Close()

	info, records, err := store.Level(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s  height %s (%d)  objects %s (%d)  saved %s\n",
		info.Name, info.HeightMap, info.Size, info.ObjectMap, info.ObjectSize,
		info.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintln(out)
	for _, r := range records {
		fmt.Fprintf(out, "  %-20s  %-12s  %s  (%7.1f %7.1f %7.1f)\n",
			r.Event, r.Model, r.InstanceID, r.Position.X, r.Position.Y, r.Position.Z)
	}
	return nil
}

func runManifestDelete(cmd *cobra.Command, args []string) error {
	store, err := openManifest()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.DeleteLevel(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
	return nil
}
