package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/xvierd/breakr/internal/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the data directory and a default config",
	Long: `Create the breakr data directory with its asset folders and write a
default config.json if there is none. Put GIFs or images in
assets/animations, sounds in assets/sounds and videos in assets/videos.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if err := app.paths.EnsureFolders(); err != nil {
			return err
		}

		written, err := ensureConfigFile()
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "Data directory: %s\n", app.paths.Home)
		for _, folder := range config.AssetFolders {
			fmt.Fprintf(out, "  %s\n", filepath.Join(app.paths.Home, folder))
		}
		if written {
			fmt.Fprintf(out, "Wrote default config to %s\n", app.store.Path())
		} else {
			fmt.Fprintf(out, "Kept existing config at %s\n", app.store.Path())
		}
		return nil
	},
}
