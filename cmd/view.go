package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/user/nla-timeline-cli/db"
	"github.com/user/nla-timeline-cli/scene"
	"github.com/user/nla-timeline-cli/tui"
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Browse the timeline interactively",
	Long: `Open the scene in a full-screen timeline browser. Move the frame cursor,
pick tracks and strips, toggle tweak mode and track mute/solo. Press w to
write changes back to the scene file, W to save the stack to the database
under a name, and ? for all keys.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := loadScene(false)
		if err != nil {
			return err
		}
		saveAs := func(name string, sc *scene.Scene) error {
			database, err := db.Open(dbPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer database.Close()
			return db.SaveStack(cmd.Context(), database, name, sc)
		}
		return tui.Run(sc, saveScene, saveAs, filepath.Base(scenePath), cfg.Timeline.FPS, cfg.Timeline.Width)
	},
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
