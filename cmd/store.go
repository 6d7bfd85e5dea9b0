package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/user/nla-timeline-cli/db"
	"github.com/user/nla-timeline-cli/pkg/export"
	"github.com/user/nla-timeline-cli/scene"
)

var saveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save the scene to the database under a name",
	Long:  `Store the scene's actions, tracks and strips in SQLite under the given name, replacing any stack already saved with that name.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := loadScene(false)
		if err != nil {
			return err
		}

		database, err := db.Open(dbPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer database.Close()

		if err := db.SaveStack(cmd.Context(), database, args[0], sc); err != nil {
			return fmt.Errorf("failed to save stack: %w", err)
		}
		fmt.Printf("Saved stack %s (%d track(s), %d strip(s))\n", args[0], len(sc.Stack.Tracks), countStrips(sc.Stack))
		return nil
	},
}

var loadCmd = &cobra.Command{
	Use:   "load <name>",
	Short: "Load a saved stack into the scene file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(scenePath); err == nil && !force {
			return fmt.Errorf("scene file %s exists, use --force to overwrite it", scenePath)
		}

		database, err := db.Open(dbPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer database.Close()

		sc, err := db.LoadStack(cmd.Context(), database, args[0])
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("no stack saved as %s", args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to load stack: %w", err)
		}
		if err := saveScene(sc); err != nil {
			return err
		}
		fmt.Printf("Loaded stack %s into %s\n", args[0], scenePath)
		return nil
	},
}

var stacksCmd = &cobra.Command{
	Use:   "stacks",
	Short: "List and delete saved stacks",
}

var stacksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved stacks",
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := db.Open(dbPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer database.Close()

		stacks, err := db.ListStacks(cmd.Context(), database)
		if err != nil {
			return fmt.Errorf("failed to list stacks: %w", err)
		}
		if len(stacks) == 0 {
			fmt.Println("No stacks found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tTRACKS\tSTRIPS\tUPDATED")
		fmt.Fprintln(w, "--\t----\t------\t------\t-------")
		for _, s := range stacks {
			fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%s\n", s.ID, s.Name, s.TrackCount, s.StripCount, s.UpdatedAt.Format("2006-01-02 15:04"))
		}
		w.Flush()
		fmt.Printf("\n%d stack(s)\n", len(stacks))
		return nil
	},
}

var stacksDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved stack",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := db.Open(dbPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer database.Close()

		if err := db.DeleteStack(cmd.Context(), database, args[0]); err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return fmt.Errorf("no stack saved as %s", args[0])
			}
			return fmt.Errorf("failed to delete stack: %w", err)
		}
		fmt.Printf("Deleted stack %s\n", args[0])
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the scene as JSON or a CSV strip list",
	Long: `Write the scene document as JSON, or one CSV row per strip with frame
timecodes. Output goes to stdout unless -o or --dir is given; --dir builds
the file name from the scene file as <dir>/exports/<scene>/<name>.<format>.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		dir, _ := cmd.Flags().GetString("dir")
		name, _ := cmd.Flags().GetString("name")
		format, _ := cmd.Flags().GetString("format")
		if format != "json" && format != "csv" {
			return fmt.Errorf("unknown format %q (want json or csv)", format)
		}

		sc, err := loadScene(false)
		if err != nil {
			return err
		}

		if output == "" && dir != "" {
			output = export.BuildPath(dir, scenePath, name, format)
			if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		var w io.Writer = os.Stdout
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", output, err)
			}
			defer f.Close()
			w = f
		}

		switch format {
		case "csv":
			err = export.WriteCSV(w, sc.Stack, cfg.Timeline.FPS)
		default:
			err = scene.ExportJSON(w, sc)
		}
		if err != nil {
			return err
		}
		if output != "" {
			fmt.Printf("Exported scene to %s\n", output)
		}
		return nil
	},
}

func init() {
	loadCmd.Flags().Bool("force", false, "Overwrite an existing scene file")
	exportCmd.Flags().StringP("output", "o", "", "Write to a file instead of stdout")
	exportCmd.Flags().String("dir", "", "Write under <dir>/exports/<scene>/")
	exportCmd.Flags().String("name", "", "File name for --dir (default: scene name)")
	exportCmd.Flags().StringP("format", "f", "json", "Output format: json or csv")

	stacksCmd.AddCommand(stacksListCmd)
	stacksCmd.AddCommand(stacksDeleteCmd)

	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(stacksCmd)
	rootCmd.AddCommand(exportCmd)
}
