package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/user/nla-timeline-cli/config"
	"github.com/user/nla-timeline-cli/nla"
	"github.com/user/nla-timeline-cli/pkg/debug"
	"github.com/user/nla-timeline-cli/scene"
)

var Version = "0.1.0"

var (
	cfg         config.Config
	scenePath   string
	dbPath      string
	libOverride bool
	debugFlag   bool
)

var rootCmd = &cobra.Command{
	Use:   "nla-timeline-cli",
	Short: "Edit non-linear animation track stacks",
	Long: `nla-timeline-cli edits NLA track stacks stored as YAML scene files.

Features:
  - Show a stack as a timeline and evaluate strip time at a frame
  - Tweak a strip's clip, stash and push down the live clip
  - Group strips into metas and insert transitions
  - Save and load named stacks in SQLite, export scenes as JSON`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if debugFlag {
			debug.SetEnabled(true)
		}
		c, err := config.Load()
		if err != nil {
			return err
		}
		cfg = c
		if scenePath == "" {
			scenePath = cfg.Scene.Path
		}
		if dbPath == "" {
			dbPath = cfg.Database.Path
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("nla-timeline-cli version %s\n", Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&scenePath, "scene", "s", "", "Scene file (default from config: scene.path)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database (default from config: database.path)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Log engine diagnostics to stderr (same as NLA_DEBUG=1)")
	rootCmd.PersistentFlags().BoolVar(&libOverride, "lib-override", false, "Only edit tracks local to a library override")

	rootCmd.AddCommand(versionCmd)
}

// loadScene reads the scene file, or returns an empty scene when the file
// does not exist yet and create is set.
func loadScene(create bool) (*scene.Scene, error) {
	sc, err := scene.Load(scenePath)
	if err != nil {
		if create && errors.Is(err, os.ErrNotExist) {
			sc = scene.New()
		} else {
			return nil, err
		}
	}
	if cfg.Timeline.EvalUpperTracks {
		sc.Stack.Set(nla.StackEvalUpperTracks)
	}
	return sc, nil
}

func saveScene(sc *scene.Scene) error {
	if err := scene.Save(scenePath, sc); err != nil {
		return fmt.Errorf("failed to save scene: %w", err)
	}
	return nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
