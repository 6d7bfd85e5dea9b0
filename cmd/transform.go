package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/user/nla-timeline-cli/nla"
	"github.com/user/nla-timeline-cli/pkg/frameutil"
	"github.com/user/nla-timeline-cli/scene"
)

// topLevelStrip finds a strip that sits directly on a track.
func topLevelStrip(st *nla.Stack, name string) (*nla.Track, *nla.Strip, error) {
	t, s := st.StripByName(name)
	if s == nil {
		return nil, nil, fmt.Errorf("strip not found: %s", name)
	}
	if t.Strips.IndexOf(s) < 0 {
		return nil, nil, fmt.Errorf("strip %s is inside a meta strip, ungroup it with meta clear first", name)
	}
	return t, s, nil
}

var stripSetCmd = &cobra.Command{
	Use:   "set <name>",
	Short: "Move, resize or rescale a strip",
	Long: `Change the placement of a strip. --start slides the strip, keeping its length,
and stops at its neighbors. --end moves the end only, playing more or less of the clip.
--scale and --repeat change clip playback and push later strips out of the way.
Meta strips carry their children along.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		startStr, _ := flags.GetString("start")
		endStr, _ := flags.GetString("end")
		scale, _ := flags.GetFloat64("scale")
		repeat, _ := flags.GetFloat64("repeat")
		if !flags.Changed("start") && !flags.Changed("end") && !flags.Changed("scale") && !flags.Changed("repeat") {
			return errors.New("nothing to set, use --start, --end, --scale or --repeat")
		}
		if flags.Changed("scale") && scale <= 0 {
			return fmt.Errorf("scale must be positive, got %g", scale)
		}
		if flags.Changed("repeat") && repeat <= 0 {
			return fmt.Errorf("repeat must be positive, got %g", repeat)
		}

		return editScene(false, func(sc *scene.Scene) error {
			st := sc.Stack
			if err := notTweaking(st, "move strips"); err != nil {
				return err
			}
			t, s, err := topLevelStrip(st, args[0])
			if err != nil {
				return err
			}
			if libOverride && !t.IsLocal() {
				return fmt.Errorf("track %s is not local to the override", t.Name)
			}
			if flags.Changed("start") {
				f, err := frameutil.ParseFrame(startStr, cfg.Timeline.FPS)
				if err != nil {
					return fmt.Errorf("invalid --start: %w", err)
				}
				nla.MoveStrip(t.Strips, s, f)
			}
			if flags.Changed("end") {
				f, err := frameutil.ParseFrame(endStr, cfg.Timeline.FPS)
				if err != nil {
					return fmt.Errorf("invalid --end: %w", err)
				}
				nla.SetStripEnd(t.Strips, s, f)
			}
			if flags.Changed("scale") && !nla.SetStripScale(t.Strips, s, scale) {
				return fmt.Errorf("strip %s is a %s strip and has no scale", s.Name, s.Kind)
			}
			if flags.Changed("repeat") && !nla.SetStripRepeat(t.Strips, s, repeat) {
				return fmt.Errorf("strip %s is a %s strip and has no repeat", s.Name, s.Kind)
			}
			fmt.Printf("Strip %s [%s, %s] scale %g repeat %g\n", s.Name,
				frameutil.FormatFrame(s.Start), frameutil.FormatFrame(s.End), s.Scale, s.Repeat)
			return nil
		})
	},
}

var stripSyncLengthCmd = &cobra.Command{
	Use:   "sync-length",
	Short: "Refit selected clip strips to the current length of their actions",
	RunE: func(cmd *cobra.Command, args []string) error {
		active, _ := cmd.Flags().GetBool("active")
		return editScene(false, func(sc *scene.Scene) error {
			if err := notTweaking(sc.Stack, "sync strip lengths"); err != nil {
				return err
			}
			n := sc.Stack.SyncLength(active)
			if n == 0 {
				return errors.New("no clip strips to sync")
			}
			fmt.Printf("Synced %d strip(s)\n", n)
			return nil
		})
	},
}

var stripClearScaleCmd = &cobra.Command{
	Use:   "clear-scale",
	Short: "Reset the scale of selected clip strips to 1",
	RunE: func(cmd *cobra.Command, args []string) error {
		return editScene(false, func(sc *scene.Scene) error {
			if err := notTweaking(sc.Stack, "clear scale"); err != nil {
				return err
			}
			n := sc.Stack.ClearScale(libOverride)
			if n == 0 {
				return errors.New("no selected clip strips")
			}
			fmt.Printf("Cleared scale on %d strip(s)\n", n)
			return nil
		})
	},
}

var stripSwapCmd = &cobra.Command{
	Use:   "swap",
	Short: "Swap the two groups of selected strips on each track",
	RunE: func(cmd *cobra.Command, args []string) error {
		return editScene(false, func(sc *scene.Scene) error {
			if err := notTweaking(sc.Stack, "swap strips"); err != nil {
				return err
			}
			n, err := sc.Stack.SwapSelected(libOverride)
			if err != nil {
				fmt.Fprintln(os.Stderr, "Warning:", err)
			}
			if n == 0 {
				return errors.New("nothing swapped")
			}
			fmt.Printf("Swapped strips on %d track(s)\n", n)
			return nil
		})
	},
}

var stripMoveUpCmd = &cobra.Command{
	Use:   "move-up",
	Short: "Move selected strips into the track above where there is room",
	RunE: func(cmd *cobra.Command, args []string) error {
		return moveStrips("up", func(st *nla.Stack) int { return st.MoveSelectedUp(libOverride) })
	},
}

var stripMoveDownCmd = &cobra.Command{
	Use:   "move-down",
	Short: "Move selected strips into the track below where there is room",
	RunE: func(cmd *cobra.Command, args []string) error {
		return moveStrips("down", func(st *nla.Stack) int { return st.MoveSelectedDown(libOverride) })
	},
}

func moveStrips(dir string, fn func(st *nla.Stack) int) error {
	return editScene(false, func(sc *scene.Scene) error {
		if err := notTweaking(sc.Stack, "move strips"); err != nil {
			return err
		}
		n := fn(sc.Stack)
		fmt.Printf("Moved %d strip(s) %s\n", n, dir)
		return nil
	})
}

var stripSnapCmd = &cobra.Command{
	Use:   "snap <frame|nearest-frame|nearest-second>",
	Short: "Snap the start of selected strips",
	Long: `Move each run of adjacent selected strips so it starts at --frame, or at the nearest
whole frame or second. Runs that no longer fit are put on a new track above.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"frame", "nearest-frame", "nearest-second"},
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, ok := nla.ParseSnapMode(args[0])
		if !ok {
			return fmt.Errorf("unknown snap mode: %s", args[0])
		}
		frameStr, _ := cmd.Flags().GetString("frame")
		var frame float64
		if mode == nla.SnapToFrame {
			if frameStr == "" {
				return errors.New("snap to frame needs --frame")
			}
			f, err := frameutil.ParseFrame(frameStr, cfg.Timeline.FPS)
			if err != nil {
				return fmt.Errorf("invalid --frame: %w", err)
			}
			frame = f
		}
		return editScene(false, func(sc *scene.Scene) error {
			if err := notTweaking(sc.Stack, "snap strips"); err != nil {
				return err
			}
			n := sc.Stack.Snap(mode, frame, cfg.Timeline.FPS, libOverride)
			if n == 0 {
				return errors.New("no selected strips to snap")
			}
			fmt.Printf("Snapped %d strip(s) to %s\n", n, mode)
			return nil
		})
	},
}

var metaAddCmd = &cobra.Command{
	Use:   "add <meta> <strip>",
	Short: "Move a strip on the same track into a meta strip",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editScene(false, func(sc *scene.Scene) error {
			st := sc.Stack
			if err := notTweaking(st, "group strips"); err != nil {
				return err
			}
			mt, meta, err := topLevelStrip(st, args[0])
			if err != nil {
				return err
			}
			if !meta.IsMeta() {
				return fmt.Errorf("strip %s is not a meta strip", meta.Name)
			}
			t, s, err := topLevelStrip(st, args[1])
			if err != nil {
				return err
			}
			if t != mt {
				return fmt.Errorf("strip %s is on track %s, meta %s on track %s", s.Name, t.Name, meta.Name, mt.Name)
			}
			if !nla.MoveIntoMeta(t, meta, s) {
				return fmt.Errorf("strip %s does not fit into meta %s", s.Name, meta.Name)
			}
			fmt.Printf("Moved %s into %s [%s, %s]\n", s.Name, meta.Name,
				frameutil.FormatFrame(meta.Start), frameutil.FormatFrame(meta.End))
			return nil
		})
	},
}

func init() {
	stripSetCmd.Flags().String("start", "", "New start frame or timecode; the strip keeps its length")
	stripSetCmd.Flags().String("end", "", "New end frame or timecode")
	stripSetCmd.Flags().Float64("scale", 1, "Clip playback scale")
	stripSetCmd.Flags().Float64("repeat", 1, "Number of times the clip plays")
	stripSyncLengthCmd.Flags().Bool("active", false, "Only sync active strips instead of selected ones")
	stripSnapCmd.Flags().String("frame", "", "Target frame for the frame mode")

	stripCmd.AddCommand(stripSetCmd)
	stripCmd.AddCommand(stripSyncLengthCmd)
	stripCmd.AddCommand(stripClearScaleCmd)
	stripCmd.AddCommand(stripSwapCmd)
	stripCmd.AddCommand(stripMoveUpCmd)
	stripCmd.AddCommand(stripMoveDownCmd)
	stripCmd.AddCommand(stripSnapCmd)

	metaCmd.AddCommand(metaAddCmd)
}
