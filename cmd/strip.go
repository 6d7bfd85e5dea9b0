package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/user/nla-timeline-cli/action"
	"github.com/user/nla-timeline-cli/nla"
	"github.com/user/nla-timeline-cli/pkg/frameutil"
	"github.com/user/nla-timeline-cli/scene"
	"github.com/user/nla-timeline-cli/tui/forms"
)

var stripCmd = &cobra.Command{
	Use:   "strip",
	Short: "Add, select, move, split and duplicate strips",
}

var stripAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a strip for the live action on the top track",
	RunE: func(cmd *cobra.Command, args []string) error {
		return editScene(false, func(sc *scene.Scene) error {
			if err := notTweaking(sc.Stack, "add strips"); err != nil {
				return err
			}
			s := sc.Stack.AddStrip(libOverride)
			if s == nil {
				return errors.New("no live action to add")
			}
			fmt.Printf("Added strip %s [%s, %s]\n", s.Name, frameutil.FormatFrame(s.Start), frameutil.FormatFrame(s.End))
			return nil
		})
	},
}

var stripSoundCmd = &cobra.Command{
	Use:   "sound <start>",
	Short: "Add a sound strip on the active track",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		length, _ := cmd.Flags().GetFloat64("length")
		start, err := frameutil.ParseFrame(args[0], cfg.Timeline.FPS)
		if err != nil {
			return err
		}
		return editScene(true, func(sc *scene.Scene) error {
			if err := notTweaking(sc.Stack, "add sound strips"); err != nil {
				return err
			}
			s := sc.Stack.AddSound(start, length, libOverride)
			if trackOf(sc.Stack, s) == nil {
				return errors.New("no room for a sound strip")
			}
			fmt.Printf("Added sound strip %s [%s, %s]\n", s.Name, frameutil.FormatFrame(s.Start), frameutil.FormatFrame(s.End))
			return nil
		})
	},
}

var stripSelectCmd = &cobra.Command{
	Use:   "select <name>...",
	Short: "Select strips by name, making the last one active",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		extend, _ := cmd.Flags().GetBool("extend")
		return editScene(false, func(sc *scene.Scene) error {
			st := sc.Stack
			var picked []*nla.Strip
			var last *nla.Track
			for _, name := range args {
				t, s := st.StripByName(name)
				if s == nil {
					return fmt.Errorf("strip not found: %s", name)
				}
				picked = append(picked, s)
				last = t
			}
			if !extend {
				for _, t := range st.Tracks {
					for _, s := range t.Strips {
						s.Clear(nla.StripSelected)
					}
				}
			}
			for _, s := range picked {
				s.Set(nla.StripSelected)
			}
			st.SetActiveTrack(last)
			st.SetActiveStrip(picked[len(picked)-1])
			fmt.Printf("Selected %d strip(s)\n", len(picked))
			return nil
		})
	},
}

var stripSplitCmd = &cobra.Command{
	Use:   "split [frame]",
	Short: "Split selected strips at a frame, or at their midpoints",
	Long:  `Split every selected clip strip in two at the given frame. Strips the frame does not fall inside are split at their midpoint. Selected meta strips are ungrouped.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		frame := nla.MinFrame - 1
		if len(args) == 1 {
			f, err := frameutil.ParseFrame(args[0], cfg.Timeline.FPS)
			if err != nil {
				return err
			}
			frame = f
		}
		return editScene(false, func(sc *scene.Scene) error {
			if err := notTweaking(sc.Stack, "split strips"); err != nil {
				return err
			}
			n := sc.Stack.SplitSelected(frame, libOverride)
			if n == 0 {
				return errors.New("no selected strips to split")
			}
			fmt.Printf("Split %d strip(s)\n", n)
			return nil
		})
	},
}

var stripDuplicateCmd = &cobra.Command{
	Use:   "duplicate",
	Short: "Duplicate selected strips into the track above",
	RunE: func(cmd *cobra.Command, args []string) error {
		linked, _ := cmd.Flags().GetBool("linked")
		return editScene(false, func(sc *scene.Scene) error {
			if err := notTweaking(sc.Stack, "duplicate strips"); err != nil {
				return err
			}
			copies := sc.Stack.Duplicate(linked, libOverride)
			if len(copies) == 0 {
				return errors.New("no selected strips to duplicate")
			}
			for _, s := range copies {
				fmt.Printf("Created %s\n", s.Name)
			}
			fmt.Printf("Duplicated %d strip(s)\n", len(copies))
			return nil
		})
	},
}

var stripRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a strip",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editScene(false, func(sc *scene.Scene) error {
			st := sc.Stack
			if err := notTweaking(st, "remove strips"); err != nil {
				return err
			}
			t, s := st.StripByName(args[0])
			if s == nil {
				return fmt.Errorf("strip not found: %s", args[0])
			}
			if libOverride && !t.IsLocal() {
				return fmt.Errorf("track %s is not local to the override", t.Name)
			}
			if !t.Strips.RemoveAndFree(s, true) {
				return fmt.Errorf("strip %s is inside a meta strip, ungroup it with meta clear first", args[0])
			}
			fmt.Printf("Removed strip %s\n", args[0])
			return nil
		})
	},
}

// trackOf returns the track holding s at the top level.
func trackOf(st *nla.Stack, s *nla.Strip) *nla.Track {
	for _, t := range st.Tracks {
		if t.Strips.IndexOf(s) >= 0 {
			return t
		}
	}
	return nil
}

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "List, add, solo, mute and remove tracks",
}

var trackListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracks, topmost first",
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := loadScene(false)
		if err != nil {
			return err
		}
		st := sc.Stack
		if len(st.Tracks) == 0 {
			fmt.Println("No tracks found.")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "INDEX\tNAME\tSTRIPS\tANIMATED\tENABLED\tFLAGS")
		fmt.Fprintln(w, "-----\t----\t------\t--------\t-------\t-----")
		for i := len(st.Tracks) - 1; i >= 0; i-- {
			t := st.Tracks[i]
			fmt.Fprintf(w, "%d\t%s\t%d\t%v\t%v\t%s\n", t.Index, t.Name, len(t.Strips),
				t.HasAnimatedStrips(), st.TrackEnabled(t), t.Flags)
		}
		w.Flush()
		fmt.Printf("\n%d track(s)\n", len(st.Tracks))
		return nil
	},
}

var trackAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a track above the active track, or on top",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editScene(true, func(sc *scene.Scene) error {
			st := sc.Stack
			prev := st.ActiveTrack()
			if prev == nil && len(st.Tracks) > 0 {
				prev = st.Tracks[len(st.Tracks)-1]
			}
			t := st.NewTrackAfter(prev, libOverride)
			if len(args) == 1 {
				if st.TrackByName(args[0]) != nil {
					st.RemoveTrack(t, false)
					return fmt.Errorf("track already exists: %s", args[0])
				}
				t.Name = args[0]
			}
			st.SetActiveTrack(t)
			fmt.Printf("Added track %s at index %d\n", t.Name, t.Index)
			return nil
		})
	},
}

var trackSoloCmd = &cobra.Command{
	Use:   "solo <name>",
	Short: "Toggle solo on a track",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editTrack(args[0], func(st *nla.Stack, t *nla.Track) {
			st.SoloToggle(t)
			fmt.Printf("Track %s solo: %v\n", t.Name, t.Has(nla.TrackSolo))
		})
	},
}

var trackMuteCmd = &cobra.Command{
	Use:   "mute <name>",
	Short: "Toggle mute on a track",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editTrack(args[0], func(st *nla.Stack, t *nla.Track) {
			t.Flags ^= nla.TrackMuted
			fmt.Printf("Track %s muted: %v\n", t.Name, t.Has(nla.TrackMuted))
		})
	},
}

var trackRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a track and its strips",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editScene(false, func(sc *scene.Scene) error {
			st := sc.Stack
			t := st.TrackByName(args[0])
			if t == nil {
				return fmt.Errorf("track not found: %s", args[0])
			}
			if err := notTweaking(st, "remove tracks"); err != nil {
				return err
			}
			if libOverride && !t.IsLocal() {
				return fmt.Errorf("track %s is not local to the override", t.Name)
			}
			st.RemoveTrack(t, true)
			fmt.Printf("Removed track %s\n", args[0])
			return nil
		})
	},
}

func editTrack(name string, fn func(st *nla.Stack, t *nla.Track)) error {
	return editScene(false, func(sc *scene.Scene) error {
		t := sc.Stack.TrackByName(name)
		if t == nil {
			return fmt.Errorf("track not found: %s", name)
		}
		fn(sc.Stack, t)
		return nil
	})
}

var actionCmd = &cobra.Command{
	Use:   "action",
	Short: "Manage the action library and the live action",
}

var actionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List actions",
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := loadScene(false)
		if err != nil {
			return err
		}
		if sc.Library.Len() == 0 {
			fmt.Println("No actions found.")
			return nil
		}
		live := sc.Stack.Action()
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tSTART\tEND\tCYCLIC\tUSERS\tSTATE")
		fmt.Fprintln(w, "----\t-----\t---\t------\t-----\t-----")
		for _, c := range sc.Library.Clips() {
			start, end := c.FrameRange()
			state := ""
			switch {
			case live != nil && live.Name() == c.Name():
				state = "live"
			case sc.Stack.IsStashed(c):
				state = "stashed"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%v\t%d\t%s\n", c.Name(),
				frameutil.FormatFrame(start), frameutil.FormatFrame(end), c.IsCyclic(), c.Users(), state)
		}
		w.Flush()
		fmt.Printf("\n%d action(s)\n", sc.Library.Len())
		return nil
	},
}

var actionAddCmd = &cobra.Command{
	Use:   "add [name] [start] [end]",
	Short: "Add an action to the library",
	Long:  `Add an action spanning start to end. With --interactive the name, range and cyclic flag are asked for in a form, offering any arguments given as defaults.`,
	Args:  cobra.MaximumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		cyclic, _ := cmd.Flags().GetBool("cyclic")
		interactive, _ := cmd.Flags().GetBool("interactive")
		if !interactive && len(args) != 3 {
			return fmt.Errorf("accepts 3 arg(s) unless --interactive, received %d", len(args))
		}
		r := forms.ActionFormResult{Cyclic: cyclic}
		for i, p := range []*string{&r.Name, &r.Start, &r.End} {
			if i < len(args) {
				*p = args[i]
			}
		}

		return editScene(true, func(sc *scene.Scene) error {
			if interactive {
				taken := func(name string) bool {
					_, err := sc.Library.Get(name)
					return err == nil
				}
				if err := forms.NewActionForm(cfg.Timeline.FPS, taken, &r).Run(); err != nil {
					if errors.Is(err, huh.ErrUserAborted) {
						return errors.New("cancelled")
					}
					return err
				}
			}
			if err := forms.ValidateName(nil)(r.Name); err != nil {
				return err
			}
			start, end, err := r.Frames(cfg.Timeline.FPS)
			if err != nil {
				return err
			}
			c := action.New(strings.TrimSpace(r.Name), start, end)
			c.SetCyclic(r.Cyclic)
			if err := sc.Library.Add(c); err != nil {
				return err
			}
			fmt.Printf("Added action %s\n", c)
			return nil
		})
	},
}

var actionSetCmd = &cobra.Command{
	Use:   "set <name>",
	Short: "Make an action the live action",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		influence, _ := cmd.Flags().GetFloat64("influence")
		blend, _ := cmd.Flags().GetString("blend")
		extend, _ := cmd.Flags().GetString("extend")

		mode, ok := nla.ParseBlendMode(blend)
		if !ok {
			return fmt.Errorf("unknown blend mode: %s", blend)
		}
		ext, ok := nla.ParseExtend(extend)
		if !ok {
			return fmt.Errorf("unknown extend mode: %s", extend)
		}
		if influence < 0 || influence > 1 {
			return fmt.Errorf("influence must be within [0, 1], got %g", influence)
		}

		return editScene(false, func(sc *scene.Scene) error {
			c, err := sc.Library.Get(args[0])
			if err != nil {
				return err
			}
			st := sc.Stack
			if !st.SetAction(c) {
				return errors.New("cannot change the live action while tweaking")
			}
			st.ActInfluence = influence
			st.ActBlend = mode
			st.ActExtend = ext
			fmt.Printf("Live action: %s\n", c.Name())
			return nil
		})
	},
}

func init() {
	stripSoundCmd.Flags().Float64("length", 0, "Strip length in frames (default 10)")
	stripSelectCmd.Flags().Bool("extend", false, "Keep the current selection")
	stripDuplicateCmd.Flags().Bool("linked", false, "Share actions with the originals instead of copying them")
	stripCmd.AddCommand(stripAddCmd)
	stripCmd.AddCommand(stripSoundCmd)
	stripCmd.AddCommand(stripSelectCmd)
	stripCmd.AddCommand(stripSplitCmd)
	stripCmd.AddCommand(stripDuplicateCmd)
	stripCmd.AddCommand(stripRemoveCmd)

	trackCmd.AddCommand(trackListCmd)
	trackCmd.AddCommand(trackAddCmd)
	trackCmd.AddCommand(trackSoloCmd)
	trackCmd.AddCommand(trackMuteCmd)
	trackCmd.AddCommand(trackRemoveCmd)

	actionAddCmd.Flags().Bool("cyclic", false, "Mark the action as cyclic")
	actionAddCmd.Flags().BoolP("interactive", "i", false, "Ask for the action in a form")
	actionSetCmd.Flags().Float64("influence", 1, "Live action influence")
	actionSetCmd.Flags().String("blend", "", "Live action blend mode (replace, combine, add, subtract, multiply)")
	actionSetCmd.Flags().String("extend", "", "Live action extend mode (hold, hold_forward, nothing)")
	actionCmd.AddCommand(actionListCmd)
	actionCmd.AddCommand(actionAddCmd)
	actionCmd.AddCommand(actionSetCmd)

	rootCmd.AddCommand(stripCmd)
	rootCmd.AddCommand(trackCmd)
	rootCmd.AddCommand(actionCmd)
}
