package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/user/nla-timeline-cli/nla"
	"github.com/user/nla-timeline-cli/pkg/frameutil"
	"github.com/user/nla-timeline-cli/pkg/render"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the track stack as a timeline",
	Long:  `Draw every track of the scene's stack, topmost first, with strips scaled to the stack's frame range. Use --list for a table of strips instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		list, _ := cmd.Flags().GetBool("list")
		width, _ := cmd.Flags().GetInt("width")
		frameStr, _ := cmd.Flags().GetString("frame")

		sc, err := loadScene(false)
		if err != nil {
			return err
		}
		st := sc.Stack

		if list {
			from, to := nla.MinFrame, nla.MaxFrame
			if fromStr, _ := cmd.Flags().GetString("from"); fromStr != "" {
				if from, err = frameutil.ParseFrame(fromStr, cfg.Timeline.FPS); err != nil {
					return fmt.Errorf("invalid --from: %w", err)
				}
			}
			if toStr, _ := cmd.Flags().GetString("to"); toStr != "" {
				if to, err = frameutil.ParseFrame(toStr, cfg.Timeline.FPS); err != nil {
					return fmt.Errorf("invalid --to: %w", err)
				}
			}
			return printStrips(st, from, to)
		}

		opts := render.Options{Width: width}
		if opts.Width == 0 {
			opts.Width = cfg.Timeline.Width
		}
		if frameStr != "" {
			f, err := frameutil.ParseFrame(frameStr, cfg.Timeline.FPS)
			if err != nil {
				return fmt.Errorf("invalid --frame: %w", err)
			}
			opts.Frame, opts.Cursor = f, true
		}
		fmt.Println(render.Timeline(st, opts))
		return nil
	},
}

// printStrips lists the strips with any part inside [from, to].
func printStrips(st *nla.Stack, from, to float64) error {
	if !st.HasStrips() {
		fmt.Println("No strips found.")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRACK\tSTRIP\tKIND\tSTART\tEND\tACTION\tFLAGS")
	fmt.Fprintln(w, "-----\t-----\t----\t-----\t---\t------\t-----")
	count := 0
	skip := false
	st.Walk(func(t *nla.Track, s *nla.Strip, depth int) bool {
		if s == nil {
			return true
		}
		// Children follow their meta, so they share its verdict.
		if depth == 1 {
			skip = !s.WithinBounds(from, to)
		}
		if skip {
			return true
		}
		count++
		actionName := "-"
		if a := s.Action(); a != nil {
			actionName = a.Name()
		}
		name := strings.Repeat("  ", depth-1) + s.Name
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			t.Name, name, s.Kind,
			frameutil.FormatFrame(s.Start), frameutil.FormatFrame(s.End),
			actionName, s.Flags)
		return true
	})
	w.Flush()
	fmt.Printf("\n%d strip(s)\n", count)
	return nil
}

var evalCmd = &cobra.Command{
	Use:   "eval <frame>",
	Short: "Show which strip each track evaluates at a frame",
	Long: `Show, for every enabled track, the strip that contributes at the given frame, its local
clip time and influence. Frames may be given as a number or as H:MM:SS / MM:SS timecode.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		frame, err := frameutil.ParseFrame(args[0], cfg.Timeline.FPS)
		if err != nil {
			return err
		}

		sc, err := loadScene(false)
		if err != nil {
			return err
		}
		st := sc.Stack

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TRACK\tSTRIP\tKIND\tLOCAL\tINFLUENCE\tSTATE")
		fmt.Fprintln(w, "-----\t-----\t----\t-----\t---------\t-----")
		for i := len(st.Tracks) - 1; i >= 0; i-- {
			t := st.Tracks[i]
			if !st.TrackEnabled(t) {
				fmt.Fprintf(w, "%s\t-\t-\t-\t-\tdisabled\n", t.Name)
				continue
			}
			s, state := stripAt(t, frame)
			if s == nil {
				fmt.Fprintf(w, "%s\t-\t-\t-\t-\t%s\n", t.Name, state)
				continue
			}
			local := nla.StripTime(s, frame, nla.TimeEval)
			fmt.Fprintf(w, "%s\t%s\t%s\t%.3f\t%.3f\t%s\n",
				t.Name, s.Name, s.Kind, local, stripInfluence(s, frame), state)
		}
		w.Flush()

		fmt.Printf("\nFrame %s (%s)\n", frameutil.FormatFrame(frame), frameutil.FormatTimecode(frame, cfg.Timeline.FPS))
		if a := st.Action(); a != nil {
			fmt.Printf("Live action %s at %.3f\n", a.Name(), st.TweakRemap(frame, nla.TimeUnmap))
		}
		return nil
	},
}

// stripAt finds the strip a track evaluates at frame. Outside every strip,
// the nearest strip whose extend mode holds across the gap is used.
func stripAt(t *nla.Track, frame float64) (*nla.Strip, string) {
	var held *nla.Strip
	for i, s := range t.Strips {
		if s.Has(nla.StripMuted) {
			continue
		}
		if frame >= s.Start && frame <= s.End {
			return s, "active"
		}
		switch {
		case frame < s.Start && i == 0 && s.Extend == nla.ExtendHold:
			return s, "held"
		case frame > s.End && s.Extend != nla.ExtendNothing:
			held = s
		}
	}
	if held != nil {
		return held, "held"
	}
	return nil, "empty"
}

// stripInfluence returns the strip's user influence, or the blend in/out
// ramp when influence is not user controlled.
func stripInfluence(s *nla.Strip, frame float64) float64 {
	if s.Has(nla.StripUserInfluence) {
		return s.Influence
	}
	switch {
	case s.BlendIn > 0 && frame < s.Start+s.BlendIn:
		return max(0, (frame-s.Start)/s.BlendIn)
	case s.BlendOut > 0 && frame > s.End-s.BlendOut:
		return max(0, (s.End-frame)/s.BlendOut)
	}
	return 1
}

func init() {
	showCmd.Flags().Bool("list", false, "List strips in a table instead of drawing the timeline")
	showCmd.Flags().Int("width", 0, "Line width (default from config: timeline.width)")
	showCmd.Flags().String("frame", "", "Draw a cursor at this frame")
	showCmd.Flags().String("from", "", "With --list, only strips reaching into this frame or later")
	showCmd.Flags().String("to", "", "With --list, only strips reaching into this frame or earlier")

	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(evalCmd)
}
