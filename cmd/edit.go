package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/user/nla-timeline-cli/nla"
	"github.com/user/nla-timeline-cli/scene"
)

// editScene loads the scene, applies fn, repairs transitions and blends,
// and writes the scene back when fn succeeds.
func editScene(create bool, fn func(sc *scene.Scene) error) error {
	sc, err := loadScene(create)
	if err != nil {
		return err
	}
	if err := fn(sc); err != nil {
		return err
	}
	sc.Stack.ValidateState()
	return saveScene(sc)
}

// notTweaking refuses an edit that would rearrange strips under an open
// tweak session.
func notTweaking(st *nla.Stack, what string) error {
	if st.InTweakMode() {
		return fmt.Errorf("cannot %s while tweaking, run tweak exit first", what)
	}
	return nil
}

var tweakCmd = &cobra.Command{
	Use:   "tweak",
	Short: "Enter or exit tweak mode",
	Long:  `Tweak mode makes the active strip's clip the live clip so it can be edited in place, disabling the tracks that would otherwise be mixed over it.`,
}

var tweakEnterCmd = &cobra.Command{
	Use:   "enter",
	Short: "Start tweaking the active strip",
	RunE: func(cmd *cobra.Command, args []string) error {
		return editScene(false, func(sc *scene.Scene) error {
			st := sc.Stack
			if !st.EnterTweak() {
				return errors.New("no active strip with an action to tweak")
			}
			t, s := st.TweakTarget()
			fmt.Printf("Tweaking %s on %s (action %s)\n", s.Name, t.Name, st.Action().Name())
			return nil
		})
	},
}

var tweakExitCmd = &cobra.Command{
	Use:   "exit",
	Short: "Stop tweaking and restore the live action",
	RunE: func(cmd *cobra.Command, args []string) error {
		return editScene(false, func(sc *scene.Scene) error {
			st := sc.Stack
			if !st.InTweakMode() {
				fmt.Println("Not in tweak mode.")
				return nil
			}
			st.ExitTweak()
			fmt.Println("Tweak mode exited.")
			return nil
		})
	},
}

var stashCmd = &cobra.Command{
	Use:   "stash",
	Short: "Stash the live action on a protected track",
	Long:  `Move the live action onto a new muted, protected "[Action Stash]" track so it is kept without being evaluated, and clear the live action.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return editScene(false, func(sc *scene.Scene) error {
			st := sc.Stack
			a := st.Action()
			if a == nil {
				return errors.New("no live action to stash")
			}
			if st.IsStashed(a) {
				return fmt.Errorf("action %s is already stashed", a.Name())
			}
			if !st.Stash(libOverride) {
				return fmt.Errorf("failed to stash action %s", a.Name())
			}
			fmt.Printf("Stashed action %s\n", a.Name())
			return nil
		})
	},
}

var pushdownCmd = &cobra.Command{
	Use:   "pushdown",
	Short: "Push the live action down into a new strip",
	RunE: func(cmd *cobra.Command, args []string) error {
		return editScene(false, func(sc *scene.Scene) error {
			st := sc.Stack
			a := st.Action()
			if a == nil {
				return errors.New("no live action to push down")
			}
			if !st.PushDown(libOverride) {
				return fmt.Errorf("failed to push down action %s", a.Name())
			}
			s := st.ActiveStrip()
			fmt.Printf("Pushed down %s as strip %s\n", a.Name(), s.Name)
			return nil
		})
	},
}

var metaCmd = &cobra.Command{
	Use:   "meta",
	Short: "Group and ungroup strips",
}

var metaMakeCmd = &cobra.Command{
	Use:   "make",
	Short: "Group runs of adjacent selected strips into meta strips",
	RunE: func(cmd *cobra.Command, args []string) error {
		return editScene(false, func(sc *scene.Scene) error {
			if err := notTweaking(sc.Stack, "group strips"); err != nil {
				return err
			}
			made := 0
			for _, t := range sc.Stack.Tracks {
				if libOverride && !t.IsLocal() {
					continue
				}
				before := countKind(t.Strips, nla.KindMeta)
				nla.MakeMetas(&t.Strips, false)
				for _, s := range t.Strips {
					if s.IsMeta() {
						sc.Stack.ValidateStripName(s)
					}
				}
				made += countKind(t.Strips, nla.KindMeta) - before
			}
			fmt.Printf("Created %d meta strip(s)\n", made)
			return nil
		})
	},
}

var metaClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Ungroup meta strips",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		return editScene(false, func(sc *scene.Scene) error {
			if err := notTweaking(sc.Stack, "ungroup strips"); err != nil {
				return err
			}
			cleared := 0
			for _, t := range sc.Stack.Tracks {
				if libOverride && !t.IsLocal() {
					continue
				}
				before := countKind(t.Strips, nla.KindMeta)
				nla.ClearMetas(&t.Strips, !all, false)
				cleared += before - countKind(t.Strips, nla.KindMeta)
			}
			fmt.Printf("Cleared %d meta strip(s)\n", cleared)
			return nil
		})
	},
}

func countKind(l nla.StripList, k nla.Kind) int {
	n := 0
	for _, s := range l {
		if s.Kind == k {
			n++
		}
	}
	return n
}

var transitionCmd = &cobra.Command{
	Use:   "transition",
	Short: "Manage transition strips",
}

var transitionAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Fill gaps between adjacent selected strips with transitions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return editScene(false, func(sc *scene.Scene) error {
			if err := notTweaking(sc.Stack, "add transitions"); err != nil {
				return err
			}
			n := sc.Stack.AddTransitions()
			if n == 0 {
				return errors.New("no gaps between adjacent selected strips")
			}
			fmt.Printf("Added %d transition(s)\n", n)
			return nil
		})
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the scene and drop transitions without neighbours",
	RunE: func(cmd *cobra.Command, args []string) error {
		fix, _ := cmd.Flags().GetBool("fix")

		sc, err := loadScene(false)
		if err != nil {
			return err
		}
		st := sc.Stack
		before := countStrips(st)
		st.ValidateState()
		removed := before - countStrips(st)

		if removed > 0 && !fix {
			return fmt.Errorf("%d invalid transition(s) found, run with --fix to remove them", removed)
		}
		if fix {
			if err := saveScene(sc); err != nil {
				return err
			}
			fmt.Printf("Removed %d invalid transition(s), blends recalculated\n", removed)
		}
		fmt.Printf("Scene OK: %d track(s), %d strip(s), %d action(s)\n", len(st.Tracks), countStrips(st), sc.Library.Len())
		return nil
	},
}

func countStrips(st *nla.Stack) int {
	n := 0
	for _, t := range st.Tracks {
		n += len(t.Strips)
	}
	return n
}

func init() {
	tweakCmd.AddCommand(tweakEnterCmd)
	tweakCmd.AddCommand(tweakExitCmd)

	metaClearCmd.Flags().Bool("all", false, "Ungroup every meta strip, not only selected ones")
	metaCmd.AddCommand(metaMakeCmd)
	metaCmd.AddCommand(metaClearCmd)

	transitionCmd.AddCommand(transitionAddCmd)

	validateCmd.Flags().Bool("fix", false, "Write the scene back with invalid transitions removed and blends recalculated")

	rootCmd.AddCommand(tweakCmd)
	rootCmd.AddCommand(stashCmd)
	rootCmd.AddCommand(pushdownCmd)
	rootCmd.AddCommand(metaCmd)
	rootCmd.AddCommand(transitionCmd)
	rootCmd.AddCommand(validateCmd)
}
