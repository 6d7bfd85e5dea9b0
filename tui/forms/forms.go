// Package forms provides huh-based prompts for the CLI and the timeline
// browser.
package forms

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/user/nla-timeline-cli/pkg/frameutil"
)

// ActionFormResult holds what the action form collected. Frames are kept
// as typed so timecodes work too.
type ActionFormResult struct {
	Name   string
	Start  string
	End    string
	Cyclic bool
}

// Frames parses the start and end of the action.
func (r *ActionFormResult) Frames(fps float64) (start, end float64, err error) {
	start, err = frameutil.ParseFrame(r.Start, fps)
	if err != nil {
		return 0, 0, fmt.Errorf("start: %w", err)
	}
	end, err = frameutil.ParseFrame(r.End, fps)
	if err != nil {
		return 0, 0, fmt.Errorf("end: %w", err)
	}
	if end < start {
		return 0, 0, fmt.Errorf("end %s is before start %s", frameutil.FormatFrame(end), frameutil.FormatFrame(start))
	}
	return start, end, nil
}

// ValidateName rejects blank names and the ones taken reports as in use.
// taken may be nil.
func ValidateName(taken func(string) bool) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			return errors.New("name is required")
		}
		if taken != nil && taken(s) {
			return fmt.Errorf("%s already exists", s)
		}
		return nil
	}
}

// ValidateFrame rejects anything ParseFrame does not accept.
func ValidateFrame(fps float64) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New("frame is required")
		}
		if _, err := frameutil.ParseFrame(s, fps); err != nil {
			return errors.New("not a frame number or timecode")
		}
		return nil
	}
}

// NewActionForm asks for a new library action. Fields already set in
// result are offered as defaults.
func NewActionForm(fps float64, taken func(string) bool, result *ActionFormResult) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().Title("Add Action"),

			huh.NewInput().
				Title("Name").
				Value(&result.Name).
				Validate(ValidateName(taken)),

			huh.NewInput().
				Title("Start").
				Description("Frame or timecode").
				Value(&result.Start).
				Validate(ValidateFrame(fps)),

			huh.NewInput().
				Title("End").
				Description("Frame or timecode").
				Value(&result.End).
				Validate(ValidateFrame(fps)),

			huh.NewConfirm().
				Title("Cyclic?").
				Affirmative("Yes").
				Negative("No").
				Value(&result.Cyclic),
		),
	).WithTheme(Theme())
}

// NewSaveAsForm asks for the name to store the stack under.
func NewSaveAsForm(name *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Save stack as").
				Description("Replaces a stack already saved under this name").
				Value(name).
				Validate(ValidateName(nil)),
		),
	).WithTheme(Theme()).WithShowHelp(false)
}
