// Package tui is an interactive timeline browser for a scene: move a frame
// cursor, pick tracks and strips, toggle tweak mode and track flags.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/user/nla-timeline-cli/nla"
	"github.com/user/nla-timeline-cli/pkg/frameutil"
	"github.com/user/nla-timeline-cli/pkg/render"
	"github.com/user/nla-timeline-cli/pkg/styles"
	"github.com/user/nla-timeline-cli/scene"
	"github.com/user/nla-timeline-cli/tui/forms"
)

const (
	// resultDisplayDuration is how long to show command results.
	resultDisplayDuration = 3 * time.Second
	defaultStep           = 1.0
)

// frameSteps are the cursor step sizes, cycled with < and >.
var frameSteps = []float64{1, 5, 10, 24, 48, 100}

// clearResultMsg is sent to clear the command result message.
type clearResultMsg struct{}

// SaveFunc writes the scene back to wherever it came from.
type SaveFunc func(*scene.Scene) error

// SaveAsFunc stores the scene under a name, such as a saved stack.
type SaveAsFunc func(name string, sc *scene.Scene) error

// Model is the Bubbletea model for the timeline browser.
type Model struct {
	sc     *scene.Scene
	save   SaveFunc
	saveAs SaveAsFunc
	title  string
	fps    float64

	frame float64
	step  float64

	// terminal size; width falls back to fallbackWidth until the first resize
	width         int
	height        int
	fallbackWidth int

	showHelp  bool
	dirty     bool
	result    string
	resultErr bool
	quitting  bool

	// save-as prompt, nil when closed
	form     *huh.Form
	saveName string
}

// NewModel creates a model browsing sc. The cursor starts at the first
// strip of the stack, or frame 0.
func NewModel(sc *scene.Scene, save SaveFunc, title string, fps float64, width int) *Model {
	m := &Model{
		sc:            sc,
		save:          save,
		title:         title,
		fps:           fps,
		step:          defaultStep,
		fallbackWidth: width,
	}
	found := false
	for _, t := range sc.Stack.Tracks {
		if start, _, ok := t.Bounds(); ok && (!found || start < m.frame) {
			m.frame, found = start, true
		}
	}
	return m
}

// WithSaveAs enables the save-as prompt.
func (m *Model) WithSaveAs(fn SaveAsFunc) *Model {
	m.saveAs = fn
	return m
}

func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.form != nil {
		return m.updateForm(msg)
	}
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case clearResultMsg:
		m.result = ""
		m.resultErr = false
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := m.sc.Stack
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "?":
		m.showHelp = true
	case "h", "left":
		m.frame -= m.step
	case "l", "right":
		m.frame += m.step
	case "<":
		m.cycleStep(-1)
	case ">":
		m.cycleStep(1)
	case "k", "up":
		return m.moveTrack(1)
	case "j", "down":
		return m.moveTrack(-1)
	case "[":
		return m.moveStrip(-1)
	case "]":
		return m.moveStrip(1)
	case "g":
		if s := st.ActiveStrip(); s != nil {
			m.frame = s.Start
		}
	case "tab":
		return m.toggleTweak()
	case "m":
		t := st.ActiveTrack()
		if t == nil {
			return m.flash("No active track", true)
		}
		t.Flags ^= nla.TrackMuted
		m.dirty = true
	case "s":
		t := st.ActiveTrack()
		if t == nil {
			return m.flash("No active track", true)
		}
		st.SoloToggle(t)
		m.dirty = true
	case "w":
		if m.save == nil {
			return m.flash("Nowhere to save", true)
		}
		if err := m.save(m.sc); err != nil {
			return m.flash("Error: "+err.Error(), true)
		}
		m.dirty = false
		return m.flash("Saved", false)
	case "W":
		if m.saveAs == nil {
			return m.flash("No database to save to", true)
		}
		m.saveName = ""
		m.form = forms.NewSaveAsForm(&m.saveName)
		return m, m.form.Init()
	}
	return m, nil
}

// updateForm feeds msg to the open save-as prompt.
func (m *Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = ws.Width, ws.Height
	}
	f, cmd := m.form.Update(msg)
	if f, ok := f.(*huh.Form); ok {
		m.form = f
	}
	switch m.form.State {
	case huh.StateCompleted:
		m.form = nil
		return m.finishSaveAs()
	case huh.StateAborted:
		m.form = nil
		return m.flash("Save cancelled", false)
	}
	return m, cmd
}

func (m *Model) finishSaveAs() (tea.Model, tea.Cmd) {
	name := strings.TrimSpace(m.saveName)
	if err := m.saveAs(name, m.sc); err != nil {
		return m.flash("Error: "+err.Error(), true)
	}
	return m.flash("Saved stack "+name, false)
}

// moveTrack makes the track dir steps above (positive) or below the active
// track active. With no active track the top or bottom track is picked.
func (m *Model) moveTrack(dir int) (tea.Model, tea.Cmd) {
	st := m.sc.Stack
	if st.InTweakMode() {
		return m.flash("Exit tweak mode first", true)
	}
	if len(st.Tracks) == 0 {
		return m, nil
	}
	i := st.IndexOf(st.ActiveTrack())
	switch {
	case i < 0 && dir > 0:
		i = 0
	case i < 0:
		i = len(st.Tracks) - 1
	default:
		i = max(0, min(len(st.Tracks)-1, i+dir))
	}
	t := st.Tracks[i]
	st.SetActiveTrack(t)
	if len(t.Strips) > 0 {
		st.SetActiveStrip(nearestStrip(t, m.frame))
	}
	return m, nil
}

// moveStrip steps the active strip along the active track and moves the
// cursor to its start.
func (m *Model) moveStrip(dir int) (tea.Model, tea.Cmd) {
	st := m.sc.Stack
	if st.InTweakMode() {
		return m.flash("Exit tweak mode first", true)
	}
	t := st.ActiveTrack()
	if t == nil || len(t.Strips) == 0 {
		return m, nil
	}
	i := -1
	cur := st.ActiveStrip()
	for j, s := range t.Strips {
		if s == cur {
			i = j
		}
	}
	switch {
	case i < 0:
		i = 0
	default:
		i = max(0, min(len(t.Strips)-1, i+dir))
	}
	s := t.Strips[i]
	st.SetActiveStrip(s)
	m.frame = s.Start
	return m, nil
}

func (m *Model) toggleTweak() (tea.Model, tea.Cmd) {
	st := m.sc.Stack
	if st.InTweakMode() {
		st.ExitTweak()
		m.dirty = true
		return m.flash("Tweak mode off", false)
	}
	if !st.EnterTweak() {
		return m.flash("No active strip to tweak", true)
	}
	m.dirty = true
	_, s := st.TweakTarget()
	return m.flash("Tweaking "+s.Name, false)
}

func (m *Model) cycleStep(dir int) {
	i := 0
	for j, s := range frameSteps {
		if s <= m.step {
			i = j
		}
	}
	i = max(0, min(len(frameSteps)-1, i+dir))
	m.step = frameSteps[i]
}

func (m *Model) flash(text string, isErr bool) (tea.Model, tea.Cmd) {
	m.result = text
	m.resultErr = isErr
	return m, tea.Tick(resultDisplayDuration, func(time.Time) tea.Msg {
		return clearResultMsg{}
	})
}

// nearestStrip returns the strip under frame, or the one with the nearest
// edge.
func nearestStrip(t *nla.Track, frame float64) *nla.Strip {
	var best *nla.Strip
	bestDist := 0.0
	for _, s := range t.Strips {
		if frame >= s.Start && frame < s.End {
			return s
		}
		d := s.DistanceToFrame(frame)
		if best == nil || d < bestDist {
			best, bestDist = s, d
		}
	}
	return best
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return helpView()
	}

	width := m.width
	if width == 0 {
		width = m.fallbackWidth
	}
	st := m.sc.Stack

	var b strings.Builder
	b.WriteString(m.statusLine())
	b.WriteString("\n\n")
	if m.form != nil {
		b.WriteString(m.form.View())
		return b.String()
	}
	b.WriteString(render.Timeline(st, render.Options{Width: width, Frame: m.frame, Cursor: true}))
	b.WriteString("\n\n")
	b.WriteString(m.stripLine())
	b.WriteString("\n")
	if m.result != "" {
		style := styles.Success
		if m.resultErr {
			style = styles.Warning
		}
		b.WriteString(style.Render(m.result))
	}
	b.WriteString("\n")
	b.WriteString(styles.SecondaryText.Render("h/l frame  </> step  j/k track  [/] strip  tab tweak  m mute  s solo  w save  W save as  ? help  q quit"))
	return b.String()
}

func (m *Model) statusLine() string {
	parts := []string{
		styles.Header.Render(m.title),
		styles.PrimaryText.Render(frameutil.FormatTimecode(m.frame, m.fps)),
		styles.SecondaryText.Render(fmt.Sprintf("frame %s  step %s", frameutil.FormatFrame(m.frame), frameutil.FormatFrame(m.step))),
	}
	if m.sc.Stack.InTweakMode() {
		parts = append(parts, styles.Tweak.Render("TWEAK"))
	}
	if m.dirty {
		parts = append(parts, styles.Warning.Render("modified"))
	}
	return strings.Join(parts, "  ")
}

// stripLine describes the active strip and its local time at the cursor.
func (m *Model) stripLine() string {
	s := m.sc.Stack.ActiveStrip()
	if s == nil {
		return styles.SecondaryText.Render("No active strip")
	}
	line := fmt.Sprintf("%s  %s  [%s, %s)", s.Name, s.Kind, frameutil.FormatFrame(s.Start), frameutil.FormatFrame(s.End))
	if a := s.Action(); a != nil {
		line += "  action " + a.Name()
	}
	if s.Kind == nla.KindClip && m.frame >= s.Start && m.frame <= s.End {
		line += fmt.Sprintf("  local %.2f", nla.StripTime(s, m.frame, nla.TimeEval))
	}
	return styles.PrimaryText.Render(line)
}

func helpView() string {
	keys := [][2]string{
		{"h / l", "move the cursor by one step"},
		{"< / >", "smaller / larger step"},
		{"j / k", "active track down / up"},
		{"[ / ]", "previous / next strip on the active track"},
		{"g", "cursor to the active strip's start"},
		{"tab", "enter or exit tweak mode"},
		{"m / s", "mute / solo the active track"},
		{"w", "save the scene"},
		{"W", "save the stack to the database under a name"},
		{"q", "quit"},
	}
	var b strings.Builder
	b.WriteString(styles.Header.Render("Keys"))
	b.WriteString("\n\n")
	for _, k := range keys {
		b.WriteString(styles.Active.Render(fmt.Sprintf("%-8s", k[0])))
		b.WriteString(styles.PrimaryText.Render(k[1]))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.SecondaryText.Render("Press any key to close."))
	return b.String()
}

// Run starts the Bubbletea program with a model for sc.
func Run(sc *scene.Scene, save SaveFunc, saveAs SaveAsFunc, title string, fps float64, width int) error {
	model := NewModel(sc, save, title, fps, width).WithSaveAs(saveAs)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
