// Package render draws an NLA stack as styled text.
package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/user/nla-timeline-cli/nla"
	"github.com/user/nla-timeline-cli/pkg/frameutil"
	"github.com/user/nla-timeline-cli/pkg/styles"
)

// Options controls Timeline output.
type Options struct {
	// Width is the total line width. Values below 30 are raised to 30.
	Width int
	// Frame places a cursor on the ruler when Cursor is set.
	Frame  float64
	Cursor bool
}

const (
	minWidth     = 30
	maxNameWidth = 20
)

type cell struct {
	ch    rune
	style lipgloss.Style
}

// Timeline renders one row per track, topmost track first, with each strip
// drawn as a span scaled to the stack's frame range.
//
// Row layout: flags (active, solo, muted, protected), track name, spans.
func Timeline(st *nla.Stack, opts Options) string {
	width := opts.Width
	if width < minWidth {
		width = minWidth
	}

	start, end, ok := stackBounds(st)
	if opts.Cursor {
		if !ok {
			start, end, ok = opts.Frame, opts.Frame+1, true
		}
		start = math.Min(start, opts.Frame)
		end = math.Max(end, opts.Frame+1)
	}
	if !ok {
		return styles.SecondaryText.Render("(no strips)") + footer(st)
	}

	nameW := 5
	for _, t := range st.Tracks {
		nameW = max(nameW, lipgloss.Width(t.Name))
	}
	nameW = min(nameW, maxNameWidth)

	// 4 flag chars + 2 spaces around the name
	cols := width - nameW - 6
	if cols < 10 {
		cols = 10
	}
	span := end - start

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", 5))
	b.WriteString(styles.Header.Render(pad("Track", nameW)))
	b.WriteString(" ")
	b.WriteString(ruler(start, end, cols))
	b.WriteString("\n")

	_, tweaked := st.TweakTarget()
	active := st.ActiveTrack()
	for i := len(st.Tracks) - 1; i >= 0; i-- {
		t := st.Tracks[i]
		nameStyle := styles.PrimaryText
		switch {
		case t == active:
			nameStyle = styles.Active
		case !st.TrackEnabled(t):
			nameStyle = styles.Muted
		}
		b.WriteString(styles.SecondaryText.Render(trackMarks(t)))
		b.WriteString(" ")
		b.WriteString(nameStyle.Render(pad(truncate(t.Name, nameW), nameW)))
		b.WriteString(" ")
		b.WriteString(renderCells(trackCells(t, tweaked, start, span, cols)))
		b.WriteString("\n")
	}

	if opts.Cursor {
		pos := column(opts.Frame, start, span, cols)
		b.WriteString(strings.Repeat(" ", nameW+6))
		b.WriteString(strings.Repeat(" ", pos))
		b.WriteString(styles.Active.Render("▲ " + frameutil.FormatFrame(opts.Frame)))
		b.WriteString("\n")
	}

	return strings.TrimSuffix(b.String(), "\n") + footer(st)
}

// stackBounds returns the frame range covered by every track.
func stackBounds(st *nla.Stack) (start, end float64, ok bool) {
	for _, t := range st.Tracks {
		s, e, has := t.Bounds()
		if !has {
			continue
		}
		if !ok {
			start, end, ok = s, e, true
			continue
		}
		start = math.Min(start, s)
		end = math.Max(end, e)
	}
	if ok && end <= start {
		end = start + 1
	}
	return start, end, ok
}

func column(frame, start, span float64, cols int) int {
	c := int(math.Floor((frame - start) / span * float64(cols)))
	return max(0, min(cols-1, c))
}

func trackCells(t *nla.Track, tweaked *nla.Strip, start, span float64, cols int) []cell {
	cells := make([]cell, cols)
	for i := range cells {
		cells[i] = cell{ch: '·', style: styles.Rule}
	}
	step := span / float64(cols)
	for _, s := range t.Strips {
		style, ch := stripStyle(s)
		if s == tweaked {
			style = styles.Tweak
		}
		c0, c1 := -1, -1
		for i := range cells {
			lo := start + float64(i)*step
			if s.Start < lo+step && s.End > lo {
				cells[i] = cell{ch: ch, style: style}
				if c0 < 0 {
					c0 = i
				}
				c1 = i
			}
		}
		if c0 < 0 {
			continue
		}
		label := []rune(s.Name)
		if room := c1 - c0 - 1; room >= len(label) && len(label) > 0 {
			for j, r := range label {
				cells[c0+1+j] = cell{ch: r, style: style.Bold(true)}
			}
		}
	}
	return cells
}

func stripStyle(s *nla.Strip) (lipgloss.Style, rune) {
	if s.Has(nla.StripMuted) {
		return styles.Muted, '░'
	}
	switch s.Kind {
	case nla.KindTransition:
		return styles.Transition, '╱'
	case nla.KindMeta:
		return styles.Meta, '▓'
	case nla.KindSound:
		return styles.Sound, '♪'
	}
	if s.Has(nla.StripActive) {
		return styles.Active, '█'
	}
	return styles.Clip, '█'
}

func renderCells(cells []cell) string {
	var b strings.Builder
	for _, c := range cells {
		b.WriteString(c.style.Render(string(c.ch)))
	}
	return b.String()
}

func ruler(start, end float64, cols int) string {
	left := frameutil.FormatFrame(start)
	right := frameutil.FormatFrame(end)
	gap := cols - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return styles.Rule.Render(pad(left, cols))
	}
	return styles.Rule.Render(left + strings.Repeat("─", gap) + right)
}

func trackMarks(t *nla.Track) string {
	marks := []byte("----")
	if t.Has(nla.TrackActive) {
		marks[0] = 'A'
	}
	if t.Has(nla.TrackSolo) {
		marks[1] = 'S'
	}
	if t.Has(nla.TrackMuted) {
		marks[2] = 'M'
	}
	if t.Has(nla.TrackProtected) {
		marks[3] = 'P'
	}
	return string(marks)
}

func footer(st *nla.Stack) string {
	var lines []string
	if a := st.Action(); a != nil {
		lines = append(lines, fmt.Sprintf("Action: %s  influence %.2f  blend %s  extend %s",
			a.Name(), st.ActInfluence, st.ActBlend, st.ActExtend))
	}
	if t, s := st.TweakTarget(); s != nil {
		lines = append(lines, styles.Tweak.Render(fmt.Sprintf("Tweaking %s / %s", t.Name, s.Name)))
	}
	if len(lines) == 0 {
		return ""
	}
	return "\n" + strings.Join(lines, "\n")
}

func pad(s string, w int) string {
	if n := lipgloss.Width(s); n < w {
		return s + strings.Repeat(" ", w-n)
	}
	return s
}

func truncate(s string, w int) string {
	r := []rune(s)
	if len(r) <= w {
		return s
	}
	return string(r[:w-1]) + "…"
}
