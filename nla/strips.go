package nla

import (
	"sort"

	"github.com/user/nla-timeline-cli/pkg/debug"
)

// Frame limits used when a strip has no neighbor on a side.
const (
	MinFrame = -1048574.0
	MaxFrame = 1048574.0
)

// StripList is an ordered run of sibling strips, either the contents of a
// track or the children of a meta strip. Lists are kept sorted by Start.
type StripList []*Strip

// HasSpace reports whether [start, end) is free of strips. Reversed bounds
// are swapped; zero-length ranges never fit.
func (l StripList) HasSpace(start, end float64) bool {
	if floatEq(start, end) {
		return false
	}
	if start > end {
		debug.Log("strips: has space called with start and end swapped (%g, %g)", start, end)
		start, end = end, start
	}
	for _, s := range l {
		// Past the window, nothing further can overlap.
		if s.Start >= end {
			return true
		}
		if s.End > start || s.End > end {
			return false
		}
	}
	return true
}

// AddUnsafe inserts s before the first strip starting at or after it,
// without checking for overlap.
func (l *StripList) AddUnsafe(s *Strip) {
	if !debug.Assert(s != nil, "strips: add unsafe with nil strip") {
		return
	}
	for i, ns := range *l {
		if ns.Start >= s.Start {
			l.insertAt(i, s)
			return
		}
	}
	*l = append(*l, s)
}

// Add inserts s if its range is free. The list is unchanged on failure.
func (l *StripList) Add(s *Strip) bool {
	if s == nil {
		return false
	}
	if !l.HasSpace(s.Start, s.End) {
		return false
	}
	l.AddUnsafe(s)
	return true
}

// Sort orders strips by start. Strips with equal starts keep their order.
func (l StripList) Sort() {
	sort.SliceStable(l, func(i, j int) bool {
		return l[i].Start < l[j].Start
	})
}

// Remove detaches s from the list without freeing it.
func (l *StripList) Remove(s *Strip) bool {
	i := l.IndexOf(s)
	if i < 0 {
		return false
	}
	*l = append((*l)[:i], (*l)[i+1:]...)
	return true
}

// RemoveAndFree detaches and frees s. It reports false, leaving s alone,
// when s is not in the list.
func (l *StripList) RemoveAndFree(s *Strip, releaseAction bool) bool {
	if !l.Remove(s) {
		return false
	}
	s.Free(releaseAction)
	return true
}

// Free frees every strip in the list and empties it.
func (l *StripList) Free(releaseAction bool) {
	if l == nil {
		return
	}
	for _, s := range *l {
		s.Free(releaseAction)
	}
	*l = nil
}

// IndexOf returns the position of s, or -1.
func (l StripList) IndexOf(s *Strip) int {
	for i, ns := range l {
		if ns == s {
			return i
		}
	}
	return -1
}

// InsertAfter places s directly after anchor. A nil or missing anchor puts
// s at the head.
func (l *StripList) InsertAfter(anchor, s *Strip) {
	l.insertAt(l.IndexOf(anchor)+1, s)
}

// InsertBefore places s directly before anchor. A nil or missing anchor
// appends s.
func (l *StripList) InsertBefore(anchor, s *Strip) {
	i := l.IndexOf(anchor)
	if i < 0 {
		i = len(*l)
	}
	l.insertAt(i, s)
}

func (l *StripList) insertAt(i int, s *Strip) {
	*l = append(*l, nil)
	copy((*l)[i+1:], (*l)[i:])
	(*l)[i] = s
}

// FindActive returns the first active strip, searching meta children depth first.
func (l StripList) FindActive() *Strip {
	for _, s := range l {
		if s.Has(StripActive) {
			return s
		}
		if !s.IsMeta() {
			continue
		}
		if inner := s.Children.FindActive(); inner != nil {
			return inner
		}
	}
	return nil
}

// FindByName returns the first strip named name, including meta children.
func (l StripList) FindByName(name string) *Strip {
	for _, s := range l {
		if s.Name == name {
			return s
		}
		if !s.IsMeta() {
			continue
		}
		if inner := s.Children.FindByName(name); inner != nil {
			return inner
		}
	}
	return nil
}

// FindByID returns the strip with the given ID, including meta children.
func (l StripList) FindByID(id string) *Strip {
	if id == "" {
		return nil
	}
	var found *Strip
	l.Walk(func(s *Strip, _ int) bool {
		if s.ID == id {
			found = s
			return false
		}
		return true
	})
	return found
}

// Next returns the strip after s, optionally skipping transitions.
func (l StripList) Next(s *Strip, skipTransitions bool) *Strip {
	i := l.IndexOf(s)
	if i < 0 {
		return nil
	}
	for _, n := range l[i+1:] {
		if skipTransitions && n.Kind == KindTransition {
			continue
		}
		return n
	}
	return nil
}

// Prev returns the strip before s, optionally skipping transitions.
func (l StripList) Prev(s *Strip, skipTransitions bool) *Strip {
	i := l.IndexOf(s)
	if i < 0 {
		return nil
	}
	for j := i - 1; j >= 0; j-- {
		if skipTransitions && l[j].Kind == KindTransition {
			continue
		}
		return l[j]
	}
	return nil
}

// Bounds returns the first start and last end. ok is false for an empty list.
func (l StripList) Bounds() (start, end float64, ok bool) {
	if len(l) == 0 {
		return 0, 0, false
	}
	return l[0].Start, l[len(l)-1].End, true
}

// Walk visits strips in order, each meta before its children. depth is 0
// for strips of this list. Returning false stops the walk.
func (l StripList) Walk(fn func(s *Strip, depth int) bool) bool {
	return l.walk(fn, 0)
}

func (l StripList) walk(fn func(*Strip, int) bool, depth int) bool {
	for _, s := range l {
		if !fn(s, depth) {
			return false
		}
		if s.IsMeta() && !s.Children.walk(fn, depth+1) {
			return false
		}
	}
	return true
}

// FrameFromPrevious is the earliest frame s may start at given its left
// neighbor. A transition neighbor may shrink down to the minimum length.
func (l StripList) FrameFromPrevious(s *Strip) float64 {
	prev := l.Prev(s, false)
	if prev == nil {
		return MinFrame
	}
	if prev.Kind == KindTransition {
		return prev.Start + minStripLength
	}
	return prev.End
}

// FrameToNext is the latest frame s may end at given its right neighbor.
func (l StripList) FrameToNext(s *Strip) float64 {
	next := l.Next(s, false)
	if next == nil {
		return MaxFrame
	}
	if next.Kind == KindTransition {
		return next.End - minStripLength
	}
	return next.Start
}

// touchesNext reports whether the strip after index i starts exactly where it ends.
func (l StripList) touchesNext(i int) bool {
	return i+1 < len(l) && floatEq(l[i+1].Start, l[i].End)
}

// touchesPrev reports whether the strip before index i ends exactly where it starts.
func (l StripList) touchesPrev(i int) bool {
	return i > 0 && floatEq(l[i-1].End, l[i].Start)
}
