package nla

import (
	"math"

	"github.com/user/nla-timeline-cli/pkg/debug"
)

// FixResizeOverlaps pushes the neighbors of s out of the way after s was
// resized. Transition neighbors absorb the change until they reach one
// frame; after that, and for ordinary neighbors, every strip further out
// shifts by a whole number of frames.
func FixResizeOverlaps(l StripList, s *Strip) {
	i := l.IndexOf(s)
	if i < 0 {
		return
	}

	if i+1 < len(l) {
		nls := l[i+1]
		shift := false
		var offset float64
		if nls.Kind == KindTransition {
			if s.End <= nls.Start || s.End < nls.End {
				nls.Start = s.End
			} else {
				nls.Start = nls.End - minTransitionLength
				offset = math.Ceil(s.End - nls.Start)
				shift = true
			}
		} else if s.End > nls.Start {
			// Whole frames only, a fractional gap is hard to get rid of later.
			offset = math.Ceil(s.End - nls.Start)
			shift = true
		}
		if shift {
			for _, n := range l[i+1:] {
				n.Start += offset
				n.End += offset
			}
		}
	}

	if i > 0 {
		nls := l[i-1]
		shift := false
		var offset float64
		if nls.Kind == KindTransition {
			if s.Start >= nls.End || s.Start > nls.Start {
				nls.End = s.Start
			} else {
				nls.End = nls.Start + minTransitionLength
				offset = math.Ceil(nls.End - s.Start)
				shift = true
			}
		} else if s.Start < nls.End {
			offset = math.Ceil(nls.End - s.Start)
			shift = true
		}
		if shift {
			for j := i - 1; j >= 0; j-- {
				l[j].Start -= offset
				l[j].End -= offset
			}
		}
	}
}

// RecalculateBounds sets the end of a clip strip from its clip length,
// scale and repeat, then resolves overlaps with its neighbors.
func RecalculateBounds(l StripList, s *Strip) {
	if s == nil || s.Kind != KindClip {
		return
	}
	mapping := s.Scale * s.Repeat
	if !floatEq(mapping, 0) {
		s.End = ClipLength(s)*mapping + s.Start
	}
	FixResizeOverlaps(l, s)
}

// RecalculateBoundsSyncAction rereads the clip's frame range into the
// strip. Start moves with the clip's lower bound so keys keep their
// position in scene time.
func RecalculateBoundsSyncAction(l StripList, s *Strip) {
	if s == nil || s.Kind != KindClip {
		return
	}
	a := s.Action()
	if a == nil {
		return
	}
	prevActStart := s.ActStart
	start, end := a.FrameRange()
	s.ActStart = start
	s.ActEnd = EnsureNonzero(start, end)

	s.Start += (s.ActStart - prevActStart) * s.Scale

	RecalculateBounds(l, s)
}

// RecalculateBlend clamps the blend durations so that together they never
// exceed the strip length. Blend in keeps its value first.
func RecalculateBlend(s *Strip) {
	if s.BlendIn == 0 && s.BlendOut == 0 {
		return
	}
	length := s.Length()
	if length < 0 {
		length = 0
	}
	s.BlendIn = clamp(s.BlendIn, 0, length)
	s.BlendOut = clamp(s.BlendOut, 0, length-s.BlendIn)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

type overlap struct {
	frame float64
	ok    bool
}

// endpointOverlaps finds strips of l whose end (start) falls strictly
// inside s and which are not part of a chain of touching strips on that
// side. Nothing is returned when a strip of l covers s entirely.
func endpointOverlaps(s *Strip, l StripList) (start, end overlap) {
	for i, n := range l {
		if n.Start <= s.Start && n.End >= s.End {
			return overlap{}, overlap{}
		}
		if n.End < s.Start {
			continue
		}
		if n.Start > s.End {
			return start, end
		}
		if !l.touchesNext(i) && n.End > s.Start && n.End < s.End {
			start = overlap{frame: n.End, ok: true}
		}
		if !l.touchesPrev(i) && n.Start < s.End && n.Start > s.Start {
			end = overlap{frame: n.Start, ok: true}
		}
	}
	return start, end
}

// ValidateAutoblends derives the blend durations of an auto-blending
// strip from strips overlapping its ends on the neighboring tracks. When
// both neighbors overlap the same end, the deeper overlap wins and the
// track below wins a tie.
func ValidateAutoblends(st *Stack, trackIdx int, s *Strip) {
	if st == nil || s == nil || trackIdx < 0 || trackIdx >= len(st.Tracks) {
		return
	}
	if len(st.Tracks) < 2 || !s.Has(StripAutoBlends) {
		return
	}
	own := st.Tracks[trackIdx].Strips

	var ps, pe, ns, ne overlap
	if trackIdx > 0 {
		ps, pe = endpointOverlaps(s, st.Tracks[trackIdx-1].Strips)
	}
	if trackIdx+1 < len(st.Tracks) {
		ns, ne = endpointOverlaps(s, st.Tracks[trackIdx+1].Strips)
	}

	i := own.IndexOf(s)
	// A strip touching its own neighbor is part of a chain and never blends there.
	freeStart := i < 0 || !own.touchesPrev(i)
	freeEnd := i < 0 || !own.touchesNext(i)

	s.BlendIn = 0
	if freeStart && (ps.ok || ns.ok) {
		if ps.ok && (!ns.ok || ps.frame >= ns.frame) {
			s.BlendIn = ps.frame - s.Start
		} else {
			s.BlendIn = ns.frame - s.Start
		}
	}

	s.BlendOut = 0
	if freeEnd && (pe.ok || ne.ok) {
		if pe.ok && (!ne.ok || pe.frame <= ne.frame) {
			s.BlendOut = s.End - pe.frame
		} else {
			s.BlendOut = s.End - ne.frame
		}
	}
}

// ValidateTransitionBounds snaps a transition to the gap between its
// neighbors. A transition without two neighbors or without a gap is
// removed and freed; the result reports whether s survived. Other kinds
// are left alone.
func ValidateTransitionBounds(l *StripList, s *Strip) bool {
	if s.Kind != KindTransition {
		return true
	}
	i := l.IndexOf(s)
	if i < 0 {
		return false
	}
	hasPrev, hasNext := i > 0, i+1 < len(*l)
	if hasPrev {
		s.Start = (*l)[i-1].End
	}
	if hasNext {
		s.End = (*l)[i+1].Start
	}
	if s.Start >= s.End || !hasPrev || !hasNext {
		l.RemoveAndFree(s, true)
		return false
	}
	return true
}

// ValidateState repairs transitions, then recomputes auto blends and
// clamps blend durations for every strip of every track. Call it after a
// batch of structural edits.
func (st *Stack) ValidateState() {
	for ti, t := range st.Tracks {
		for _, s := range append(StripList(nil), t.Strips...) {
			if !ValidateTransitionBounds(&t.Strips, s) {
				debug.Log("validate: transition %q no longer fits on track %q and was removed", s.Name, t.Name)
				continue
			}
			ValidateAutoblends(st, ti, s)
			RecalculateBlend(s)
		}
	}
}
