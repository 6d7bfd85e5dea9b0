package nla

import (
	"errors"
	"fmt"
	"math"
)

// Limits for user edits of strip playback.
const (
	minScale  = 0.0001
	maxScale  = 1000.0
	minRepeat = 0.01
	maxRepeat = 1000.0
)

// SnapMode picks where Snap moves each island of selected strips.
type SnapMode int

const (
	SnapToFrame SnapMode = iota
	SnapNearestFrame
	SnapNearestSecond
)

var snapModeNames = map[SnapMode]string{
	SnapToFrame:       "frame",
	SnapNearestFrame:  "nearest-frame",
	SnapNearestSecond: "nearest-second",
}

func (m SnapMode) String() string { return snapModeNames[m] }

// ParseSnapMode converts a snap mode name back to a SnapMode.
func ParseSnapMode(s string) (SnapMode, bool) {
	for m, name := range snapModeNames {
		if name == s {
			return m, true
		}
	}
	return SnapToFrame, false
}

// MoveStrip slides s along l so it starts at start, keeping its length.
// The move stops at the neighbors of s, and a meta takes its children
// along. Returns the start actually used.
func MoveStrip(l StripList, s *Strip, start float64) float64 {
	if s == nil || l.IndexOf(s) < 0 {
		return start
	}
	length := s.Length()
	lo := l.FrameFromPrevious(s)
	hi := max(lo, l.FrameToNext(s)-length)
	start = clamp(start, lo, hi)
	s.Start, s.End = start, start+length
	FlushTransforms(s)
	return start
}

// SetStripEnd moves the end of s, bounded by its own start and its right
// neighbor. A clip strip plays more or less of its clip; a meta rescales
// its children.
func SetStripEnd(l StripList, s *Strip, end float64) float64 {
	if s == nil || l.IndexOf(s) < 0 {
		return end
	}
	end = clamp(end, s.Start+minStripLength, max(s.Start+minStripLength, l.FrameToNext(s)))
	s.End = end
	switch s.Kind {
	case KindClip:
		if mapping := s.Scale * s.Repeat; !floatEq(mapping, 0) {
			s.ActEnd = s.ActStart + s.Length()/mapping
		}
	case KindMeta:
		FlushTransforms(s)
	}
	return end
}

// SetStripScale changes the playback scale of a clip strip and refits its
// end, pushing neighbors out of the way.
func SetStripScale(l StripList, s *Strip, scale float64) bool {
	if s == nil || s.Kind != KindClip {
		return false
	}
	s.Scale = clamp(scale, minScale, maxScale)
	RecalculateBounds(l, s)
	flushMetas(l)
	return true
}

// SetStripRepeat changes how often a clip strip plays its clip and refits
// its end, pushing neighbors out of the way.
func SetStripRepeat(l StripList, s *Strip, repeat float64) bool {
	if s == nil || s.Kind != KindClip {
		return false
	}
	s.Repeat = clamp(repeat, minRepeat, maxRepeat)
	RecalculateBounds(l, s)
	flushMetas(l)
	return true
}

// flushMetas brings the children of every meta in l in line with it after
// neighbors were shifted.
func flushMetas(l StripList) {
	for _, s := range l {
		FlushTransforms(s)
	}
}

// editable reports whether strips of t may be rearranged.
func editable(t *Track, isLibOverride bool) bool {
	return !t.Has(TrackProtected) && (!isLibOverride || t.IsLocal())
}

// SyncLength rereads the clip range of every selected clip strip, or only
// the active ones. Returns the number of strips synced.
func (st *Stack) SyncLength(activeOnly bool) int {
	n := 0
	for _, t := range st.Tracks {
		for _, s := range t.Strips {
			want := StripSelected
			if activeOnly {
				want = StripActive
			}
			if !s.Has(want) || s.Kind != KindClip || s.Action() == nil {
				continue
			}
			RecalculateBoundsSyncAction(t.Strips, s)
			n++
		}
		flushMetas(t.Strips)
	}
	return n
}

// ClearScale resets the scale of every selected clip strip to 1.
func (st *Stack) ClearScale(isLibOverride bool) int {
	n := 0
	for _, t := range st.Tracks {
		if !editable(t, isLibOverride) {
			continue
		}
		for _, s := range t.Strips {
			if s.Has(StripSelected) && SetStripScale(t.Strips, s, 1) {
				n++
			}
		}
	}
	return n
}

// MoveSelectedUp moves every selected strip into the track above when it
// has room there. Returns the number of strips moved.
func (st *Stack) MoveSelectedUp(isLibOverride bool) int {
	moved := 0
	// Top down, so a strip moves at most one track.
	for i := len(st.Tracks) - 2; i >= 0; i-- {
		moved += moveSelected(st.Tracks[i], st.Tracks[i+1], isLibOverride)
	}
	return moved
}

// MoveSelectedDown moves every selected strip into the track below when it
// has room there. Returns the number of strips moved.
func (st *Stack) MoveSelectedDown(isLibOverride bool) int {
	moved := 0
	for i := 1; i < len(st.Tracks); i++ {
		moved += moveSelected(st.Tracks[i], st.Tracks[i-1], isLibOverride)
	}
	return moved
}

func moveSelected(from, to *Track, isLibOverride bool) int {
	if !editable(from, isLibOverride) || (isLibOverride && !to.IsLocal()) {
		return 0
	}
	moved := 0
	for _, s := range append(StripList(nil), from.Strips...) {
		if !s.Has(StripSelected) || !to.HasSpace(s.Start, s.End) {
			continue
		}
		from.RemoveStrip(s)
		to.Strips.AddUnsafe(s)
		moved++
	}
	return moved
}

// SwapSelected swaps the two islands of selected strips on each track.
// Tracks with one island or more than two are reported in the returned
// error and left as they were. Returns the number of tracks swapped.
func (st *Stack) SwapSelected(isLibOverride bool) (int, error) {
	var errs []error
	swapped := 0
	for _, t := range st.Tracks {
		if !editable(t, isLibOverride) {
			continue
		}
		MakeMetas(&t.Strips, true)
		// A single island of exactly two strips swaps those two strips.
		if len(t.Strips) > 0 {
			if m := t.Strips[0]; m.Has(StripTempMeta) && len(m.Children) == 2 {
				ClearMetas(&t.Strips, false, true)
			}
		}
		ok, err := swapPair(t)
		if err != nil {
			errs = append(errs, err)
		}
		if ok {
			swapped++
		}
		ClearMetas(&t.Strips, false, true)
	}
	return swapped, errors.Join(errs...)
}

func swapPair(t *Track) (bool, error) {
	var a, b *Strip
	for _, s := range t.Strips {
		if !s.Has(StripSelected) {
			continue
		}
		switch {
		case a == nil:
			a = s
		case b == nil:
			b = s
		default:
			return false, fmt.Errorf("track %s: too many groups of strips selected, need exactly 2", t.Name)
		}
	}
	if a == nil {
		return false, nil
	}
	if b == nil {
		return false, fmt.Errorf("track %s: too few groups of strips selected, need exactly 2", t.Name)
	}

	t.Strips.Remove(a)
	t.Strips.Remove(b)
	aStart, aEnd := b.Start, b.Start+a.Length()
	bStart, bEnd := a.Start, a.Start+b.Length()

	var err error
	switch {
	case bEnd > aStart:
		err = fmt.Errorf("track %s: swapped strips would overlap each other", t.Name)
	case !t.Strips.HasSpace(aStart, aEnd) || !t.Strips.HasSpace(bStart, bEnd):
		if a.Has(StripTempMeta) || b.Has(StripTempMeta) {
			err = fmt.Errorf("track %s: swapped strips would not fit in their new places", t.Name)
		} else {
			err = fmt.Errorf("track %s: cannot swap %s and %s, they would not fit in their new places", t.Name, a.Name, b.Name)
		}
	default:
		a.Start, a.End = aStart, aEnd
		FlushTransforms(a)
		b.Start, b.End = bStart, bEnd
		FlushTransforms(b)
	}

	t.Strips.AddUnsafe(a)
	t.Strips.AddUnsafe(b)
	return err == nil, err
}

// Snap moves the start of every island of selected strips according to
// mode: to frame, or to the nearest whole frame or second at fps. Islands
// that no longer fit go to a new track above their own. Returns the
// number of strips moved.
func (st *Stack) Snap(mode SnapMode, frame, fps float64, isLibOverride bool) int {
	snapped := 0
	// Top down, since new tracks go above the one being snapped.
	for i := len(st.Tracks) - 1; i >= 0; i-- {
		t := st.Tracks[i]
		if !editable(t, isLibOverride) {
			continue
		}
		MakeMetas(&t.Strips, true)

		var pending StripList
		for _, m := range append(StripList(nil), t.Strips...) {
			if !m.Has(StripTempMeta) {
				continue
			}
			length := m.Length()
			m.Start = snapFrame(mode, m.Start, frame, fps)
			m.End = m.Start + length
			FlushTransforms(m)
			t.Strips.Remove(m)
			pending = append(pending, m)
		}
		// Earlier islands claim the track first.
		pending.Sort()

		for _, m := range pending {
			snapped += len(m.Children)
			if t.AddStrip(m, isLibOverride) {
				continue
			}
			nt := st.NewTrackAfter(t, isLibOverride)
			st.SetActiveTrack(nt)
			nt.Strips.AddUnsafe(m)
			ClearMetas(&nt.Strips, false, true)
		}
		ClearMetas(&t.Strips, false, true)
	}
	return snapped
}

func snapFrame(mode SnapMode, start, frame, fps float64) float64 {
	switch mode {
	case SnapToFrame:
		return frame
	case SnapNearestFrame:
		return math.Floor(start + 0.5)
	case SnapNearestSecond:
		if fps <= 0 {
			return math.Floor(start + 0.5)
		}
		return math.Floor(start/fps+0.5) * fps
	}
	return start
}

// MoveIntoMeta moves the top-level strip s of t into meta, growing the
// meta when s lies next to it. s stays where it was when it does not fit.
func MoveIntoMeta(t *Track, meta, s *Strip) bool {
	if t == nil || meta == nil || s == nil || meta == s || !meta.IsMeta() {
		return false
	}
	i := t.Strips.IndexOf(s)
	if i < 0 || t.Strips.IndexOf(meta) < 0 {
		return false
	}
	t.Strips.Remove(s)
	if !MetaAddStrip(t.Strips, meta, s) {
		t.Strips.insertAt(i, s)
		return false
	}
	return true
}
