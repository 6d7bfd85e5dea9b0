package nla

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddTransitions(t *testing.T) {
	a, b, c := clipStrip("A", 0, 10), clipStrip("B", 15, 20), clipStrip("C", 20, 30)
	d := clipStrip("D", 40, 50)
	d.Clear(StripSelected)
	st := stackWith(t, []*Strip{a, b, c, d})

	require.Equal(t, 1, st.AddTransitions())
	l := st.Tracks[0].Strips
	require.Len(t, l, 5)
	tr := l[1]
	require.Equal(t, KindTransition, tr.Kind)
	require.Equal(t, "Transition", tr.Name)
	require.Equal(t, 10.0, tr.Start)
	require.Equal(t, 15.0, tr.End)
	requireNoOverlap(t, l)

	require.Equal(t, 0, st.AddTransitions(), "gaps next to transitions are skipped")
}

func TestAddTransitionsSkipsSound(t *testing.T) {
	a := clipStrip("A", 0, 10)
	snd := NewSoundStrip(20, 5)
	st := stackWith(t, []*Strip{a, snd})
	require.Equal(t, 0, st.AddTransitions())
}

func TestSplitStripAtFrame(t *testing.T) {
	walk := newTestClip("Walk", 0, 10)
	s := NewStrip(walk)
	st := stackWith(t, []*Strip{s})
	tr := st.Tracks[0]

	ns := st.SplitStrip(tr, s, 4)
	require.NotNil(t, ns)
	require.Equal(t, StripList{s, ns}, tr.Strips)

	require.Equal(t, 0.0, s.Start)
	require.Equal(t, 4.0, s.End)
	require.Equal(t, 4.0, s.ActEnd)
	require.Equal(t, 4.0, ns.Start)
	require.Equal(t, 10.0, ns.End)
	require.Equal(t, 4.0, ns.ActStart)
	require.Equal(t, 10.0, ns.ActEnd)

	require.False(t, s.Has(StripSyncLength))
	require.False(t, ns.Has(StripSyncLength))
	require.Equal(t, "Walk.001", ns.Name)
	require.NotEqual(t, s.ID, ns.ID)
	require.Equal(t, 2, walk.Users())
}

func TestSplitStripOutsideUsesMidpoint(t *testing.T) {
	s := clipStrip("A", 10, 20)
	st := stackWith(t, []*Strip{s})

	ns := st.SplitStrip(st.Tracks[0], s, 50)
	require.Equal(t, 15.0, s.End)
	require.Equal(t, 15.0, ns.Start)
	require.Equal(t, 5.0, s.ActEnd)
	require.Equal(t, 5.0, ns.ActStart)
}

func TestSplitMetaUngroups(t *testing.T) {
	a, b := clipStrip("A", 0, 10), clipStrip("B", 10, 20)
	st := stackWith(t, []*Strip{a, b})
	tr := st.Tracks[0]
	MakeMetas(&tr.Strips, false)
	require.Len(t, tr.Strips, 1)

	require.Nil(t, st.SplitStrip(tr, tr.Strips[0], 5))
	require.Equal(t, StripList{a, b}, tr.Strips)

	require.Nil(t, st.SplitStrip(tr, clipStrip("X", 0, 1), 0.5), "not on the track")
}

func TestSplitSelected(t *testing.T) {
	a, b := clipStrip("A", 0, 10), clipStrip("B", 10, 20)
	b.Clear(StripSelected)
	snd := NewSoundStrip(30, 10)
	st := stackWith(t, []*Strip{a, b, snd})

	require.Equal(t, 1, st.SplitSelected(5, false))
	require.Len(t, st.Tracks[0].Strips, 4)
	requireNoOverlap(t, st.Tracks[0].Strips)

	st.Tracks[0].Clear(TrackOverrideLocal)
	require.Equal(t, 0, st.SplitSelected(2, true), "non-local tracks are left alone")
}

func TestDuplicateIntoNewTrack(t *testing.T) {
	walk := newTestClip("Walk", 0, 10)
	s := NewStrip(walk)
	s.Set(StripActive)
	st := stackWith(t, []*Strip{s})

	copies := st.Duplicate(false, false)
	require.Len(t, copies, 1)
	require.Len(t, st.Tracks, 2)
	c := copies[0]
	require.Equal(t, c, st.Tracks[1].Strips[0])
	require.Equal(t, st.Tracks[1], st.ActiveTrack())
	require.False(t, s.HasAny(StripSelected|StripActive))
	require.True(t, c.Has(StripSelected))
	require.Equal(t, "Walk.copy", c.Action().Name())
	require.Equal(t, 1, walk.Users())
	require.Equal(t, 1, c.Action().Users())
	require.Equal(t, "Walk.copy", c.Name)
}

func TestDuplicateLinkedIntoTrackAbove(t *testing.T) {
	walk := newTestClip("Walk", 0, 10)
	s := NewStrip(walk)
	st := stackWith(t, []*Strip{s}, nil)

	copies := st.Duplicate(true, false)
	require.Len(t, copies, 1)
	require.Len(t, st.Tracks, 2, "the track above had room")
	require.Equal(t, copies[0], st.Tracks[1].Strips[0])
	require.Equal(t, walk, copies[0].Action())
	require.Equal(t, 2, walk.Users())

	copies[0].Clear(StripSelected)
	require.Empty(t, st.Duplicate(true, false), "nothing selected")
}

func TestDuplicateIntoNewTrackDirectlyAbove(t *testing.T) {
	s := clipStrip("A", 0, 10)
	full := clipStrip("F", 0, 20)
	full.Clear(StripSelected)
	st := stackWith(t, []*Strip{s}, []*Strip{full}, nil)

	copies := st.Duplicate(true, false)
	require.Len(t, copies, 1)
	require.Len(t, st.Tracks, 4)
	require.Equal(t, StripList{copies[0]}, st.Tracks[1].Strips)
	require.Equal(t, StripList{full}, st.Tracks[2].Strips)
	require.Equal(t, st.Tracks[1], st.ActiveTrack())
}

func TestAddSound(t *testing.T) {
	st := NewStack()
	s := st.AddSound(5, 0, false)
	require.Len(t, st.Tracks, 1)
	require.Equal(t, st.Tracks[0], st.ActiveTrack())
	require.Equal(t, 15.0, s.End)
	require.Equal(t, ExtendNothing, s.Extend)
	require.Equal(t, KindSound, s.Kind)

	s2 := st.AddSound(10, 4, false)
	require.Len(t, st.Tracks, 2, "active track had no room")
	require.Equal(t, 14.0, s2.End)

	s3 := st.AddSound(20, 4, false)
	require.Equal(t, st.Tracks[1], trackHolding(st, s3))
}

func TestStripBoundsHelpers(t *testing.T) {
	s := clipStrip("A", 10, 20)
	require.True(t, s.WithinBounds(15, 30))
	require.True(t, s.WithinBounds(0, 12))
	require.True(t, s.WithinBounds(12, 14))
	require.True(t, s.WithinBounds(0, 100))
	require.False(t, s.WithinBounds(25, 30))
	require.False(t, s.WithinBounds(0, 5))
	require.False(t, s.WithinBounds(12, 12))

	require.Equal(t, 5.0, s.DistanceToFrame(5))
	require.Equal(t, 0.0, s.DistanceToFrame(15))
	require.Equal(t, 3.0, s.DistanceToFrame(23))
}

func trackHolding(st *Stack, s *Strip) *Track {
	for _, t := range st.Tracks {
		if t.Strips.IndexOf(s) >= 0 {
			return t
		}
	}
	return nil
}
