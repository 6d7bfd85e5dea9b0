package nla

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFixResizeOverlapsShiftsWholeFrames(t *testing.T) {
	a, b, c := clipStrip("A", 0, 10), clipStrip("B", 10, 20), clipStrip("C", 25, 30)
	l := StripList{a, b, c}

	a.End = 16
	FixResizeOverlaps(l, a)

	require.Equal(t, 16.0, b.Start)
	require.Equal(t, 26.0, b.End)
	require.Equal(t, 31.0, c.Start)
	require.Equal(t, 36.0, c.End)
	requireNoOverlap(t, l)

	a.End = 16.5
	FixResizeOverlaps(l, a)
	require.Equal(t, 17.0, b.Start, "fractional overlaps round up")
	requireNoOverlap(t, l)
}

func TestFixResizeOverlapsStartShiftsLeft(t *testing.T) {
	a, b := clipStrip("A", 0, 10), clipStrip("B", 10, 20)
	l := StripList{a, b}

	b.Start = 7
	FixResizeOverlaps(l, b)
	require.Equal(t, -3.0, a.Start)
	require.Equal(t, 7.0, a.End)
	requireNoOverlap(t, l)
}

func TestFixResizeOverlapsTransitionAbsorbs(t *testing.T) {
	a, tr, b := clipStrip("A", 0, 10), NewTransition(10, 15), clipStrip("B", 15, 20)
	l := StripList{a, tr, b}

	a.End = 12
	FixResizeOverlaps(l, a)
	require.Equal(t, 12.0, tr.Start)
	require.Equal(t, 15.0, tr.End)
	require.Equal(t, 15.0, b.Start)

	a.End = 17
	FixResizeOverlaps(l, a)
	require.Equal(t, 17.0, tr.Start)
	require.Equal(t, 18.0, tr.End)
	require.Equal(t, 18.0, b.Start)
	requireNoOverlap(t, l)
}

func TestRecalculateBounds(t *testing.T) {
	s := clipStrip("A", 5, 15)
	s.Scale, s.Repeat = 2, 1.5
	RecalculateBounds(StripList{s}, s)
	require.Equal(t, 35.0, s.End)

	tr := NewTransition(0, 3)
	RecalculateBounds(StripList{tr}, tr)
	require.Equal(t, 3.0, tr.End, "only clips follow their clip length")
}

func TestRecalculateBoundsSyncAction(t *testing.T) {
	clip := newTestClip("A", 0, 10)
	s := NewStrip(clip)
	s.Start, s.End = 100, 110
	next := clipStrip("N", 112, 120)
	l := StripList{s, next}

	clip.start, clip.end = 2, 14
	RecalculateBoundsSyncAction(l, s)
	require.Equal(t, 2.0, s.ActStart)
	require.Equal(t, 14.0, s.ActEnd)
	require.Equal(t, 102.0, s.Start)
	require.Equal(t, 114.0, s.End)
	require.Equal(t, 114.0, next.Start, "neighbor pushed out of the way")
	requireNoOverlap(t, l)
}

func TestRecalculateBlend(t *testing.T) {
	tests := []struct {
		name            string
		in, out         float64
		wantIn, wantOut float64
	}{
		{"fits", 3, 4, 3, 4},
		{"blend in keeps its value", 8, 5, 8, 2},
		{"blend in clamped to length", 12, 1, 10, 0},
		{"negative clamped", -2, 3, 0, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := clipStrip("A", 0, 10)
			s.BlendIn, s.BlendOut = tt.in, tt.out
			RecalculateBlend(s)
			require.Equal(t, tt.wantIn, s.BlendIn)
			require.Equal(t, tt.wantOut, s.BlendOut)
		})
	}
}

func TestValidateAutoblendsAcrossTracks(t *testing.T) {
	a, b := clipStrip("A", 0, 10), clipStrip("B", 10, 20)
	c := clipStrip("C", 15, 25)
	st := stackWith(t, []*Strip{a, b}, []*Strip{c})
	b.Set(StripAutoBlends)
	b.BlendIn = 4

	ValidateAutoblends(st, 0, b)
	require.Equal(t, 0.0, b.BlendIn, "touches its own left neighbor")
	require.Equal(t, 5.0, b.BlendOut, "C starts 5 frames before B ends")

	a.Set(StripAutoBlends)
	ValidateAutoblends(st, 0, a)
	require.Equal(t, 0.0, a.BlendIn)
	require.Equal(t, 0.0, a.BlendOut)
}

func TestValidateAutoblendsDeeperOverlapWins(t *testing.T) {
	below := clipStrip("Below", 0, 13)
	s := clipStrip("S", 10, 20)
	above := clipStrip("Above", 0, 15)
	st := stackWith(t, []*Strip{below}, []*Strip{s}, []*Strip{above})
	s.Set(StripAutoBlends)

	ValidateAutoblends(st, 1, s)
	require.Equal(t, 5.0, s.BlendIn)
	require.Equal(t, 0.0, s.BlendOut)

	above.End = 13
	ValidateAutoblends(st, 1, s)
	require.Equal(t, 3.0, s.BlendIn, "equal overlaps on both sides")
}

func TestValidateAutoblendsNeedsFlagAndNeighbors(t *testing.T) {
	s := clipStrip("S", 10, 20)
	st := stackWith(t, []*Strip{s})
	s.Set(StripAutoBlends)
	s.BlendIn = 2
	ValidateAutoblends(st, 0, s)
	require.Equal(t, 2.0, s.BlendIn, "a single track never blends")

	other := clipStrip("O", 0, 15)
	st = stackWith(t, []*Strip{other}, []*Strip{})
	s2 := clipStrip("S2", 10, 20)
	require.True(t, st.AddStripToTrack(st.Tracks[1], s2, false))
	s2.BlendIn = 2
	ValidateAutoblends(st, 1, s2)
	require.Equal(t, 2.0, s2.BlendIn, "flag not set")
}

func TestValidateTransitionBounds(t *testing.T) {
	a, b := clipStrip("A", 0, 10), clipStrip("B", 14, 20)
	tr := NewTransition(11, 12)
	l := StripList{a, tr, b}

	require.True(t, ValidateTransitionBounds(&l, tr))
	require.Equal(t, 10.0, tr.Start)
	require.Equal(t, 14.0, tr.End)

	require.True(t, ValidateTransitionBounds(&l, a), "clips are left alone")

	b.Start = 10
	require.False(t, ValidateTransitionBounds(&l, tr))
	require.Equal(t, StripList{a, b}, l)

	lone := NewTransition(0, 5)
	l = StripList{lone, a}
	require.False(t, ValidateTransitionBounds(&l, lone))
	require.Len(t, l, 1)
}

func TestValidateStateDropsStrandedTransitions(t *testing.T) {
	a, b := clipStrip("A", 0, 10), clipStrip("B", 20, 30)
	st := stackWith(t, []*Strip{a, b})
	require.Equal(t, 1, st.AddTransitions())
	tr := st.Tracks[0].Strips[1]
	require.Equal(t, KindTransition, tr.Kind)

	st.Tracks[0].RemoveStrip(b)
	st.ValidateState()
	require.Equal(t, StripList{a}, st.Tracks[0].Strips)
}
