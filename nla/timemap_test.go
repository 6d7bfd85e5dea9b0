package nla

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestClipTimeRoundTrip(t *testing.T) {
	s := clipStrip("A", 10, 20)
	require.Equal(t, 0.0, s.ActStart)
	require.Equal(t, 10.0, s.ActEnd)

	require.Equal(t, 15.0, StripTime(s, 5, TimeMap))
	require.Equal(t, 5.0, StripTime(s, 15, TimeUnmap))

	for local := 0.0; local <= 10; local += 0.25 {
		global := StripTime(s, local, TimeMap)
		require.InDelta(t, local, StripTime(s, global, TimeUnmap), 1e-9, "local %g", local)
	}
}

func TestClipTimeScale(t *testing.T) {
	s := clipStrip("A", 0, 20)
	s.ActEnd = 10
	s.Scale = 2

	require.Equal(t, 10.0, StripTime(s, 5, TimeMap))
	require.Equal(t, 5.0, StripTime(s, 10, TimeUnmap))
	require.Equal(t, 5.0, StripTime(s, 10, TimeEval))

	// Negative scale only changes magnitude, direction comes from the flag.
	s.Scale = -2
	require.Equal(t, 10.0, StripTime(s, 5, TimeMap))
}

func TestClipTimeNormalizesZeroScaleAndRepeat(t *testing.T) {
	s := clipStrip("A", 0, 10)
	s.Scale, s.Repeat = 0, 0
	require.Equal(t, 4.0, StripTime(s, 4, TimeEval))
	require.Equal(t, 1.0, s.Scale)
	require.Equal(t, 1.0, s.Repeat)
}

func TestEvalRepeats(t *testing.T) {
	s := clipStrip("A", 0, 20)
	s.ActEnd = 10
	s.Repeat = 2

	require.Equal(t, 5.0, StripTime(s, 5, TimeEval))
	require.Equal(t, 0.0, StripTime(s, 10, TimeEval))
	require.Equal(t, 5.0, StripTime(s, 15, TimeEval))
	require.Equal(t, 10.0, StripTime(s, 20, TimeEval), "whole repeats end on the clip end")

	s.Repeat = 1.5
	s.End = 15
	require.Equal(t, 5.0, StripTime(s, 15, TimeEval), "fractional repeats wrap")
}

func TestReversedSnapping(t *testing.T) {
	s := clipStrip("A", 0, 20)
	s.ActEnd = 10
	s.Repeat = 2
	s.Set(StripReversed)

	require.Equal(t, s.ActStart, StripTime(s, s.End, TimeEval))
	require.Equal(t, 10.0, StripTime(s, 0, TimeEval))
	require.Equal(t, 5.0, StripTime(s, 5, TimeEval))
	require.Equal(t, 5.0, StripTime(s, 15, TimeEval))

	require.Equal(t, 15.0, StripTime(s, 5, TimeMap))
	require.Equal(t, 5.0, StripTime(s, 15, TimeUnmap))
}

func TestTransitionTime(t *testing.T) {
	s := NewTransition(10, 20)
	require.Equal(t, 0.5, StripTime(s, 15, TimeEval))
	require.Equal(t, 0.5, StripTime(s, 15, TimeUnmap))
	require.Equal(t, 15.0, StripTime(s, 0.5, TimeMap))

	s.Set(StripReversed)
	require.InDelta(t, 0.8, StripTime(s, 12, TimeUnmap), 1e-9)
	require.InDelta(t, 12.0, StripTime(s, 0.8, TimeMap), 1e-9)

	empty := NewTransition(10, 10)
	require.Equal(t, 2.0, StripTime(empty, 12, TimeEval), "zero length maps as length 1")
}

func TestDegenerateClipGuard(t *testing.T) {
	s := NewStrip(newTestClip("flat", 5, 5))
	require.Equal(t, 5.0, s.ActStart)
	require.Equal(t, 6.0, s.ActEnd)
	require.Equal(t, 1.0, s.Length())

	rapid.Check(t, func(t *rapid.T) {
		a := rapid.Float64Range(-1000, 1000).Draw(t, "a")
		b := rapid.Float64Range(-1000, 1000).Draw(t, "b")
		s := NewStrip(newTestClip("clip", a, b))
		if b <= a {
			require.Equal(t, a+1, s.ActEnd)
		} else {
			require.Equal(t, b, s.ActEnd)
		}
		require.Greater(t, s.ActEnd, s.ActStart)
	})
}

func TestClipLength(t *testing.T) {
	s := &Strip{ActStart: 3, ActEnd: 3}
	require.Equal(t, 1.0, ClipLength(s))
	s.ActEnd = 7
	require.Equal(t, 4.0, ClipLength(s))
}
