package nla

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// testClip is a counted action used by the tests in this package.
type testClip struct {
	name       string
	start, end float64
	cyclic     bool
	noMotion   bool
	users      int
}

func newTestClip(name string, start, end float64) *testClip {
	return &testClip{name: name, start: start, end: end}
}

func (c *testClip) Name() string                   { return c.name }
func (c *testClip) FrameRange() (float64, float64) { return c.start, c.end }
func (c *testClip) IsCyclic() bool                 { return c.cyclic }
func (c *testClip) HasMotion() bool                { return !c.noMotion }
func (c *testClip) Retain()                        { c.users++ }
func (c *testClip) Release()                       { c.users-- }
func (c *testClip) Users() int                     { return c.users }

func (c *testClip) Duplicate() Action {
	d := *c
	d.name = c.name + ".copy"
	d.users = 0
	return &d
}

// clipStrip returns a selected clip strip over [start, end) with a matching
// clip range starting at 0.
func clipStrip(name string, start, end float64) *Strip {
	s := NewStrip(newTestClip(name, 0, end-start))
	s.Name = name
	s.Start, s.End = start, end
	return s
}

// trackWith builds a track holding the given strips, in order.
func trackWith(t *testing.T, strips ...*Strip) *Track {
	t.Helper()
	tr := NewTrack()
	for _, s := range strips {
		require.True(t, tr.AddStrip(s, false), "strip %s should fit", s.Name)
	}
	return tr
}

// stackWith builds a stack whose tracks hold the given strip sets, bottom first.
func stackWith(t *testing.T, tracks ...[]*Strip) *Stack {
	t.Helper()
	st := NewStack()
	for _, strips := range tracks {
		tr := st.NewTrackTail(false)
		for _, s := range strips {
			require.True(t, st.AddStripToTrack(tr, s, false), "strip %s should fit", s.Name)
		}
	}
	return st
}

func requireNoOverlap(t require.TestingT, l StripList) {
	for i := 1; i < len(l); i++ {
		require.LessOrEqual(t, l[i-1].End, l[i].Start, "strips %d and %d overlap", i-1, i)
	}
}
