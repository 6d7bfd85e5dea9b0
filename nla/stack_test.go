package nla

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUniqueName(t *testing.T) {
	taken := map[string]bool{"Track": true, "Track.002": true, "Walk.001": true, "Walk": true}
	isTaken := func(name string) bool { return taken[name] }

	require.Equal(t, "Free", UniqueName("Free", isTaken))
	require.Equal(t, "Track.001", UniqueName("Track", isTaken))
	require.Equal(t, "Track.001", UniqueName("Track.002", isTaken))
	require.Equal(t, "Walk.002", UniqueName("Walk", isTaken))
	require.Equal(t, "v1.5x", trimNumericSuffix("v1.5x"))
	require.Equal(t, "a.", trimNumericSuffix("a."))
	require.Equal(t, ".001", trimNumericSuffix(".001"))
}

func TestNewTracksAreNamedAndIndexed(t *testing.T) {
	st := NewStack()
	t0 := st.NewTrackTail(false)
	t1 := st.NewTrackTail(false)
	head := st.NewTrackHead(false)

	require.Equal(t, []*Track{head, t0, t1}, st.Tracks)
	require.Equal(t, "NlaTrack", t0.Name)
	require.Equal(t, "NlaTrack.001", t1.Name)
	require.Equal(t, "NlaTrack.002", head.Name)
	for i, tr := range st.Tracks {
		require.Equal(t, i, tr.Index)
	}

	mid := st.NewTrackBefore(t1, false)
	require.Equal(t, 2, mid.Index)
	require.Equal(t, t1, st.Tracks[3])
}

func TestOverrideInsertionKeepsLocalTracksAbove(t *testing.T) {
	st := NewStack()
	base0 := st.NewTrackTail(false)
	base1 := st.NewTrackTail(false)
	local := st.NewTrackTail(false)
	base0.Clear(TrackOverrideLocal)
	base1.Clear(TrackOverrideLocal)

	after := st.NewTrackAfter(nil, true)
	require.Equal(t, 2, after.Index, "skips the non-local run")
	require.Equal(t, 3, local.Index)

	before := st.NewTrackBefore(base0, true)
	require.Equal(t, 2, before.Index, "never below a non-local track")
	require.Equal(t, []*Track{base0, base1, before, after, local}, st.Tracks)

	low := st.NewTrackAfter(nil, false)
	require.Equal(t, 1, low.Index, "a bottom insert goes above the first non-local track")
}

func TestTrackRefusesStrips(t *testing.T) {
	tr := NewTrack()
	tr.Set(TrackProtected)
	require.False(t, tr.HasSpace(0, 10))
	require.False(t, tr.AddStrip(clipStrip("A", 0, 10), false))

	tr.Clear(TrackProtected)
	tr.Clear(TrackOverrideLocal)
	require.False(t, tr.AddStrip(clipStrip("A", 0, 10), true))
	require.True(t, tr.AddStrip(clipStrip("A", 0, 10), false))

	var missing *Track
	require.False(t, missing.AddStrip(clipStrip("B", 0, 1), false))
	require.False(t, missing.HasSpace(0, 1))
}

func TestSoloToggle(t *testing.T) {
	st := stackWith(t, nil, nil, nil)
	t0, t1 := st.Tracks[0], st.Tracks[1]
	t0.Set(TrackMuted)
	require.False(t, st.TrackEnabled(t0))
	require.True(t, st.TrackEnabled(t1))

	st.SoloToggle(t1)
	require.True(t, st.Has(StackHasSolo))
	require.True(t, st.TrackEnabled(t1))
	require.False(t, st.TrackEnabled(st.Tracks[2]))

	st.SoloToggle(t0)
	require.False(t, t1.Has(TrackSolo))
	require.True(t, st.TrackEnabled(t0), "solo wins over mute")

	st.SoloToggle(t0)
	require.False(t, st.Has(StackHasSolo))
	require.False(t, st.TrackEnabled(t0))
}

func TestActiveKeysRevalidate(t *testing.T) {
	a, b := clipStrip("A", 0, 10), clipStrip("B", 0, 10)
	st := stackWith(t, []*Strip{a}, []*Strip{b})
	t0, t1 := st.Tracks[0], st.Tracks[1]

	st.SetActiveTrack(t1)
	st.SetActiveStrip(b)
	require.Equal(t, t1, st.ActiveTrack())
	require.Equal(t, b, st.ActiveStrip())
	require.False(t, a.Has(StripActive))

	require.True(t, st.RemoveTrack(t1, true))
	require.Nil(t, st.ActiveTrack())
	require.Nil(t, st.ActiveStrip())
	require.Empty(t, st.ActiveStripID)

	t0.Set(TrackActive)
	a.Set(StripActive)
	require.Equal(t, t0, st.ActiveTrack())
	require.Equal(t, a, st.ActiveStrip())
	require.Equal(t, t0.ID, st.ActiveTrackID)
}

func TestAddStripUsesLiveClip(t *testing.T) {
	st := NewStack()
	require.Nil(t, st.AddStrip(false))

	walk := newTestClip("Walk", 1, 11)
	require.True(t, st.SetAction(walk))
	s1 := st.AddStrip(false)
	require.NotNil(t, s1)
	require.Equal(t, "Walk", s1.Name)
	require.Equal(t, "Walk", st.Tracks[0].Name)
	require.Equal(t, 1.0, s1.Start)
	require.Equal(t, 11.0, s1.End)

	s2 := st.AddStrip(false)
	require.Len(t, st.Tracks, 2)
	require.Equal(t, "Walk.001", s2.Name)
	require.Equal(t, "Walk.001", st.Tracks[1].Name)
	require.Equal(t, st.Tracks[1], st.ActiveTrack())
	require.Equal(t, 3, walk.Users())
}

func TestPushDown(t *testing.T) {
	st := NewStack()
	walk := newTestClip("Walk", 0, 20)
	st.SetAction(walk)
	st.ActInfluence = 0.5
	st.ActBlend = BlendAdd
	st.ActExtend = ExtendHoldForward

	require.True(t, st.PushDown(false))
	require.Nil(t, st.Action())
	s := st.ActiveStrip()
	require.NotNil(t, s)
	require.Equal(t, walk, s.Action())
	require.Equal(t, BlendAdd, s.Blend)
	require.Equal(t, ExtendHoldForward, s.Extend)
	require.Equal(t, 0.5, s.Influence)
	require.True(t, s.Has(StripUserInfluence))
	require.Len(t, s.Curves, 1)
	require.Equal(t, 1, walk.Users())

	require.False(t, st.PushDown(false), "nothing live")
}

func TestPushDownNeedsMotion(t *testing.T) {
	st := NewStack()
	still := newTestClip("Still", 0, 1)
	still.noMotion = true
	st.SetAction(still)
	require.False(t, st.PushDown(false))
	require.Equal(t, still, st.Action())
	require.Empty(t, st.Tracks)
}

func TestValidateStripNameDefaults(t *testing.T) {
	st := stackWith(t, nil)
	tr := st.Tracks[0]

	clip := NewStrip(newTestClip("Run", 0, 10))
	require.True(t, st.AddStripToTrack(tr, clip, false))
	require.Equal(t, "Run", clip.Name)

	trans := NewTransition(10, 12)
	require.True(t, st.AddStripToTrack(tr, trans, false))
	require.Equal(t, "Transition", trans.Name)

	sound := NewSoundStrip(20, 0)
	require.True(t, st.AddStripToTrack(tr, sound, false))
	require.Equal(t, "NLA Strip", sound.Name)
	require.Equal(t, 30.0, sound.End)

	meta := NewMeta(false)
	meta.Start, meta.End = 40, 50
	require.True(t, st.AddStripToTrack(tr, meta, false))
	require.Equal(t, "Meta", meta.Name)

	again := NewStrip(newTestClip("Run", 0, 5))
	again.Start, again.End = 60, 65
	require.True(t, st.AddStripToTrack(tr, again, false))
	require.Equal(t, "Run.001", again.Name)

	bare := &Strip{Kind: KindClip, Start: 70, End: 71}
	st.ValidateStripName(bare)
	require.Equal(t, "<No Action>", bare.Name)
}

func TestWalkOrder(t *testing.T) {
	a, b := clipStrip("A", 0, 10), clipStrip("B", 10, 20)
	st := stackWith(t, []*Strip{a, b}, nil)
	MakeMetas(&st.Tracks[0].Strips, false)

	var seen []string
	st.Walk(func(tr *Track, s *Strip, depth int) bool {
		if s == nil {
			seen = append(seen, tr.Name)
		} else {
			seen = append(seen, s.Kind.String()+":"+s.Name)
		}
		return true
	})
	require.Equal(t, []string{"NlaTrack", "meta:", "clip:A", "clip:B", "NlaTrack.001"}, seen)

	count := 0
	st.Walk(func(*Track, *Strip, int) bool {
		count++
		return count < 2
	})
	require.Equal(t, 2, count)
}

func TestCopySharesOrDuplicatesClips(t *testing.T) {
	walk := newTestClip("Walk", 0, 10)
	live := newTestClip("Live", 0, 5)
	s := NewStrip(walk)
	st := stackWith(t, []*Strip{s})
	st.SetAction(live)
	st.SetActiveTrack(st.Tracks[0])
	st.SetActiveStrip(s)

	shared := st.Copy(true)
	require.NotEqual(t, st.Tracks[0].ID, shared.Tracks[0].ID)
	require.Equal(t, shared.Tracks[0], shared.ActiveTrack())
	cs := shared.ActiveStrip()
	require.NotNil(t, cs)
	require.NotSame(t, s, cs)
	require.NotEqual(t, s.ID, cs.ID)
	require.Equal(t, walk, cs.Action())
	require.Equal(t, 2, walk.Users())
	require.Equal(t, 2, live.Users())

	unlinked := st.Copy(false)
	dup := unlinked.Tracks[0].Strips[0].Action()
	require.Equal(t, "Walk.copy", dup.Name())
	require.Equal(t, 1, dup.Users())
	require.Equal(t, 2, walk.Users())

	shared.Free()
	unlinked.Free()
	require.Equal(t, 1, walk.Users())
	require.Equal(t, 1, live.Users())
	require.Equal(t, 0, dup.Users())
}

func TestFreeReleasesEverything(t *testing.T) {
	walk := newTestClip("Walk", 0, 10)
	st := stackWith(t, []*Strip{NewStrip(walk)})
	st.SetAction(walk)
	require.Equal(t, 2, walk.Users())

	st.Free()
	require.Equal(t, 0, walk.Users())
	require.Empty(t, st.Tracks)
	require.Nil(t, st.Action())
	require.False(t, st.HasStrips())
}

func TestActionRefReleasesOnce(t *testing.T) {
	clip := newTestClip("A", 0, 1)
	ref := NewActionRef(clip)
	require.Equal(t, 1, clip.Users())
	ref.Release()
	ref.Release()
	require.Equal(t, 0, clip.Users())
	require.Nil(t, ref.Action())
	require.Nil(t, NewActionRef(nil))

	var none *ActionRef
	none.Release()
	require.Nil(t, none.Action())
}
