package nla

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStash(t *testing.T) {
	a := clipStrip("A", 0, 10)
	st := stackWith(t, []*Strip{a})
	require.False(t, st.Stash(false), "nothing live")

	idle := newTestClip("Idle", 0, 30)
	st.SetAction(idle)
	require.True(t, st.Stash(false))
	require.Nil(t, st.Action())
	require.True(t, st.IsStashed(idle))
	require.Equal(t, 1, idle.Users())

	stash := st.Tracks[0]
	require.Equal(t, StashTrackName, stash.Name)
	require.True(t, stash.Has(TrackMuted))
	require.True(t, stash.Has(TrackProtected))
	require.Len(t, stash.Strips, 1)
	s := stash.Strips[0]
	require.Equal(t, idle, s.Action())
	require.False(t, s.HasAny(StripSelected|StripActive))
	require.True(t, s.Has(StripSyncLength))
	require.Equal(t, a, st.Tracks[1].Strips[0])

	run := newTestClip("Run", 0, 12)
	st.SetAction(run)
	require.True(t, st.Stash(false))
	require.Equal(t, StashTrackName+".001", st.Tracks[1].Name, "stacked above the previous stash")
	require.Equal(t, run, st.Tracks[1].Strips[0].Action())
	require.Equal(t, a, st.Tracks[2].Strips[0])

	st.SetAction(idle)
	require.False(t, st.Stash(false), "already stashed")
	require.Equal(t, idle, st.Action())
}
