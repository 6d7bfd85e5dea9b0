package nla

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStripFlagNames(t *testing.T) {
	f := StripSelected | StripSyncLength | StripMuted
	require.Equal(t, []string{"selected", "sync_length", "muted"}, f.Names())
	require.Equal(t, "selected|sync_length|muted", f.String())

	got, bad, ok := ParseStripFlags(f.Names())
	require.True(t, ok)
	require.Empty(t, bad)
	require.Equal(t, f, got)

	_, bad, ok = ParseStripFlags([]string{"selected", "shiny"})
	require.False(t, ok)
	require.Equal(t, "shiny", bad)
}

func TestTrackAndStackFlagNames(t *testing.T) {
	tf, _, ok := ParseTrackFlags([]string{"solo", "override_local"})
	require.True(t, ok)
	require.Equal(t, TrackSolo|TrackOverrideLocal, tf)
	require.Equal(t, "solo|override_local", tf.String())

	sf, _, ok := ParseStackFlags([]string{"eval_upper_tracks"})
	require.True(t, ok)
	require.Equal(t, StackEvalUpperTracks, sf)
	require.Equal(t, []string{"eval_upper_tracks"}, sf.Names())

	_, bad, ok := ParseTrackFlags([]string{"hidden"})
	require.False(t, ok)
	require.Equal(t, "hidden", bad)
}

func TestEnumNames(t *testing.T) {
	e, ok := ParseExtend("")
	require.True(t, ok)
	require.Equal(t, ExtendHold, e)
	e, ok = ParseExtend("hold_forward")
	require.True(t, ok)
	require.Equal(t, "hold_forward", e.String())
	_, ok = ParseExtend("loop")
	require.False(t, ok)

	b, ok := ParseBlendMode("multiply")
	require.True(t, ok)
	require.Equal(t, BlendMultiply, b)
	b, ok = ParseBlendMode("")
	require.True(t, ok)
	require.Equal(t, BlendReplace, b)

	k, ok := ParseKind("transition")
	require.True(t, ok)
	require.Equal(t, KindTransition, k)
	require.Equal(t, "sound", KindSound.String())
	_, ok = ParseKind("group")
	require.False(t, ok)
}
