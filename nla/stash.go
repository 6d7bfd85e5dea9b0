package nla

import (
	"strings"

	"github.com/user/nla-timeline-cli/pkg/debug"
)

// StashTrackName is the base name of tracks holding stashed clips.
const StashTrackName = "[Action Stash]"

func isStashTrack(t *Track) bool {
	return strings.Contains(t.Name, StashTrackName)
}

// IsStashed reports whether a is held by a strip on any stash track.
func (st *Stack) IsStashed(a Action) bool {
	for _, t := range st.Tracks {
		if !isStashTrack(t) {
			continue
		}
		for _, s := range t.Strips {
			if sameAction(s.Action(), a) {
				return true
			}
		}
	}
	return false
}

// Stash parks the live clip on a new muted, protected stash track placed
// above the existing stash tracks, or at the bottom of the stack when there
// are none, and then detaches it from the stack. It fails without a live
// clip, when the clip is already stashed, or while tweaking.
func (st *Stack) Stash(isLibOverride bool) bool {
	a := st.Action()
	if a == nil {
		debug.Log("stash: no active action")
		return false
	}
	if st.InTweakMode() {
		debug.Log("stash: cannot stash %q while tweaking", a.Name())
		return false
	}
	if st.IsStashed(a) {
		return false
	}

	var prev *Track
	for i := len(st.Tracks) - 1; i >= 0; i-- {
		if isStashTrack(st.Tracks[i]) {
			prev = st.Tracks[i]
			break
		}
	}

	t := st.NewTrackAfter(prev, isLibOverride)
	st.SetActiveTrack(t)
	if i := st.IndexOf(t); prev == nil && i > 0 {
		st.Tracks = append(st.Tracks[:i], st.Tracks[i+1:]...)
		st.insertAt(0, t)
	}
	t.Name = StashTrackName
	st.nameTrack(t, StashTrackName)

	s := NewStrip(a)
	if !st.AddStripToTrack(t, s, isLibOverride) {
		debug.Log("stash: could not add strip for %q to %q", a.Name(), t.Name)
		s.Free(true)
		return false
	}

	// Protect only after adding, a protected track refuses strips.
	t.Set(TrackMuted | TrackProtected)
	s.Clear(StripSelected | StripActive)
	s.Set(StripSyncLength)

	st.clearAction()
	return true
}
