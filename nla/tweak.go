package nla

import "github.com/user/nla-timeline-cli/pkg/debug"

// Mode is the evaluation state of a stack: Composed or Tweaking.
type Mode interface {
	isMode()
}

// Composed evaluates the whole stack with the live clip on top.
type Composed struct{}

// Tweaking isolates one strip's clip as the live clip.
type Tweaking struct {
	Session *TweakSession
}

func (Composed) isMode() {}
func (Tweaking) isMode() {}

// TweakSession lives from one EnterTweak to the matching ExitTweak.
type TweakSession struct {
	TrackID string
	StripID string

	// parked is the live clip from before entering, restored on exit.
	parked *ActionRef
}

// Parked returns the live clip that was active before tweaking began.
func (s *TweakSession) Parked() Action { return s.parked.Action() }

// Mode returns the current mode.
func (st *Stack) Mode() Mode {
	if st.mode == nil {
		return Composed{}
	}
	return st.mode
}

// InTweakMode reports whether a strip is being tweaked.
func (st *Stack) InTweakMode() bool {
	return st.tweakSession() != nil
}

func (st *Stack) tweakSession() *TweakSession {
	if tw, ok := st.mode.(Tweaking); ok {
		return tw.Session
	}
	return nil
}

// TweakTarget returns the tweaked track and strip, or nils when composed.
func (st *Stack) TweakTarget() (*Track, *Strip) {
	sess := st.tweakSession()
	if sess == nil {
		return nil, nil
	}
	t := st.TrackByID(sess.TrackID)
	if t == nil {
		return nil, nil
	}
	return t, t.Strips.FindByID(sess.StripID)
}

// findTweakTarget picks the strip to tweak: the active strip of the active
// track, else the active strip of the topmost selected track, else the
// first selected or active strip of that track.
func (st *Stack) findTweakTarget() (*Track, *Strip) {
	var track *Track
	var strip *Strip
	if t := st.ActiveTrack(); t != nil {
		track = t
		strip = t.FindActiveStrip()
	}
	if track == nil {
		for i := len(st.Tracks) - 1; i >= 0; i-- {
			if t := st.Tracks[i]; t.Has(TrackSelected) {
				track = t
				strip = t.FindActiveStrip()
				break
			}
		}
	}
	if track != nil && strip == nil {
		for _, s := range track.Strips {
			if s.HasAny(StripSelected | StripActive) {
				strip = s
				break
			}
		}
	}
	return track, strip
}

// EnterTweak makes the active strip's clip the live clip and disables the
// tracks it would otherwise be mixed with. It reports false when no strip
// with a clip can be found. Entering twice is a no-op.
func (st *Stack) EnterTweak() bool {
	if len(st.Tracks) == 0 {
		return false
	}
	if st.InTweakMode() {
		return true
	}

	track, strip := st.findTweakTarget()
	if track == nil || strip == nil || strip.Action() == nil {
		debug.Log("tweak: no active track and strip to enter with (track=%v strip=%v)", track != nil, strip != nil)
		return false
	}
	a := strip.Action()

	for _, t := range st.Tracks {
		for _, s := range t.Strips {
			if sameAction(s.Action(), a) {
				s.Set(StripTweakUser)
			} else {
				s.Clear(StripTweakUser)
			}
		}
	}
	strip.Clear(StripTweakUser)

	track.Set(TrackDisabled)
	if !st.Has(StackEvalUpperTracks) {
		for _, t := range st.Tracks[st.IndexOf(track)+1:] {
			t.Set(TrackDisabled)
		}
	}

	sess := &TweakSession{
		TrackID: track.ID,
		StripID: strip.ID,
		parked:  st.action,
	}
	st.action = NewActionRef(a)
	st.mode = Tweaking{Session: sess}
	return true
}

// ExitTweak resyncs strips of the tweaked clip that follow its length,
// clears the tweak flags and restores the parked live clip. Exiting while
// composed is a no-op.
func (st *Stack) ExitTweak() {
	sess := st.tweakSession()
	if sess == nil {
		return
	}

	st.syncTweakedLengths()
	st.ClearTweakFlags()

	st.action.Release()
	st.action = sess.parked
	sess.parked = nil
	st.mode = Composed{}
}

func (st *Stack) syncTweakedLengths() {
	track, strip := st.TweakTarget()
	if strip == nil || strip.Action() == nil {
		return
	}
	if strip.Has(StripSyncLength) {
		RecalculateBoundsSyncAction(track.Strips, strip)
	}
	a := strip.Action()
	for _, t := range st.Tracks {
		for _, s := range t.Strips {
			if s == strip || !s.Has(StripSyncLength) {
				continue
			}
			if sameAction(s.Action(), a) {
				RecalculateBoundsSyncAction(t.Strips, s)
			}
		}
	}
}

// ClearTweakFlags clears disabled tracks and tweak-user strips stack wide.
// It leaves the mode and the live clip alone.
func (st *Stack) ClearTweakFlags() {
	for _, t := range st.Tracks {
		t.Clear(TrackDisabled)
		for _, s := range t.Strips {
			s.Clear(StripTweakUser)
		}
	}
}

// TweakRemap converts t through the tweaked strip's time mapping. Outside
// tweak mode, with remapping turned off, or when the strip's time is user
// controlled, t is returned unchanged.
func (st *Stack) TweakRemap(t float64, mode TimeMode) float64 {
	if !st.InTweakMode() || st.Has(StackTweakNoMap) {
		return t
	}
	_, s := st.TweakTarget()
	if s == nil || s.Has(StripUserTime) {
		return t
	}
	return StripTime(s, t, mode)
}
