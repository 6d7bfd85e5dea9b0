package nla

import (
	"github.com/user/nla-timeline-cli/pkg/debug"
)

// StackFlag is a bit set of stack-wide settings.
type StackFlag uint32

const (
	// StackHasSolo mirrors whether any track is soloed.
	StackHasSolo StackFlag = 1 << iota
	// StackEvalUpperTracks keeps tracks above the tweaked one enabled in tweak mode.
	StackEvalUpperTracks
	// StackTweakNoMap turns off time remapping while tweaking.
	StackTweakNoMap
)

const defaultTrackName = "NlaTrack"

// Stack is the animated-data container: tracks ordered bottom to top, the
// live clip evaluated on top of them, and the tweak state.
type Stack struct {
	Tracks []*Track
	Flags  StackFlag

	// ActiveTrackID and ActiveStripID are lookup keys only. They are checked
	// against the tracks on every access and may be stale.
	ActiveTrackID string
	ActiveStripID string

	// Blend settings used for the live clip, copied onto it by PushDown.
	ActInfluence float64
	ActBlend     BlendMode
	ActExtend    Extend

	action *ActionRef
	mode   Mode
}

// NewStack returns an empty stack in composed mode.
func NewStack() *Stack {
	return &Stack{
		ActInfluence: 1,
		mode:         Composed{},
	}
}

func (st *Stack) Has(f StackFlag) bool { return st.Flags&f == f }
func (st *Stack) Set(f StackFlag)      { st.Flags |= f }
func (st *Stack) Clear(f StackFlag)    { st.Flags &^= f }

// Action returns the live clip, or nil.
func (st *Stack) Action() Action { return st.action.Action() }

// SetAction makes a the live clip, releasing the previous one. The live
// clip is owned by the tweak session while tweaking, so this fails then.
func (st *Stack) SetAction(a Action) bool {
	if st.InTweakMode() {
		debug.Log("stack: cannot assign action %q while tweaking", actionName(a))
		return false
	}
	old := st.action
	st.action = NewActionRef(a)
	old.Release()
	return true
}

func (st *Stack) clearAction() {
	st.action.Release()
	st.action = nil
}

func actionName(a Action) string {
	if a == nil {
		return "<none>"
	}
	return a.Name()
}

// TrackByID returns the track with the given ID, or nil.
func (st *Stack) TrackByID(id string) *Track {
	if id == "" {
		return nil
	}
	for _, t := range st.Tracks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// TrackByName returns the track with the given name, or nil.
func (st *Stack) TrackByName(name string) *Track {
	for _, t := range st.Tracks {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// IndexOf returns the position of t, or -1.
func (st *Stack) IndexOf(t *Track) int {
	for i, nt := range st.Tracks {
		if nt == t {
			return i
		}
	}
	return -1
}

// StripByID finds a strip anywhere in the stack, including meta children,
// along with the track holding it.
func (st *Stack) StripByID(id string) (*Track, *Strip) {
	for _, t := range st.Tracks {
		if s := t.Strips.FindByID(id); s != nil {
			return t, s
		}
	}
	return nil, nil
}

// StripByName finds a strip by name anywhere in the stack.
func (st *Stack) StripByName(name string) (*Track, *Strip) {
	for _, t := range st.Tracks {
		if s := t.Strips.FindByName(name); s != nil {
			return t, s
		}
	}
	return nil, nil
}

// ActiveTrack resolves ActiveTrackID, falling back to the first track
// flagged active when the key is stale.
func (st *Stack) ActiveTrack() *Track {
	if t := st.TrackByID(st.ActiveTrackID); t != nil {
		return t
	}
	t := st.FindActiveTrack()
	if t != nil {
		st.ActiveTrackID = t.ID
	} else {
		st.ActiveTrackID = ""
	}
	return t
}

// ActiveStrip resolves ActiveStripID, falling back to the active strip of
// the active track when the key is stale.
func (st *Stack) ActiveStrip() *Strip {
	if _, s := st.StripByID(st.ActiveStripID); s != nil {
		return s
	}
	s := st.ActiveTrack().FindActiveStrip()
	if s != nil {
		st.ActiveStripID = s.ID
	} else {
		st.ActiveStripID = ""
	}
	return s
}

// FindActiveTrack returns the first track flagged active.
func (st *Stack) FindActiveTrack() *Track {
	for _, t := range st.Tracks {
		if t.Has(TrackActive) {
			return t
		}
	}
	return nil
}

func (st *Stack) reindex() {
	for i, t := range st.Tracks {
		t.Index = i
	}
}

func (st *Stack) insertAt(i int, t *Track) {
	st.Tracks = append(st.Tracks, nil)
	copy(st.Tracks[i+1:], st.Tracks[i:])
	st.Tracks[i] = t
	st.reindex()
}

func (st *Stack) nameTrack(t *Track, base string) {
	if t.Name == "" {
		t.Name = base
	}
	t.Name = UniqueName(t.Name, func(name string) bool {
		for _, o := range st.Tracks {
			if o != t && o.Name == name {
				return true
			}
		}
		return false
	})
}

// InsertBefore inserts t below next, or on top when next is nil. In a
// library override local tracks never go below non-local ones, so the
// insert moves above next when next is non-local.
func (st *Stack) InsertBefore(next, t *Track, isLibOverride bool) {
	if isLibOverride && next != nil && !next.IsLocal() {
		st.InsertAfter(next, t, isLibOverride)
		return
	}
	i := st.IndexOf(next)
	if i < 0 {
		i = len(st.Tracks)
	}
	st.insertAt(i, t)
	st.nameTrack(t, defaultTrackName)
}

// InsertAfter inserts t above prev, or at the bottom when prev is nil.
// Non-local tracks always stay at the bottom of the stack: a nil prev
// sits above a non-local first track, and in a library override the
// insert skips ahead past the non-local run.
func (st *Stack) InsertAfter(prev, t *Track, isLibOverride bool) {
	if prev == nil && len(st.Tracks) > 0 && !st.Tracks[0].IsLocal() {
		prev = st.Tracks[0]
	}
	if isLibOverride && prev != nil && !prev.IsLocal() {
		for i := st.IndexOf(prev) + 1; i < len(st.Tracks) && !st.Tracks[i].IsLocal(); i++ {
			prev = st.Tracks[i]
		}
	}
	st.insertAt(st.IndexOf(prev)+1, t)
	st.nameTrack(t, defaultTrackName)
}

func (st *Stack) NewTrackBefore(next *Track, isLibOverride bool) *Track {
	t := NewTrack()
	st.InsertBefore(next, t, isLibOverride)
	return t
}

func (st *Stack) NewTrackAfter(prev *Track, isLibOverride bool) *Track {
	t := NewTrack()
	st.InsertAfter(prev, t, isLibOverride)
	return t
}

// NewTrackHead adds a track at the bottom of the stack.
func (st *Stack) NewTrackHead(isLibOverride bool) *Track {
	var first *Track
	if len(st.Tracks) > 0 {
		first = st.Tracks[0]
	}
	return st.NewTrackBefore(first, isLibOverride)
}

// NewTrackTail adds a track at the top of the stack.
func (st *Stack) NewTrackTail(isLibOverride bool) *Track {
	var last *Track
	if len(st.Tracks) > 0 {
		last = st.Tracks[len(st.Tracks)-1]
	}
	return st.NewTrackAfter(last, isLibOverride)
}

// SetActiveTrack makes t the only active track. A nil t clears it.
func (st *Stack) SetActiveTrack(t *Track) {
	for _, o := range st.Tracks {
		o.Clear(TrackActive)
	}
	st.ActiveTrackID = ""
	if t != nil {
		t.Set(TrackActive)
		st.ActiveTrackID = t.ID
	}
}

// SoloToggle toggles solo on t and clears it everywhere else. The stack
// flag follows t.
func (st *Stack) SoloToggle(t *Track) {
	if len(st.Tracks) == 0 {
		return
	}
	for _, o := range st.Tracks {
		if o != t {
			o.Clear(TrackSolo)
		}
	}
	if t == nil {
		st.Clear(StackHasSolo)
		return
	}
	t.Flags ^= TrackSolo
	if t.Has(TrackSolo) {
		st.Set(StackHasSolo)
	} else {
		st.Clear(StackHasSolo)
	}
}

// TrackEnabled reports whether t contributes to evaluation: only the solo
// track counts while one is soloed, otherwise every unmuted track.
func (st *Stack) TrackEnabled(t *Track) bool {
	if st.Has(StackHasSolo) {
		return t.Has(TrackSolo)
	}
	return !t.Has(TrackMuted)
}

// RemoveTrack detaches and frees t.
func (st *Stack) RemoveTrack(t *Track, releaseActions bool) bool {
	i := st.IndexOf(t)
	if i < 0 {
		return false
	}
	st.Tracks = append(st.Tracks[:i], st.Tracks[i+1:]...)
	st.reindex()
	if st.ActiveTrackID == t.ID {
		st.ActiveTrackID = ""
	}
	t.Free(releaseActions)
	return true
}

// AddStripToTrack adds s to t and names it.
func (st *Stack) AddStripToTrack(t *Track, s *Strip, isLibOverride bool) bool {
	if !t.AddStrip(s, isLibOverride) {
		return false
	}
	st.ValidateStripName(s)
	return true
}

// AddStrip wraps the live clip in a new strip on the top track, or on a
// new top track named after the clip when the top track has no room.
func (st *Stack) AddStrip(isLibOverride bool) *Strip {
	a := st.Action()
	if a == nil {
		return nil
	}
	s := NewStrip(a)
	var last *Track
	if len(st.Tracks) > 0 {
		last = st.Tracks[len(st.Tracks)-1]
	}
	if !last.AddStrip(s, isLibOverride) {
		t := st.NewTrackTail(isLibOverride)
		st.SetActiveTrack(t)
		t.AddStrip(s, isLibOverride)
		t.Name = a.Name()
		st.nameTrack(t, defaultTrackName)
	}
	st.ValidateStripName(s)
	return s
}

// PushDown moves the live clip into the stack as a new strip carrying the
// live blend settings. It fails without a live clip or when the clip has
// no motion.
func (st *Stack) PushDown(isLibOverride bool) bool {
	if st.InTweakMode() {
		return false
	}
	a := st.Action()
	if a == nil {
		return false
	}
	if !a.HasMotion() {
		debug.Log("pushdown: action %q has no motion", a.Name())
		return false
	}
	s := st.AddStrip(isLibOverride)
	if s == nil {
		return false
	}
	st.clearAction()

	s.Blend = st.ActBlend
	s.Influence = st.ActInfluence
	s.Extend = st.ActExtend
	if st.ActInfluence < 1 {
		s.Set(StripUserInfluence)
		s.ensureInfluenceCurve()
	}
	st.SetActiveStrip(s)
	return true
}

// SetActiveStrip makes s the only active top-level strip.
func (st *Stack) SetActiveStrip(s *Strip) {
	for _, t := range st.Tracks {
		for _, ns := range t.Strips {
			if ns == s {
				ns.Set(StripActive)
			} else {
				ns.Clear(StripActive)
			}
		}
	}
	st.ActiveStripID = ""
	if s != nil {
		st.ActiveStripID = s.ID
	}
}

// ValidateStripName gives s a default name for its kind if it has none
// and makes it unique among the top-level strips of the stack.
func (st *Stack) ValidateStripName(s *Strip) {
	if s == nil {
		return
	}
	if s.Name == "" {
		switch s.Kind {
		case KindClip:
			s.Name = "<No Action>"
			if a := s.Action(); a != nil {
				s.Name = a.Name()
			}
		case KindTransition:
			s.Name = "Transition"
		case KindMeta:
			s.Name = "Meta"
		default:
			s.Name = "NLA Strip"
		}
	}
	names := make(map[string]struct{})
	for _, t := range st.Tracks {
		for _, o := range t.Strips {
			if o != s {
				names[o.Name] = struct{}{}
			}
		}
	}
	s.Name = UniqueName(s.Name, func(name string) bool {
		_, ok := names[name]
		return ok
	})
}

// Walk visits each track (with a nil strip, depth 0) followed by its
// strips in order, meta children after their parent at increasing depth.
// Returning false stops the walk.
func (st *Stack) Walk(fn func(t *Track, s *Strip, depth int) bool) {
	for _, t := range st.Tracks {
		if !fn(t, nil, 0) {
			return
		}
		cont := t.Strips.Walk(func(s *Strip, depth int) bool {
			return fn(t, s, depth+1)
		})
		if !cont {
			return
		}
	}
}

// Copy deep-copies the stack. Active keys are remapped onto the copied
// tracks and strips by position. A stack copied while tweaking comes out
// composed, with the parked clip live.
func (st *Stack) Copy(shareActions bool) *Stack {
	c := &Stack{
		Flags:        st.Flags,
		ActInfluence: st.ActInfluence,
		ActBlend:     st.ActBlend,
		ActExtend:    st.ActExtend,
		mode:         Composed{},
	}
	live := st.action
	if sess := st.tweakSession(); sess != nil {
		live = sess.parked
	}
	c.action = live.Clone()

	activeTrack := st.ActiveTrack()
	activeStrip := st.ActiveStrip()
	for _, t := range st.Tracks {
		nt := t.Copy(shareActions)
		c.Tracks = append(c.Tracks, nt)
		if t == activeTrack {
			c.ActiveTrackID = nt.ID
		}
		if activeStrip != nil {
			if s := matchStrip(t.Strips, nt.Strips, activeStrip); s != nil {
				c.ActiveStripID = s.ID
			}
		}
	}
	c.reindex()
	if st.InTweakMode() {
		c.ClearTweakFlags()
	}
	return c
}

// matchStrip finds the strip in dst at the position target holds in src.
func matchStrip(src, dst StripList, target *Strip) *Strip {
	if !debug.Assert(len(src) == len(dst), "copy: strip lists differ in length (%d != %d)", len(src), len(dst)) {
		return nil
	}
	for i, s := range src {
		if s == target {
			return dst[i]
		}
		if s.IsMeta() {
			if m := matchStrip(s.Children, dst[i].Children, target); m != nil {
				return m
			}
		}
	}
	return nil
}

// Free releases every track and the live clip.
func (st *Stack) Free() {
	if sess := st.tweakSession(); sess != nil {
		sess.parked.Release()
	}
	for _, t := range st.Tracks {
		t.Free(true)
	}
	st.Tracks = nil
	st.clearAction()
	st.mode = Composed{}
}

// HasStrips reports whether any track holds a strip.
func (st *Stack) HasStrips() bool {
	for _, t := range st.Tracks {
		if len(t.Strips) > 0 {
			return true
		}
	}
	return false
}
