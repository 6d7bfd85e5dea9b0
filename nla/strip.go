// Package nla implements a non-linear animation timeline: strips of
// time-mapped clips arranged on parallel tracks, nested meta-strips, and an
// isolated single-clip tweak mode on top of the track stack.
//
// Everything here is single-threaded and synchronous. Callers serialize
// structural edits against evaluation passes.
package nla

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Kind is the type of content a strip holds.
type Kind int

const (
	// KindClip references an external Action.
	KindClip Kind = iota
	// KindTransition is a synthetic strip whose bounds come from its neighbors.
	KindTransition
	// KindMeta groups child strips.
	KindMeta
	// KindSound is a sound clip placeholder.
	KindSound
)

var kindNames = map[Kind]string{
	KindClip:       "clip",
	KindTransition: "transition",
	KindMeta:       "meta",
	KindSound:      "sound",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind converts a kind name back to a Kind.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	return KindClip, false
}

// StripFlag is a bit set of strip settings.
type StripFlag uint32

const (
	StripSelected StripFlag = 1 << iota
	StripActive
	StripReversed
	StripSyncLength
	StripUserTime
	StripUserInfluence
	StripTempMeta
	StripTweakUser
	StripAutoBlends
	StripCyclic
	StripMuted
)

// Extend controls what a strip does outside its own range.
type Extend int

const (
	ExtendHold Extend = iota
	ExtendHoldForward
	ExtendNothing
)

// BlendMode controls how a strip combines with the result below it.
type BlendMode int

const (
	BlendReplace BlendMode = iota
	BlendCombine
	BlendAdd
	BlendSubtract
	BlendMultiply
)

// Keyframe is one point of a per-strip control curve.
type Keyframe struct {
	Frame float64
	Value float64
}

// Curve is a per-strip override curve (influence or strip time). The strip
// owns it; its evaluation happens elsewhere.
type Curve struct {
	Property string
	Keys     []Keyframe
}

// Strip is a timed reference to a clip, transition, meta group or sound.
type Strip struct {
	ID   string
	Name string
	Kind Kind

	// Start and End are the bounds in scene time.
	Start float64
	End   float64
	// ActStart and ActEnd are the used range of the clip.
	ActStart float64
	ActEnd   float64

	Scale  float64
	Repeat float64
	Flags  StripFlag

	BlendIn   float64
	BlendOut  float64
	Influence float64
	StripTime float64
	Extend    Extend
	Blend     BlendMode

	// Children is only meaningful for KindMeta.
	Children StripList
	Curves   []Curve

	action *ActionRef
}

// Minimum lengths used when neighbors squeeze a strip.
const (
	minStripLength      = 0.1
	minTransitionLength = 1.0
	// defaultSoundLength is used when a sound has no known duration.
	defaultSoundLength = 10.0
	// frameEpsilon matches single precision float equality on frame values.
	frameEpsilon = 1.1920928955078125e-07
)

func floatEq(a, b float64) bool {
	return math.Abs(a-b) < frameEpsilon
}

func newStrip(kind Kind) *Strip {
	return &Strip{
		ID:        uuid.NewString(),
		Kind:      kind,
		Scale:     1,
		Repeat:    1,
		Influence: 1,
	}
}

// NewStrip creates a clip strip for a, sized to the action's frame range.
// The strip holds its own counted reference to a. Returns nil for a nil action.
func NewStrip(a Action) *Strip {
	if a == nil {
		return nil
	}
	s := newStrip(KindClip)
	s.Flags = StripSelected | StripSyncLength
	if a.IsCyclic() {
		s.Flags |= StripCyclic
	}
	s.action = NewActionRef(a)
	s.setInitialLength()
	return s
}

func (s *Strip) setInitialLength() {
	start, end := s.action.Action().FrameRange()
	s.ActStart = start
	s.ActEnd = EnsureNonzero(start, end)
	s.Start = s.ActStart
	s.End = s.ActEnd
}

// NewTransition creates a transition strip spanning [start, end).
func NewTransition(start, end float64) *Strip {
	s := newStrip(KindTransition)
	s.Flags = StripSelected | StripAutoBlends
	s.Start = start
	s.End = end
	return s
}

// NewSoundStrip creates a sound strip at start. A non-positive length falls
// back to ten frames.
func NewSoundStrip(start, length float64) *Strip {
	if length <= 0 {
		length = defaultSoundLength
	}
	s := newStrip(KindSound)
	s.Flags = StripSelected
	s.Extend = ExtendNothing
	s.Start = start
	s.End = start + length
	return s
}

// NewMeta creates an empty selected meta strip.
func NewMeta(temporary bool) *Strip {
	s := newStrip(KindMeta)
	s.Flags = StripSelected
	if temporary {
		s.Flags |= StripTempMeta
	}
	return s
}

// Has reports whether all bits of f are set.
func (s *Strip) Has(f StripFlag) bool { return s.Flags&f == f }

// HasAny reports whether any bit of f is set.
func (s *Strip) HasAny(f StripFlag) bool { return s.Flags&f != 0 }

func (s *Strip) Set(f StripFlag)   { s.Flags |= f }
func (s *Strip) Clear(f StripFlag) { s.Flags &^= f }

// Length is the strip's extent in scene time.
func (s *Strip) Length() float64 { return s.End - s.Start }

// Action returns the referenced clip, or nil.
func (s *Strip) Action() Action { return s.action.Action() }

// SetAction swaps the referenced clip, releasing the previous one.
func (s *Strip) SetAction(a Action) {
	old := s.action
	s.action = NewActionRef(a)
	old.Release()
}

// IsMeta reports whether the strip groups children.
func (s *Strip) IsMeta() bool { return s.Kind == KindMeta }

// Free releases the strip's children and curves. With releaseAction the
// clip users are given back, otherwise the caller keeps them.
func (s *Strip) Free(releaseAction bool) {
	if s == nil {
		return
	}
	s.Children.Free(releaseAction)
	if releaseAction {
		s.action.Release()
	} else {
		s.action.Detach()
	}
	s.action = nil
	s.Curves = nil
}

// Copy duplicates the strip and its children under fresh IDs. With
// shareAction the copies add users to the same clip; otherwise clips that
// can duplicate themselves are copied.
func (s *Strip) Copy(shareAction bool) *Strip {
	if s == nil {
		return nil
	}
	c := *s
	c.ID = uuid.NewString()
	c.Children = nil
	c.action = nil
	if a := s.Action(); a != nil {
		if d, ok := a.(duplicator); ok && !shareAction {
			// Duplicate hands us a fresh action with no users yet.
			c.action = NewActionRef(d.Duplicate())
		} else {
			c.action = NewActionRef(a)
		}
	}
	if len(s.Curves) > 0 {
		c.Curves = make([]Curve, len(s.Curves))
		for i, cu := range s.Curves {
			c.Curves[i] = Curve{Property: cu.Property, Keys: append([]Keyframe(nil), cu.Keys...)}
		}
	}
	for _, child := range s.Children {
		c.Children = append(c.Children, child.Copy(shareAction))
	}
	return &c
}

// WithinBounds reports whether any part of the strip lies in [min, max].
func (s *Strip) WithinBounds(min, max float64) bool {
	if s == nil {
		return false
	}
	stripLen := s.Length()
	boundsLen := math.Abs(max - min)
	if floatEq(stripLen, 0) || floatEq(boundsLen, 0) {
		return false
	}
	if stripLen < boundsLen && !(inRange(s.Start, min, max) || inRange(s.End, min, max)) {
		return false
	}
	if stripLen > boundsLen && !(inRange(min, s.Start, s.End) || inRange(max, s.Start, s.End)) {
		return false
	}
	return true
}

func inRange(v, a, b float64) bool {
	if a > b {
		a, b = b, a
	}
	return v > a && v < b
}

// DistanceToFrame is zero inside the strip, otherwise the gap to the nearest edge.
func (s *Strip) DistanceToFrame(frame float64) float64 {
	if frame < s.Start {
		return s.Start - frame
	}
	if s.End < frame {
		return frame - s.End
	}
	return 0
}

// ensureInfluenceCurve adds a flat influence curve when user influence is on.
func (s *Strip) ensureInfluenceCurve() {
	if !s.Has(StripUserInfluence) {
		return
	}
	for _, c := range s.Curves {
		if c.Property == "influence" {
			return
		}
	}
	s.Curves = append(s.Curves, Curve{
		Property: "influence",
		Keys:     []Keyframe{{Frame: s.Start, Value: s.Influence}},
	})
}
