package nla

import "github.com/google/uuid"

// TrackFlag is a bit set of track settings.
type TrackFlag uint32

const (
	TrackActive TrackFlag = 1 << iota
	TrackSelected
	TrackMuted
	TrackSolo
	TrackProtected
	// TrackDisabled is set on the tweaked track and the tracks above it.
	TrackDisabled
	// TrackOverrideLocal marks a track created locally in a library override.
	TrackOverrideLocal
)

// Track is one layer of the stack: an ordered, non-overlapping run of strips.
type Track struct {
	ID     string
	Name   string
	Index  int
	Flags  TrackFlag
	Strips StripList
}

// NewTrack returns an unlinked track. It is named when inserted into a stack.
func NewTrack() *Track {
	return &Track{
		ID:    uuid.NewString(),
		Flags: TrackSelected | TrackOverrideLocal,
	}
}

func (t *Track) Has(f TrackFlag) bool { return t.Flags&f == f }
func (t *Track) Set(f TrackFlag)      { t.Flags |= f }
func (t *Track) Clear(f TrackFlag)    { t.Flags &^= f }

// IsLocal reports whether the track may be edited inside a library override.
func (t *Track) IsLocal() bool { return t.Has(TrackOverrideLocal) }

// HasSpace reports whether [start, end) is free. Protected tracks never have space.
func (t *Track) HasSpace(start, end float64) bool {
	if t == nil || t.Has(TrackProtected) {
		return false
	}
	return t.Strips.HasSpace(start, end)
}

// AddStrip adds s to the track. Protected tracks refuse, and so do
// non-local tracks when editing a library override.
func (t *Track) AddStrip(s *Strip, isLibOverride bool) bool {
	if t == nil || s == nil {
		return false
	}
	if t.Has(TrackProtected) || (isLibOverride && !t.IsLocal()) {
		return false
	}
	return t.Strips.Add(s)
}

// RemoveStrip detaches s from the track.
func (t *Track) RemoveStrip(s *Strip) bool {
	return t.Strips.Remove(s)
}

// Bounds returns the start of the first strip and the end of the last.
func (t *Track) Bounds() (start, end float64, ok bool) {
	if t == nil {
		return 0, 0, false
	}
	return t.Strips.Bounds()
}

func (t *Track) FindActiveStrip() *Strip {
	if t == nil {
		return nil
	}
	return t.Strips.FindActive()
}

// FindStripByName searches the track, including meta children.
func (t *Track) FindStripByName(name string) *Strip {
	return t.Strips.FindByName(name)
}

// HasAnimatedStrips reports whether any strip carries control curves.
func (t *Track) HasAnimatedStrips() bool {
	for _, s := range t.Strips {
		if len(s.Curves) > 0 {
			return true
		}
	}
	return false
}

// Free frees every strip on the track.
func (t *Track) Free(releaseActions bool) {
	t.Strips.Free(releaseActions)
}

// Copy duplicates the track and its strips under new IDs.
func (t *Track) Copy(shareActions bool) *Track {
	c := &Track{
		ID:    uuid.NewString(),
		Name:  t.Name,
		Index: t.Index,
		Flags: t.Flags,
	}
	for _, s := range t.Strips {
		c.Strips = append(c.Strips, s.Copy(shareActions))
	}
	return c
}
