// Package action provides an in-memory animation clip that satisfies
// nla.Action, plus a small library that owns clips by name.
package action

import (
	"errors"
	"fmt"
	"sort"

	"github.com/user/nla-timeline-cli/nla"
)

var (
	// ErrNotFound is returned when a clip name is not in the library.
	ErrNotFound = errors.New("action not found")
	// ErrExists is returned when adding a clip under a taken name.
	ErrExists = errors.New("action already exists")
)

// Clip is an animation clip known only by its frame range.
type Clip struct {
	name   string
	start  float64
	end    float64
	cyclic bool
	motion bool
	users  int
}

// New creates a clip over [start, end] that has motion.
func New(name string, start, end float64) *Clip {
	return &Clip{name: name, start: start, end: end, motion: true}
}

func (c *Clip) Name() string { return c.name }

func (c *Clip) FrameRange() (float64, float64) { return c.start, c.end }

func (c *Clip) IsCyclic() bool { return c.cyclic }

func (c *Clip) HasMotion() bool { return c.motion }

func (c *Clip) Retain() { c.users++ }

// Release drops one user. The count never goes negative.
func (c *Clip) Release() {
	if c.users > 0 {
		c.users--
	}
}

func (c *Clip) Users() int { return c.users }

// SetFrameRange changes the clip range, as a keyframe edit would.
func (c *Clip) SetFrameRange(start, end float64) {
	c.start, c.end = start, end
}

func (c *Clip) SetCyclic(cyclic bool) { c.cyclic = cyclic }

func (c *Clip) SetMotion(motion bool) { c.motion = motion }

// Duplicate returns an unused copy named "<name>.copy".
func (c *Clip) Duplicate() nla.Action {
	d := *c
	d.name = c.name + ".copy"
	d.users = 0
	return &d
}

func (c *Clip) String() string {
	return fmt.Sprintf("%s [%g, %g]", c.name, c.start, c.end)
}

// Library owns clips by name.
type Library struct {
	clips map[string]*Clip
}

func NewLibrary() *Library {
	return &Library{clips: make(map[string]*Clip)}
}

// Add registers c. Names must be unique.
func (l *Library) Add(c *Clip) error {
	if _, ok := l.clips[c.name]; ok {
		return fmt.Errorf("add action %q: %w", c.name, ErrExists)
	}
	l.clips[c.name] = c
	return nil
}

// Adopt registers c under a name not yet taken, renaming it to
// "<name>.001" style when needed, and returns the name used.
func (l *Library) Adopt(c *Clip) string {
	c.name = nla.UniqueName(c.name, func(name string) bool {
		_, ok := l.clips[name]
		return ok
	})
	l.clips[c.name] = c
	return c.name
}

// Get looks up a clip by name.
func (l *Library) Get(name string) (*Clip, error) {
	c, ok := l.clips[name]
	if !ok {
		return nil, fmt.Errorf("get action %q: %w", name, ErrNotFound)
	}
	return c, nil
}

// Lookup returns the named clip or nil.
func (l *Library) Lookup(name string) *Clip {
	return l.clips[name]
}

// Names returns all clip names sorted.
func (l *Library) Names() []string {
	names := make([]string, 0, len(l.clips))
	for n := range l.clips {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Clips returns all clips sorted by name.
func (l *Library) Clips() []*Clip {
	out := make([]*Clip, 0, len(l.clips))
	for _, n := range l.Names() {
		out = append(out, l.clips[n])
	}
	return out
}

// Len returns the number of clips.
func (l *Library) Len() int { return len(l.clips) }
