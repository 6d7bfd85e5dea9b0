package nla

// Action is the external animation clip a strip maps time into.
// Its keyframe content is never read here; only its frame range and
// reference count are.
type Action interface {
	Name() string
	FrameRange() (start, end float64)
	IsCyclic() bool
	HasMotion() bool
	Retain()
	Release()
	Users() int
}

// duplicator is implemented by actions that can produce an independent copy
// for unlinked duplication.
type duplicator interface {
	Duplicate() Action
}

// ActionRef is one counted user of an Action. Creating a ref retains the
// action, releasing it gives the user back exactly once.
type ActionRef struct {
	action   Action
	released bool
}

// NewActionRef retains a and returns a handle for it. Returns nil for a nil action.
func NewActionRef(a Action) *ActionRef {
	if a == nil {
		return nil
	}
	a.Retain()
	return &ActionRef{action: a}
}

// Action returns the referenced action, or nil once released.
func (r *ActionRef) Action() Action {
	if r == nil || r.released {
		return nil
	}
	return r.action
}

// Release gives the user back. Releasing twice is a no-op.
func (r *ActionRef) Release() {
	if r == nil || r.released {
		return
	}
	r.released = true
	r.action.Release()
}

// Detach drops the handle without giving the user back. Used when the caller
// has taken over ownership of the user count.
func (r *ActionRef) Detach() {
	if r == nil {
		return
	}
	r.released = true
}

// Clone returns a new counted handle on the same action.
func (r *ActionRef) Clone() *ActionRef {
	return NewActionRef(r.Action())
}

// sameAction reports whether two strips point at the same non-nil action.
func sameAction(a, b Action) bool {
	return a != nil && b != nil && a == b
}
