package nla

// MakeMetas groups every run of adjacent selected strips in l into a new
// meta strip spanning the run. Temporary metas are tagged so they can be
// cleared after a transform.
func MakeMetas(l *StripList, temporary bool) {
	if l == nil || len(*l) == 0 {
		return
	}
	out := make(StripList, 0, len(*l))
	var meta *Strip
	for _, s := range *l {
		if !s.Has(StripSelected) {
			meta = nil
			out = append(out, s)
			continue
		}
		if meta == nil {
			meta = NewMeta(temporary)
			meta.Start = s.Start
			out = append(out, meta)
		}
		meta.Children = append(meta.Children, s)
		meta.End = s.End
	}
	*l = out
}

// ClearMeta splices meta's children back into l where meta was and frees
// the meta.
func ClearMeta(l *StripList, meta *Strip) {
	if l == nil || meta == nil {
		return
	}
	i := l.IndexOf(meta)
	if i < 0 {
		return
	}
	children := meta.Children
	meta.Children = nil

	out := make(StripList, 0, len(*l)+len(children))
	out = append(out, (*l)[:i]...)
	out = append(out, children...)
	out = append(out, (*l)[i+1:]...)
	*l = out

	meta.Free(true)
}

// ClearMetas ungroups the meta strips of l, optionally limited to selected
// and/or temporary ones.
func ClearMetas(l *StripList, onlySelected, onlyTemporary bool) {
	if l == nil {
		return
	}
	for _, s := range append(StripList(nil), (*l)...) {
		if !s.IsMeta() {
			continue
		}
		if onlySelected && !s.Has(StripSelected) {
			continue
		}
		if onlyTemporary && !s.Has(StripTempMeta) {
			continue
		}
		ClearMeta(l, s)
	}
}

// MetaAddStrip adds s to meta, growing the meta at either end when its
// neighbors in l leave room.
func MetaAddStrip(l StripList, meta, s *Strip) bool {
	if meta == nil || s == nil {
		return false
	}
	if !meta.Children.HasSpace(s.Start, s.End) {
		return false
	}
	if s.Start < meta.Start {
		if prev := l.Prev(meta, false); prev != nil && prev.End > s.Start {
			return false
		}
		meta.Children.insertAt(0, s)
		meta.Start = s.Start
		return true
	}
	if s.End > meta.End {
		if next := l.Next(meta, false); next != nil && next.Start < s.End {
			return false
		}
		meta.Children = append(meta.Children, s)
		meta.End = s.End
		return true
	}
	return meta.Children.Add(s)
}

// FlushTransforms pushes an edit of meta's own bounds down to its children.
// A pure move shifts every child; a length change rescales them in
// proportion and recomputes their playback scale. Nested metas recurse.
func FlushTransforms(meta *Strip) {
	if meta == nil || !meta.IsMeta() || len(meta.Children) == 0 {
		return
	}

	// The children still describe the meta's extent from before the edit.
	oStart := meta.Children[0].Start
	oEnd := meta.Children[len(meta.Children)-1].End
	offset := meta.Start - oStart

	oLen := oEnd - oStart
	nLen := meta.End - meta.Start
	scaleChanged := !floatEq(oLen, nLen)

	if floatEq(oStart, meta.Start) && floatEq(oEnd, meta.End) && !scaleChanged {
		return
	}

	for _, c := range meta.Children {
		if !scaleChanged {
			c.Start += offset
			c.End += offset
			continue
		}
		p1, p2 := 0.0, 1.0
		if oLen != 0 {
			p1 = (c.Start - oStart) / oLen
			p2 = (c.End - oStart) / oLen
		}
		c.Start = p1*nLen + meta.Start
		c.End = p2*nLen + meta.Start

		if c.Kind == KindClip {
			repeated := (c.ActEnd - c.ActStart) * c.Repeat
			if repeated != 0 {
				c.Scale = (c.End - c.Start) / repeated
			}
		}
	}

	for _, c := range meta.Children {
		FlushTransforms(c)
	}
}
