package nla

// AddTransitions inserts a transition into every gap between two adjacent
// selected strips. Pairs involving a transition or a sound strip are
// skipped. Returns the number of transitions added.
func (st *Stack) AddTransitions() int {
	added := 0
	for _, t := range st.Tracks {
		if len(t.Strips) < 2 {
			continue
		}
		for i := 0; i+1 < len(t.Strips); i++ {
			s1, s2 := t.Strips[i], t.Strips[i+1]
			if !s1.Has(StripSelected) || !s2.Has(StripSelected) {
				continue
			}
			if floatEq(s1.End, s2.Start) {
				continue
			}
			if s1.Kind == KindTransition || s2.Kind == KindTransition {
				continue
			}
			if s1.Kind == KindSound || s2.Kind == KindSound {
				continue
			}
			tr := NewTransition(s1.End, s2.Start)
			t.Strips.InsertAfter(s1, tr)
			st.ValidateStripName(tr)
			added++
			// Skip the transition just inserted.
			i++
		}
	}
	return added
}

// AddSound adds a sound strip of the given length at start on the active
// track, or on a new top track when it has no room.
func (st *Stack) AddSound(start, length float64, isLibOverride bool) *Strip {
	s := NewSoundStrip(start, length)
	if st.AddStripToTrack(st.ActiveTrack(), s, isLibOverride) {
		return s
	}
	t := st.NewTrackTail(isLibOverride)
	st.SetActiveTrack(t)
	st.AddStripToTrack(t, s, isLibOverride)
	return s
}

// SplitStrip splits a clip strip of t in two at frame, or at its midpoint
// when frame lies outside it. A meta strip is ungrouped instead. Returns
// the new right-hand strip for clips, nil otherwise.
func (st *Stack) SplitStrip(t *Track, s *Strip, frame float64) *Strip {
	if t == nil || s == nil || t.Strips.IndexOf(s) < 0 {
		return nil
	}
	switch s.Kind {
	case KindMeta:
		ClearMeta(&t.Strips, s)
		return nil
	case KindClip:
	default:
		return nil
	}

	var splitFrame, splitActFrame float64
	if frame > s.Start && frame < s.End {
		splitFrame = frame
		splitActFrame = StripTime(s, frame, TimeUnmap)
	} else {
		length := s.Length()
		if floatEq(length, 0) {
			return nil
		}
		splitFrame = s.Start + length/2
		actLen := s.ActEnd - s.ActStart
		if floatEq(actLen, 0) {
			splitActFrame = s.ActEnd
		} else {
			splitActFrame = s.ActStart + actLen/2
		}
	}

	ns := s.Copy(true)
	ns.Name = ""
	t.Strips.InsertAfter(s, ns)

	s.End = splitFrame
	ns.Start = splitFrame
	if splitActFrame > s.ActStart && splitActFrame < s.ActEnd {
		s.ActEnd = splitActFrame
		ns.ActStart = splitActFrame
	}

	// Sync length would restore both halves to the full clip on tweak exit.
	s.Clear(StripSyncLength)
	ns.Clear(StripSyncLength | StripActive)

	st.ValidateStripName(ns)
	return ns
}

// SplitSelected splits every selected strip at frame. Non-local tracks of
// a library override are left alone. Returns the number of strips split.
func (st *Stack) SplitSelected(frame float64, isLibOverride bool) int {
	n := 0
	for _, t := range st.Tracks {
		if isLibOverride && !t.IsLocal() {
			continue
		}
		for _, s := range append(StripList(nil), t.Strips...) {
			if !s.Has(StripSelected) {
				continue
			}
			if s.Kind != KindClip && s.Kind != KindMeta {
				continue
			}
			st.SplitStrip(t, s, frame)
			n++
		}
	}
	if n > 0 {
		st.ValidateState()
	}
	return n
}

// Duplicate copies every selected strip into the track above its own, or
// into a new track directly above its own when there is no room. With linked the copies
// share the original clips. Originals are deselected. Returns the copies.
func (st *Stack) Duplicate(linked, isLibOverride bool) []*Strip {
	var copies []*Strip
	tracks := append([]*Track(nil), st.Tracks...)
	// Top down, so fresh copies are not duplicated again.
	for ti := len(tracks) - 1; ti >= 0; ti-- {
		t := tracks[ti]
		for _, s := range append(StripList(nil), t.Strips...) {
			if !s.Has(StripSelected) {
				continue
			}
			ns := s.Copy(linked)
			ns.Name = ""

			var above *Track
			if i := st.IndexOf(t); i+1 < len(st.Tracks) {
				above = st.Tracks[i+1]
			}
			if !above.AddStrip(ns, isLibOverride) {
				nt := st.NewTrackAfter(t, isLibOverride)
				st.SetActiveTrack(nt)
				nt.AddStrip(ns, isLibOverride)
			}
			s.Clear(StripSelected | StripActive)
			st.ValidateStripName(ns)
			copies = append(copies, ns)
		}
	}
	if len(copies) > 0 {
		st.ValidateState()
	}
	return copies
}
