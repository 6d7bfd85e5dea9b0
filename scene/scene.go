// Package scene reads and writes NLA scenes: a clip library plus one track
// stack, stored as YAML documents and exported as JSON.
package scene

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/user/nla-timeline-cli/action"
	"github.com/user/nla-timeline-cli/nla"
	"github.com/user/nla-timeline-cli/pkg/debug"
)

// Scene is a loaded clip library and the stack using it.
type Scene struct {
	Library *action.Library
	Stack   *nla.Stack
}

// New returns an empty scene.
func New() *Scene {
	return &Scene{Library: action.NewLibrary(), Stack: nla.NewStack()}
}

// Load reads a YAML scene from path.
func Load(path string) (*Scene, error) {
	if path == "" {
		return nil, ErrNoScene
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	sc, err := Decode(bytes.NewReader(data))
	if err != nil {
		var se *SceneError
		if errors.As(err, &se) && se.Path == "" {
			se.Path = path
		}
		return nil, err
	}
	return sc, nil
}

// Decode reads a YAML scene document and builds it.
func Decode(r io.Reader) (*Scene, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	return Build(&doc)
}

// Save writes the scene to path as YAML, creating parent directories.
func Save(path string, sc *Scene) error {
	if path == "" {
		return ErrNoScene
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create scene dir: %w", err)
	}
	var buf bytes.Buffer
	if err := Encode(&buf, sc); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write scene: %w", err)
	}
	return nil
}

// Encode writes the scene as a YAML document.
func Encode(w io.Writer, sc *Scene) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(sc.Document()); err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}
	return enc.Close()
}

// ExportJSON writes the scene document as indented JSON.
func ExportJSON(w io.Writer, sc *Scene) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(sc.Document()); err != nil {
		return fmt.Errorf("export json: %w", err)
	}
	return nil
}

// Build turns a document into a scene, checking names and overlaps.
func Build(doc *Document) (*Scene, error) {
	sc := New()
	for _, ad := range doc.Actions {
		if ad.Name == "" {
			return nil, invalid("action without a name")
		}
		c := action.New(ad.Name, ad.Start, ad.End)
		c.SetCyclic(ad.Cyclic)
		if ad.Motion != nil {
			c.SetMotion(*ad.Motion)
		}
		if err := sc.Library.Add(c); err != nil {
			return nil, invalid("duplicate action %q", ad.Name)
		}
	}

	st := sc.Stack
	if err := buildStackSettings(st, &doc.Stack); err != nil {
		return nil, err
	}

	for i, td := range doc.Stack.Tracks {
		t, err := buildTrack(sc.Library, td)
		if err != nil {
			return nil, err
		}
		if t.Name == "" {
			t.Name = nla.UniqueName("NlaTrack", func(n string) bool { return st.TrackByName(n) != nil })
		}
		if st.TrackByName(t.Name) != nil {
			return nil, invalid("duplicate track name %q", t.Name)
		}
		t.Index = i
		st.Tracks = append(st.Tracks, t)
	}

	// Unnamed strips get their default names once every track is in place.
	st.Walk(func(_ *nla.Track, s *nla.Strip, depth int) bool {
		if s != nil && depth == 1 && s.Name == "" {
			st.ValidateStripName(s)
		}
		return true
	})

	if name := doc.Stack.Action; name != "" {
		c := sc.Library.Lookup(name)
		if c == nil {
			return nil, invalid("stack action %q not found", name)
		}
		st.SetAction(c)
	}
	if name := doc.Stack.ActiveTrack; name != "" {
		t := st.TrackByName(name)
		if t == nil {
			return nil, invalid("active track %q not found", name)
		}
		st.ActiveTrackID = t.ID
	}
	if key := doc.Stack.ActiveStrip; key != "" {
		_, s := st.StripByID(key)
		if s == nil {
			_, s = st.StripByName(key)
		}
		if s == nil {
			return nil, invalid("active strip %q not found", key)
		}
		st.ActiveStripID = s.ID
	}
	if tw := doc.Stack.Tweak; tw != nil {
		if err := restoreTweak(st, tw); err != nil {
			return nil, err
		}
	}
	return sc, nil
}

func buildStackSettings(st *nla.Stack, sd *StackDoc) error {
	flags, bad, ok := nla.ParseStackFlags(sd.Flags)
	if !ok {
		return invalid("unknown stack flag %q", bad)
	}
	st.Flags = flags
	if sd.Influence != nil {
		st.ActInfluence = *sd.Influence
	}
	blend, ok := nla.ParseBlendMode(sd.Blend)
	if !ok {
		return invalid("unknown blend mode %q", sd.Blend)
	}
	st.ActBlend = blend
	extend, ok := nla.ParseExtend(sd.Extend)
	if !ok {
		return invalid("unknown extend mode %q", sd.Extend)
	}
	st.ActExtend = extend
	return nil
}

func buildTrack(lib *action.Library, td TrackDoc) (*nla.Track, error) {
	t := nla.NewTrack()
	if td.ID != "" {
		t.ID = td.ID
	}
	t.Name = td.Name
	if td.Flags != nil {
		flags, bad, ok := nla.ParseTrackFlags(td.Flags)
		if !ok {
			return nil, invalid("track %q: unknown flag %q", td.Name, bad)
		}
		t.Flags = flags
	}
	for _, sd := range td.Strips {
		s, err := buildStrip(lib, sd)
		if err != nil {
			return nil, fmt.Errorf("track %q: %w", td.Name, err)
		}
		if !t.Strips.Add(s) {
			return nil, invalid("track %q: strip %q [%g, %g) overlaps another strip", td.Name, sd.Name, sd.Start, sd.End)
		}
	}
	return t, nil
}

func buildStrip(lib *action.Library, sd StripDoc) (*nla.Strip, error) {
	kind := nla.KindClip
	if sd.Kind != "" {
		k, ok := nla.ParseKind(sd.Kind)
		if !ok {
			return nil, invalid("strip %q: unknown kind %q", sd.Name, sd.Kind)
		}
		kind = k
	}
	if sd.End <= sd.Start {
		return nil, invalid("strip %q: end %g is not after start %g", sd.Name, sd.End, sd.Start)
	}

	var s *nla.Strip
	switch kind {
	case nla.KindClip:
		c := lib.Lookup(sd.Action)
		if c == nil {
			return nil, invalid("strip %q: action %q not found", sd.Name, sd.Action)
		}
		s = nla.NewStrip(c)
		if sd.ActStart != nil {
			s.ActStart = *sd.ActStart
		}
		if sd.ActEnd != nil {
			s.ActEnd = *sd.ActEnd
		}
		s.ActEnd = nla.EnsureNonzero(s.ActStart, s.ActEnd)
	case nla.KindTransition:
		s = nla.NewTransition(sd.Start, sd.End)
	case nla.KindMeta:
		s = nla.NewMeta(false)
	case nla.KindSound:
		s = nla.NewSoundStrip(sd.Start, sd.End-sd.Start)
	}

	if sd.ID != "" {
		s.ID = sd.ID
	}
	s.Name = sd.Name
	s.Start, s.End = sd.Start, sd.End
	if sd.Scale != 0 {
		s.Scale = sd.Scale
	}
	if sd.Repeat != 0 {
		s.Repeat = sd.Repeat
	}
	if sd.Flags != nil {
		flags, bad, ok := nla.ParseStripFlags(sd.Flags)
		if !ok {
			return nil, invalid("strip %q: unknown flag %q", sd.Name, bad)
		}
		s.Flags = flags
	}
	s.BlendIn, s.BlendOut = sd.BlendIn, sd.BlendOut
	if sd.Influence != nil {
		s.Influence = *sd.Influence
	}
	extend, ok := nla.ParseExtend(sd.Extend)
	if !ok {
		return nil, invalid("strip %q: unknown extend mode %q", sd.Name, sd.Extend)
	}
	if sd.Extend != "" || kind != nla.KindSound {
		s.Extend = extend
	}
	blend, ok := nla.ParseBlendMode(sd.Blend)
	if !ok {
		return nil, invalid("strip %q: unknown blend mode %q", sd.Name, sd.Blend)
	}
	s.Blend = blend

	for _, cd := range sd.Curves {
		cu := nla.Curve{Property: cd.Property}
		for _, k := range cd.Keys {
			cu.Keys = append(cu.Keys, nla.Keyframe{Frame: k[0], Value: k[1]})
		}
		s.Curves = append(s.Curves, cu)
	}

	if len(sd.Children) > 0 && kind != nla.KindMeta {
		return nil, invalid("strip %q: only meta strips have children", sd.Name)
	}
	for _, cd := range sd.Children {
		child, err := buildStrip(lib, cd)
		if err != nil {
			return nil, err
		}
		if !s.Children.Add(child) {
			return nil, invalid("meta %q: child %q overlaps another child", sd.Name, cd.Name)
		}
	}
	return s, nil
}

func restoreTweak(st *nla.Stack, tw *TweakDoc) error {
	t := st.TrackByName(tw.Track)
	if t == nil {
		return invalid("tweak track %q not found", tw.Track)
	}
	target := t.Strips.FindByID(tw.Strip)
	if target == nil {
		target = t.FindStripByName(tw.Strip)
	}
	if target == nil {
		return invalid("tweak strip %q not found on track %q", tw.Strip, tw.Track)
	}
	t.Strips.Walk(func(s *nla.Strip, _ int) bool {
		s.Clear(nla.StripActive)
		return true
	})
	target.Set(nla.StripActive)
	st.SetActiveTrack(t)
	st.ActiveStripID = target.ID
	if !st.EnterTweak() {
		return invalid("cannot re-enter tweak mode on %q", tw.Strip)
	}
	return nil
}

// Document converts the scene back to its document form. Flags derived
// from an open tweak session are left out; the session itself is recorded.
func (sc *Scene) Document() *Document {
	sc.adoptClips()
	doc := &Document{}
	for _, c := range sc.Library.Clips() {
		start, end := c.FrameRange()
		ad := ActionDoc{Name: c.Name(), Start: start, End: end, Cyclic: c.IsCyclic()}
		if !c.HasMotion() {
			no := false
			ad.Motion = &no
		}
		doc.Actions = append(doc.Actions, ad)
	}

	st := sc.Stack
	influence := st.ActInfluence
	doc.Stack = StackDoc{
		Flags:     st.Flags.Names(),
		Influence: &influence,
		Blend:     st.ActBlend.String(),
		Extend:    st.ActExtend.String(),
		Tracks:    []TrackDoc{},
	}
	live := st.Action()
	if mode, ok := st.Mode().(nla.Tweaking); ok {
		live = mode.Session.Parked()
		t, s := st.TweakTarget()
		if t != nil && s != nil {
			doc.Stack.Tweak = &TweakDoc{Track: t.Name, Strip: s.ID}
		}
	}
	if live != nil {
		doc.Stack.Action = live.Name()
	}
	if t := st.ActiveTrack(); t != nil {
		doc.Stack.ActiveTrack = t.Name
	}
	if s := st.ActiveStrip(); s != nil {
		doc.Stack.ActiveStrip = s.ID
	}

	for _, t := range st.Tracks {
		td := TrackDoc{
			ID:    t.ID,
			Name:  t.Name,
			Flags: nonNil((t.Flags &^ nla.TrackDisabled).Names()),
		}
		for _, s := range t.Strips {
			td.Strips = append(td.Strips, stripDoc(s))
		}
		doc.Stack.Tracks = append(doc.Stack.Tracks, td)
	}
	return doc
}

// adoptClips adds clips created by stack edits, such as unlinked
// duplicates, to the library so the document can refer to them.
func (sc *Scene) adoptClips() {
	adopt := func(a nla.Action) {
		c, ok := a.(*action.Clip)
		if ok && sc.Library.Lookup(c.Name()) != c {
			old := c.Name()
			if name := sc.Library.Adopt(c); name != old {
				debug.Log("scene: clip %q added to the library as %q", old, name)
			}
		}
	}
	adopt(sc.Stack.Action())
	if mode, ok := sc.Stack.Mode().(nla.Tweaking); ok {
		adopt(mode.Session.Parked())
	}
	sc.Stack.Walk(func(_ *nla.Track, s *nla.Strip, _ int) bool {
		if s != nil {
			adopt(s.Action())
		}
		return true
	})
}

func stripDoc(s *nla.Strip) StripDoc {
	influence := s.Influence
	sd := StripDoc{
		ID:        s.ID,
		Name:      s.Name,
		Kind:      s.Kind.String(),
		Start:     s.Start,
		End:       s.End,
		Scale:     s.Scale,
		Repeat:    s.Repeat,
		Flags:     nonNil((s.Flags &^ nla.StripTweakUser).Names()),
		BlendIn:   s.BlendIn,
		BlendOut:  s.BlendOut,
		Influence: &influence,
		Extend:    s.Extend.String(),
		Blend:     s.Blend.String(),
	}
	if a := s.Action(); a != nil {
		sd.Action = a.Name()
		actStart, actEnd := s.ActStart, s.ActEnd
		sd.ActStart, sd.ActEnd = &actStart, &actEnd
	}
	for _, cu := range s.Curves {
		cd := CurveDoc{Property: cu.Property}
		for _, k := range cu.Keys {
			cd.Keys = append(cd.Keys, [2]float64{k.Frame, k.Value})
		}
		sd.Curves = append(sd.Curves, cd)
	}
	for _, c := range s.Children {
		sd.Children = append(sd.Children, stripDoc(c))
	}
	return sd
}

// nonNil keeps an explicit empty flag list so it does not read back as defaults.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
