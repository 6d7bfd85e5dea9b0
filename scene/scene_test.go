package scene

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/user/nla-timeline-cli/nla"
)

func loadBasic(t *testing.T) *Scene {
	t.Helper()
	sc, err := Load(filepath.Join("testdata", "basic.yaml"))
	require.NoError(t, err)
	return sc
}

func TestLoadBuildsStack(t *testing.T) {
	sc := loadBasic(t)
	st := sc.Stack

	require.Equal(t, 3, sc.Library.Len())
	require.Len(t, st.Tracks, 2)
	require.Equal(t, "Idle", st.Action().Name())
	require.Equal(t, 0.5, st.ActInfluence)
	require.Equal(t, nla.BlendAdd, st.ActBlend)

	base := st.Tracks[0]
	require.Equal(t, "Base", base.Name)
	require.Equal(t, nla.TrackSelected, base.Flags)
	require.Len(t, base.Strips, 3)

	walk := base.Strips[0]
	require.Equal(t, "Walk", walk.Name)
	require.Equal(t, nla.StripSelected|nla.StripSyncLength, walk.Flags, "default flags")
	require.Equal(t, 1.0, walk.ActStart)
	require.Equal(t, 25.0, walk.ActEnd)

	require.Equal(t, "Transition", base.Strips[1].Name)
	require.Equal(t, nla.KindTransition, base.Strips[1].Kind)

	run := base.Strips[2]
	require.Equal(t, nla.StripSelected|nla.StripReversed, run.Flags)
	require.Len(t, run.Curves, 1)
	require.Equal(t, []nla.Keyframe{{Frame: 30, Value: 0}, {Frame: 42, Value: 1}}, run.Curves[0].Keys)

	top := st.Tracks[1]
	require.Equal(t, nla.TrackSelected|nla.TrackOverrideLocal, top.Flags)
	meta := top.Strips[0]
	require.True(t, meta.IsMeta())
	require.Equal(t, "Meta", meta.Name)
	require.Len(t, meta.Children, 2)
	require.Equal(t, 11.0, meta.Children[0].ActEnd)

	require.Equal(t, base, st.ActiveTrack())
	require.Equal(t, walk, st.ActiveStrip())

	require.Equal(t, 2, sc.Library.Lookup("Walk").Users())
	require.Equal(t, 2, sc.Library.Lookup("Run").Users())
	require.Equal(t, 1, sc.Library.Lookup("Idle").Users())
	require.False(t, sc.Library.Lookup("Idle").HasMotion())
	require.True(t, sc.Library.Lookup("Run").IsCyclic())
}

func TestEncodeDecodeKeepsDocument(t *testing.T) {
	sc := loadBasic(t)
	want := sc.Document()

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sc))
	again, err := Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, want, again.Document())
}

func TestSaveAndLoad(t *testing.T) {
	sc := loadBasic(t)
	path := filepath.Join(t.TempDir(), "nested", "scene.yaml")
	require.NoError(t, Save(path, sc))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, sc.Document(), loaded.Document())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load("")
	require.ErrorIs(t, err, ErrNoScene)
	require.ErrorIs(t, Save("", New()), ErrNoScene)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("stack:\n  tracks:\n    - name: A\n      strips:\n        - kind: transition\n          start: 5\n          end: 1\n"), 0644))
	_, err = Load(path)
	var se *SceneError
	require.ErrorAs(t, err, &se)
	require.Equal(t, path, se.Path)
	require.Contains(t, err.Error(), path)
}

func TestBuildRejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"overlap", `
actions: [{name: A, start: 0, end: 10}]
stack:
  tracks:
    - name: T
      strips:
        - {action: A, start: 0, end: 10}
        - {action: A, start: 5, end: 15}
`, "overlaps"},
		{"missing action", `
stack:
  tracks:
    - name: T
      strips:
        - {action: Nope, start: 0, end: 10}
`, `action "Nope" not found`},
		{"duplicate track", `
stack:
  tracks:
    - {name: T, flags: []}
    - {name: T, flags: []}
`, "duplicate track"},
		{"duplicate action", `
actions: [{name: A, start: 0, end: 1}, {name: A, start: 0, end: 2}]
`, "duplicate action"},
		{"unknown strip flag", `
stack:
  tracks:
    - name: T
      strips:
        - {kind: sound, start: 0, end: 1, flags: [loud]}
`, `unknown flag "loud"`},
		{"unknown kind", `
stack:
  tracks:
    - name: T
      strips:
        - {kind: video, start: 0, end: 1}
`, "unknown kind"},
		{"children on a clip", `
actions: [{name: A, start: 0, end: 10}]
stack:
  tracks:
    - name: T
      strips:
        - action: A
          start: 0
          end: 10
          children:
            - {kind: sound, start: 0, end: 1}
`, "only meta strips"},
		{"missing live action", `
stack:
  action: Ghost
  tracks: []
`, `stack action "Ghost"`},
		{"unknown blend", `
stack:
  blend: overlay
  tracks: []
`, "unknown blend mode"},
		{"missing tweak strip", `
stack:
  tweak: {track: T, strip: S}
  tracks:
    - {name: T, flags: []}
`, "tweak strip"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.yaml))
			require.Error(t, err)
			var se *SceneError
			require.True(t, errors.As(err, &se), "want a SceneError, got %v", err)
			require.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	_, err := Decode(strings.NewReader("stack:\n  colour: red\n"))
	require.Error(t, err)
	var se *SceneError
	require.False(t, errors.As(err, &se))
}

func TestDecodeEmpty(t *testing.T) {
	sc, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	require.Empty(t, sc.Stack.Tracks)
	require.Equal(t, 0, sc.Library.Len())
}

func TestTweakSessionSurvivesSave(t *testing.T) {
	sc := loadBasic(t)
	st := sc.Stack
	base := st.Tracks[0]
	run := base.Strips[2]
	st.SetActiveTrack(base)
	st.SetActiveStrip(run)
	require.True(t, st.EnterTweak())

	doc := sc.Document()
	require.Equal(t, &TweakDoc{Track: "Base", Strip: run.ID}, doc.Stack.Tweak)
	require.Equal(t, "Idle", doc.Stack.Action, "the parked clip is stored")
	for _, td := range doc.Stack.Tracks {
		require.NotContains(t, td.Flags, "disabled")
	}

	again, err := Build(doc)
	require.NoError(t, err)
	require.True(t, again.Stack.InTweakMode())
	require.Equal(t, "Run", again.Stack.Action().Name())
	tr, s := again.Stack.TweakTarget()
	require.Equal(t, "Base", tr.Name)
	require.Equal(t, "Run", s.Name)
	require.True(t, again.Stack.Tracks[1].Has(nla.TrackDisabled))

	mode := again.Stack.Mode().(nla.Tweaking)
	require.Equal(t, "Idle", mode.Session.Parked().Name())
}

func TestActiveStripKeepsIdentityInCopiedMeta(t *testing.T) {
	sc := loadBasic(t)
	st := sc.Stack
	st.Walk(func(_ *nla.Track, s *nla.Strip, _ int) bool {
		if s != nil {
			s.Clear(nla.StripSelected)
		}
		return true
	})
	top := st.Tracks[1]
	top.Strips[0].Set(nla.StripSelected)

	copies := st.Duplicate(true, false)
	require.Len(t, copies, 1)
	inner := copies[0].Children[0]
	require.Equal(t, "Inner A", inner.Name, "meta children keep their names")
	st.SetActiveTrack(trackWith(st, copies[0]))
	st.SetActiveStrip(inner)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sc))
	again, err := Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, inner.ID, again.Stack.ActiveStrip().ID)
}

func TestTweakOnCopiedMetaChildSurvivesSave(t *testing.T) {
	sc := loadBasic(t)
	st := sc.Stack
	st.Walk(func(_ *nla.Track, s *nla.Strip, _ int) bool {
		if s != nil {
			s.Clear(nla.StripSelected)
		}
		return true
	})
	st.Tracks[1].Strips[0].Set(nla.StripSelected)
	copies := st.Duplicate(true, false)
	require.Len(t, copies, 1)
	inner := copies[0].Children[1]
	st.SetActiveTrack(trackWith(st, copies[0]))
	st.SetActiveStrip(inner)
	inner.Set(nla.StripActive)
	require.True(t, st.EnterTweak())
	_, target := st.TweakTarget()
	require.Equal(t, inner, target)

	again, err := Build(sc.Document())
	require.NoError(t, err)
	_, s := again.Stack.TweakTarget()
	require.NotNil(t, s)
	require.Equal(t, inner.ID, s.ID)
}

func TestActiveStripByNameInHandWrittenFile(t *testing.T) {
	sc := loadBasic(t)
	require.Equal(t, "Walk", sc.Stack.ActiveStrip().Name)

	doc := sc.Document()
	require.Equal(t, sc.Stack.ActiveStrip().ID, doc.Stack.ActiveStrip)
}

func trackWith(st *nla.Stack, s *nla.Strip) *nla.Track {
	for _, t := range st.Tracks {
		if t.Strips.IndexOf(s) >= 0 {
			return t
		}
	}
	return nil
}

func TestExportJSONMatchesDocument(t *testing.T) {
	sc := loadBasic(t)
	var buf bytes.Buffer
	require.NoError(t, ExportJSON(&buf, sc))

	var doc Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.Equal(t, sc.Document(), &doc)
	require.Contains(t, buf.String(), `"name": "Walk"`)
}

func TestDocumentAdoptsDuplicatedClips(t *testing.T) {
	sc := loadBasic(t)
	st := sc.Stack
	st.Walk(func(_ *nla.Track, s *nla.Strip, _ int) bool {
		if s != nil {
			s.Clear(nla.StripSelected)
		}
		return true
	})
	st.Tracks[0].Strips[0].Set(nla.StripSelected)

	copies := st.Duplicate(false, false)
	require.Len(t, copies, 1)

	doc := sc.Document()
	var names []string
	for _, ad := range doc.Actions {
		names = append(names, ad.Name)
	}
	require.Contains(t, names, "Walk.copy")

	again, err := Build(doc)
	require.NoError(t, err)
	require.NotNil(t, again.Library.Lookup("Walk.copy"))
}
