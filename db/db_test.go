package db

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/user/nla-timeline-cli/nla"
	"github.com/user/nla-timeline-cli/scene"
)

const sampleScene = `
actions:
  - {name: Walk, start: 1, end: 25}
  - {name: Run, start: 0, end: 12, cyclic: true}
  - {name: Idle, start: 0, end: 1, motion: false}
stack:
  action: Idle
  influence: 0.25
  blend: multiply
  active_track: Base
  tracks:
    - name: Base
      strips:
        - {action: Walk, start: 1, end: 25}
        - {kind: transition, start: 25, end: 30}
        - name: Run
          action: Run
          start: 30
          end: 42
          blend_in: 2
          curves:
            - property: influence
              keys: [[30, 0], [42, 1]]
    - name: Top
      flags: [muted]
      strips:
        - kind: meta
          start: 0
          end: 20
          children:
            - {name: A, action: Walk, start: 0, end: 10}
            - {name: B, action: Run, start: 10, end: 20}
`

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := Open(filepath.Join(t.TempDir(), "nla", "data.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func sample(t *testing.T) *scene.Scene {
	t.Helper()
	sc, err := scene.Decode(strings.NewReader(sampleScene))
	require.NoError(t, err)
	return sc
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.db")
	first, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err)
	defer second.Close()

	var n int
	require.NoError(t, second.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&n))
	migrations, err := listMigrations()
	require.NoError(t, err)
	require.Equal(t, len(migrations), n)
}

func TestSaveAndLoadStack(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)
	sc := sample(t)

	require.NoError(t, SaveStack(ctx, database, "intro", sc))
	loaded, err := LoadStack(ctx, database, "intro")
	require.NoError(t, err)
	require.Equal(t, sc.Document(), loaded.Document())

	st := loaded.Stack
	require.Equal(t, "Idle", st.Action().Name())
	require.Equal(t, nla.BlendMultiply, st.ActBlend)
	require.True(t, st.Tracks[1].Has(nla.TrackMuted))
	require.Len(t, st.Tracks[1].Strips[0].Children, 2)
	require.Equal(t, 2.0, st.Tracks[0].Strips[2].BlendIn)
}

func TestSaveStackKeepsTweakSession(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)
	sc := sample(t)
	st := sc.Stack
	st.SetActiveTrack(st.Tracks[0])
	st.SetActiveStrip(st.Tracks[0].Strips[0])
	require.True(t, st.EnterTweak())

	require.NoError(t, SaveStack(ctx, database, "tweaked", sc))
	loaded, err := LoadStack(ctx, database, "tweaked")
	require.NoError(t, err)
	require.True(t, loaded.Stack.InTweakMode())
	require.Equal(t, "Walk", loaded.Stack.Action().Name())
}

func TestSaveStackReplaces(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)
	sc := sample(t)
	require.NoError(t, SaveStack(ctx, database, "intro", sc))

	require.True(t, sc.Stack.RemoveTrack(sc.Stack.Tracks[1], true))
	require.NoError(t, SaveStack(ctx, database, "intro", sc))

	loaded, err := LoadStack(ctx, database, "intro")
	require.NoError(t, err)
	require.Len(t, loaded.Stack.Tracks, 1)

	var strips int
	require.NoError(t, database.QueryRow("SELECT COUNT(*) FROM strips").Scan(&strips))
	require.Equal(t, 3, strips, "rows of the old save are gone")
}

func TestListAndDeleteStacks(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)
	sc := sample(t)
	require.NoError(t, SaveStack(ctx, database, "walk", sc))
	require.NoError(t, SaveStack(ctx, database, "empty", scene.New()))

	stacks, err := ListStacks(ctx, database)
	require.NoError(t, err)
	require.Len(t, stacks, 2)
	require.Equal(t, "empty", stacks[0].Name)
	require.Equal(t, 0, stacks[0].TrackCount)
	require.Equal(t, "walk", stacks[1].Name)
	require.Equal(t, 2, stacks[1].TrackCount)
	require.Equal(t, 6, stacks[1].StripCount)

	require.NoError(t, DeleteStack(ctx, database, "walk"))
	_, err = LoadStack(ctx, database, "walk")
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, DeleteStack(ctx, database, "walk"), ErrNotFound)

	stacks, err = ListStacks(ctx, database)
	require.NoError(t, err)
	require.Len(t, stacks, 1)
}

func TestSaveStackRejectsEmptyName(t *testing.T) {
	require.Error(t, SaveStack(context.Background(), openTestDB(t), "", scene.New()))
}

func TestFlagLists(t *testing.T) {
	require.Equal(t, []string{}, splitFlags(""))
	require.Equal(t, []string{"selected", "muted"}, splitFlags(joinFlags([]string{"selected", "muted"})))
}
