package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/user/nla-timeline-cli/pkg/debug"
	"github.com/user/nla-timeline-cli/scene"
)

// ErrNotFound is returned when no stack has the requested name.
var ErrNotFound = errors.New("stack not found")

// SaveStack stores the scene under name, replacing any stack saved under
// the same name. Everything is written in one transaction.
func SaveStack(ctx context.Context, database *sql.DB, name string, sc *scene.Scene) error {
	if name == "" {
		return fmt.Errorf("save stack: empty name")
	}
	doc := sc.Document()

	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	existing, err := selectStack(ctx, tx, name)
	switch {
	case err == nil:
		debug.Log("db: replacing stack %q (id %d)", name, existing.ID)
		if err := deleteStackRows(ctx, tx, existing.ID); err != nil {
			return err
		}
	case !errors.Is(err, ErrNotFound):
		return err
	}

	sd := doc.Stack
	var tweakTrack, tweakStrip string
	if sd.Tweak != nil {
		tweakTrack, tweakStrip = sd.Tweak.Track, sd.Tweak.Strip
	}
	influence := 1.0
	if sd.Influence != nil {
		influence = *sd.Influence
	}
	result, err := tx.ExecContext(ctx, InsertStackSQL, name, joinFlags(sd.Flags), sd.Action, influence,
		sd.Blend, sd.Extend, sd.ActiveTrack, sd.ActiveStrip, tweakTrack, tweakStrip)
	if err != nil {
		return fmt.Errorf("insert stack: %w", err)
	}
	stackID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get stack id: %w", err)
	}

	for _, a := range doc.Actions {
		motion := a.Motion == nil || *a.Motion
		if _, err := tx.ExecContext(ctx, InsertActionSQL, stackID, a.Name, a.Start, a.End, a.Cyclic, motion); err != nil {
			return fmt.Errorf("insert action %q: %w", a.Name, err)
		}
	}

	for pos, td := range sd.Tracks {
		result, err := tx.ExecContext(ctx, InsertTrackSQL, stackID, pos, td.ID, td.Name, joinFlags(td.Flags))
		if err != nil {
			return fmt.Errorf("insert track %q: %w", td.Name, err)
		}
		trackID, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("get track id: %w", err)
		}
		if err := insertStrips(ctx, tx, stackID, trackID, nil, td.Strips); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// insertStrips writes strips in order, then each meta's children under it.
func insertStrips(ctx context.Context, tx *sql.Tx, stackID, trackID int64, parentID *int64, strips []scene.StripDoc) error {
	for pos, s := range strips {
		curves, err := json.Marshal(s.Curves)
		if err != nil {
			return fmt.Errorf("encode curves of %q: %w", s.Name, err)
		}
		influence := 1.0
		if s.Influence != nil {
			influence = *s.Influence
		}
		result, err := tx.ExecContext(ctx, InsertStripSQL,
			stackID, trackID, parentID, pos, s.ID, s.Name, s.Kind, s.Action,
			s.Start, s.End, s.ActStart, s.ActEnd, s.Scale, s.Repeat, joinFlags(s.Flags),
			s.BlendIn, s.BlendOut, influence, s.Extend, s.Blend, string(curves))
		if err != nil {
			return fmt.Errorf("insert strip %q: %w", s.Name, err)
		}
		if len(s.Children) == 0 {
			continue
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("get strip id: %w", err)
		}
		if err := insertStrips(ctx, tx, stackID, trackID, &id, s.Children); err != nil {
			return err
		}
	}
	return nil
}

// LoadStack reads the stack saved under name and rebuilds its scene.
func LoadStack(ctx context.Context, database *sql.DB, name string) (*scene.Scene, error) {
	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	st, err := selectStack(ctx, tx, name)
	if err != nil {
		return nil, err
	}

	doc := &scene.Document{}
	influence := st.Influence
	doc.Stack = scene.StackDoc{
		Action:      st.Action,
		Flags:       splitFlags(st.Flags),
		Influence:   &influence,
		Blend:       st.Blend,
		Extend:      st.Extend,
		ActiveTrack: st.ActiveTrack,
		ActiveStrip: st.ActiveStrip,
	}
	if st.TweakTrack != "" {
		doc.Stack.Tweak = &scene.TweakDoc{Track: st.TweakTrack, Strip: st.TweakStrip}
	}

	actions, err := selectActions(ctx, tx, st.ID)
	if err != nil {
		return nil, err
	}
	for _, a := range actions {
		motion := a.Motion
		doc.Actions = append(doc.Actions, scene.ActionDoc{
			Name:   a.Name,
			Start:  a.Start,
			End:    a.End,
			Cyclic: a.Cyclic,
			Motion: &motion,
		})
	}

	tracks, err := selectTracks(ctx, tx, st.ID)
	if err != nil {
		return nil, err
	}
	strips, err := selectStrips(ctx, tx, st.ID)
	if err != nil {
		return nil, err
	}
	for _, t := range tracks {
		sds, err := stripDocs(strips, t.ID, nil)
		if err != nil {
			return nil, err
		}
		doc.Stack.Tracks = append(doc.Stack.Tracks, scene.TrackDoc{
			ID:     t.UID,
			Name:   t.Name,
			Flags:  splitFlags(t.Flags),
			Strips: sds,
		})
	}

	sc, err := scene.Build(doc)
	if err != nil {
		return nil, fmt.Errorf("load stack %q: %w", name, err)
	}
	return sc, nil
}

// stripDocs assembles the strips of one track with the given parent, in
// position order, recursing into meta children.
func stripDocs(rows []Strip, trackID int64, parentID *int64) ([]scene.StripDoc, error) {
	var out []scene.StripDoc
	for _, r := range rows {
		if r.TrackID != trackID || !sameParent(r.ParentID, parentID) {
			continue
		}
		influence := r.Influence
		sd := scene.StripDoc{
			ID:        r.UID,
			Name:      r.Name,
			Kind:      r.Kind,
			Action:    r.Action,
			Start:     r.Start,
			End:       r.End,
			ActStart:  r.ActStart,
			ActEnd:    r.ActEnd,
			Scale:     r.Scale,
			Repeat:    r.Repeat,
			Flags:     splitFlags(r.Flags),
			BlendIn:   r.BlendIn,
			BlendOut:  r.BlendOut,
			Influence: &influence,
			Extend:    r.Extend,
			Blend:     r.Blend,
		}
		if err := json.Unmarshal([]byte(r.Curves), &sd.Curves); err != nil {
			return nil, fmt.Errorf("decode curves of %q: %w", r.Name, err)
		}
		id := r.ID
		children, err := stripDocs(rows, trackID, &id)
		if err != nil {
			return nil, err
		}
		sd.Children = children
		out = append(out, sd)
	}
	return out, nil
}

func sameParent(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// ListStacks returns a summary of every saved stack, sorted by name.
func ListStacks(ctx context.Context, database *sql.DB) ([]StackSummary, error) {
	rows, err := database.QueryContext(ctx, SelectStacksSQL)
	if err != nil {
		return nil, fmt.Errorf("select stacks: %w", err)
	}
	defer rows.Close()

	var out []StackSummary
	for rows.Next() {
		var s StackSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.UpdatedAt, &s.TrackCount, &s.StripCount); err != nil {
			return nil, fmt.Errorf("scan stack: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stacks: %w", err)
	}
	return out, nil
}

// DeleteStack removes the stack saved under name with all its rows.
func DeleteStack(ctx context.Context, database *sql.DB, name string) error {
	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	st, err := selectStack(ctx, tx, name)
	if err != nil {
		return err
	}
	if err := deleteStackRows(ctx, tx, st.ID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func selectStack(ctx context.Context, tx *sql.Tx, name string) (*Stack, error) {
	var s Stack
	err := tx.QueryRowContext(ctx, SelectStackByNameSQL, name).Scan(
		&s.ID, &s.Name, &s.Flags, &s.Action, &s.Influence, &s.Blend, &s.Extend,
		&s.ActiveTrack, &s.ActiveStrip, &s.TweakTrack, &s.TweakStrip, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("select stack %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select stack %q: %w", name, err)
	}
	return &s, nil
}

// deleteStackRows removes a stack and its children, children first.
func deleteStackRows(ctx context.Context, tx *sql.Tx, stackID int64) error {
	if _, err := tx.ExecContext(ctx, DeleteStripsByStackSQL, stackID); err != nil {
		return fmt.Errorf("delete strips: %w", err)
	}
	if _, err := tx.ExecContext(ctx, DeleteTracksByStackSQL, stackID); err != nil {
		return fmt.Errorf("delete tracks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, DeleteActionsByStackSQL, stackID); err != nil {
		return fmt.Errorf("delete actions: %w", err)
	}
	if _, err := tx.ExecContext(ctx, DeleteStackSQL, stackID); err != nil {
		return fmt.Errorf("delete stack: %w", err)
	}
	return nil
}

func selectActions(ctx context.Context, tx *sql.Tx, stackID int64) ([]Action, error) {
	rows, err := tx.QueryContext(ctx, SelectActionsByStackSQL, stackID)
	if err != nil {
		return nil, fmt.Errorf("select actions: %w", err)
	}
	defer rows.Close()

	var out []Action
	for rows.Next() {
		var a Action
		if err := rows.Scan(&a.ID, &a.StackID, &a.Name, &a.Start, &a.End, &a.Cyclic, &a.Motion); err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func selectTracks(ctx context.Context, tx *sql.Tx, stackID int64) ([]Track, error) {
	rows, err := tx.QueryContext(ctx, SelectTracksByStackSQL, stackID)
	if err != nil {
		return nil, fmt.Errorf("select tracks: %w", err)
	}
	defer rows.Close()

	var out []Track
	for rows.Next() {
		var t Track
		if err := rows.Scan(&t.ID, &t.StackID, &t.Position, &t.UID, &t.Name, &t.Flags); err != nil {
			return nil, fmt.Errorf("scan track: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func selectStrips(ctx context.Context, tx *sql.Tx, stackID int64) ([]Strip, error) {
	rows, err := tx.QueryContext(ctx, SelectStripsByStackSQL, stackID)
	if err != nil {
		return nil, fmt.Errorf("select strips: %w", err)
	}
	defer rows.Close()

	var out []Strip
	for rows.Next() {
		var s Strip
		if err := rows.Scan(&s.ID, &s.TrackID, &s.ParentID, &s.Position, &s.UID, &s.Name, &s.Kind, &s.Action,
			&s.Start, &s.End, &s.ActStart, &s.ActEnd, &s.Scale, &s.Repeat, &s.Flags,
			&s.BlendIn, &s.BlendOut, &s.Influence, &s.Extend, &s.Blend, &s.Curves); err != nil {
			return nil, fmt.Errorf("scan strip: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func joinFlags(flags []string) string {
	return strings.Join(flags, ",")
}

// splitFlags always returns a non-nil slice so stored rows never fall back
// to default flags.
func splitFlags(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}
