package db

import (
	_ "embed"
)

// Schema

//go:embed sql/create_tables.sql
var CreateTablesSQL string

// Stack queries

//go:embed sql/insert_stack.sql
var InsertStackSQL string

//go:embed sql/select_stack_by_name.sql
var SelectStackByNameSQL string

//go:embed sql/select_stacks.sql
var SelectStacksSQL string

//go:embed sql/delete_stack.sql
var DeleteStackSQL string

// Stack child table delete queries

//go:embed sql/delete_strips_by_stack.sql
var DeleteStripsByStackSQL string

//go:embed sql/delete_tracks_by_stack.sql
var DeleteTracksByStackSQL string

//go:embed sql/delete_actions_by_stack.sql
var DeleteActionsByStackSQL string

// Action queries

//go:embed sql/insert_action.sql
var InsertActionSQL string

//go:embed sql/select_actions_by_stack.sql
var SelectActionsByStackSQL string

// Track queries

//go:embed sql/insert_track.sql
var InsertTrackSQL string

//go:embed sql/select_tracks_by_stack.sql
var SelectTracksByStackSQL string

// Strip queries

//go:embed sql/insert_strip.sql
var InsertStripSQL string

//go:embed sql/select_strips_by_stack.sql
var SelectStripsByStackSQL string
