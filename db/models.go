package db

import "time"

// Stack represents a row in the stacks table.
type Stack struct {
	ID          int64
	Name        string
	Flags       string
	Action      string
	Influence   float64
	Blend       string
	Extend      string
	ActiveTrack string
	ActiveStrip string
	TweakTrack  string
	TweakStrip  string
	UpdatedAt   time.Time
}

// StackSummary is one line of ListStacks.
type StackSummary struct {
	ID         int64
	Name       string
	UpdatedAt  time.Time
	TrackCount int
	StripCount int
}

// Action represents a row in the actions table.
type Action struct {
	ID      int64
	StackID int64
	Name    string
	Start   float64
	End     float64
	Cyclic  bool
	Motion  bool
}

// Track represents a row in the tracks table.
type Track struct {
	ID       int64
	StackID  int64
	Position int
	UID      string
	Name     string
	Flags    string
}

// Strip represents a row in the strips table. ParentID is set for the
// children of a meta strip.
type Strip struct {
	ID        int64
	TrackID   int64
	ParentID  *int64
	Position  int
	UID       string
	Name      string
	Kind      string
	Action    string
	Start     float64
	End       float64
	ActStart  *float64
	ActEnd    *float64
	Scale     float64
	Repeat    float64
	Flags     string
	BlendIn   float64
	BlendOut  float64
	Influence float64
	Extend    string
	Blend     string
	Curves    string
}
