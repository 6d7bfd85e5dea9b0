package scene

// Document is the on-disk form of a scene: the clip library and one stack.
type Document struct {
	Actions []ActionDoc `yaml:"actions" json:"actions"`
	Stack   StackDoc    `yaml:"stack" json:"stack"`
}

// ActionDoc describes one clip. Motion defaults to true when omitted.
type ActionDoc struct {
	Name   string  `yaml:"name" json:"name"`
	Start  float64 `yaml:"start" json:"start"`
	End    float64 `yaml:"end" json:"end"`
	Cyclic bool    `yaml:"cyclic,omitempty" json:"cyclic,omitempty"`
	Motion *bool   `yaml:"motion,omitempty" json:"motion,omitempty"`
}

// StackDoc describes the track stack and its live clip. ActiveStrip holds
// a strip ID; a strip name is accepted too, for hand-written files.
type StackDoc struct {
	Action      string     `yaml:"action,omitempty" json:"action,omitempty"`
	Flags       []string   `yaml:"flags,omitempty" json:"flags,omitempty"`
	Influence   *float64   `yaml:"influence,omitempty" json:"influence,omitempty"`
	Blend       string     `yaml:"blend,omitempty" json:"blend,omitempty"`
	Extend      string     `yaml:"extend,omitempty" json:"extend,omitempty"`
	ActiveTrack string     `yaml:"active_track,omitempty" json:"active_track,omitempty"`
	ActiveStrip string     `yaml:"active_strip,omitempty" json:"active_strip,omitempty"`
	Tweak       *TweakDoc  `yaml:"tweak,omitempty" json:"tweak,omitempty"`
	Tracks      []TrackDoc `yaml:"tracks" json:"tracks"`
}

// TweakDoc records an open tweak session. The live clip in StackDoc is
// the parked one; the session is re-entered on load. Strip is an ID or,
// failing that, a name.
type TweakDoc struct {
	Track string `yaml:"track" json:"track"`
	Strip string `yaml:"strip" json:"strip"`
}

// TrackDoc describes one track, bottom to top.
type TrackDoc struct {
	ID     string     `yaml:"id,omitempty" json:"id,omitempty"`
	Name   string     `yaml:"name" json:"name"`
	Flags  []string   `yaml:"flags" json:"flags"`
	Strips []StripDoc `yaml:"strips,omitempty" json:"strips,omitempty"`
}

// StripDoc describes one strip. Zero scale and repeat read as 1, a missing
// influence as 1. Missing flags (as opposed to an empty list) take the
// defaults of a new strip of that kind; the same holds for tracks.
type StripDoc struct {
	ID        string     `yaml:"id,omitempty" json:"id,omitempty"`
	Name      string     `yaml:"name,omitempty" json:"name,omitempty"`
	Kind      string     `yaml:"kind,omitempty" json:"kind,omitempty"`
	Action    string     `yaml:"action,omitempty" json:"action,omitempty"`
	Start     float64    `yaml:"start" json:"start"`
	End       float64    `yaml:"end" json:"end"`
	ActStart  *float64   `yaml:"act_start,omitempty" json:"act_start,omitempty"`
	ActEnd    *float64   `yaml:"act_end,omitempty" json:"act_end,omitempty"`
	Scale     float64    `yaml:"scale,omitempty" json:"scale,omitempty"`
	Repeat    float64    `yaml:"repeat,omitempty" json:"repeat,omitempty"`
	Flags     []string   `yaml:"flags" json:"flags"`
	BlendIn   float64    `yaml:"blend_in,omitempty" json:"blend_in,omitempty"`
	BlendOut  float64    `yaml:"blend_out,omitempty" json:"blend_out,omitempty"`
	Influence *float64   `yaml:"influence,omitempty" json:"influence,omitempty"`
	Extend    string     `yaml:"extend,omitempty" json:"extend,omitempty"`
	Blend     string     `yaml:"blend,omitempty" json:"blend,omitempty"`
	Curves    []CurveDoc `yaml:"curves,omitempty" json:"curves,omitempty"`
	Children  []StripDoc `yaml:"children,omitempty" json:"children,omitempty"`
}

// CurveDoc is a per-strip control curve as [frame, value] pairs.
type CurveDoc struct {
	Property string       `yaml:"property" json:"property"`
	Keys     [][2]float64 `yaml:"keys" json:"keys"`
}
