package nla

import "strings"

// Flag and enum names as they appear in scene documents and CLI output.

var stripFlagNames = []struct {
	flag StripFlag
	name string
}{
	{StripSelected, "selected"},
	{StripActive, "active"},
	{StripReversed, "reversed"},
	{StripSyncLength, "sync_length"},
	{StripUserTime, "user_time"},
	{StripUserInfluence, "user_influence"},
	{StripTempMeta, "temp_meta"},
	{StripTweakUser, "tweak_user"},
	{StripAutoBlends, "auto_blends"},
	{StripCyclic, "cyclic"},
	{StripMuted, "muted"},
}

var trackFlagNames = []struct {
	flag TrackFlag
	name string
}{
	{TrackActive, "active"},
	{TrackSelected, "selected"},
	{TrackMuted, "muted"},
	{TrackSolo, "solo"},
	{TrackProtected, "protected"},
	{TrackDisabled, "disabled"},
	{TrackOverrideLocal, "override_local"},
}

var stackFlagNames = []struct {
	flag StackFlag
	name string
}{
	{StackHasSolo, "has_solo"},
	{StackEvalUpperTracks, "eval_upper_tracks"},
	{StackTweakNoMap, "tweak_no_map"},
}

var extendNames = map[Extend]string{
	ExtendHold:        "hold",
	ExtendHoldForward: "hold_forward",
	ExtendNothing:     "nothing",
}

var blendNames = map[BlendMode]string{
	BlendReplace:  "replace",
	BlendCombine:  "combine",
	BlendAdd:      "add",
	BlendSubtract: "subtract",
	BlendMultiply: "multiply",
}

// Names lists the names of the set flags in declaration order.
func (f StripFlag) Names() []string {
	var out []string
	for _, n := range stripFlagNames {
		if f&n.flag != 0 {
			out = append(out, n.name)
		}
	}
	return out
}

func (f StripFlag) String() string { return strings.Join(f.Names(), "|") }

// ParseStripFlags combines named flags. ok is false on the first unknown name.
func ParseStripFlags(names []string) (f StripFlag, bad string, ok bool) {
	for _, name := range names {
		found := false
		for _, n := range stripFlagNames {
			if n.name == name {
				f |= n.flag
				found = true
				break
			}
		}
		if !found {
			return f, name, false
		}
	}
	return f, "", true
}

func (f TrackFlag) Names() []string {
	var out []string
	for _, n := range trackFlagNames {
		if f&n.flag != 0 {
			out = append(out, n.name)
		}
	}
	return out
}

func (f TrackFlag) String() string { return strings.Join(f.Names(), "|") }

func ParseTrackFlags(names []string) (f TrackFlag, bad string, ok bool) {
	for _, name := range names {
		found := false
		for _, n := range trackFlagNames {
			if n.name == name {
				f |= n.flag
				found = true
				break
			}
		}
		if !found {
			return f, name, false
		}
	}
	return f, "", true
}

func (f StackFlag) Names() []string {
	var out []string
	for _, n := range stackFlagNames {
		if f&n.flag != 0 {
			out = append(out, n.name)
		}
	}
	return out
}

func ParseStackFlags(names []string) (f StackFlag, bad string, ok bool) {
	for _, name := range names {
		found := false
		for _, n := range stackFlagNames {
			if n.name == name {
				f |= n.flag
				found = true
				break
			}
		}
		if !found {
			return f, name, false
		}
	}
	return f, "", true
}

func (e Extend) String() string { return extendNames[e] }

// ParseExtend accepts an extend mode name; empty means hold.
func ParseExtend(s string) (Extend, bool) {
	if s == "" {
		return ExtendHold, true
	}
	for e, name := range extendNames {
		if name == s {
			return e, true
		}
	}
	return ExtendHold, false
}

func (b BlendMode) String() string { return blendNames[b] }

// ParseBlendMode accepts a blend mode name; empty means replace.
func ParseBlendMode(s string) (BlendMode, bool) {
	if s == "" {
		return BlendReplace, true
	}
	for b, name := range blendNames {
		if name == s {
			return b, true
		}
	}
	return BlendReplace, false
}
