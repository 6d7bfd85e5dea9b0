package nla

import "math"

// TimeMode selects the direction of a strip time conversion.
type TimeMode int

const (
	// TimeEval converts scene time to clip time for playback, snapping the
	// last frame of whole repeats to the clip end.
	TimeEval TimeMode = iota
	// TimeUnmap converts scene time to clip time.
	TimeUnmap
	// TimeMap converts clip time to scene time.
	TimeMap
)

func (m TimeMode) String() string {
	switch m {
	case TimeEval:
		return "eval"
	case TimeUnmap:
		return "unmap"
	case TimeMap:
		return "map"
	}
	return "unknown"
}

// ClipLength is the length of the used clip range, 1 when degenerate.
func ClipLength(s *Strip) float64 {
	if s.ActEnd <= s.ActStart {
		return 1
	}
	return s.ActEnd - s.ActStart
}

// EnsureNonzero returns actEnd, or actStart+1 when the range is empty or inverted.
func EnsureNonzero(actStart, actEnd float64) float64 {
	if actEnd <= actStart {
		return actStart + 1
	}
	return actEnd
}

// StripTime converts t between scene time and the strip's local time.
// Meta strips share the transition mapping; their children map on their own.
func StripTime(s *Strip, t float64, mode TimeMode) float64 {
	switch s.Kind {
	case KindMeta, KindTransition:
		return transitionTime(s, t, mode)
	default:
		return clipTime(s, t, mode)
	}
}

func clipTime(s *Strip, t float64, mode TimeMode) float64 {
	if floatEq(s.Repeat, 0) {
		s.Repeat = 1
	}
	if floatEq(s.Scale, 0) {
		s.Scale = 1
	}
	// Direction comes from the reversed flag, never from the sign of scale.
	scale := math.Abs(s.Scale)
	actStart := s.ActStart
	actEnd := EnsureNonzero(actStart, s.ActEnd)
	length := actEnd - actStart
	wholeRepeat := floatEq(s.Repeat, math.Floor(s.Repeat))

	if s.Has(StripReversed) {
		switch mode {
		case TimeMap:
			return s.End - scale*(t-actStart)
		case TimeUnmap:
			return (s.End + (actStart*scale - t)) / scale
		}
		if floatEq(t, s.End) && wholeRepeat {
			return actStart
		}
		return actEnd - math.Mod(t-s.Start, length*scale)/scale
	}

	switch mode {
	case TimeMap:
		return s.Start + scale*(t-actStart)
	case TimeUnmap:
		return actStart + (t-s.Start)/scale
	}
	if floatEq(t, s.End) && wholeRepeat {
		return actEnd
	}
	return actStart + math.Mod(t-s.Start, length*scale)/scale
}

func transitionTime(s *Strip, t float64, mode TimeMode) float64 {
	length := s.End - s.Start
	if floatEq(length, 0) {
		length = 1
	}
	if s.Has(StripReversed) {
		if mode == TimeMap {
			return s.End - length*t
		}
		return (s.End - t) / length
	}
	if mode == TimeMap {
		return length*t + s.Start
	}
	return (t - s.Start) / length
}
