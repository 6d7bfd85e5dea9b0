package frameutil

import (
	"fmt"
	"math"
	"strings"
)

// FormatTimecode formats a frame as H:MM:SS+FF at the given frame rate
// (e.g. 0:00:01+12 for frame 36 at 24 fps). Negative frames are
// prefixed with '-'.
func FormatTimecode(frame, fps float64) string {
	if fps <= 0 {
		return FormatFrame(frame)
	}
	sign := ""
	if frame < 0 {
		sign = "-"
		frame = -frame
	}
	total := int(math.Floor(frame))
	perSec := int(math.Round(fps))
	if perSec < 1 {
		perSec = 1
	}
	secs := total / perSec
	ff := total % perSec
	return fmt.Sprintf("%s%d:%02d:%02d+%02d", sign, secs/3600, (secs%3600)/60, secs%60, ff)
}

// FormatFrame formats a frame number, dropping a zero fraction.
func FormatFrame(frame float64) string {
	if frame == math.Trunc(frame) {
		return fmt.Sprintf("%.0f", frame)
	}
	return fmt.Sprintf("%.2f", frame)
}

// ParseFrame parses a frame given as H:MM:SS, MM:SS, or a raw frame number.
// Timecodes are converted with fps and may carry a +FF frame offset.
// Uses colon count: 2 colons = H:M:S, 1 colon = M:S, 0 colons = raw frame.
func ParseFrame(s string, fps float64) (float64, error) {
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "-")
	body := strings.TrimPrefix(s, "-")

	colons := strings.Count(body, ":")
	if colons == 0 {
		var f float64
		if n, err := fmt.Sscanf(s, "%g", &f); n == 1 && err == nil {
			return f, nil
		}
		return 0, fmt.Errorf("expected H:MM:SS, MM:SS, or a frame number, got '%s'", s)
	}
	if fps <= 0 {
		return 0, fmt.Errorf("timecode '%s' needs a positive fps", s)
	}

	clock, extra, hasExtra := strings.Cut(body, "+")
	var frames int
	if hasExtra {
		if n, err := fmt.Sscanf(extra, "%d", &frames); n != 1 || err != nil || frames < 0 {
			return 0, fmt.Errorf("bad frame offset in '%s'", s)
		}
	}

	var seconds int
	switch colons {
	case 2:
		var hours, minutes, secs int
		if n, err := fmt.Sscanf(clock, "%d:%d:%d", &hours, &minutes, &secs); n != 3 || err != nil {
			return 0, fmt.Errorf("expected H:MM:SS, got '%s'", s)
		}
		seconds = hours*3600 + minutes*60 + secs
	case 1:
		var minutes, secs int
		if n, err := fmt.Sscanf(clock, "%d:%d", &minutes, &secs); n != 2 || err != nil {
			return 0, fmt.Errorf("expected MM:SS, got '%s'", s)
		}
		seconds = minutes*60 + secs
	default:
		return 0, fmt.Errorf("expected H:MM:SS, MM:SS, or a frame number, got '%s'", s)
	}

	f := float64(seconds)*fps + float64(frames)
	if neg {
		f = -f
	}
	return f, nil
}
