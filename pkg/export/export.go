// Package export writes strip lists for use outside the tool.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/user/nla-timeline-cli/nla"
	"github.com/user/nla-timeline-cli/pkg/frameutil"
)

// unsafeChars matches characters not safe for filenames: / \ : * ? < > | and spaces
var unsafeChars = regexp.MustCompile(`[/\\:*?<>|\s]`)

func sanitize(s string) string {
	return unsafeChars.ReplaceAllString(s, "_")
}

// BuildPath returns the output path for an export of a scene.
// Format: {dir}/exports/{sceneFilenameNoExt}/{name}.{ext}
func BuildPath(dir, scenePath, name, ext string) string {
	base := strings.TrimSuffix(filepath.Base(scenePath), filepath.Ext(scenePath))
	if name == "" {
		name = base
	}
	return filepath.Join(dir, "exports", sanitize(base), sanitize(name)+"."+ext)
}

// Header is the first CSV row written by WriteCSV.
var Header = []string{"track", "depth", "strip", "kind", "action", "start", "end", "start_tc", "end_tc", "influence", "blend", "flags"}

// WriteCSV writes one row per strip, tracks bottom to top, meta children
// after their parent with a higher depth. Timecodes use fps.
func WriteCSV(w io.Writer, st *nla.Stack, fps float64) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	var werr error
	st.Walk(func(t *nla.Track, s *nla.Strip, depth int) bool {
		if s == nil {
			return true
		}
		act := ""
		if a := s.Action(); a != nil {
			act = a.Name()
		}
		row := []string{
			t.Name,
			fmt.Sprint(depth),
			s.Name,
			s.Kind.String(),
			act,
			frameutil.FormatFrame(s.Start),
			frameutil.FormatFrame(s.End),
			frameutil.FormatTimecode(s.Start, fps),
			frameutil.FormatTimecode(s.End, fps),
			fmt.Sprintf("%.2f", s.Influence),
			s.Blend.String(),
			s.Flags.String(),
		}
		if err := cw.Write(row); err != nil {
			werr = fmt.Errorf("write csv row %q: %w", s.Name, err)
			return false
		}
		return true
	})
	if werr != nil {
		return werr
	}
	cw.Flush()
	return cw.Error()
}
