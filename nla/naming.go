package nla

import (
	"fmt"
	"strings"
)

// UniqueName returns name unchanged if it is free, otherwise the first free
// "<base>.NNN" variant. An existing numeric suffix on name is dropped first,
// so a taken "Track.002" becomes "Track.001" when that one is free.
func UniqueName(name string, taken func(string) bool) string {
	if !taken(name) {
		return name
	}
	base := trimNumericSuffix(name)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s.%03d", base, i)
		if !taken(candidate) {
			return candidate
		}
	}
}

func trimNumericSuffix(name string) string {
	dot := strings.LastIndexByte(name, '.')
	if dot <= 0 || dot == len(name)-1 {
		return name
	}
	for _, r := range name[dot+1:] {
		if r < '0' || r > '9' {
			return name
		}
	}
	return name[:dot]
}
