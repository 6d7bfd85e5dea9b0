// Package debug provides conditional diagnostic logging for the NLA engine.
//
// Diagnostics are enabled by setting the NLA_DEBUG environment variable:
//
//	NLA_DEBUG=1 nla validate scene.yaml
//
// When disabled (default), all functions are no-ops.
package debug

import (
	"fmt"
	"log"
	"os"
)

var (
	// enabled is true when NLA_DEBUG env var is set
	enabled bool
	// logger writes to stderr with [NLA] prefix
	logger *log.Logger
)

func init() {
	if os.Getenv("NLA_DEBUG") != "" {
		enabled = true
		logger = log.New(os.Stderr, "[NLA] ", log.Ltime|log.Lmicroseconds)
	}
}

// Enabled returns whether diagnostic logging is enabled.
func Enabled() bool {
	return enabled
}

// SetEnabled allows programmatic control of diagnostic logging.
func SetEnabled(e bool) {
	enabled = e
	if e && logger == nil {
		logger = log.New(os.Stderr, "[NLA] ", log.Ltime|log.Lmicroseconds)
	}
}

// SetOutput redirects diagnostics, mostly for tests.
func SetOutput(l *log.Logger) {
	logger = l
}

// Log writes a diagnostic message if logging is enabled.
func Log(format string, args ...any) {
	if !enabled || logger == nil {
		return
	}
	logger.Printf(format, args...)
}

// Assert reports a broken invariant. It never panics: callers degrade
// gracefully (return early or skip) after a failed assertion.
func Assert(cond bool, format string, args ...any) bool {
	if cond {
		return true
	}
	if enabled && logger != nil {
		logger.Printf("assertion failed: %s", fmt.Sprintf(format, args...))
	}
	return false
}
