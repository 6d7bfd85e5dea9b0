package debug

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogAndAssert(t *testing.T) {
	prevEnabled, prevLogger := enabled, logger
	t.Cleanup(func() { enabled, logger = prevEnabled, prevLogger })

	var buf bytes.Buffer
	SetEnabled(false)
	SetOutput(log.New(&buf, "", 0))
	Log("hidden %d", 1)
	require.False(t, Assert(false, "hidden"))
	require.Empty(t, buf.String())

	SetEnabled(true)
	require.True(t, Enabled())
	Log("strip %q moved", "Walk")
	require.True(t, Assert(true, "never shown"))
	x := 2.5
	require.False(t, Assert(x < 1, "bounds %g", x))
	require.Equal(t, "strip \"Walk\" moved\nassertion failed: bounds 2.5\n", buf.String())
}
