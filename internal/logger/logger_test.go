package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T, verboseMode bool) *bytes.Buffer {
	t.Helper()
	buf := new(bytes.Buffer)
	SetOutput(buf)
	SetVerbose(verboseMode)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetVerbose(false)
	})
	return buf
}

func TestQuietModeOnlyPrintsWarnings(t *testing.T) {
	buf := capture(t, false)

	Debug("resolved %d", 3)
	Info("seeded %d", 2)
	Section("Tasks")
	Warn("record %d skipped", 7)

	assert.Equal(t, "[WARN] record 7 skipped\n", buf.String())
	assert.False(t, IsVerbose())
}

func TestVerboseModePrintsEverything(t *testing.T) {
	buf := capture(t, true)

	Section("Resume")
	Debug("resolved %q", "Hawaii")
	Info("seeded %d", 2)

	out := buf.String()
	assert.Contains(t, out, "=== Resume ===")
	assert.Contains(t, out, `[DEBUG] resolved "Hawaii"`)
	assert.Contains(t, out, "[INFO] seeded 2")
	assert.True(t, IsVerbose())
}
