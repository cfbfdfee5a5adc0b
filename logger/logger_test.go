package logger

import (
	"bytes"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetVerbose(false)
		now = time.Now
	})
	return &buf
}

func TestInfo_WritesFields(t *testing.T) {
	buf := capture(t)

	New().With("run", "abc").Info("published", "zeros", 0, "path", "/params")

	assert.Equal(t, "time=2026-01-02T03:04:05.000Z level=INFO msg=published run=abc zeros=0 path=/params\n", buf.String())
}

func TestDebug_HiddenUnlessVerbose(t *testing.T) {
	buf := capture(t)

	New().Debug("hidden")
	assert.Empty(t, buf.String())

	SetVerbose(true)
	New().Debug("shown")
	assert.Contains(t, buf.String(), "level=DEBUG msg=shown")
}

func TestQuoting(t *testing.T) {
	buf := capture(t)

	New().Error("run failed", "err", errors.New("dial tcp: refused"))

	assert.Equal(t, "time=2026-01-02T03:04:05.000Z level=ERROR msg=\"run failed\" err=\"dial tcp: refused\"\n", buf.String())
}

func TestDurationRounded(t *testing.T) {
	buf := capture(t)

	New().Info("done", "elapsed", 1234567*time.Microsecond)

	assert.Contains(t, buf.String(), "elapsed=1.235s")
}

func TestSetOutput_ReachesExistingLoggers(t *testing.T) {
	log := New().With("run", "abc")
	buf := capture(t)

	log.Warn("update skipped")

	assert.Contains(t, buf.String(), "level=WARN msg=\"update skipped\" run=abc")
}
