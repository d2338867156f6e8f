package stdc

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestLogLevelFromVerbosity(t *testing.T) {
	assert.Equal(t, log.InfoLevel, LogLevelFromVerbosity(0, 0))
	assert.Equal(t, log.DebugLevel, LogLevelFromVerbosity(1, 0))
	assert.Equal(t, log.DebugLevel, LogLevelFromVerbosity(5, 0))
	assert.Equal(t, log.WarnLevel, LogLevelFromVerbosity(0, 1))
	assert.Equal(t, log.ErrorLevel, LogLevelFromVerbosity(0, 7))
	assert.Equal(t, log.InfoLevel, LogLevelFromVerbosity(2, 2))
}

func TestSetLogger(t *testing.T) {
	var saved = Logger()
	t.Cleanup(func() { SetLogger(saved) })

	var buf bytes.Buffer
	SetLogger(NewLogger(&buf, log.WarnLevel))

	var d = newTestDemodulator(t, DefaultSettings())
	assert.Error(t, d.ApplySettings([]string{"nope"}, DefaultSettings(), false))

	assert.Contains(t, buf.String(), "settings rejected")
	assert.Contains(t, buf.String(), "stdc")
}

func TestPrintVersion(t *testing.T) {
	var buf bytes.Buffer
	PrintVersion(&buf, "stdcdemod", false)

	assert.Contains(t, buf.String(), "stdcdemod - Version ")
	assert.NotContains(t, buf.String(), "BuildInfo")

	buf.Reset()
	PrintVersion(&buf, "stdcgen", true)
	assert.Contains(t, buf.String(), "BuildInfo")
}
