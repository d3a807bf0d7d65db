package meshtrace

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLogger_LevelsAndPrefix(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewLoggerTo(&out, &errOut, "run1", false)

	l.Debugf("hidden %d", 1)
	l.Infof("loaded %d objects", 3)
	l.Warnf("unknown material %q", "red")
	l.Errorf("boom")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "[run1] INFO: loaded 3 objects")
	assert.Contains(t, errOut.String(), `[run1] WARN: unknown material "red"`)
	assert.Contains(t, errOut.String(), "[run1] ERROR: boom")

	l.SetDebug(true)
	assert.True(t, l.DebugEnabled())
	l.Debugf("shown")
	assert.Contains(t, out.String(), "[run1] DEBUG: shown")
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
	assert.False(t, OrNop(nil).DebugEnabled())

	l := NewLoggerTo(&bytes.Buffer{}, &bytes.Buffer{}, "", true)
	assert.Same(t, l, OrNop(l))
}
