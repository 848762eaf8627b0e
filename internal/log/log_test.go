package log

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerPrefixAndLevel(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	l := ForService("prefix-test")
	l.Infof("loaded %d entries", 3)
	l.Warnf("slow")
	l.Errorf("boom")

	out := buf.String()
	assert.Contains(t, out, "INFO [prefix-test>] loaded 3 entries")
	assert.Contains(t, out, "WARN [prefix-test>] slow")
	assert.Contains(t, out, "ERROR [prefix-test>] boom")
}

func TestForServiceIsMemoized(t *testing.T) {
	assert.Same(t, ForService("memo"), ForService("memo"))
	assert.Same(t, ForService(""), ForService("unknown"))
}

func TestDebugPerService(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	quiet := ForService("debug-quiet")
	loud := ForService("debug-loud")
	EnableDebugFor("debug-loud")

	quiet.Debugf("hidden")
	loud.Debugf("shown")

	out := buf.String()
	assert.False(t, strings.Contains(out, "hidden"), "debug output should be off by default")
	assert.Contains(t, out, "DEBUG [debug-loud>] shown")

	SetGlobalDebug(true)
	defer SetGlobalDebug(false)
	quiet.Debugf("now visible")
	assert.Contains(t, buf.String(), "now visible")
}
