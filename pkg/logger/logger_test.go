package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":   DEBUG,
		"DEBUG":   DEBUG,
		" info ":  INFO,
		"warn":    WARN,
		"warning": WARN,
		"error":   ERROR,
		"fatal":   FATAL,
		"":        INFO,
		"verbose": INFO,
	}

	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), "input %q", in)
	}
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", DEBUG.String())
	assert.Equal(t, "FATAL", FATAL.String())
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}

func TestNewKeepsLevel(t *testing.T) {
	log := New(WARN)
	assert.Equal(t, WARN, log.Level())

	child := log.With("component", "test")
	assert.Equal(t, WARN, child.Level())

	// Must not panic on either API style
	child.Info("ignored %d", 1)
	child.Warnw("kept", "key", "value")
}

func TestNewNop(t *testing.T) {
	log := NewNop()
	log.Error("nothing %s", "happens")
	log.Errorw("nothing", "happens", true)
}
