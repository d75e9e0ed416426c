package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, "warn", true)
	log.Info("table_built", "cells", 12)
	log.Warn("cache_miss", "key", "assurance/22/0")

	out := buf.String()
	assert.NotContains(t, out, "table_built")
	assert.Contains(t, out, "cache_miss")
	assert.Contains(t, out, "key=assurance/22/0")
}

func TestUnknownLevelIsInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, "chatty", true)
	assert.Equal(t, Info, log.Level())
	log.Debug("hidden")
	log.Info("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, "debug", true).With("cmd", "table")
	log.Debug("start")
	assert.Contains(t, buf.String(), "cmd=table")
}
