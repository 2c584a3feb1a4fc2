package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCLIOverrides(t *testing.T) {
	got := cliOverrides("mask", 0.7, true, true, true, true, "debug")
	assert.Equal(t, map[string]any{"strategy": "mask"}, got["anonymization"])
	assert.Equal(t, map[string]any{"confidence_threshold": 0.7}, got["detection"])
	assert.Equal(t, map[string]any{"enabled": true}, got["llm_detection"])
	assert.Equal(t, map[string]any{
		"create_audit_log": false,
		"backup_original":  true,
		"recursive":        true,
	}, got["processing"])
	assert.Equal(t, map[string]any{"level": "debug"}, got["logging"])
}

func TestCLIOverridesEmptyWhenUnset(t *testing.T) {
	assert.Empty(t, cliOverrides("", -1, false, false, false, false, ""))
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"EMAIL", "PERSON"}, splitList("EMAIL, PERSON,"))
}
