package report

import (
	"bytes"
	"strings"
	"testing"

	"primebench/internal/sweep"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweep(t *testing.T) {
	differ := sample()
	differ.Equal = false
	differ.FirstMismatch = 4

	results := []sweep.Result{
		{CaseID: "n6-t6", Success: true, Report: sample()},
		{CaseID: "n6-t3", Success: true, Report: differ},
		{CaseID: "too-wide", Error: "worker creation failed: 9 workers requested, limit is 8"},
	}

	var buf bytes.Buffer
	require.NoError(t, Sweep(&buf, results, LightTheme()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "SPEEDUP")
	assert.Contains(t, lines[1], "n6-t6")
	assert.Contains(t, lines[1], "2.000")
	assert.Contains(t, lines[1], "EQUAL")
	assert.Contains(t, lines[2], "DIFFERENT at 4")
	assert.NotContains(t, lines[2], "FAIL")
	assert.Contains(t, lines[3], "FAIL: worker creation failed")
}

func TestSweep_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Sweep(&buf, nil, DarkTheme()))
	assert.Contains(t, buf.String(), "no cases run")
}
