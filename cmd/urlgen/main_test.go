package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamware/freqtop/internal/fault"
)

// TestRun tests argument handling and output
func TestRun(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		args     []string
		expected int
	}{
		{name: "no arguments", args: nil, expected: fault.ExitUsage},
		{name: "missing file argument", args: []string{"10"}, expected: fault.ExitUsage},
		{name: "bad total", args: []string{"many", filepath.Join(dir, "x")}, expected: fault.ExitUsage},
		{name: "unwritable path", args: []string{"10", filepath.Join(dir, "no", "such", "file")}, expected: fault.ExitResultCreate},
		{name: "success", args: []string{"-seed", "3", "250", filepath.Join(dir, "ok")}, expected: fault.ExitOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			assert.Equal(t, tt.expected, run(tt.args, &stderr), stderr.String())
		})
	}

	data, err := os.ReadFile(filepath.Join(dir, "ok"))
	require.NoError(t, err)
	assert.Equal(t, 250, strings.Count(string(data), "\n"))
}

// TestRunSeed verifies seeded runs are reproducible and the default seed is logged
func TestRunSeed(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")

	var stderr bytes.Buffer
	require.Equal(t, fault.ExitOK, run([]string{"-seed", "42", "100", a}, &stderr))
	require.Equal(t, fault.ExitOK, run([]string{"-seed", "42", "100", b}, &stderr))

	da, err := os.ReadFile(a)
	require.NoError(t, err)
	db, err := os.ReadFile(b)
	require.NoError(t, err)
	assert.Equal(t, da, db)

	orig := now
	defer func() { now = orig }()
	now = func() time.Time { return time.Unix(0, 777) }

	stderr.Reset()
	require.Equal(t, fault.ExitOK, run([]string{"5", filepath.Join(dir, "c")}, &stderr))
	assert.Contains(t, stderr.String(), "seed 777")
}
