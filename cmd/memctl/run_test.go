package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/memkit/heap/alloc"
)

const doubleFreeScript = `alloc p 100 best
free p
free p
`

func TestRunCommand(t *testing.T) {
	resetFlags(t)
	runDump = true
	path := writeScript(t, "alloc p 100\nalloc q 24\nfree q\n")

	output, err := captureOutput(t, func() error { return runRun([]string{path}) })
	require.NoError(t, err)

	assert.Contains(t, output, "Allocation Table:")
	assert.Contains(t, output, "work.mem:1 (p)")
	assert.NotContains(t, output, "(q)")
	assert.Contains(t, output, "3 steps, 0 failed")
}

func TestRunStopsOnDoubleFree(t *testing.T) {
	resetFlags(t)
	path := writeScript(t, doubleFreeScript)

	_, err := captureOutput(t, func() error { return runRun([]string{path}) })
	require.ErrorIs(t, err, alloc.ErrDoubleFree)
	assert.Contains(t, err.Error(), "work.mem:3:")
	assert.Contains(t, err.Error(), "p at work.mem:3")
}

func TestRunKeepGoing(t *testing.T) {
	resetFlags(t)
	runKeepGoing = true
	path := writeScript(t, doubleFreeScript)

	output, err := captureOutput(t, func() error { return runRun([]string{path}) })
	require.NoError(t, err)
	assert.Contains(t, output, "3 steps, 1 failed")
}

func TestRunWritesMetrics(t *testing.T) {
	resetFlags(t)
	runKeepGoing = true
	runMetricsFile = filepath.Join(t.TempDir(), "arena.prom")
	path := writeScript(t, doubleFreeScript)

	_, err := captureOutput(t, func() error { return runRun([]string{path}) })
	require.NoError(t, err)

	data, err := os.ReadFile(runMetricsFile)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, `memkit_allocations_total{status="ok",strategy="best-fit"} 1`)
	assert.Contains(t, text, `memkit_frees_total{status="double_free"} 1`)
	assert.Contains(t, text, `memkit_arena_capacity_bytes{script="work.mem"} 10240`)
}

func TestRunRejectsBadFlags(t *testing.T) {
	resetFlags(t)
	path := writeScript(t, "alloc p 8\n")

	strategyName = "worst-fit"
	_, err := captureOutput(t, func() error { return runRun([]string{path}) })
	require.ErrorIs(t, err, alloc.ErrInvalidArgument)

	resetFlags(t)
	arenaCapacity = 100
	_, err = captureOutput(t, func() error { return runRun([]string{path}) })
	require.ErrorIs(t, err, alloc.ErrInvalidArgument)
}

func TestVersionCommand(t *testing.T) {
	resetFlags(t)
	output, err := captureOutput(t, func() error {
		versionCmd.Run(versionCmd, nil)
		return nil
	})
	require.NoError(t, err)
	assert.Contains(t, output, "memctl dev")
}
