package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/memkit/heap/alloc"
)

// writeScript stores body as work.mem in a temp dir and returns its path.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "work.mem")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// captureOutput redirects command output while fn runs.
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	orig := stdout
	stdout = &buf
	defer func() { stdout = orig }()
	err := fn()
	return buf.String(), err
}

// resetFlags restores every flag variable to its default.
func resetFlags(t *testing.T) {
	t.Helper()
	verbose, quiet, jsonOut, logJSON = false, false, false, false
	arenaCapacity = alloc.DefaultCapacity
	arenaMapped = false
	strategyName = "first-fit"
	runKeepGoing = false
	runDump = false
	runMetricsFile = ""
}
