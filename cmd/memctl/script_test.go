package main

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/memkit/heap/alloc"
)

func TestParseScript(t *testing.T) {
	src := `# warm up
alloc buf 128
alloc idx 16 best-fit

free buf
dump
CHECK
`
	steps, err := ParseScript(strings.NewReader(src), alloc.NextFit)
	require.NoError(t, err)
	require.Len(t, steps, 5)

	assert.Equal(t, Step{Line: 2, Op: "alloc", Name: "buf", Size: 128, Strategy: alloc.NextFit}, steps[0])
	assert.Equal(t, Step{Line: 3, Op: "alloc", Name: "idx", Size: 16, Strategy: alloc.BestFit, Explicit: true}, steps[1])
	assert.Equal(t, "free", steps[2].Op)
	assert.Equal(t, 5, steps[2].Line)
	assert.Equal(t, "check", steps[4].Op)
}

func TestParseScriptErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"missing size", "alloc buf", "line 1: usage: alloc"},
		{"bad size", "alloc buf many", `bad size "many"`},
		{"bad strategy", "alloc buf 8 worst", "unknown strategy"},
		{"free arity", "free", "usage: free"},
		{"dump arity", "\ndump now", "line 2: dump takes no arguments"},
		{"unknown", "realloc buf 8", `unknown command "realloc"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseScript(strings.NewReader(tc.src), alloc.FirstFit)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestSessionReplay(t *testing.T) {
	resetFlags(t)
	a, err := alloc.New()
	require.NoError(t, err)
	defer a.Close()

	steps, err := ParseScript(strings.NewReader("alloc a 32\nalloc b 32\nfree a\nfree b\ncheck\n"), alloc.FirstFit)
	require.NoError(t, err)

	sess := newSession(a, "s.mem", io.Discard)
	require.NoError(t, sess.run(steps))
	assert.Zero(t, sess.failures)

	blocks, err := a.Dump()
	require.NoError(t, err)
	assert.Len(t, blocks, 1)
}

func TestSessionForcedStrategy(t *testing.T) {
	resetFlags(t)
	a, err := alloc.New()
	require.NoError(t, err)
	defer a.Close()

	steps, err := ParseScript(strings.NewReader("alloc a 32 next\n"), alloc.FirstFit)
	require.NoError(t, err)

	sess := newSession(a, "s.mem", io.Discard)
	forced := alloc.BestFit
	sess.force = &forced
	require.NoError(t, sess.run(steps))
	assert.Equal(t, 1, a.Stats().AllocCalls)
}

func TestSessionUnknownVariable(t *testing.T) {
	resetFlags(t)
	a, err := alloc.New()
	require.NoError(t, err)
	defer a.Close()

	sess := newSession(a, "s.mem", io.Discard)
	sess.keepGoing = true
	err = sess.run([]Step{{Line: 4, Op: "free", Name: "ghost"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `s.mem:4: free of unknown variable "ghost"`)
}
