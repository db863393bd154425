package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joshuapare/memkit/heap/alloc"
	"github.com/joshuapare/memkit/heap/printer"
)

// Script syntax, one command per line:
//
//	alloc <name> <size> [strategy]
//	free <name>
//	dump
//	stats
//	check
//	init
//
// Blank lines and lines starting with '#' are ignored.

// Step is one parsed script line.
type Step struct {
	Line     int
	Op       string
	Name     string
	Size     int
	Strategy alloc.Strategy
	Explicit bool // Strategy was given on the line
}

// ParseScript reads a script. Steps without a strategy use def.
func ParseScript(r io.Reader, def alloc.Strategy) ([]Step, error) {
	var steps []Step
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		step := Step{Line: line, Op: strings.ToLower(fields[0]), Strategy: def}
		args := fields[1:]

		switch step.Op {
		case "alloc":
			if len(args) < 2 || len(args) > 3 {
				return nil, fmt.Errorf("line %d: usage: alloc <name> <size> [strategy]", line)
			}
			size, err := strconv.Atoi(args[1])
			if err != nil {
				return nil, fmt.Errorf("line %d: bad size %q: %w", line, args[1], err)
			}
			step.Name, step.Size = args[0], size
			if len(args) == 3 {
				s, err := alloc.ParseStrategy(args[2])
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", line, err)
				}
				step.Strategy, step.Explicit = s, true
			}
		case "free":
			if len(args) != 1 {
				return nil, fmt.Errorf("line %d: usage: free <name>", line)
			}
			step.Name = args[0]
		case "dump", "stats", "check", "init":
			if len(args) != 0 {
				return nil, fmt.Errorf("line %d: %s takes no arguments", line, step.Op)
			}
		default:
			return nil, fmt.Errorf("line %d: unknown command %q", line, fields[0])
		}
		steps = append(steps, step)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return steps, nil
}

// session replays steps against one allocator.
type session struct {
	a         *alloc.Allocator
	file      string
	vars      map[string]alloc.Addr
	keepGoing bool
	force     *alloc.Strategy // overrides every step's strategy
	out       io.Writer
	errOut    io.Writer
	popts     printer.Options
	failures  int
}

func newSession(a *alloc.Allocator, file string, out io.Writer) *session {
	popts := printer.DefaultOptions()
	if jsonOut {
		popts.Format = printer.FormatJSON
	}
	return &session{
		a:     a,
		file:  file,
		vars:   make(map[string]alloc.Addr),
		out:    out,
		errOut: os.Stderr,
		popts:  popts,
	}
}

// run executes every step. Allocator errors stop the replay unless keepGoing
// is set, in which case they are counted and reported to stderr.
func (s *session) run(steps []Step) error {
	for _, st := range steps {
		err := s.step(st)
		if err == nil {
			continue
		}
		s.failures++
		if !s.keepGoing || !isAllocatorError(err) {
			return fmt.Errorf("%s:%d: %w", s.file, st.Line, err)
		}
		fmt.Fprintf(s.errOut, "Error: %s:%d: %v\n", s.file, st.Line, err)
	}
	return nil
}

func (s *session) step(st Step) error {
	tag := alloc.Tag{File: s.file, Line: st.Line, Name: st.Name}
	switch st.Op {
	case "alloc":
		strategy := st.Strategy
		if s.force != nil {
			strategy = *s.force
		}
		addr, err := s.a.AllocTagged(st.Size, strategy, tag)
		if err != nil {
			return err
		}
		s.vars[st.Name] = addr
	case "free":
		addr, ok := s.vars[st.Name]
		if !ok {
			return fmt.Errorf("free of unknown variable %q", st.Name)
		}
		// Keep the name bound so a second free reaches the allocator and
		// is reported as a double free.
		return s.a.FreeTagged(addr, tag)
	case "dump":
		return printer.New(s.a, s.out, s.popts).PrintTable()
	case "stats":
		return printer.New(s.a, s.out, s.popts).PrintStats()
	case "check":
		return s.a.Check()
	case "init":
		clear(s.vars)
		return s.a.Init()
	}
	return nil
}

func isAllocatorError(err error) bool {
	var opErr *alloc.OpError
	return errors.As(err, &opErr) ||
		errors.Is(err, alloc.ErrCorruption) ||
		errors.Is(err, alloc.ErrInvalidArgument)
}
