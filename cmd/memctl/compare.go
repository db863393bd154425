package main

import (
	"context"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/joshuapare/memkit/heap/alloc"
	"github.com/joshuapare/memkit/internal/logger"
)

func init() {
	cmd := newCompareCmd()
	addArenaFlags(cmd)
	rootCmd.AddCommand(cmd)
}

func newCompareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <script>",
		Short: "Replay a script under every strategy and compare fragmentation",
		Long: `The compare command replays the same script once per placement
strategy, each on its own arena and goroutine, ignoring strategies named in
the script. Allocator errors do not stop a replay; they are counted.

Example:
  memctl compare workload.mem
  memctl compare workload.mem --capacity 65536 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd.Context(), args)
		},
	}
}

// CompareResult summarizes one strategy's replay.
type CompareResult struct {
	Strategy      string  `json:"strategy"`
	Failures      int     `json:"failures"`
	OutOfMemory   int     `json:"out_of_memory"`
	Blocks        int     `json:"blocks"`
	FreeBlocks    int     `json:"free_blocks"`
	UsedBytes     int     `json:"used_bytes"`
	FreeBytes     int     `json:"free_bytes"`
	LargestFree   int     `json:"largest_free"`
	Fragmentation float64 `json:"fragmentation"`
}

func runCompare(ctx context.Context, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	path := args[0]
	steps, err := loadScript(path)
	if err != nil {
		return err
	}

	strategies := alloc.Strategies()
	results := make([]CompareResult, len(strategies))
	g, ctx := errgroup.WithContext(ctx)
	for i, s := range strategies {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := replay(steps, filepath.Base(path), s)
			results[i] = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if jsonOut {
		return printJSON(results)
	}
	printInfo("%-10s %8s %6s %7s %10s %12s %8s\n", "Strategy", "Failures", "Blocks", "Free", "FreeBytes", "LargestFree", "Frag")
	for _, r := range results {
		printInfo("%-10s %8d %6d %7d %10d %12d %7.1f%%\n",
			r.Strategy, r.Failures, r.Blocks, r.FreeBlocks, r.FreeBytes, r.LargestFree, r.Fragmentation*100)
	}
	return nil
}

// replay runs steps on a private arena with every allocation forced to s.
func replay(steps []Step, file string, s alloc.Strategy) (CompareResult, error) {
	a, err := alloc.New(arenaOptions(alloc.WithLogger(logger.L.With("strategy", s.String())))...)
	if err != nil {
		return CompareResult{}, err
	}
	defer a.Close()

	sess := newSession(a, file, io.Discard)
	sess.errOut = io.Discard
	sess.keepGoing = true
	sess.force = &s
	if err := sess.run(steps); err != nil {
		return CompareResult{}, err
	}

	st := a.Stats()
	return CompareResult{
		Strategy:      s.String(),
		Failures:      sess.failures,
		OutOfMemory:   st.OutOfMemory,
		Blocks:        st.Blocks,
		FreeBlocks:    st.FreeBlocks,
		UsedBytes:     st.UsedBytes,
		FreeBytes:     st.FreeBytes,
		LargestFree:   st.LargestFree,
		Fragmentation: st.Fragmentation,
	}, nil
}
