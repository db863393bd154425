package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/joshuapare/memkit/heap/alloc"
	"github.com/joshuapare/memkit/heap/metrics"
	"github.com/joshuapare/memkit/heap/printer"
	"github.com/joshuapare/memkit/internal/logger"
)

var (
	arenaCapacity int
	arenaMapped   bool
	strategyName  string

	runKeepGoing   bool
	runDump        bool
	runMetricsFile string
)

func init() {
	cmd := newRunCmd()
	addArenaFlags(cmd)
	cmd.Flags().BoolVar(&runKeepGoing, "keep-going", false, "Report allocator errors and continue")
	cmd.Flags().BoolVar(&runDump, "dump", false, "Print the allocation table after the script")
	cmd.Flags().StringVar(&runMetricsFile, "metrics-file", "", "Write Prometheus metrics to this file after the script")
	rootCmd.AddCommand(cmd)
}

func addArenaFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&arenaCapacity, "capacity", alloc.DefaultCapacity, "Arena size in bytes")
	cmd.Flags().BoolVar(&arenaMapped, "mapped", false, "Back the arena with an anonymous memory mapping")
	cmd.Flags().StringVarP(&strategyName, "strategy", "s", "first-fit", "Default strategy: first-fit, next-fit or best-fit")
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <script>",
		Short: "Replay an allocation script",
		Long: `The run command replays a script against a fresh arena. Every
allocation is tagged with the script file, line and variable name, so errors
and the allocation table point back at the script.

Example:
  memctl run workload.mem
  memctl run workload.mem --strategy best-fit --dump
  memctl run workload.mem --keep-going --metrics-file arena.prom`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(args)
		},
	}
}

func loadScript(path string) ([]Step, error) {
	def, err := alloc.ParseStrategy(strategyName)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open script: %w", err)
	}
	defer f.Close()
	return ParseScript(f, def)
}

func arenaOptions(extra ...alloc.Option) []alloc.Option {
	opts := []alloc.Option{
		alloc.WithCapacity(arenaCapacity),
		alloc.WithMappedArena(arenaMapped),
	}
	return append(opts, extra...)
}

func runRun(args []string) error {
	path := args[0]
	steps, err := loadScript(path)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	obs, err := metrics.NewObserver(reg)
	if err != nil {
		return err
	}

	a, err := alloc.New(arenaOptions(alloc.WithLogger(logger.L), alloc.WithObserver(obs))...)
	if err != nil {
		return err
	}
	defer a.Close()

	out := stdout
	if quiet {
		out = io.Discard
	}
	sess := newSession(a, filepath.Base(path), out)
	sess.keepGoing = runKeepGoing
	if err := sess.run(steps); err != nil {
		return err
	}

	if runDump {
		if err := printer.New(a, out, sess.popts).PrintTable(); err != nil {
			return err
		}
	}

	if runMetricsFile != "" {
		reg.MustRegister(metrics.NewCollector(a, prometheus.Labels{"script": filepath.Base(path)}))
		if err := prometheus.WriteToTextfile(runMetricsFile, reg); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}

	if !jsonOut {
		printInfo("%d steps, %d failed\n", len(steps), sess.failures)
	}
	return nil
}
