package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/joshuapare/refkit/ref"
)

var (
	stressGoroutines int
	stressIterations int
	stressStrategy   string
	stressMode       string
	stressLimit      string
)

// errStressMismatch is returned when the final counts disagree with the work done.
var errStressMismatch = errors.New("stress: lifecycle accounting mismatch")

func init() {
	cmd := newStressCmd()
	cmd.Flags().IntVarP(&stressGoroutines, "goroutines", "g", 8, "Number of concurrent workers")
	cmd.Flags().IntVarP(&stressIterations, "iterations", "n", 10000, "Iterations per worker")
	cmd.Flags().StringVarP(&stressStrategy, "strategy", "s", "pool", "Allocation strategy ("+strategyNames()+")")
	cmd.Flags().StringVarP(&stressMode, "mode", "m", "auto", "Factory to use ("+modeNames+")")
	cmd.Flags().StringVar(&stressLimit, "limit", "", "Byte budget for the strategy, e.g. 1MiB")
	rootCmd.AddCommand(cmd)
}

func newStressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stress",
		Short: "Clone, lock and release handles from many goroutines",
		Long: `The stress command shares one value between many goroutines using the
concurrent counting policy. Each worker repeatedly clones the shared handle,
locks a weak handle to it and releases both, and also creates and drops a
private value through the chosen strategy.

When the workers finish, the shared value must have been destroyed exactly
once and every allocation must have been returned.

Example:
  refctl stress
  refctl stress -g 32 -n 100000 --strategy pages
  refctl stress --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStress(cmd.Context())
		},
	}
}

// stressResult is the summary printed by the stress command.
type stressResult struct {
	Strategy   string        `json:"strategy"`
	Goroutines int           `json:"goroutines"`
	Iterations int           `json:"iterations"`
	Operations int64         `json:"operations"`
	Elapsed    time.Duration `json:"elapsed_ns"`
	Closes     int64         `json:"closes"`
	Allocs     int64         `json:"allocs"`
	Frees      int64         `json:"frees"`
	Failures   int64         `json:"failures"`
	PeakBytes  int64         `json:"peak_bytes"`
}

func runStress(ctx context.Context) error {
	if stressGoroutines <= 0 || stressIterations <= 0 {
		return fmt.Errorf("--goroutines and --iterations must be positive")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := openStrategy(stressStrategy, stressLimit)
	if err != nil {
		return err
	}
	defer st.Close()

	closesBefore := payloadCloses.Load()
	root, err := newPayload(st.Strategy(), st.def.OffHeap, stressMode, 0,
		ref.Concurrent(), ref.WithName("stress-root"))
	if err != nil {
		return fmt.Errorf("create shared value: %w", err)
	}
	weak := root.Weak()
	defer weak.Reset()

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for worker := range stressGoroutines {
		mine := root.Clone()
		g.Go(func() error {
			defer mine.Reset()
			return stressWorker(gctx, st, mine, int64(worker))
		})
	}
	waitErr := g.Wait()
	elapsed := time.Since(start)

	if use := root.UseCount(); use != 1 {
		root.Reset()
		return fmt.Errorf("%w: %d owners left after workers finished", errStressMismatch, use)
	}
	printVerbose("workers done: %s\n", root)
	root.Reset()
	if waitErr != nil {
		return waitErr
	}
	if !weak.Expired() {
		return fmt.Errorf("%w: shared value outlived its owners", errStressMismatch)
	}
	weak.Reset()

	stats := st.counting.Stats()
	res := stressResult{
		Strategy:   st.def.Name,
		Goroutines: stressGoroutines,
		Iterations: stressIterations,
		Operations: int64(stressGoroutines) * int64(stressIterations),
		Elapsed:    elapsed,
		Closes:     payloadCloses.Load() - closesBefore,
		Allocs:     stats.Allocs,
		Frees:      stats.Frees,
		Failures:   stats.Failures,
		PeakBytes:  stats.PeakBytes,
	}
	if want := res.Operations + 1; res.Closes != want {
		return fmt.Errorf("%w: %d values closed, want %d", errStressMismatch, res.Closes, want)
	}
	if !stats.Balanced() {
		return fmt.Errorf("%w: %d allocations, %d frees", errStressMismatch, stats.Allocs, stats.Frees)
	}

	if jsonOut {
		return printJSON(res)
	}
	printInfo("strategy %s: %d goroutines x %d iterations\n", res.Strategy, res.Goroutines, res.Iterations)
	printInfo("  operations: %s in %s (%s/s)\n",
		formatNumber(res.Operations), elapsed.Round(time.Millisecond),
		formatNumber(int64(float64(res.Operations)/elapsed.Seconds())))
	printInfo("  values closed: %s\n", formatNumber(res.Closes))
	printInfo("  allocations: %s, frees: %s, peak: %s\n",
		formatNumber(res.Allocs), formatNumber(res.Frees), formatBytes(res.PeakBytes))
	if res.Failures > 0 {
		printInfo("  failed allocations: %s\n", formatNumber(res.Failures))
	}
	return nil
}

func stressWorker(ctx context.Context, st *openedStrategy, shared *ref.Shared[*payload], worker int64) error {
	w := shared.Weak()
	defer w.Reset()
	for i := range stressIterations {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		c := shared.Clone()
		if c.Get().Seq != 0 {
			c.Reset()
			return fmt.Errorf("%w: shared value changed", errStressMismatch)
		}
		c.Reset()

		l := w.Lock()
		if l.IsEmpty() {
			return fmt.Errorf("%w: lock failed while owners remain", errStressMismatch)
		}
		l.Reset()

		own, err := newPayload(st.Strategy(), st.def.OffHeap, stressMode, worker<<32|int64(i))
		if err != nil {
			return fmt.Errorf("worker %d: %w", worker, err)
		}
		own.Reset()
	}
	return nil
}
