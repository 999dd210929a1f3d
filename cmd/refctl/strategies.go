package main

import (
	"fmt"
	"strings"

	"github.com/docker/go-units"
	"github.com/spf13/cobra"

	"github.com/joshuapare/refkit/internal/mmpage"
	"github.com/joshuapare/refkit/ref/alloc"
)

// strategyDef describes one allocation strategy selectable by name.
type strategyDef struct {
	Name    string
	Summary string
	OffHeap bool
	open    func() (alloc.Strategy, func() error, error)
}

func noClose() error { return nil }

var strategyTable = []strategyDef{
	{
		Name:    "heap",
		Summary: "Go heap; storage is left to the garbage collector",
		open: func() (alloc.Strategy, func() error, error) {
			return alloc.Heap{}, noClose, nil
		},
	},
	{
		Name:    "pool",
		Summary: "sync.Pool per type and count; storage is zeroed and reused",
		open: func() (alloc.Strategy, func() error, error) {
			return alloc.NewPool(), noClose, nil
		},
	},
	{
		Name:    "pages",
		Summary: "anonymous page mappings; pointer-free types only",
		OffHeap: true,
		open: func() (alloc.Strategy, func() error, error) {
			p := alloc.NewPages(0)
			return p, p.Close, nil
		},
	},
	{
		Name:    "cheap",
		Summary: "C library calloc/free; pointer-free types only",
		OffHeap: true,
		open: func() (alloc.Strategy, func() error, error) {
			c, err := alloc.NewCHeap()
			if err != nil {
				return nil, nil, err
			}
			return c, noClose, nil
		},
	},
}

func strategyNames() string {
	names := make([]string, len(strategyTable))
	for i, s := range strategyTable {
		names[i] = s.Name
	}
	return strings.Join(names, "|")
}

func lookupStrategy(name string) (strategyDef, error) {
	for _, s := range strategyTable {
		if s.Name == name {
			return s, nil
		}
	}
	return strategyDef{}, fmt.Errorf("unknown strategy %q (want %s)", name, strategyNames())
}

// openedStrategy is a strategy wrapped for reporting: an optional byte budget
// under a Counting wrapper.
type openedStrategy struct {
	def      strategyDef
	counting *alloc.Counting
	limited  *alloc.Limited
	close    func() error
}

// openStrategy opens the named strategy. limit is a size string such as
// "64KiB"; empty means no budget.
func openStrategy(name, limit string) (*openedStrategy, error) {
	def, err := lookupStrategy(name)
	if err != nil {
		return nil, err
	}
	s, closeFn, err := def.open()
	if err != nil {
		return nil, fmt.Errorf("strategy %s: %w", name, err)
	}
	o := &openedStrategy{def: def, close: closeFn}
	if limit != "" {
		budget, err := units.RAMInBytes(limit)
		if err != nil {
			_ = closeFn()
			return nil, fmt.Errorf("invalid --limit %q: %w", limit, err)
		}
		o.limited = alloc.Limit(s, budget)
		s = o.limited
	}
	o.counting = alloc.NewCounting(s)
	return o, nil
}

func (o *openedStrategy) Strategy() alloc.Strategy { return o.counting }

func (o *openedStrategy) Close() error { return o.close() }

// strategyInfo is the JSON shape of one row of `refctl strategies`.
type strategyInfo struct {
	Name      string `json:"name"`
	Summary   string `json:"summary"`
	OffHeap   bool   `json:"off_heap"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

func init() {
	rootCmd.AddCommand(newStrategiesCmd())
}

func newStrategiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "List allocation strategies and whether they work here",
		Long: `The strategies command lists every allocation strategy refctl can use,
whether it keeps storage outside the Go heap, and whether it can be opened
on this machine.

Example:
  refctl strategies
  refctl strategies --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStrategies()
		},
	}
}

func probeStrategies() []strategyInfo {
	infos := make([]strategyInfo, 0, len(strategyTable))
	for _, def := range strategyTable {
		info := strategyInfo{Name: def.Name, Summary: def.Summary, OffHeap: def.OffHeap}
		if def.Name == "pages" && !mmpage.OffHeap {
			info.OffHeap = false
			info.Reason = "no page mappings on this platform; backed by the Go heap"
		}
		_, closeFn, err := def.open()
		if err != nil {
			info.Reason = err.Error()
		} else {
			info.Available = true
			_ = closeFn()
		}
		infos = append(infos, info)
	}
	return infos
}

func runStrategies() error {
	infos := probeStrategies()
	if jsonOut {
		return printJSON(infos)
	}

	for _, info := range infos {
		status := "available"
		if !info.Available {
			status = "unavailable"
		}
		where := "go heap"
		if info.OffHeap {
			where = "off heap"
		}
		printInfo("%-6s %-11s %-8s %s\n", info.Name, status, where, info.Summary)
		if info.Reason != "" {
			printVerbose("       %s\n", info.Reason)
		}
	}
	printVerbose("\npage size: %s\n", formatBytes(int64(mmpage.PageSize())))
	return nil
}
