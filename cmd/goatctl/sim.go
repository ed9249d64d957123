package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/joshuapare/goatmalloc/arena"
	"github.com/joshuapare/goatmalloc/arena/alloc"
	"github.com/joshuapare/goatmalloc/arena/verify"
)

var (
	simSize    int
	simOps     int
	simSeed    int64
	simArenas  int
	simMaxSize int
	simWorkers int
)

func init() {
	cmd := newSimCmd()
	cmd.Flags().IntVar(&simSize, "size", 1<<20, "Requested size of each arena in bytes")
	cmd.Flags().IntVar(&simOps, "ops", 10000, "Operations per arena")
	cmd.Flags().Int64Var(&simSeed, "seed", 1, "Random seed; arena i uses seed+i")
	cmd.Flags().IntVar(&simArenas, "arenas", 1, "Number of independent arenas")
	cmd.Flags().IntVar(&simMaxSize, "max-alloc", 4096, "Largest allocation request")
	cmd.Flags().IntVar(&simWorkers, "workers", 0, "Arenas simulated at once (0 = all)")
	rootCmd.AddCommand(cmd)
}

func newSimCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sim",
		Short: "Run a randomized allocation workload",
		Long: `The sim command drives independent arenas with a random mix of
allocations and frees, verifying every chunk list invariant after each
operation. Arenas run in parallel; each one is only touched by its own
goroutine.

Example:
  goatctl sim --ops 50000
  goatctl sim --arenas 8 --size 262144 --seed 7 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSim(cmd.Context())
		},
	}
	return cmd
}

// SimConfig parameterizes one simulated arena.
type SimConfig struct {
	Size     int
	Ops      int
	Seed     int64
	MaxAlloc int
	Options  []arena.Option
}

// SimResult summarizes one simulated arena.
type SimResult struct {
	Arena  int         `json:"arena"`
	Seed   int64       `json:"seed"`
	Usable int         `json:"usable"`
	Live   int         `json:"live"`
	Stats  alloc.Stats `json:"stats"`
	Usage  alloc.Usage `json:"usage"`
}

// Simulate runs cfg.Ops random operations on a fresh arena. Two thirds of the
// operations allocate; the rest free a random live allocation. At the end
// every live allocation is freed and the arena must be back to one chunk.
func Simulate(ctx context.Context, cfg SimConfig) (SimResult, error) {
	if cfg.MaxAlloc <= 0 {
		return SimResult{}, fmt.Errorf("max allocation must be positive, got %d", cfg.MaxAlloc)
	}
	a, err := arena.New(cfg.Size, cfg.Options...)
	if err != nil {
		return SimResult{}, err
	}
	defer a.Destroy()

	al := alloc.New(a)
	rng := rand.New(rand.NewSource(cfg.Seed))
	var live []alloc.Ref

	for i := range cfg.Ops {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return SimResult{}, err
			}
		}
		if len(live) == 0 || rng.Intn(3) != 0 {
			ref, _, err := al.Alloc(rng.Intn(cfg.MaxAlloc + 1))
			switch {
			case errors.Is(err, alloc.ErrOutOfMemory):
			case err != nil:
				return SimResult{}, fmt.Errorf("op %d: %w", i, err)
			default:
				live = append(live, ref)
			}
		} else {
			k := rng.Intn(len(live))
			if err := al.Free(live[k]); err != nil {
				return SimResult{}, fmt.Errorf("op %d: %w", i, err)
			}
			live[k] = live[len(live)-1]
			live = live[:len(live)-1]
		}
		if err := verify.AllInvariants(a.Bytes()); err != nil {
			return SimResult{}, fmt.Errorf("op %d: %w", i, err)
		}
	}

	usage, err := al.Usage()
	if err != nil {
		return SimResult{}, err
	}
	res := SimResult{Seed: cfg.Seed, Usable: a.Size(), Live: len(live), Usage: usage}

	for _, ref := range live {
		if err := al.Free(ref); err != nil {
			return SimResult{}, fmt.Errorf("drain: %w", err)
		}
	}
	chunks, err := a.Chunks()
	if err != nil {
		return SimResult{}, err
	}
	if len(chunks) != 1 || !chunks[0].Free {
		return SimResult{}, fmt.Errorf("drain left %d chunks", len(chunks))
	}
	res.Stats = al.Stats()
	return res, nil
}

func runSim(ctx context.Context) error {
	if simArenas < 1 {
		return fmt.Errorf("--arenas must be at least 1, got %d", simArenas)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	results := make([]SimResult, simArenas)
	g, ctx := errgroup.WithContext(ctx)
	if simWorkers > 0 {
		g.SetLimit(simWorkers)
	}
	opts := arenaOptions()
	for i := range simArenas {
		cfg := SimConfig{
			Size:     simSize,
			Ops:      simOps,
			Seed:     simSeed + int64(i),
			MaxAlloc: simMaxSize,
			Options:  opts,
		}
		g.Go(func() error {
			res, err := Simulate(ctx, cfg)
			if err != nil {
				return fmt.Errorf("arena %d (seed %d): %w", i, cfg.Seed, err)
			}
			res.Arena = i
			results[i] = res
			printVerbose("arena %d done: %d allocs, %d frees\n", i, res.Stats.AllocCalls, res.Stats.FreeCalls)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if jsonOut {
		return printJSON(results)
	}
	if quiet {
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "ARENA\tSEED\tUSABLE\tALLOCS\tOOM\tFREES\tSPLITS\tMERGES\tLIVE\tUTIL\tFRAG\t")
	for _, r := range results {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%.1f%%\t%.1f%%\t\n",
			r.Arena, r.Seed, r.Usable, r.Stats.AllocCalls, r.Stats.OutOfMemory, r.Stats.FreeCalls,
			r.Stats.Splits, r.Stats.CoalesceBackward+r.Stats.CoalesceForward, r.Live,
			r.Usage.Utilization()*100, r.Usage.Fragmentation()*100)
	}
	return tw.Flush()
}
