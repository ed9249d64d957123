package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/goatmalloc/arena"
	"github.com/joshuapare/goatmalloc/arena/alloc"
	"github.com/joshuapare/goatmalloc/arena/printer"
)

var (
	layoutSize    int
	layoutPayload int
)

func init() {
	cmd := newLayoutCmd()
	cmd.Flags().IntVar(&layoutSize, "size", 4096, "Requested arena size in bytes")
	cmd.Flags().IntVar(&layoutPayload, "payload", 0, "Show up to N leading payload bytes of occupied chunks")
	rootCmd.AddCommand(cmd)
}

func newLayoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout <script>...",
		Short: "Replay an allocation script and print the chunk list",
		Long: `The layout command creates an arena, replays a script of allocations
and frees, verifies the chunk list after every step and prints the final
layout.

Steps are separated by spaces or commas. "a<N>" allocates N bytes and "f<I>"
frees the I-th allocation of the script (counting from 0).

Example:
  goatctl layout --heap --slack "a100 a100 f0 f1"
  goatctl layout --size 65536 a1000,a2000,f0 --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayout(args)
		},
	}
	return cmd
}

// LayoutReport is the JSON output of the layout command.
type LayoutReport struct {
	Usable int          `json:"usable"`
	Steps  []StepResult `json:"steps"`
	Stats  alloc.Stats  `json:"stats"`
	Usage  alloc.Usage  `json:"usage"`
}

func runLayout(args []string) error {
	ops, err := ParseScript(strings.Join(args, " "))
	if err != nil {
		return err
	}

	a, err := arena.New(layoutSize, arenaOptions()...)
	if err != nil {
		return fmt.Errorf("failed to create arena: %w", err)
	}
	defer a.Destroy()

	printVerbose("Arena: %d bytes, page size %d\n", a.Size(), a.PageSize())

	al := alloc.New(a)
	steps, err := RunScript(al, ops)
	if err != nil {
		return err
	}
	usage, err := al.Usage()
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(LayoutReport{Usable: a.Size(), Steps: steps, Stats: al.Stats(), Usage: usage})
	}
	if quiet {
		return nil
	}

	for _, s := range steps {
		switch {
		case s.Error != "":
			printVerbose("%-8s %s\n", s.Step, s.Error)
		case strings.HasPrefix(s.Step, "a"):
			printVerbose("%-8s ref=%d size=%d\n", s.Step, s.Ref, s.Size)
		default:
			printVerbose("%-8s ref=%d\n", s.Step, s.Ref)
		}
	}

	opts := printer.DefaultOptions()
	opts.MaxPayloadBytes = layoutPayload
	if err := printer.New(os.Stdout, opts).PrintArena(a); err != nil {
		return err
	}
	printInfo("Utilization: %.1f%%, fragmentation: %.1f%%\n", usage.Utilization()*100, usage.Fragmentation()*100)
	return nil
}
