package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/goatmalloc/arena"
)

var (
	// Global flags
	verbose bool
	quiet   bool
	jsonOut bool
	devZero bool
	useHeap bool
	slack   bool
)

// heapPageSize is the page size of --heap arenas.
const heapPageSize = 4096

var rootCmd = &cobra.Command{
	Use:   "goatctl",
	Short: "Exercise goatmalloc arenas",
	Long: `goatctl sizes, fills and simulates goatmalloc arenas. Every command
creates its own arena, runs against it and verifies the chunk list invariants
before printing results.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output and allocator debug logs")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&devZero, "devzero", false, "Back arenas with a private mapping of /dev/zero")
	rootCmd.PersistentFlags().BoolVar(&useHeap, "heap", false, "Back arenas with Go heap memory and 4 KiB pages")
	rootCmd.PersistentFlags().BoolVar(&slack, "slack", false, "Always add the slack page, even for one-page requests")
	rootCmd.MarkFlagsMutuallyExclusive("devzero", "heap")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v\n", err)
		os.Exit(1)
	}
}

// arenaOptions translates the global flags into arena options.
func arenaOptions() []arena.Option {
	var opts []arena.Option
	switch {
	case useHeap:
		opts = append(opts, arena.WithMapper(arena.HeapMapper{Page: heapPageSize}))
	case devZero:
		opts = append(opts, arena.WithDevZero())
	}
	if slack {
		opts = append(opts, arena.WithSizing(arena.SizingAlwaysSlack))
	}
	if verbose && !quiet {
		opts = append(opts, arena.WithLogger(newLogger(os.Stderr)))
	}
	return opts
}

// sizing returns the rounding mode selected by --slack.
func sizing() arena.Sizing {
	if slack {
		return arena.SizingAlwaysSlack
	}
	return arena.SizingCollapse
}

// pageSize returns the page size arenas created with the global flags use.
func pageSize() int {
	if useHeap {
		return heapPageSize
	}
	return (&arena.MmapMapper{}).PageSize()
}

func newLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
