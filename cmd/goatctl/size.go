package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/joshuapare/goatmalloc/arena"
)

func init() {
	rootCmd.AddCommand(newSizeCmd())
}

func newSizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "size <bytes>",
		Short: "Show the usable arena size for a request",
		Long: `The size command applies the arena rounding rule to a request and
shows the resulting usable size and the largest allocation a fresh arena of
that size can satisfy. No memory is mapped.

Example:
  goatctl size 4096
  goatctl size 4096 --slack
  goatctl size 100000 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSize(args)
		},
	}
	return cmd
}

// SizeReport is the output of the size command.
type SizeReport struct {
	Requested  int    `json:"requested"`
	PageSize   int    `json:"page_size"`
	Sizing     string `json:"sizing"`
	Usable     int    `json:"usable"`
	Pages      int    `json:"pages"`
	MaxPayload int    `json:"max_payload"`
}

func computeSize(requested, page int, s arena.Sizing) (SizeReport, error) {
	usable, err := s.UsableSize(requested, page)
	if err != nil {
		return SizeReport{}, err
	}
	return SizeReport{
		Requested:  requested,
		PageSize:   page,
		Sizing:     s.String(),
		Usable:     usable,
		Pages:      usable / page,
		MaxPayload: max(usable-arena.HeaderSize, 0),
	}, nil
}

func runSize(args []string) error {
	requested, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid size %q: %w", args[0], err)
	}

	report, err := computeSize(requested, pageSize(), sizing())
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(report)
	}
	printInfo("Requested:   %d bytes\n", report.Requested)
	printInfo("Page size:   %d bytes\n", report.PageSize)
	printVerbose("Sizing:      %s\n", report.Sizing)
	printInfo("Usable size: %d bytes (%d pages)\n", report.Usable, report.Pages)
	printInfo("Max payload: %d bytes\n", report.MaxPayload)
	return nil
}
