// Command goatexplorer is an interactive terminal viewer for a goatmalloc
// arena: allocate, free and inspect chunks and watch the list change.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshuapare/goatmalloc/arena"
	"github.com/joshuapare/goatmalloc/cmd/goatexplorer/logger"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// config is the parsed command line.
type config struct {
	debug   bool
	size    int
	slack   bool
	devZero bool
	help    bool
	version bool
}

func parseArgs(args []string) (config, error) {
	cfg := config{size: 4096}
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; arg {
		case "--debug", "-d":
			cfg.debug = true
		case "--slack":
			cfg.slack = true
		case "--devzero":
			cfg.devZero = true
		case "--help", "-h":
			cfg.help = true
		case "--version", "-v":
			cfg.version = true
		case "--size", "-s":
			if i+1 >= len(args) {
				return cfg, fmt.Errorf("%s needs a value", arg)
			}
			i++
			n, err := strconv.Atoi(args[i])
			if err != nil {
				return cfg, fmt.Errorf("invalid size %q: %w", args[i], err)
			}
			cfg.size = n
		default:
			return cfg, fmt.Errorf("unknown argument %q", arg)
		}
	}
	return cfg, nil
}

func (c config) arenaOptions() []arena.Option {
	opts := []arena.Option{arena.WithLogger(logger.L)}
	if c.slack {
		opts = append(opts, arena.WithSizing(arena.SizingAlwaysSlack))
	}
	if c.devZero {
		opts = append(opts, arena.WithDevZero())
	}
	return opts
}

func main() {
	cfg, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		printUsage()
		os.Exit(1)
	}
	if cfg.help {
		printUsage()
		os.Exit(0)
	}
	if cfg.version {
		fmt.Printf("goatexplorer %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built: %s\n", date)
		os.Exit(0)
	}

	// Initialize logger (must be before any logging calls)
	if _, err := logger.Init(logger.Options{
		Enabled: cfg.debug,
		Level:   slog.LevelDebug,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to init logging: %v\n", err)
	}
	logger.Info("starting goatexplorer", "size", cfg.size, "debug", cfg.debug)

	m := NewModel(cfg.size, cfg.arenaOptions()...)
	if m.err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", m.err)
		os.Exit(1)
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		logger.Error("TUI error", "error", err)
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}

	// Clean up resources
	if fm, ok := finalModel.(Model); ok {
		fm.Close()
	}
	logger.Info("goatexplorer exited")
}

func printUsage() {
	fmt.Println(`Usage: goatexplorer [--size N] [--slack] [--devzero] [--debug]

Options:
  -s, --size N    Requested arena size in bytes (default 4096)
      --slack     Always add the slack page, even for one-page requests
      --devzero   Back the arena with a private mapping of /dev/zero
  -d, --debug     Log allocator activity to ~/.goatexplorer/logs
  -h, --help      Show this help
  -v, --version   Show version information`)
}
