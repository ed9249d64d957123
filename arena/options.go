package arena

import (
	"log/slog"
	"os"
	"strings"
)

// logEnv selects a stderr log level when no logger is configured.
// Accepted values: debug, info, warn, error.
const logEnv = "GOATMALLOC_LOG"

type options struct {
	mapper Mapper
	sizing Sizing
	logger *slog.Logger
}

// Option configures an Arena.
type Option func(*options)

// WithMapper sets the OS capability used to reserve and release the region.
//
// If nil is passed, the default mmap-backed mapper is used.
func WithMapper(m Mapper) Option {
	return func(o *options) {
		o.mapper = m
	}
}

// WithDevZero maps /dev/zero privately instead of using an anonymous mapping.
// It replaces any mapper set earlier.
func WithDevZero() Option {
	return func(o *options) {
		o.mapper = &MmapMapper{DevZero: true}
	}
}

// WithSizing selects the rounding rule applied to requested sizes.
// The default is SizingCollapse.
func WithSizing(s Sizing) Option {
	return func(o *options) {
		o.sizing = s
	}
}

// WithLogger sets the structured logger. If nil is passed, the environment
// default applies.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.mapper == nil {
		o.mapper = &MmapMapper{}
	}
	if o.logger == nil {
		o.logger = defaultLogger()
	}
	return o
}

// defaultLogger discards everything unless GOATMALLOC_LOG names a level.
func defaultLogger() *slog.Logger {
	var level slog.Level
	switch strings.ToLower(os.Getenv(logEnv)) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
