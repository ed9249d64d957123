package arena

import (
	"fmt"

	"github.com/joshuapare/goatmalloc/internal/buf"
)

// Sizing selects how a requested size is rounded to the usable arena size.
type Sizing int

const (
	// SizingCollapse rounds the request down to whole pages and adds one page
	// of slack, except that a request of exactly one page yields one page.
	SizingCollapse Sizing = iota

	// SizingAlwaysSlack rounds down to whole pages and always adds one page,
	// so a request of exactly one page yields two pages.
	SizingAlwaysSlack
)

// String returns the sizing mode name.
func (s Sizing) String() string {
	switch s {
	case SizingCollapse:
		return "collapse"
	case SizingAlwaysSlack:
		return "always-slack"
	default:
		return fmt.Sprintf("Sizing(%d)", int(s))
	}
}

// UsableSize applies the rounding rule of s.
//
//	SizingCollapse.UsableSize(100, 4096)     = 4096
//	SizingCollapse.UsableSize(4096, 4096)    = 4096
//	SizingAlwaysSlack.UsableSize(4096, 4096) = 8192
//	SizingCollapse.UsableSize(4097, 4096)    = 8192
//	SizingCollapse.UsableSize(8192, 4096)    = 12288
func (s Sizing) UsableSize(requested, pageSize int) (int, error) {
	if requested < 0 {
		return 0, fmt.Errorf("%w: requested size %d is negative", ErrBadArguments, requested)
	}
	if pageSize <= 0 {
		return 0, fmt.Errorf("%w: page size %d", ErrBadArguments, pageSize)
	}
	if s == SizingCollapse && requested == pageSize {
		return pageSize, nil
	}
	whole, ok := buf.MulOverflowSafe(requested/pageSize, pageSize)
	if !ok {
		return 0, fmt.Errorf("%w: requested size %d overflows", ErrBadArguments, requested)
	}
	usable, ok := buf.AddOverflowSafe(whole, pageSize)
	if !ok {
		return 0, fmt.Errorf("%w: requested size %d overflows", ErrBadArguments, requested)
	}
	return usable, nil
}

// UsableSize is SizingCollapse.UsableSize.
func UsableSize(requested, pageSize int) (int, error) {
	return SizingCollapse.UsableSize(requested, pageSize)
}
