// Package testutil holds helpers shared by package tests.
package testutil

import (
	"errors"
	"testing"

	"github.com/joshuapare/goatmalloc/arena"
)

// PageSize is the fixed page size of arenas created by SetupArena, so sizes
// in tests do not depend on the host.
const PageSize = 4096

// SetupArena creates a heap-backed arena with 4 KiB pages and destroys it when
// the test ends. Tests may destroy it earlier themselves.
//
// Example:
//
//	a := testutil.SetupArena(t, 4096) // a.Size() == 4096
//	b := testutil.SetupArena(t, 4096, arena.WithSizing(arena.SizingAlwaysSlack)) // 8192
func SetupArena(t testing.TB, requested int, opts ...arena.Option) *arena.Arena {
	t.Helper()

	opts = append([]arena.Option{arena.WithMapper(arena.HeapMapper{Page: PageSize})}, opts...)
	a, err := arena.New(requested, opts...)
	if err != nil {
		t.Fatalf("arena.New(%d): %v", requested, err)
	}
	t.Cleanup(func() {
		if err := a.Destroy(); err != nil && !errors.Is(err, arena.ErrUninitialized) {
			t.Errorf("arena.Destroy: %v", err)
		}
	})
	return a
}
