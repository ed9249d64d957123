package alloc_test

import (
	"errors"
	"fmt"

	"github.com/joshuapare/goatmalloc/arena"
	"github.com/joshuapare/goatmalloc/arena/alloc"
)

func Example() {
	a, err := arena.New(4096,
		arena.WithMapper(arena.HeapMapper{Page: 4096}),
		arena.WithSizing(arena.SizingAlwaysSlack))
	if err != nil {
		panic(err)
	}
	defer a.Destroy()

	al := alloc.New(a)
	r1, _, _ := al.Alloc(100)
	r2, _, _ := al.Alloc(100)
	fmt.Println(a.Size(), r1, r2)

	_ = al.Free(r1)
	_ = al.Free(r2)
	chunks, _ := a.Chunks()
	fmt.Println(len(chunks), chunks[0].Size)

	_, _, err = al.Alloc(8192)
	fmt.Println(errors.Is(err, alloc.ErrOutOfMemory))
	// Output:
	// 8192 32 164
	// 1 8160
	// true
}

func ExampleAllocator_Free() {
	a, _ := arena.New(4096, arena.WithMapper(arena.HeapMapper{Page: 4096}))
	defer a.Destroy()
	al := alloc.New(a)

	ref, _, _ := al.Alloc(10)
	fmt.Println(al.Free(ref))
	fmt.Println(al.Free(ref))
	fmt.Println(al.Free(ref + 3))
	// Output:
	// <nil>
	// alloc: double free: ref 32
	// alloc: bad pointer: ref 35
}
