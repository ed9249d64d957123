// Package alloc implements the allocation engine of a goatmalloc arena.
//
// # Overview
//
// Alloc performs a first-fit search over the arena's chunk list in ascending
// address order. When the chosen free chunk is larger than needed by at least
// HeaderSize+MinChunkSize bytes, the remainder is split off as a new free
// chunk; otherwise the whole chunk is handed out.
//
// Free marks the chunk free and merges it with every contiguous free
// neighbour, backward first and then forward, so no two adjacent chunks are
// ever both free between calls. Alloc never merges.
//
// # Usage Example
//
//	a, err := arena.New(4096)
//	if err != nil {
//	    return err
//	}
//	defer a.Destroy()
//
//	al := alloc.New(a)
//	ref, buf, err := al.Alloc(100)
//	if err != nil {
//	    return err
//	}
//	copy(buf, "hello")
//
//	if err := al.Free(ref); err != nil {
//	    return err
//	}
//
// # Refs
//
// A Ref is the offset of the first payload byte relative to the arena base,
// never a raw address. The chunk header sits exactly HeaderSize bytes before
// it. Payload and Pointer resolve a Ref into memory.
//
// # Caller obligations
//
// Free checks that a header with a valid signature precedes the Ref and that
// the chunk is occupied, which catches double frees and most stray values.
// It does not remember which Refs it handed out, so a Ref pointing at some
// other live payload frees that chunk instead.
//
// # Thread Safety
//
// Allocator instances are not thread-safe. Callers must synchronize access
// externally.
package alloc
