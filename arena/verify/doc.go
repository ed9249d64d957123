// Package verify provides validation functions for arena chunk lists.
//
// # Overview
//
// The checks operate on the raw bytes of an arena region (arena.Bytes) so they
// see exactly what the allocator wrote, independent of any decoded state. They
// are used by tests and by goatctl after every scripted operation.
//
// Validation categories:
//   - Chunk list: every header decodes, links are mutual, forward links ascend
//   - Partition: chunks are contiguous and cover the region exactly
//   - Coalescing: no two neighbouring chunks are both free
//
// # Quick Start
//
//	if err := verify.AllInvariants(a.Bytes()); err != nil {
//	    fmt.Printf("Validation failed: %v\n", err)
//	}
//
// Every failure is a *ValidationError carrying the check name and the offset
// of the offending header:
//
//	var verr *verify.ValidationError
//	if errors.As(err, &verr) {
//	    fmt.Printf("%s at %d\n", verr.Type, verr.Offset)
//	}
package verify
