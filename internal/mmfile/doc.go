// Package mmfile obtains and releases page-granular, zero-filled memory
// regions from the operating system.
//
// Every mapping function returns the region plus a cleanup func that unmaps
// it. Cleanup is idempotent: the second call is a no-op.
//
//	data, cleanup, err := mmfile.MapAnon(8192)
//	if err != nil {
//	    return err
//	}
//	defer cleanup()
package mmfile

import "errors"

// ErrInvalidSize is returned for non-positive mapping sizes.
var ErrInvalidSize = errors.New("mmfile: mapping size must be positive")
