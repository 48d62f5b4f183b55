// Package sysalloc abstracts the "real" allocator the tracking engine
// delegates to once initialization completes.
//
// The original interposer resolved glibc's malloc/free at runtime; here
// the delegate is an injected strategy instead (an Allocator value bound
// once during engine initialization). Production binds a platform
// implementation returning raw, non-GC-managed memory; tests bind Fake,
// which is deterministic and can be told to fail.
package sysalloc

import "unsafe"

// Allocator is the pair of fundamental allocation primitives the engine
// delegates to. It mirrors the malloc/free contract:
//
//   - Alloc returns nil when the request cannot be satisfied; it never
//     panics.
//   - Free tolerates pointers it did not hand out only insofar as the
//     underlying platform does; the engine never passes it one.
//
// Implementations track block lengths internally so Free needs only the
// pointer, exactly like free(3).
type Allocator interface {
	Alloc(size uintptr) unsafe.Pointer
	Free(p unsafe.Pointer)
}
