// Package bootstrap implements the slab allocator used before the real
// allocator has been resolved.
//
// Resolving the real allocator may itself need memory (the dynamic
// resolution machinery keeps internal bookkeeping), so the engine cannot
// delegate anywhere until initialization completes. This package is the
// escape hatch: a fixed static region consumed monotonically, never
// reclaimed. The phase it covers is expected to be short-lived and small
// in volume, so the waste is bounded by the region size.
//
// # Design
//
//   - Alloc advances a single offset; there is no per-allocation metadata.
//   - Free does not exist. Callers detect bootstrap pointers with Contains
//     and treat releasing them as a no-op.
//   - No alignment guarantees beyond the region's own alignment.
//
// # Thread Safety
//
// None. The bootstrap phase runs before any concurrent allocation traffic
// can exist, and the engine as a whole is documented single-threaded.
package bootstrap

import "unsafe"

// Size is the capacity of the bootstrap region in bytes.
//
// 64 KiB is generous: dynamic resolution typically needs well under 1 KiB.
// Exhausting the region is reported as an ordinary out-of-memory result,
// never as a crash.
const Size = 64 * 1024

// Region is a fixed-size, monotonically consumed memory region.
//
// The zero value is ready to use. The offset only ever grows; it resets
// with process restart, nothing else.
type Region struct {
	buf [Size]byte
	off uintptr
}

// New returns an empty bootstrap region.
func New() *Region {
	return &Region{}
}

// Alloc returns a pointer to size bytes at the current offset and advances
// the offset. It returns nil when the advance would exceed the region's
// capacity, matching the real allocator's out-of-memory contract.
func (r *Region) Alloc(size uintptr) unsafe.Pointer {
	if size > Size-r.off {
		return nil
	}
	p := unsafe.Add(unsafe.Pointer(&r.buf[0]), r.off)
	r.off += size
	return p
}

// Contains reports whether p falls within the region's bounds.
//
// The end bound is inclusive: a zero-byte allocation made when the region
// is exactly full still yields a pointer one past the last byte, and that
// pointer must still be recognized as bootstrap memory.
func (r *Region) Contains(p unsafe.Pointer) bool {
	if p == nil {
		return false
	}
	base := uintptr(unsafe.Pointer(&r.buf[0]))
	addr := uintptr(p)
	return addr >= base && addr <= base+Size
}

// Used returns the number of bytes consumed so far.
func (r *Region) Used() uintptr {
	return r.off
}

// Remaining returns the number of bytes still available.
func (r *Region) Remaining() uintptr {
	return Size - r.off
}
