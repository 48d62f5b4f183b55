// Package records implements the per-allocation metadata header and the
// intrusive doubly linked registry of live allocations.
//
// Every tracked allocation is a single block: the Record header followed
// immediately by the payload handed to the caller. The caller-visible
// pointer and the record pointer differ by exactly HeaderSize, so either
// can be recovered from the other in O(1) with no side table.
//
// # Design
//
//   - Record is the header. It embeds the captured stack (fixed array, no
//     heap indirection) and the two chain links.
//   - Store is the registry: LIFO insertion at the head, O(1) removal from
//     any position, newest-to-oldest traversal for reporting.
//   - Links are managed exclusively by Store; a record never mutates its
//     own chain membership.
//
// # Thread Safety
//
// None. The chain and the live counter are unsynchronized; concurrent
// mutation is an explicit, documented limitation of the whole engine.
package records

import "unsafe"

// MaxFrames is the maximum number of raw return addresses captured per
// allocation. Deep enough to reach well past allocator shims into user
// code; beyond 32 frames the extra context rarely helps.
const MaxFrames = 32

// Record is the metadata header embedded immediately before a tracked
// allocation's payload.
//
// The struct layout matters: a Record is placed at the start of a raw
// block obtained from the system allocator, so it must contain no
// Go-heap-managed references. PCs is a fixed array for exactly that
// reason.
type Record struct {
	// Len is the payload size requested by the caller, in bytes.
	// The block actually allocated is Len+HeaderSize bytes.
	Len uintptr

	// NumPCs is the number of valid entries in PCs.
	NumPCs int

	// PCs holds the raw return addresses captured at allocation time,
	// outermost entries unused beyond NumPCs.
	PCs [MaxFrames]uintptr

	// older points toward records inserted earlier, newer toward records
	// inserted later. Both are nil for an unlinked record. Managed by
	// Store only.
	older *Record
	newer *Record
}

// HeaderSize is the fixed offset between a record and its payload,
// rounded up so the payload keeps 16-byte alignment on top of an aligned
// block.
const HeaderSize = (unsafe.Sizeof(Record{}) + 15) &^ 15

// Place initializes a Record at the start of a raw block and returns it.
// The block must be at least HeaderSize+size bytes.
func Place(block unsafe.Pointer, size uintptr) *Record {
	r := (*Record)(block)
	*r = Record{Len: size}
	return r
}

// Payload returns the caller-visible pointer for this record: the first
// byte past the header.
func (r *Record) Payload() unsafe.Pointer {
	return unsafe.Add(unsafe.Pointer(r), HeaderSize)
}

// FromPayload recovers the record governing a caller-visible pointer.
// The pointer must have been produced by (*Record).Payload on a placed
// record; anything else is undefined behavior, same as handing a foreign
// pointer to free().
func FromPayload(p unsafe.Pointer) *Record {
	return (*Record)(unsafe.Add(p, -int(HeaderSize)))
}

// Trace returns the valid portion of the captured stack, in capture order
// (innermost frame first).
func (r *Record) Trace() []uintptr {
	return r.PCs[:r.NumPCs]
}

// Linked reports whether the record is currently threaded on a chain.
// Used by tests; a head-of-singleton record has no links yet is linked,
// so Store tracks membership, not this predicate alone.
func (r *Record) Linked() bool {
	return r.older != nil || r.newer != nil
}
