package sysalloc

import "unsafe"

// Fake is a deterministic in-memory Allocator for tests. It counts calls,
// keeps blocks alive on the Go heap, and can be told to deny requests,
// letting tests exercise the engine's out-of-memory paths without ever
// touching platform memory.
type Fake struct {
	// FailNext makes the next Alloc return nil, then clears itself.
	FailNext bool

	// FailAll makes every Alloc return nil until reset.
	FailAll bool

	// Allocs and Frees count successful calls.
	Allocs int
	Frees  int

	blocks map[uintptr][]byte
}

// NewFake returns an empty fake allocator.
func NewFake() *Fake {
	return &Fake{blocks: make(map[uintptr][]byte)}
}

func (f *Fake) Alloc(size uintptr) unsafe.Pointer {
	if f.FailAll {
		return nil
	}
	if f.FailNext {
		f.FailNext = false
		return nil
	}
	n := int(size)
	if n < 0 {
		return nil
	}
	if n == 0 {
		n = 1
	}
	b := make([]byte, n)
	p := unsafe.Pointer(&b[0])
	f.blocks[uintptr(p)] = b
	f.Allocs++
	return p
}

func (f *Fake) Free(p unsafe.Pointer) {
	if p == nil {
		return
	}
	if _, ok := f.blocks[uintptr(p)]; !ok {
		// Freeing a block the fake never handed out means the engine
		// computed a bad header offset; make the test fail loudly.
		panic("sysalloc: Fake.Free of unknown pointer")
	}
	delete(f.blocks, uintptr(p))
	f.Frees++
}

// Live returns the number of blocks allocated and not yet freed.
func (f *Fake) Live() int {
	return len(f.blocks)
}

// Owns reports whether p is the start of a block this fake handed out.
func (f *Fake) Owns(p unsafe.Pointer) bool {
	_, ok := f.blocks[uintptr(p)]
	return ok
}
