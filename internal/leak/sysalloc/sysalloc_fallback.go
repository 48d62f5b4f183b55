//go:build !unix

package sysalloc

import "unsafe"

// heapAllocator backs blocks with ordinary Go slices on platforms without
// anonymous mmap. The map keeps every outstanding block reachable so the
// garbage collector cannot reclaim memory the engine still tracks.
type heapAllocator struct {
	blocks map[uintptr][]byte
}

// System returns the platform allocator.
func System() Allocator {
	return &heapAllocator{blocks: make(map[uintptr][]byte)}
}

func (h *heapAllocator) Alloc(size uintptr) unsafe.Pointer {
	n := int(size)
	if n < 0 {
		return nil
	}
	if n == 0 {
		n = 1
	}
	b := make([]byte, n)
	p := unsafe.Pointer(&b[0])
	h.blocks[uintptr(p)] = b
	return p
}

func (h *heapAllocator) Free(p unsafe.Pointer) {
	if p == nil {
		return
	}
	delete(h.blocks, uintptr(p))
}
