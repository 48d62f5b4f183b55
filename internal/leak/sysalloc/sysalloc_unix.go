//go:build unix

package sysalloc

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// mmapAllocator serves blocks from anonymous private mappings. The memory
// is invisible to the Go garbage collector, which is exactly what tracked
// blocks need: their headers hold intrusive links that must not move and
// must not be scanned.
type mmapAllocator struct {
	// blocks maps the start address of each live mapping to its slice so
	// Free can unmap it. Unsynchronized, like the rest of the engine.
	blocks map[uintptr][]byte
}

// System returns the platform allocator.
func System() Allocator {
	return &mmapAllocator{blocks: make(map[uintptr][]byte)}
}

func (m *mmapAllocator) Alloc(size uintptr) unsafe.Pointer {
	n := int(size)
	if n < 0 {
		// Request too large to represent; report exhaustion.
		return nil
	}
	if n == 0 {
		// mmap rejects zero-length requests; malloc(0) must still yield a
		// distinct, freeable pointer.
		n = 1
	}
	b, err := unix.Mmap(-1, 0, n, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil
	}
	p := unsafe.Pointer(&b[0])
	m.blocks[uintptr(p)] = b
	return p
}

func (m *mmapAllocator) Free(p unsafe.Pointer) {
	if p == nil {
		return
	}
	b, ok := m.blocks[uintptr(p)]
	if !ok {
		return
	}
	delete(m.blocks, uintptr(p))
	_ = unix.Munmap(b)
}
