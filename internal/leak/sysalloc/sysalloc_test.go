package sysalloc

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemAllocFree(t *testing.T) {
	sys := System()

	p := sys.Alloc(4096)
	require.NotNil(t, p)

	// The block must be writable end to end.
	b := unsafe.Slice((*byte)(p), 4096)
	for i := range b {
		b[i] = byte(i)
	}
	assert.Equal(t, byte(255), b[255])

	sys.Free(p)
}

func TestSystemZeroSize(t *testing.T) {
	sys := System()
	p := sys.Alloc(0)
	require.NotNil(t, p, "malloc(0) must yield a distinct freeable pointer")
	sys.Free(p)
}

func TestSystemFreeNil(t *testing.T) {
	sys := System()
	sys.Free(nil) // must not panic
}

func TestFakeCountsAndFailure(t *testing.T) {
	f := NewFake()

	p1 := f.Alloc(8)
	p2 := f.Alloc(16)
	require.NotNil(t, p1)
	require.NotNil(t, p2)
	assert.Equal(t, 2, f.Allocs)
	assert.Equal(t, 2, f.Live())
	assert.True(t, f.Owns(p1))

	f.FailNext = true
	assert.Nil(t, f.Alloc(8))
	assert.NotNil(t, f.Alloc(8), "FailNext must clear after one denial")

	f.FailAll = true
	assert.Nil(t, f.Alloc(8))
	assert.Nil(t, f.Alloc(8))
	f.FailAll = false

	f.Free(p1)
	f.Free(p2)
	assert.Equal(t, 2, f.Frees)
	assert.Equal(t, 1, f.Live())
}

func TestFakeFreeUnknownPanics(t *testing.T) {
	f := NewFake()
	var x int
	assert.Panics(t, func() { f.Free(unsafe.Pointer(&x)) })
}
