// Package leak provides a heap-allocation leak tracker: a drop-in pair
// of allocation primitives that record every outstanding allocation with
// its call stack and, at shutdown, write a report of everything never
// freed.
//
// The tracker targets code that manages raw memory explicitly — cgo
// wrappers, pool allocators, off-heap buffers — where Go's garbage
// collector cannot tell a cached block from a forgotten one.
//
// # Quick Start
//
// Point LEAKTRACK_REPORT at a file, bracket main with Init/Fini, and
// route raw allocations through the package:
//
//	package main
//
//	import "github.com/kolkov/leaktrack/leak"
//
//	func main() {
//		leak.Init()
//		defer leak.Fini()
//
//		p := leak.Malloc(100)
//		_ = p // never freed: shows up in the report
//	}
//
// Run it:
//
//	$ LEAKTRACK_REPORT=leaks.txt ./myprogram
//	$ cat leaks.txt
//	1 records
//
//	100 bytes:
//	main.main(/src/myprogram/main.go:10)
//	runtime.main(/usr/local/go/src/runtime/proc.go:283)
//
// Set LEAKTRACK_TRACE=1 for a diagnostic line per call on standard
// error.
//
// # How It Works
//
// Every tracked allocation is over-allocated by a fixed header holding
// the requested size, up to 32 raw return addresses captured at the call
// site, and two links threading the header onto an intrusive chain of
// live allocations. Freeing recovers the header from the payload pointer
// in O(1), unlinks it, and returns the whole block. Whatever is still on
// the chain when Fini runs is a leak.
//
// Allocations made before Init complete are served from a small static
// bootstrap region that is never reclaimed; this mirrors the phase in
// which an interposing allocator cannot yet reach the allocator it
// wraps.
//
// # Limitations
//
// The tracker is single-threaded by design: no locks, no atomics.
// Concurrent Malloc/Free calls race on the live chain. Programs with
// concurrent allocation traffic must serialize calls themselves.
//
// # API Overview
//
// The package provides functions for:
//   - Initialization and shutdown reporting: [Init], [Fini]
//   - Allocation primitives: [Malloc], [Free], [Bytes], [FreeBytes]
//   - Introspection: [LiveRecords], [GetInfo], [Version]
package leak
