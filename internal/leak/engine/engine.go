// Package engine implements the allocator interceptor: the single entry
// point for all allocation traffic, multiplexing each call across three
// backing strategies.
//
// # Architecture
//
// Every Malloc/Free lands in one of three paths:
//
//  1. Bootstrap: before the real allocator is bound, requests are served
//     from a fixed static region that is never reclaimed.
//  2. Passthrough: while the reentrancy guard is set (stack capture or
//     report symbolization in progress), requests go straight to the real
//     allocator, untracked. This is what breaks the recursion when the
//     unwinder itself allocates.
//  3. Tracked: the normal path. The engine over-allocates by one header,
//     places an allocation record at the block start, captures the call
//     stack into it, threads it onto the live chain, and hands the caller
//     the pointer just past the header.
//
// The engine is an explicit context rather than package globals: tests
// construct as many as they like, bind fake allocators, and never
// terminate the test process.
//
// # Thread Safety
//
// None, deliberately. The chain, the counter, and the mode flags are
// unsynchronized; concurrent Malloc/Free calls race. Single-threaded use
// is a documented limitation of the tracker, not an oversight to patch
// with locks that would distort the allocator's behavior under test.
package engine

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"unsafe"

	"github.com/kolkov/leaktrack/internal/leak/bootstrap"
	"github.com/kolkov/leaktrack/internal/leak/records"
	"github.com/kolkov/leaktrack/internal/leak/report"
	"github.com/kolkov/leaktrack/internal/leak/symbolize"
	"github.com/kolkov/leaktrack/internal/leak/sysalloc"
)

// UnwindFunc fills pcs with up to len(pcs) raw return addresses of the
// calling goroutine, skipping skip frames, and returns the count
// obtained. runtime.Callers satisfies this signature.
type UnwindFunc func(skip int, pcs []uintptr) int

// captureSkip drops the unwinder, capture, and Malloc frames so a
// record's first PC is Malloc's caller.
const captureSkip = 3

// Config carries the engine's startup configuration. Zero-value fields
// keep their defaults (stderr tracing, runtime.Callers unwinding, a real
// symbolize session at teardown).
type Config struct {
	// ReportPath is the leak report destination, opened in append mode
	// at teardown.
	ReportPath string

	// Trace enables a diagnostic line per tracked Malloc/Free.
	Trace bool

	// TraceWriter receives trace lines. Defaults to os.Stderr.
	TraceWriter io.Writer

	// Unwind captures call stacks. Defaults to runtime.Callers.
	Unwind UnwindFunc

	// NewResolver builds the debug-information session for reporting.
	// Defaults to symbolize.NewSession.
	NewResolver func() (report.Resolver, error)
}

// Engine is the process-wide tracking state: the bound real allocator,
// the bootstrap region, the live-record chain, and the mode flags that
// route each call.
type Engine struct {
	boot  *bootstrap.Region
	store records.Store

	// sys is the resolved real allocator; bound once, then immutable.
	sys sysalloc.Allocator

	unwind      UnwindFunc
	newResolver func() (report.Resolver, error)

	// ready flips when Bind completes initialization; capturing is the
	// reentrancy guard.
	ready     bool
	capturing bool

	trace      bool
	traceW     io.Writer
	reportPath string
}

// New returns an engine in bootstrap mode with default configuration.
// Until Bind is called, every Malloc is served from the bootstrap region.
func New() *Engine {
	return &Engine{
		boot:   bootstrap.New(),
		traceW: os.Stderr,
		unwind: runtime.Callers,
		newResolver: func() (report.Resolver, error) {
			return symbolize.NewSession()
		},
	}
}

// Configure applies cfg. Call before Bind; reconfiguring a live engine
// mid-run is not supported.
func (e *Engine) Configure(cfg Config) {
	e.reportPath = cfg.ReportPath
	e.trace = cfg.Trace
	if cfg.TraceWriter != nil {
		e.traceW = cfg.TraceWriter
	}
	if cfg.Unwind != nil {
		e.unwind = cfg.Unwind
	}
	if cfg.NewResolver != nil {
		e.newResolver = cfg.NewResolver
	}
}

// Bind resolves the real allocator, completing initialization. From this
// point Malloc takes the tracked path and bootstrap memory is frozen.
func (e *Engine) Bind(sys sysalloc.Allocator) {
	e.sys = sys
	e.ready = true
}

// Ready reports whether initialization has completed.
func (e *Engine) Ready() bool {
	return e.ready
}

// Live returns the number of tracked allocations not yet freed.
func (e *Engine) Live() int {
	return e.store.Len()
}

// Bootstrap exposes the bootstrap region, for the pre-init no-op checks
// and for tests.
func (e *Engine) Bootstrap() *bootstrap.Region {
	return e.boot
}

// Malloc services an allocation request of size bytes. It returns nil
// when the backing allocator denies the request, matching the real
// allocator's out-of-memory contract; it never panics and never reports
// failure any other way.
func (e *Engine) Malloc(size uintptr) unsafe.Pointer {
	if !e.ready {
		return e.boot.Alloc(size)
	}
	if e.capturing {
		// Allocation made by the unwinder or the symbolizer: serve it
		// untracked or we recurse forever.
		return e.sys.Alloc(size)
	}

	if size > ^uintptr(0)-records.HeaderSize {
		// The header would not fit; the request is unserviceable.
		return nil
	}
	block := e.sys.Alloc(size + records.HeaderSize)
	if block == nil {
		return nil
	}
	r := records.Place(block, size)
	e.captureStack(r)
	e.store.Insert(r)

	p := r.Payload()
	if e.trace {
		fmt.Fprintf(e.traceW, "malloc(%d) = %p\n", size, p)
	}
	return p
}

// Free releases a pointer previously returned by Malloc. Nil pointers
// and bootstrap-region pointers are no-ops; before initialization
// completes those are the only pointers that can exist, so the remaining
// paths assume a bound allocator.
func (e *Engine) Free(p unsafe.Pointer) {
	if p == nil || e.boot.Contains(p) {
		return
	}
	if e.capturing {
		e.sys.Free(p)
		return
	}

	r := records.FromPayload(p)
	e.store.Remove(r)
	e.sys.Free(unsafe.Pointer(r))

	if e.trace {
		fmt.Fprintf(e.traceW, "free(%p)\n", p)
	}
}

// captureStack populates r's frame data under the reentrancy guard. The
// guard clears on every exit path, including a panicking unwinder.
func (e *Engine) captureStack(r *records.Record) {
	e.capturing = true
	defer func() { e.capturing = false }()
	r.NumPCs = e.unwind(captureSkip, r.PCs[:])
}

// WriteReport runs the shutdown symbolization pass: it opens the
// configured destination in append mode, builds the debug-information
// session, and writes one stanza per live record, newest first. The
// guard stays set throughout so any allocation by the symbolizer runs
// untracked.
//
// Failures come back as *report.OpenError or *report.SessionError; the
// caller decides how fatal to be.
func (e *Engine) WriteReport() error {
	e.capturing = true
	defer func() { e.capturing = false }()

	f, err := os.OpenFile(e.reportPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return &report.OpenError{Path: e.reportPath, Err: err}
	}
	defer f.Close()

	res, err := e.newResolver()
	if err != nil {
		// The destination is the only reliable channel left; record the
		// failure there before the caller terminates.
		fmt.Fprintf(f, "debug info session: %v\n", err)
		return &report.SessionError{Err: err}
	}
	defer res.Close()

	return report.Write(f, &e.store, res)
}

// interface check: the production symbolizer must satisfy the report's
// resolver contract.
var _ report.Resolver = (*symbolize.Session)(nil)
