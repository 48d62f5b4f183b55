// Package leak provides the public API for the heap leak tracker.
//
// See doc.go for detailed documentation and examples.
package leak

import (
	"errors"
	"fmt"
	"os"
	"unsafe"

	"github.com/kolkov/leaktrack/internal/leak/config"
	"github.com/kolkov/leaktrack/internal/leak/engine"
	"github.com/kolkov/leaktrack/internal/leak/report"
	"github.com/kolkov/leaktrack/internal/leak/sysalloc"
)

// Process exit codes for the tracker's fatal conditions. Everything else
// is reported through ordinary allocation results.
const (
	// ExitNoReportPath: the required report destination was not
	// configured at initialization.
	ExitNoReportPath = 1

	// ExitReportOpen: the report destination could not be opened at
	// shutdown.
	ExitReportOpen = 2

	// ExitSymbols: the debug-information session could not be
	// initialized at shutdown.
	ExitSymbols = 3
)

// def is the process-wide engine. It exists before Init so allocations
// made during early startup are served from the bootstrap region.
var def *engine.Engine

// current returns the process engine, creating it in bootstrap mode on
// first use.
func current() *engine.Engine {
	if def == nil {
		def = engine.New()
	}
	return def
}

// Init completes the tracker's initialization: it reads the environment
// configuration and binds the real allocator. Allocations made before
// Init are served from a fixed bootstrap region and are never tracked or
// reclaimed.
//
// A missing LEAKTRACK_REPORT setting is fatal: Init writes a diagnostic
// to standard error and terminates the process with ExitNoReportPath.
// Init is safe to call multiple times (subsequent calls are no-ops).
//
//	func main() {
//		leak.Init()
//		defer leak.Fini()
//		// ... rest of program
//	}
func Init() {
	e := current()
	if e.Ready() {
		return
	}
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "leaktrack: %v\n", err)
		os.Exit(ExitNoReportPath)
	}
	e.Configure(engine.Config{ReportPath: cfg.ReportPath, Trace: cfg.Trace})
	e.Bind(sysalloc.System())
}

// Fini runs the shutdown reporting pass: every allocation still live is
// written to the configured report file with its symbolized call stack.
//
// Reporting is the entire purpose of the run, so an unreportable state is
// fatal: failure to open the destination terminates the process with
// ExitReportOpen, and failure to initialize the debug-information session
// terminates it with ExitSymbols (after leaving a diagnostic line in the
// destination). Use defer so cleanup runs on every exit path:
//
//	leak.Init()
//	defer leak.Fini()
func Fini() {
	if def == nil || !def.Ready() {
		return
	}
	err := def.WriteReport()
	if err == nil {
		return
	}

	fmt.Fprintf(os.Stderr, "leaktrack: %v\n", err)
	var oe *report.OpenError
	if errors.As(err, &oe) {
		os.Exit(ExitReportOpen)
	}
	var se *report.SessionError
	if errors.As(err, &se) {
		os.Exit(ExitSymbols)
	}
	os.Exit(ExitReportOpen)
}

// Malloc allocates size bytes through the tracker and returns the
// payload pointer, or nil when memory is exhausted — the same contract
// as the allocator it stands in for. Each successful post-Init call
// records the requested size and the call stack of the allocation site.
func Malloc(size int) unsafe.Pointer {
	if size < 0 {
		return nil
	}
	return current().Malloc(uintptr(size))
}

// Free releases a pointer previously returned by Malloc. Freeing nil or
// bootstrap-phase memory is a no-op.
func Free(p unsafe.Pointer) {
	current().Free(p)
}

// Bytes is a convenience wrapper over Malloc returning the allocation as
// a byte slice. Release it with FreeBytes.
func Bytes(size int) []byte {
	p := Malloc(size)
	if p == nil {
		return nil
	}
	return unsafe.Slice((*byte)(p), size)
}

// FreeBytes releases a slice obtained from Bytes.
func FreeBytes(b []byte) {
	if len(b) == 0 {
		return
	}
	Free(unsafe.Pointer(&b[0]))
}

// LiveRecords returns the number of tracked allocations not yet freed.
// At shutdown this is exactly the number of leaks the report will show.
func LiveRecords() int {
	return current().Live()
}
