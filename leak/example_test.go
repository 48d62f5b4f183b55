package leak_test

import (
	"fmt"

	"github.com/kolkov/leaktrack/leak"
)

// Example demonstrates the basic Init/Fini lifecycle with a deliberate
// leak. Requires LEAKTRACK_REPORT to be set in the environment.
func Example() {
	leak.Init()
	defer leak.Fini()

	// This allocation is never freed: the shutdown report will show one
	// record of 100 bytes with the call stack of this line.
	_ = leak.Malloc(100)

	// This one is matched and will not appear in the report.
	p := leak.Malloc(64)
	leak.Free(p)
}

// ExampleBytes shows the slice-based convenience wrappers.
func ExampleBytes() {
	leak.Init()
	defer leak.Fini()

	buf := leak.Bytes(1024)
	copy(buf, "hello")
	leak.FreeBytes(buf)
}

// ExampleLiveRecords shows live-allocation introspection.
func ExampleLiveRecords() {
	leak.Init()
	defer leak.Fini()

	p := leak.Malloc(32)
	fmt.Println("live:", leak.LiveRecords())
	leak.Free(p)
}
