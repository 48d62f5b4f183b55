//go:build !linux

package symbolize

// loadModules has no per-process mapping source outside Linux; the
// executable itself is reported as a single module covering the whole
// address space, which keeps Resolve's module attribution working.
func loadModules(exe string) ([]Module, error) {
	return []Module{{Start: 0, End: ^uintptr(0), Path: exe}}, nil
}
