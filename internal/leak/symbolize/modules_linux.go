//go:build linux

package symbolize

import (
	"os"
	"strconv"
	"strings"
)

// loadModules enumerates the executable mappings of the current process
// from /proc/self/maps. An unreadable maps file is an error: without the
// module list there is no way to attribute foreign addresses.
func loadModules(string) ([]Module, error) {
	data, err := os.ReadFile("/proc/self/maps")
	if err != nil {
		return nil, err
	}
	return parseMaps(string(data)), nil
}

// parseMaps extracts file-backed executable mappings from maps content.
//
// Each line looks like:
//
//	55d0e1a2c000-55d0e1b4d000 r-xp 00025000 103:02 2097197 /usr/bin/prog
func parseMaps(text string) []Module {
	var mods []Module
	for _, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 6 {
			continue
		}
		perms, path := fields[1], fields[5]
		if !strings.Contains(perms, "x") || !strings.HasPrefix(path, "/") {
			continue
		}
		lo, hi, ok := strings.Cut(fields[0], "-")
		if !ok {
			continue
		}
		start, err1 := strconv.ParseUint(lo, 16, 64)
		end, err2 := strconv.ParseUint(hi, 16, 64)
		if err1 != nil || err2 != nil {
			continue
		}
		mods = append(mods, Module{
			Start: uintptr(start),
			End:   uintptr(end),
			Path:  path,
		})
	}
	return mods
}
