// Package symbolize resolves raw return addresses to human-readable
// locations for the shutdown leak report.
//
// A Session is the debug-information scope for the current process: it
// enumerates the loaded modules once, loads whatever function symbols the
// executable carries, and then answers per-PC queries. Go frames resolve
// through the runtime's own tables (function, file, line); addresses the
// runtime cannot name fall back to the executable's ELF symbol table, and
// C++-mangled names found there are demangled for display.
//
// Session construction can fail (no executable path, unreadable module
// list); the caller treats that as fatal, because a report without
// symbols defeats the purpose of the run.
package symbolize

import (
	"debug/elf"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"

	"github.com/ianlancetaylor/demangle"
)

// Module is one loaded executable image in the process.
type Module struct {
	Start uintptr
	End   uintptr
	Path  string
}

// funcSym is one function symbol from the executable's symbol table.
type funcSym struct {
	addr uintptr
	size uintptr
	name string
}

// Session holds the per-process debug-information state for one reporting
// pass.
type Session struct {
	exe     string
	modules []Module
	syms    []funcSym // sorted by addr
}

// NewSession enumerates the process's loaded modules and prepares symbol
// lookup. It returns an error when the executable cannot be located or
// the module list cannot be read.
func NewSession() (*Session, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("locate executable: %w", err)
	}
	mods, err := loadModules(exe)
	if err != nil {
		return nil, fmt.Errorf("enumerate modules: %w", err)
	}
	s := &Session{exe: exe, modules: mods}
	// Symbol tables are optional: a stripped binary still gets Go-frame
	// resolution through the runtime.
	s.loadSymbols(exe)
	return s, nil
}

// Close releases the session. It exists so callers can treat the session
// as a scoped resource; nothing is held open between queries today.
func (s *Session) Close() error {
	return nil
}

// Module returns the loaded module owning pc.
func (s *Session) Module(pc uintptr) (Module, bool) {
	for _, m := range s.modules {
		if pc >= m.Start && pc < m.End {
			return m, true
		}
	}
	return Module{}, false
}

// Resolve maps a raw return address to a function name and, when
// available, a source location. An empty function name means the address
// could not be attributed; the caller substitutes its unknown marker.
func (s *Session) Resolve(pc uintptr) (function, file string, line int) {
	// The runtime's tables cover every Go frame, with file and line.
	frames := runtime.CallersFrames([]uintptr{pc})
	fr, _ := frames.Next()
	if fr.Function != "" {
		return fr.Function, fr.File, fr.Line
	}

	// Non-Go frame: fall back to the executable's symbol table. Symbol
	// values are link-time addresses, so this covers non-relocated
	// executables; PCs in relocated shared objects stay unresolved.
	if name, ok := s.lookupSymbol(pc); ok {
		return Demangle(name), "", 0
	}
	return "", "", 0
}

// lookupSymbol finds the function symbol covering pc.
func (s *Session) lookupSymbol(pc uintptr) (string, bool) {
	i := sort.Search(len(s.syms), func(i int) bool { return s.syms[i].addr > pc })
	if i == 0 {
		return "", false
	}
	sym := s.syms[i-1]
	if sym.size > 0 && pc >= sym.addr+sym.size {
		return "", false
	}
	return sym.name, true
}

// loadSymbols pulls STT_FUNC symbols out of the executable, best effort.
func (s *Session) loadSymbols(path string) {
	f, err := elf.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	syms, err := f.Symbols()
	if err != nil {
		return
	}
	for _, sym := range syms {
		if elf.ST_TYPE(sym.Info) != elf.STT_FUNC || sym.Name == "" || sym.Value == 0 {
			continue
		}
		s.syms = append(s.syms, funcSym{
			addr: uintptr(sym.Value),
			size: uintptr(sym.Size),
			name: sym.Name,
		})
	}
	sort.Slice(s.syms, func(i, j int) bool { return s.syms[i].addr < s.syms[j].addr })
}

// Demangle turns an Itanium-ABI mangled name ("_Z...") into its
// human-readable form. Names in any other convention pass through
// unchanged.
func Demangle(name string) string {
	if strings.HasPrefix(name, "_Z") {
		return demangle.Filter(name)
	}
	return name
}
