// Package report writes the shutdown leak report.
//
// A record still registered when reporting runs is, by definition, a
// leak; there is no other signal. The report lists every one of them
// individually, newest first, with its captured call stack resolved
// through a Resolver.
//
// The destination is opened in append mode so repeated runs of the same
// program accumulate their reports in one file. Failing to open the
// destination or to build a debug-information session are the two
// unrecoverable conditions of the whole tracker, surfaced here as typed
// errors so the top-level entry point can map them to distinct exit
// codes.
package report

import (
	"fmt"
	"io"

	"github.com/kolkov/leaktrack/internal/leak/records"
)

// UnknownFunction is printed for frames whose address could not be
// attributed to any function.
const UnknownFunction = "<UNKNOWN>"

// Resolver is the debug-information capability the report consumes. An
// empty function result means the address is unresolvable.
type Resolver interface {
	Resolve(pc uintptr) (function, file string, line int)
	Close() error
}

// OpenError reports that the configured destination could not be opened.
// Fatal: there is no way to persist leak data otherwise.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open report %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// SessionError reports that the debug-information session could not be
// initialized. Fatal: leak addresses would be meaningless numbers.
type SessionError struct {
	Err error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("debug info session: %v", e.Err)
}

func (e *SessionError) Unwrap() error { return e.Err }

// Write streams the leak report for every record in s, newest to oldest:
//
//	<N> records
//
//	<size> bytes:
//	<func>(<file>:<line>)
//	<func>(0x<rawaddr>)
//	...
//
// Frames resolve through res; unresolved functions print as
// UnknownFunction, and frames without source information print the raw
// address instead of file:line.
func Write(w io.Writer, s *records.Store, res Resolver) error {
	if _, err := fmt.Fprintf(w, "%d records\n", s.Len()); err != nil {
		return err
	}

	var werr error
	s.ForEach(func(r *records.Record) bool {
		if _, err := fmt.Fprintf(w, "\n%d bytes:\n", r.Len); err != nil {
			werr = err
			return false
		}
		for _, pc := range r.Trace() {
			function, file, line := res.Resolve(pc)
			if function == "" {
				function = UnknownFunction
			}
			var err error
			if file != "" {
				_, err = fmt.Fprintf(w, "%s(%s:%d)\n", function, file, line)
			} else {
				_, err = fmt.Fprintf(w, "%s(0x%x)\n", function, pc)
			}
			if err != nil {
				werr = err
				return false
			}
		}
		return true
	})
	return werr
}
