package report

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolkov/leaktrack/internal/leak/records"
)

// mapResolver resolves from a fixed table; unlisted PCs are unresolved.
type mapResolver map[uintptr]struct {
	function string
	file     string
	line     int
}

func (m mapResolver) Resolve(pc uintptr) (string, string, int) {
	f, ok := m[pc]
	if !ok {
		return "", "", 0
	}
	return f.function, f.file, f.line
}

func (m mapResolver) Close() error { return nil }

func TestWriteEmpty(t *testing.T) {
	var s records.Store
	var buf bytes.Buffer

	require.NoError(t, Write(&buf, &s, mapResolver{}))
	assert.Equal(t, "0 records\n", buf.String(), "no leaks means a bare count and no stanzas")
}

func TestWriteSingleLeak(t *testing.T) {
	var s records.Store
	r := &records.Record{Len: 16}
	r.PCs[0] = 0x1000
	r.PCs[1] = 0x2000
	r.PCs[2] = 0x3000
	r.NumPCs = 3
	s.Insert(r)

	res := mapResolver{
		0x1000: {"main.newWidget", "/src/widget.go", 14},
		0x2000: {"operator new(unsigned long)", "", 0},
		// 0x3000 deliberately unresolved.
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, &s, res))

	want := strings.Join([]string{
		"1 records",
		"",
		"16 bytes:",
		"main.newWidget(/src/widget.go:14)",
		"operator new(unsigned long)(0x2000)",
		"<UNKNOWN>(0x3000)",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestWriteNewestFirst(t *testing.T) {
	var s records.Store
	for _, n := range []uintptr{8, 24, 100} {
		r := &records.Record{Len: n}
		r.PCs[0] = 0x1
		r.NumPCs = 1
		s.Insert(r)
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, &s, mapResolver{}))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "3 records\n"))
	i100 := strings.Index(out, "100 bytes:")
	i24 := strings.Index(out, "24 bytes:")
	i8 := strings.Index(out, "8 bytes:")
	require.NotEqual(t, -1, i100)
	require.NotEqual(t, -1, i24)
	require.NotEqual(t, -1, i8)
	assert.Less(t, i100, i24, "newest allocation must be reported first")
	assert.Less(t, i24, i8)
}

// shortWriter fails after a fixed number of bytes.
type shortWriter struct {
	n int
}

func (w *shortWriter) Write(p []byte) (int, error) {
	if w.n <= 0 {
		return 0, errors.New("disk full")
	}
	w.n -= len(p)
	return len(p), nil
}

func TestWritePropagatesIOError(t *testing.T) {
	var s records.Store
	r := &records.Record{Len: 8}
	r.PCs[0] = 0x1
	r.NumPCs = 1
	s.Insert(r)

	err := Write(&shortWriter{n: 12}, &s, mapResolver{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestTypedErrors(t *testing.T) {
	oe := &OpenError{Path: "/nope/leaks.txt", Err: errors.New("permission denied")}
	assert.Contains(t, oe.Error(), "/nope/leaks.txt")
	assert.Contains(t, oe.Error(), "permission denied")
	assert.EqualError(t, errors.Unwrap(oe), "permission denied")

	se := &SessionError{Err: fmt.Errorf("enumerate modules: %w", errors.New("no maps"))}
	assert.Contains(t, se.Error(), "enumerate modules")
	require.NotNil(t, errors.Unwrap(se))
}
