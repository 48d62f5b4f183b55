//go:build linux

package symbolize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMaps = `55d0e1a00000-55d0e1a2c000 r--p 00000000 103:02 2097197 /usr/bin/prog
55d0e1a2c000-55d0e1b4d000 r-xp 0002c000 103:02 2097197 /usr/bin/prog
55d0e1b4d000-55d0e1be9000 r--p 0014d000 103:02 2097197 /usr/bin/prog
7f10c3400000-7f10c3422000 r-xp 00000000 103:02 1843 /usr/lib/x86_64-linux-gnu/libc.so.6
7f10c3600000-7f10c3602000 rw-p 00000000 00:00 0
7ffd1c5a0000-7ffd1c5c1000 rw-p 00000000 00:00 0 [stack]
this line is garbage
`

func TestParseMaps(t *testing.T) {
	mods := parseMaps(sampleMaps)
	require.Len(t, mods, 2, "only file-backed executable mappings count")

	assert.Equal(t, Module{
		Start: 0x55d0e1a2c000,
		End:   0x55d0e1b4d000,
		Path:  "/usr/bin/prog",
	}, mods[0])
	assert.Equal(t, "/usr/lib/x86_64-linux-gnu/libc.so.6", mods[1].Path)
}

func TestParseMapsEmpty(t *testing.T) {
	assert.Empty(t, parseMaps(""))
	assert.Empty(t, parseMaps("\n\n"))
}

func TestLoadModulesSelf(t *testing.T) {
	mods, err := loadModules("")
	require.NoError(t, err)
	assert.NotEmpty(t, mods, "the test binary itself must appear in /proc/self/maps")
}
