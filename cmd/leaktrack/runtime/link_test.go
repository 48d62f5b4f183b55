package runtime

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/mod/modfile"
)

const sampleGoMod = `module example.com/demo

go 1.24

require golang.org/x/sys v0.37.0
`

func writeGoMod(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "go.mod")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestEnsureRequireAdds(t *testing.T) {
	path := writeGoMod(t, sampleGoMod)

	added, err := EnsureRequire(path, "v0.1.0")
	require.NoError(t, err)
	assert.True(t, added)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	mf, err := modfile.Parse(path, data, nil)
	require.NoError(t, err)

	found := false
	for _, r := range mf.Require {
		if r.Mod.Path == ModulePath() {
			found = true
			assert.Equal(t, "v0.1.0", r.Mod.Version)
		}
	}
	assert.True(t, found, "tracker require must be present after linking")
	assert.Equal(t, "example.com/demo", mf.Module.Mod.Path, "existing module statement preserved")
}

func TestEnsureRequireIdempotent(t *testing.T) {
	path := writeGoMod(t, sampleGoMod)

	added, err := EnsureRequire(path, "v0.1.0")
	require.NoError(t, err)
	require.True(t, added)

	before, err := os.ReadFile(path)
	require.NoError(t, err)

	added, err = EnsureRequire(path, "v9.9.9")
	require.NoError(t, err)
	assert.False(t, added, "already-required tracker left untouched")

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestEnsureRequireErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := EnsureRequire(filepath.Join(t.TempDir(), "go.mod"), "v0.1.0")
		assert.Error(t, err)
	})

	t.Run("malformed file", func(t *testing.T) {
		path := writeGoMod(t, "module example.com/demo\nrequire (\n")
		_, err := EnsureRequire(path, "v0.1.0")
		assert.Error(t, err)
	})
}

func TestFindGoMod(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte(sampleGoMod), 0o644))

	assert.Equal(t, filepath.Join(root, "go.mod"), FindGoMod(nested))
	assert.Equal(t, filepath.Join(root, "go.mod"), FindGoMod(root))
}

func TestRuntimePaths(t *testing.T) {
	assert.Equal(t, ModulePath()+"/leak", RuntimePackagePath())
	assert.Contains(t, InitSnippet(), "leak.Init()")
	assert.Contains(t, InitSnippet(), "defer leak.Fini()")
}
