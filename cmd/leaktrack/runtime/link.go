// Package runtime provides runtime library linking for programs under
// leak tracking.
//
// A program must import the leak package and call Init/Fini to be
// tracked. This package handles the module plumbing side: making sure a
// target module's go.mod requires the tracker so that import resolves.
package runtime

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"
)

// modulePath is the tracker's own module path, the one injected into
// target go.mod files.
const modulePath = "github.com/kolkov/leaktrack"

// ModulePath returns the tracker's module path.
func ModulePath() string {
	return modulePath
}

// RuntimePackagePath returns the import path tracked programs use.
func RuntimePackagePath() string {
	return modulePath + "/leak"
}

// InitSnippet returns the Go statements a tracked program places at the
// top of main().
func InitSnippet() string {
	return `leak.Init()
defer leak.Fini()`
}

// FindGoMod walks up from startDir looking for a go.mod file. It returns
// the empty string when none is found before the filesystem root.
func FindGoMod(startDir string) string {
	dir := startDir
	for {
		modPath := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(modPath); err == nil {
			return modPath
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// EnsureRequire adds the tracker requirement at the given version to the
// go.mod at path, preserving the file's existing structure. It reports
// whether the file was modified; an already-required tracker is left
// untouched regardless of version.
func EnsureRequire(path, version string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}

	mf, err := modfile.Parse(path, data, nil)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", path, err)
	}

	for _, r := range mf.Require {
		if r.Mod.Path == modulePath {
			return false, nil
		}
	}

	if err := mf.AddRequire(modulePath, version); err != nil {
		return false, fmt.Errorf("add require: %w", err)
	}
	mf.Cleanup()

	out, err := mf.Format()
	if err != nil {
		return false, fmt.Errorf("format %s: %w", path, err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, nil
}
