// link.go implements the 'leaktrack link' command.
package main

import (
	"fmt"
	"os"
	"strings"

	rtlink "github.com/kolkov/leaktrack/cmd/leaktrack/runtime"
)

// linkCommand implements the 'leaktrack link' command.
//
// It adds the tracker runtime to a target module's go.mod so the module
// can import the leak package:
//
//	leaktrack link [-version vX.Y.Z] [dir]
//
// dir defaults to the current directory; the go.mod is located by
// walking up from there, the same way the go tool does.
func linkCommand(args []string) {
	runtimeVersion := "v" + version
	dir := "."

	i := 0
	for ; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			break
		}
		switch arg {
		case "-version":
			i++
			if i >= len(args) {
				fmt.Fprintln(os.Stderr, "Error: -version requires a value")
				os.Exit(1)
			}
			runtimeVersion = args[i]
		default:
			fmt.Fprintf(os.Stderr, "Error: unknown flag: %s\n", arg)
			os.Exit(1)
		}
	}
	if i < len(args) {
		dir = args[i]
	}

	goMod := rtlink.FindGoMod(dir)
	if goMod == "" {
		fmt.Fprintf(os.Stderr, "Error: no go.mod found from %s\n", dir)
		os.Exit(1)
	}

	added, err := rtlink.EnsureRequire(goMod, runtimeVersion)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if added {
		fmt.Printf("Added %s %s to %s\n", rtlink.ModulePath(), runtimeVersion, goMod)
		fmt.Printf("Import %q and add to main():\n%s\n", rtlink.RuntimePackagePath(), rtlink.InitSnippet())
	} else {
		fmt.Printf("%s already requires the tracker\n", goMod)
	}
}
