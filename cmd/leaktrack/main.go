// Package main implements the leaktrack CLI tool.
//
// The leaktrack tool wraps the leak tracker runtime for day-to-day use:
//
//  1. Running an instrumented program with the tracking environment
//     prepared and its exit code forwarded
//  2. Linking the tracker runtime into a target module's go.mod
//
// Usage:
//
//	leaktrack run ./myprogram        # Run with leak tracking configured
//	leaktrack link ./mymodule        # Add the runtime to a module
//
// The tracked program itself calls leak.Init()/leak.Fini() (see the leak
// package); this tool only takes care of the environment and module
// plumbing around it.
package main

import (
	"fmt"
	"os"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "run":
		runCommand(os.Args[2:])
	case "link":
		linkCommand(os.Args[2:])
	case "version", "--version", "-v":
		fmt.Printf("leaktrack version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`leaktrack - heap allocation leak tracker

USAGE:
    leaktrack <command> [arguments]

COMMANDS:
    run        Run a program with leak tracking configured
    link       Add the leaktrack runtime to a module's go.mod
    version    Show version information
    help       Show this help message

EXAMPLES:
    # Run a program, writing the leak report to leaks.txt
    leaktrack run -report leaks.txt ./myapp --flag=value

    # Run with per-call tracing and print the report afterwards
    leaktrack run -trace -print ./myapp

    # Make a module ready to import github.com/kolkov/leaktrack/leak
    leaktrack link ./path/to/module

ABOUT:
    leaktrack tracks every allocation a program routes through the leak
    package and reports, at shutdown, every allocation never freed,
    together with the symbolized call stack of its allocation site.

    The run command prepares the environment (LEAKTRACK_REPORT,
    LEAKTRACK_TRACE), executes the program, and forwards its exit code.
    The report accumulates across runs: the destination is opened in
    append mode.

FOR MORE INFORMATION:
    Repository: https://github.com/kolkov/leaktrack
`)
}
