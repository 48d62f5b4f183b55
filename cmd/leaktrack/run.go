// run.go implements the 'leaktrack run' command.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/kolkov/leaktrack/internal/leak/config"
)

// runConfig holds the parsed arguments of a run invocation.
type runConfig struct {
	reportPath string
	trace      bool
	print      bool
	binary     string
	args       []string
}

// runCommand implements the 'leaktrack run' command.
//
// It executes the given program with the tracking environment prepared,
// forwards stdin/stdout/stderr, and exits with the program's own exit
// code — including the tracker's fatal codes, so scripts can distinguish
// "program failed" from "report could not be written".
func runCommand(args []string) {
	cfg, err := parseRunArgs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	exitCode := executeBinary(cfg)

	if cfg.print {
		if err := dumpReport(os.Stdout, cfg.reportPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
	os.Exit(exitCode)
}

// parseRunArgs separates run flags from the program and its arguments.
//
// Format:
//
//	leaktrack run [-report file] [-trace] [-print] program [arguments...]
//
// Everything after the program path belongs to the program.
func parseRunArgs(args []string) (*runConfig, error) {
	cfg := &runConfig{reportPath: "leaks.txt"}

	i := 0
	for ; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			break
		}
		switch arg {
		case "-trace":
			cfg.trace = true
		case "-print":
			cfg.print = true
		case "-report":
			i++
			if i >= len(args) {
				return nil, errors.New("-report requires a value")
			}
			cfg.reportPath = args[i]
		default:
			return nil, fmt.Errorf("unknown flag: %s", arg)
		}
	}
	if i >= len(args) {
		return nil, errors.New("no program specified")
	}
	cfg.binary = args[i]
	cfg.args = args[i+1:]
	return cfg, nil
}

// executeBinary runs the program with the tracking environment set and
// returns its exit code.
func executeBinary(cfg *runConfig) int {
	cmd := exec.Command(cfg.binary, cfg.args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	env := append(os.Environ(), config.EnvReportPath+"="+cfg.reportPath)
	if cfg.trace {
		env = append(env, config.EnvTrace+"=1")
	}
	cmd.Env = env

	if err := cmd.Run(); err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			return ee.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// dumpReport copies the report file to w.
func dumpReport(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open report: %w", err)
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}
