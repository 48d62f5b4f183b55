// Package config reads the leak tracker's environment configuration.
//
// Configuration is environment-style key/value, read exactly once during
// initialization, the same way the tracker's predecessors configured
// themselves under LD_PRELOAD.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

// Environment variable names.
const (
	// EnvReportPath names the file the shutdown leak report is appended
	// to. Required: without a destination there is no way to persist leak
	// data, so absence is fatal at initialization.
	EnvReportPath = "LEAKTRACK_REPORT"

	// EnvTrace enables per-call diagnostic lines on standard error.
	// Optional; any strconv.ParseBool true value ("1", "true", ...) turns
	// it on.
	EnvTrace = "LEAKTRACK_TRACE"
)

// ErrNoReportPath is returned when the required report destination is not
// configured.
var ErrNoReportPath = fmt.Errorf("%s environment variable is not set", EnvReportPath)

// Config holds the tracker's startup configuration.
type Config struct {
	// ReportPath is the leak report destination (append mode; multiple
	// runs may accumulate in the same file).
	ReportPath string

	// Trace enables malloc/free diagnostic lines on stderr.
	Trace bool
}

// FromEnv reads the configuration from the process environment.
func FromEnv() (Config, error) {
	return fromLookup(os.LookupEnv)
}

// fromLookup is FromEnv with an injectable environment, for tests.
func fromLookup(lookup func(string) (string, bool)) (Config, error) {
	path, ok := lookup(EnvReportPath)
	if !ok || path == "" {
		return Config{}, ErrNoReportPath
	}

	cfg := Config{ReportPath: path}
	if raw, ok := lookup(EnvTrace); ok {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			// An unrecognized toggle is not worth dying over; leave
			// tracing off.
			v = false
		}
		cfg.Trace = v
	}
	return cfg, nil
}

// IsMissingReport reports whether err is the missing-report-path error.
func IsMissingReport(err error) bool {
	return errors.Is(err, ErrNoReportPath)
}
