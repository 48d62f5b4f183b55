package leak

import "github.com/kolkov/leaktrack/internal/leak/records"

// Version information for the leak tracker.
const (
	// Version is the current version of the tracker runtime.
	Version = "0.1.0"

	// VersionMajor is the major version number.
	VersionMajor = 0

	// VersionMinor is the minor version number.
	VersionMinor = 1

	// VersionPatch is the patch version number.
	VersionPatch = 0
)

// Info provides runtime information about the leak tracker.
type Info struct {
	// Version is the runtime version string.
	Version string

	// MaxFrames is the stack depth captured per allocation.
	MaxFrames int

	// Initialized indicates whether Init has completed and allocations
	// are being tracked.
	Initialized bool
}

// GetInfo returns information about the leak tracker runtime.
//
// Example:
//
//	info := leak.GetInfo()
//	fmt.Printf("leaktrack %s, %d live\n", info.Version, leak.LiveRecords())
func GetInfo() Info {
	return Info{
		Version:     Version,
		MaxFrames:   records.MaxFrames,
		Initialized: current().Ready(),
	}
}
