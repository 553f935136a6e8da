package types

import "fmt"

// Mode is the run mode of a single invocation. Exactly one mode is active
// per run; it is built once when the command line is parsed.
type Mode int

const (
	// ModeInstall converges the target to the desired state
	ModeInstall Mode = iota

	// ModeDryRun reports every action without writing anything
	ModeDryRun

	// ModeCheck reports health and exits nonzero when unhealthy
	ModeCheck

	// ModeUninstall removes what the installer owns
	ModeUninstall
)

// String returns the flag-style name of the mode
func (m Mode) String() string {
	switch m {
	case ModeInstall:
		return "install"
	case ModeDryRun:
		return "dry-run"
	case ModeCheck:
		return "check"
	case ModeUninstall:
		return "uninstall"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Writes reports whether the mode is allowed to mutate the filesystem
func (m Mode) Writes() bool {
	return m == ModeInstall || m == ModeUninstall
}

// ModeFromFlags picks the mode from the three mode flags. When more than one
// flag is set the priority is check > dry-run > uninstall and conflict is true.
func ModeFromFlags(check, dryRun, uninstall bool) (mode Mode, conflict bool) {
	set := 0
	for _, b := range []bool{check, dryRun, uninstall} {
		if b {
			set++
		}
	}
	conflict = set > 1

	switch {
	case check:
		return ModeCheck, conflict
	case dryRun:
		return ModeDryRun, conflict
	case uninstall:
		return ModeUninstall, conflict
	default:
		return ModeInstall, conflict
	}
}
