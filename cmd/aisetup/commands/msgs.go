package commands

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	MsgRootShort = "Install AI assistant configuration into Claude Code, Claude Desktop or Cursor"
	MsgRootUse   = "aisetup [code|desktop|cursor [PATH]]"

	// Flag descriptions
	MsgFlagVerbose   = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagCheck     = "Report health and exit nonzero when unhealthy"
	MsgFlagDryRun    = "Preview changes without executing them"
	MsgFlagUninstall = "Remove what aisetup installed"
	MsgFlagSource    = "Artifact repository (default: detected)"
	MsgFlagConfig    = "Config file (default: $XDG_CONFIG_HOME/aisetup/config.toml)"
	MsgFlagFormat    = "Output format: auto, term or text"

	// Status messages
	MsgModeConflict   = "more than one of --check, --dry-run and --uninstall given; using --%s"
	MsgSourceFallback = "no artifact repository detected, using the current directory %s"
	MsgDone           = "%s: done"
	MsgHealthy        = "%s: healthy"
	MsgUnhealthy      = "%s: not healthy"
	MsgFailed         = "%s: finished with errors"
	MsgDeclined       = "%d existing path(s) kept; re-run to be asked again"

	// Version output
	MsgVersionTemplate = "aisetup version {{.Version}}\n"

	// Error messages
	MsgErrTooManyArgs   = "too many arguments: %s"
	MsgErrUnknownTarget = "unknown target %q (expected code, desktop or cursor)"
	MsgErrPathArg       = "only the cursor target takes a PATH argument"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/root-example.txt
	msgRootExampleRaw string
	MsgRootExample    = strings.TrimRight(msgRootExampleRaw, "\n")
)
