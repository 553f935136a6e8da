// Package paths resolves every location aisetup touches: the source
// repository holding the artifacts, and the root directory of each
// installation target (Claude Code, Claude Desktop, Cursor).
//
// Target resolution is where host-OS differences live. Claude Desktop keeps
// its config under ~/Library/Application Support/Claude on Darwin and under
// ~/.config/Claude on Linux; any other OS is a precondition failure.
package paths
