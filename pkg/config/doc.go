// Package config handles configuration management for aisetup.
// Configuration is layered: embedded defaults, then the user's TOML file
// under the XDG config home, then AISETUP_* environment variables, then
// overrides coming from command-line flags.
package config
