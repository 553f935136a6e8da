// Package ui renders what aisetup did for the user: per-artifact tables,
// plugin health facts, the settings diff and the overwrite prompt.
//
// User-facing output is not logging. Everything here writes to an explicit
// io.Writer so commands and tests can capture it.
package ui
