// Package logging wires zerolog for aisetup: a console writer on stderr plus
// an append-only log file under the XDG state directory.
package logging
