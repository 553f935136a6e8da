// Package filesystem provides the OS-backed implementation of types.FS and
// Plan, which applies queued changes to a target path through synthfs.
package filesystem
