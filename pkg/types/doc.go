// Package types defines the core types and interfaces used throughout aisetup.
// This includes the Artifact and InstallationTarget data model, the run Mode
// enum, the derived LinkState, and the FS interface every filesystem-touching
// component is written against.
package types
