// Package testutil provides utilities for testing aisetup components.
//
// Key components:
//   - TestEnvironment: an isolated HOME, source repository and project
//     directory under t.TempDir, with environment variables pointed at it
//   - FileTree: declarative source tree setup
//   - TreeDigest: a content hash of a directory tree, used to prove that
//     dry-run and check modes write nothing
//   - FakeHost: a scripted stand-in for the host CLI that writes the same
//     manifest files the real one does
//
// Tests use real temporary directories; symlink semantics are the thing
// under test and in-memory filesystems do not model them faithfully.
package testutil
