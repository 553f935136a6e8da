// Package reconcile converges target paths to the artifacts of the source
// repository.
//
// Every artifact maps to exactly one path under the target root. The state
// of that path is derived on each run from Lstat and Readlink, never stored:
//
//   - absent: nothing there, so the link (or rendered file) is created
//   - linked: already correct, nothing to do
//   - stale: a symlink pointing elsewhere or dangling. Symlinks at target
//     paths belong to the installer and are replaced without asking
//   - occupied: a real file or directory. It is only replaced after the
//     Confirmer says yes; otherwise the artifact is skipped
//
// Failures are recorded per artifact and never stop the batch.
package reconcile
