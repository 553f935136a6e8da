package types

// LinkState is the derived state of one artifact's target path. It is
// computed from the filesystem on demand and never stored.
type LinkState int

const (
	// LinkAbsent means nothing exists at the target path
	LinkAbsent LinkState = iota

	// LinkCorrect means the target already resolves to the source
	// (or, for rendered artifacts, holds the expected content)
	LinkCorrect

	// LinkStale means the target is a symlink pointing elsewhere or broken.
	// Symlinks at target paths are installer-owned and replaced freely.
	LinkStale

	// LinkOccupied means a real file or directory is in the way
	LinkOccupied
)

func (s LinkState) String() string {
	switch s {
	case LinkAbsent:
		return "absent"
	case LinkCorrect:
		return "linked"
	case LinkStale:
		return "stale"
	case LinkOccupied:
		return "occupied"
	default:
		return "unknown"
	}
}
