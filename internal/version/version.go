package version

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/arthur-debert/aisetup/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/arthur-debert/aisetup/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/arthur-debert/aisetup/internal/version.Date={{.Date}}
)

// String returns the version with commit and build date when known
func String() string {
	s := Version
	if Commit != "unknown" && Commit != "" {
		s += " (" + Commit
		if Date != "unknown" && Date != "" {
			s += ", " + Date
		}
		s += ")"
	}
	return s
}
