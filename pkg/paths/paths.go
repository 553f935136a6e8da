package paths

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/aisetup/pkg/errors"
)

// EnvHome is the standard home directory variable
const EnvHome = "HOME"

// sourceMarkers are entries whose presence identifies an artifact repository
var sourceMarkers = []string{".claude-plugin", "rules", "skills", "commands"}

// SourceRoot is the resolved artifact repository
type SourceRoot struct {
	Path string

	// UsedFallback is true when no repository was detected and the current
	// working directory was used instead
	UsedFallback bool
}

// FindSourceRoot determines the artifact repository using the following priority:
//  1. explicit path (from --source or source.root)
//  2. the nearest ancestor of the executable that looks like a repository
//  3. the git repository containing the working directory, if it looks like one
//  4. the current working directory (fallback)
func FindSourceRoot(explicit string) (SourceRoot, error) {
	if explicit != "" {
		abs, err := filepath.Abs(ExpandHome(explicit))
		if err != nil {
			return SourceRoot{}, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for %s", explicit)
		}
		if !IsDir(abs) {
			return SourceRoot{}, errors.Newf(errors.ErrPrecondition, "source root %s is not a directory", abs)
		}
		return SourceRoot{Path: abs}, nil
	}

	if exe, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		if root := findMarkedAncestor(filepath.Dir(exe)); root != "" {
			return SourceRoot{Path: root}, nil
		}
	}

	if gitRoot, err := findGitRoot(); err == nil && LooksLikeSource(gitRoot) {
		return SourceRoot{Path: gitRoot}, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return SourceRoot{}, errors.Wrapf(err, errors.ErrFileAccess, "failed to get current directory")
	}
	return SourceRoot{Path: cwd, UsedFallback: true}, nil
}

// LooksLikeSource reports whether dir contains any artifact repository marker
func LooksLikeSource(dir string) bool {
	for _, m := range sourceMarkers {
		if _, err := os.Stat(filepath.Join(dir, m)); err == nil {
			return true
		}
	}
	return false
}

func findMarkedAncestor(dir string) string {
	for {
		if LooksLikeSource(dir) {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// findGitRoot attempts to find the root of the current git repository
func findGitRoot() (string, error) {
	output, err := exec.Command("git", "rev-parse", "--show-toplevel").Output()
	if err != nil {
		return "", err
	}

	gitRoot := strings.TrimSpace(string(output))
	if gitRoot == "" {
		return "", errors.New(errors.ErrNotFound, "git root is empty")
	}
	return gitRoot, nil
}

// HomeDir returns $HOME, falling back to the OS lookup
func HomeDir() (string, error) {
	if home := os.Getenv(EnvHome); home != "" {
		return home, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrPrecondition, "cannot determine home directory")
	}
	return home, nil
}

// ExpandHome expands a leading ~ to the home directory
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := HomeDir()
	if err != nil {
		return path
	}

	if len(path) == 1 {
		return homeDir
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}
	return path
}

// IsDir reports whether path exists and is a directory (following symlinks)
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
