package paths

import (
	"path/filepath"

	"github.com/arthur-debert/aisetup/pkg/errors"
	"github.com/arthur-debert/aisetup/pkg/types"
)

// Resolver builds InstallationTargets from a target name
type Resolver struct {
	Home string

	// OS is the uname -s kernel name; empty means DetectOS()
	OS string
}

// NewResolver creates a resolver for the current user and OS
func NewResolver() (*Resolver, error) {
	home, err := HomeDir()
	if err != nil {
		return nil, err
	}
	return &Resolver{Home: home, OS: DetectOS()}, nil
}

// Resolve returns the target profile for name. projectPath is only valid
// for Cursor and must be an existing directory.
func (r *Resolver) Resolve(name types.TargetName, projectPath string) (types.InstallationTarget, error) {
	if projectPath != "" && name != types.TargetCursor {
		return types.InstallationTarget{}, errors.Newf(errors.ErrPrecondition,
			"a project path is only accepted for the cursor target, got %q", projectPath)
	}

	switch name {
	case types.TargetClaudeCode:
		return types.InstallationTarget{
			Name:           types.TargetClaudeCode,
			RootDir:        ClaudeCodeDir(r.Home),
			SupportsPlugin: true,
			Categories:     []types.Category{types.CategoryPersonalConfig, types.CategoryRule},
		}, nil

	case types.TargetClaudeDesktop:
		dir, err := ClaudeDesktopDir(r.Home, r.os())
		if err != nil {
			return types.InstallationTarget{}, err
		}
		return types.InstallationTarget{
			Name:       types.TargetClaudeDesktop,
			RootDir:    dir,
			Categories: []types.Category{types.CategoryPersonalConfig},
		}, nil

	case types.TargetCursor:
		base := r.Home
		if projectPath != "" {
			abs, err := filepath.Abs(ExpandHome(projectPath))
			if err != nil {
				return types.InstallationTarget{}, errors.Wrapf(err, errors.ErrPrecondition, "invalid project path %s", projectPath)
			}
			if !IsDir(abs) {
				return types.InstallationTarget{}, errors.Newf(errors.ErrPrecondition,
					"cursor project path %s is not an existing directory", abs)
			}
			base = abs
			projectPath = abs
		}
		return types.InstallationTarget{
			Name:        types.TargetCursor,
			RootDir:     filepath.Join(base, ".cursor"),
			Categories:  []types.Category{types.CategoryPersonalConfig, types.CategoryRule, types.CategorySkill, types.CategoryCommand},
			Rendered:    []types.Category{types.CategoryRule, types.CategoryCommand},
			ProjectPath: projectPath,
		}, nil

	default:
		return types.InstallationTarget{}, errors.Newf(errors.ErrPrecondition, "unknown target %q", name)
	}
}

func (r *Resolver) os() string {
	if r.OS == "" {
		return DetectOS()
	}
	return r.OS
}

// ClaudeCodeDir is Claude Code's personal config directory
func ClaudeCodeDir(home string) string {
	return filepath.Join(home, ".claude")
}

// ClaudeDesktopDir is Claude Desktop's config directory for the given kernel name
func ClaudeDesktopDir(home, osName string) (string, error) {
	switch osName {
	case OSDarwin:
		return filepath.Join(home, "Library", "Application Support", "Claude"), nil
	case OSLinux:
		return filepath.Join(home, ".config", "Claude"), nil
	default:
		return "", errors.Newf(errors.ErrPrecondition,
			"unsupported OS %q: Claude Desktop config path is only known for Darwin and Linux", osName).
			WithDetail("os", osName)
	}
}
