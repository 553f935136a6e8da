package plugin

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/arthur-debert/aisetup/pkg/errors"
	"github.com/arthur-debert/aisetup/pkg/logging"
)

// HostCLI defines the interface for driving the host's plugin commands.
type HostCLI interface {
	// Available returns a precondition error when the CLI cannot be found
	Available() error

	// MarketplaceAdd registers a marketplace from a path or URL.
	MarketplaceAdd(ctx context.Context, source string) error

	// Install installs a plugin at the specified scope.
	Install(ctx context.Context, pluginID string, scope Scope) error

	// Uninstall removes a plugin from the specified scope.
	Uninstall(ctx context.Context, pluginID string, scope Scope) error
}

// realClient implements HostCLI by shelling out to the claude CLI.
type realClient struct {
	claudePath string
}

// NewClient creates a new HostCLI using "claude" from PATH.
func NewClient() HostCLI {
	return &realClient{claudePath: "claude"}
}

// NewClientWithPath creates a new HostCLI using the specified binary path.
func NewClientWithPath(path string) HostCLI {
	if path == "" {
		path = "claude"
	}
	return &realClient{claudePath: path}
}

// Available implements HostCLI.Available.
func (c *realClient) Available() error {
	if _, err := exec.LookPath(c.claudePath); err != nil {
		return errors.Wrapf(err, errors.ErrPrecondition,
			"%s CLI not found in PATH; install Claude Code first", c.claudePath)
	}
	return nil
}

// MarketplaceAdd implements HostCLI.MarketplaceAdd.
func (c *realClient) MarketplaceAdd(ctx context.Context, source string) error {
	return c.run(ctx, "plugin", "marketplace", "add", source)
}

// Install implements HostCLI.Install.
func (c *realClient) Install(ctx context.Context, pluginID string, scope Scope) error {
	return c.run(ctx, "plugin", "install", pluginID, "--scope", string(scope))
}

// Uninstall implements HostCLI.Uninstall.
func (c *realClient) Uninstall(ctx context.Context, pluginID string, scope Scope) error {
	return c.run(ctx, "plugin", "uninstall", pluginID, "--scope", string(scope))
}

func (c *realClient) run(ctx context.Context, args ...string) error {
	logging.LogCommand(c.claudePath, args)

	// #nosec G204 -- binary comes from config, args are fixed verbs plus plugin identifiers
	cmd := exec.CommandContext(ctx, c.claudePath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return errors.Wrapf(err, errors.ErrPrecondition, "%s CLI not found", c.claudePath)
		}
		return errors.Wrapf(err, errors.ErrHostCommand, "%s %s failed: %s",
			c.claudePath, strings.Join(args[:len(args)-1], " "), strings.TrimSpace(stderr.String()))
	}
	return nil
}
