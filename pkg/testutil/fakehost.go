package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/aisetup/pkg/errors"
	"github.com/arthur-debert/aisetup/pkg/filesystem"
	"github.com/arthur-debert/aisetup/pkg/plugin"
)

// FakeHost is a scripted host CLI. Successful calls write the manifest
// entries and cache directory the real CLI would, so the manager's
// verification reads real files.
type FakeHost struct {
	Layout plugin.Layout

	// Missing makes Available fail as if the binary were not on PATH
	Missing bool

	// MarketplaceErr and InstallErr make the matching command fail
	MarketplaceErr error
	InstallErr     error
	UninstallErr   error

	// SilentInstall reports success without writing anything, so
	// verification must catch it
	SilentInstall bool

	// Calls records every command in "verb arg" form
	Calls []string
}

// NewFakeHost creates a FakeHost writing under claudeDir/plugins
func NewFakeHost(claudeDir string) *FakeHost {
	return &FakeHost{Layout: plugin.NewLayout(claudeDir)}
}

// Available implements plugin.HostCLI
func (f *FakeHost) Available() error {
	if f.Missing {
		return errors.New(errors.ErrPrecondition, "claude CLI not found in PATH")
	}
	return nil
}

// MarketplaceAdd implements plugin.HostCLI
func (f *FakeHost) MarketplaceAdd(_ context.Context, source string) error {
	f.Calls = append(f.Calls, "marketplace add "+source)
	if f.MarketplaceErr != nil {
		return f.MarketplaceErr
	}
	name := "ai-assets"
	if mp, err := plugin.ReadMarketplace(filesystem.NewOS(), source); err == nil && mp.Name != "" {
		name = mp.Name
	}
	return f.write(f.Layout.KnownMarketplaces(),
		fmt.Sprintf("{\n  %q: {\"source\": {\"source\": \"directory\", \"path\": %q}}\n}\n", name, source))
}

// Install implements plugin.HostCLI
func (f *FakeHost) Install(_ context.Context, pluginID string, scope plugin.Scope) error {
	f.Calls = append(f.Calls, fmt.Sprintf("install %s --scope %s", pluginID, scope))
	if f.InstallErr != nil {
		return f.InstallErr
	}
	if f.SilentInstall {
		return nil
	}
	name, marketplace, _ := strings.Cut(pluginID, "@")
	if err := os.MkdirAll(f.Layout.CacheDir(marketplace, name), 0755); err != nil {
		return err
	}
	return f.write(f.Layout.InstalledPlugins(),
		fmt.Sprintf("{\n  \"version\": 2,\n  \"plugins\": {\n    %q: [{\"scope\": %q}]\n  }\n}\n", pluginID, scope))
}

// Uninstall implements plugin.HostCLI
func (f *FakeHost) Uninstall(_ context.Context, pluginID string, scope plugin.Scope) error {
	f.Calls = append(f.Calls, fmt.Sprintf("uninstall %s --scope %s", pluginID, scope))
	if f.UninstallErr != nil {
		return f.UninstallErr
	}
	return f.write(f.Layout.InstalledPlugins(), "{\n  \"version\": 2,\n  \"plugins\": {}\n}\n")
}

// MarkOrphaned drops an orphan marker into the plugin's cache directory
func (f *FakeHost) MarkOrphaned(marketplace, name string) string {
	dir := f.Layout.CacheDir(marketplace, name)
	_ = os.MkdirAll(dir, 0755)
	marker := filepath.Join(dir, plugin.OrphanMarker)
	_ = os.WriteFile(marker, []byte("2025-01-15T10:00:00Z\n"), 0644)
	return marker
}

func (f *FakeHost) write(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}
