// Package plugin manages the Claude Code plugin that distributes skills,
// commands and agents. It is a stateless client: every fact is re-read from
// the host's manifest files on each call and the host's own CLI performs
// every mutation.
package plugin

import (
	"path/filepath"
)

// Scope represents the installation scope of a plugin.
type Scope string

const (
	// ScopeUser is the global user scope (~/.claude/settings.json).
	ScopeUser Scope = "user"
	// ScopeProject is the shared project scope (.claude/settings.json).
	ScopeProject Scope = "project"
	// ScopeLocal is the local project scope (.claude/settings.local.json).
	ScopeLocal Scope = "local"
)

// OrphanMarker is the file the host drops into a plugin's cache directory
// when the plugin's marketplace can no longer be resolved
const OrphanMarker = ".orphaned_at"

// Layout locates the host's plugin state under ~/.claude/plugins
type Layout struct {
	PluginsDir string
}

// NewLayout returns the layout under a Claude Code config directory
func NewLayout(claudeDir string) Layout {
	return Layout{PluginsDir: filepath.Join(claudeDir, "plugins")}
}

// KnownMarketplaces is the host's marketplace registry
func (l Layout) KnownMarketplaces() string {
	return filepath.Join(l.PluginsDir, "known_marketplaces.json")
}

// InstalledPlugins is the host's installed plugin registry
func (l Layout) InstalledPlugins() string {
	return filepath.Join(l.PluginsDir, "installed_plugins.json")
}

// CacheDir is where the host unpacks an installed plugin
func (l Layout) CacheDir(marketplace, plugin string) string {
	return filepath.Join(l.PluginsDir, "cache", marketplace, plugin)
}

// Registration identifies the plugin this installer distributes
type Registration struct {
	Marketplace string
	Plugin      string
	Scope       Scope

	// Source is the argument given to `plugin marketplace add`
	Source string
}

// ID returns the host's "<plugin>@<marketplace>" identifier
func (r Registration) ID() string {
	return r.Plugin + "@" + r.Marketplace
}

// Fact names, in report order
const (
	FactMarketplaceRegistered = "marketplace_registered"
	FactPluginInstalled       = "plugin_installed"
	FactNotOrphaned           = "not_orphaned"
	FactCacheDirExists        = "cache_dir_exists"
)

// Facts is one observation of plugin health
type Facts struct {
	MarketplaceRegistered bool
	PluginInstalled       bool
	NotOrphaned           bool
	CacheDirExists        bool
}

// Fact is a single named observation
type Fact struct {
	Name string
	OK   bool
}

// Healthy is the AND of all four facts
func (f Facts) Healthy() bool {
	return f.MarketplaceRegistered && f.PluginInstalled && f.NotOrphaned && f.CacheDirExists
}

// List returns the facts in report order
func (f Facts) List() []Fact {
	return []Fact{
		{Name: FactMarketplaceRegistered, OK: f.MarketplaceRegistered},
		{Name: FactPluginInstalled, OK: f.PluginInstalled},
		{Name: FactNotOrphaned, OK: f.NotOrphaned},
		{Name: FactCacheDirExists, OK: f.CacheDirExists},
	}
}

// Failed returns the names of the facts that do not hold
func (f Facts) Failed() []string {
	var failed []string
	for _, fact := range f.List() {
		if !fact.OK {
			failed = append(failed, fact.Name)
		}
	}
	return failed
}
