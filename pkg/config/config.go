package config

// Config is the fully merged configuration
type Config struct {
	Source   Source   `koanf:"source"`
	Host     Host     `koanf:"host"`
	Plugin   Plugin   `koanf:"plugin"`
	Hooks    Hooks    `koanf:"hooks"`
	Personal Personal `koanf:"personal"`
	Legacy   Legacy   `koanf:"legacy"`
}

// Source describes the artifact repository
type Source struct {
	Root        string   `koanf:"root"`
	PersonalDir string   `koanf:"personal_dir"`
	Exclude     []string `koanf:"exclude"`
}

// Host describes the host CLI used for plugin management
type Host struct {
	CLI string `koanf:"cli"`
}

// Plugin names the plugin distributed to Claude Code
type Plugin struct {
	Marketplace string `koanf:"marketplace"`
	Name        string `koanf:"name"`
	Scope       string `koanf:"scope"`
	Source      string `koanf:"source"`
}

// ID returns the host's "<plugin>@<marketplace>" identifier
func (p Plugin) ID() string {
	return p.Name + "@" + p.Marketplace
}

// Hooks configures the lifecycle hook command written to settings.json
type Hooks struct {
	Script      string `koanf:"script"`
	Interpreter string `koanf:"interpreter"`
	Timeout     int    `koanf:"timeout"`
	Async       bool   `koanf:"async"`
}

// Personal lists personal config file names per target
type Personal struct {
	ClaudeCode    []string `koanf:"claude_code"`
	ClaudeDesktop []string `koanf:"claude_desktop"`
	Cursor        []string `koanf:"cursor"`
}

// Legacy lists paths from earlier installer layouts, relative to the target root
type Legacy struct {
	ClaudeCode []string `koanf:"claude_code"`
}
