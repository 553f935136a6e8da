package plugin

import (
	"encoding/json"
	"path/filepath"

	"github.com/arthur-debert/aisetup/pkg/errors"
	"github.com/arthur-debert/aisetup/pkg/types"
)

// ManifestPath is where a source repository describes its marketplace
const ManifestPath = ".claude-plugin/marketplace.json"

// Marketplace is the subset of marketplace.json the installer reads
type Marketplace struct {
	Name    string              `json:"name"`
	Plugins []MarketplacePlugin `json:"plugins"`
}

// MarketplacePlugin is one plugin entry of a marketplace manifest
type MarketplacePlugin struct {
	Name   string `json:"name"`
	Source string `json:"source,omitempty"`
}

// ReadMarketplace loads the marketplace manifest of a source repository.
// A missing manifest returns a NotFound error.
func ReadMarketplace(fsys types.FS, root string) (*Marketplace, error) {
	path := filepath.Join(root, ManifestPath)
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrNotFound, "no marketplace manifest at %s", path)
	}

	var mp Marketplace
	if err := json.Unmarshal(data, &mp); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "invalid marketplace manifest %s", path)
	}
	return &mp, nil
}

// ResolveRegistration fills marketplace and plugin names from the source
// repository's manifest, keeping the fallback values for anything the
// manifest does not name. The marketplace source defaults to the root.
func ResolveRegistration(fsys types.FS, root string, fallback Registration) Registration {
	reg := fallback
	if reg.Source == "" {
		reg.Source = root
	}

	mp, err := ReadMarketplace(fsys, root)
	if err != nil {
		return reg
	}
	if mp.Name != "" {
		reg.Marketplace = mp.Name
	}
	if len(mp.Plugins) > 0 && mp.Plugins[0].Name != "" {
		reg.Plugin = mp.Plugins[0].Name
	}
	return reg
}
