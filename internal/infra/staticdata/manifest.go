package staticdata

import "sort"

// ManifestAsset describes one image shipped with the site.
type ManifestAsset struct {
	Path   string `yaml:"path" json:"path"`
	Alt    string `yaml:"alt" json:"alt"`
	Width  int    `yaml:"width" json:"width"`
	Height int    `yaml:"height" json:"height"`
}

type manifestFile struct {
	Assets []ManifestAsset `yaml:"assets"`
}

// Manifest indexes the local assets by path.
type Manifest struct {
	byPath map[string]ManifestAsset
}

func newManifest(assets []ManifestAsset) *Manifest {
	m := &Manifest{byPath: make(map[string]ManifestAsset, len(assets))}
	for _, a := range assets {
		m.byPath[a.Path] = a
	}
	return m
}

// NewManifest builds a manifest from a list of assets.
func NewManifest(assets ...ManifestAsset) *Manifest {
	return newManifest(assets)
}

// Lookup returns the asset at path.
func (m *Manifest) Lookup(path string) (ManifestAsset, bool) {
	if m == nil {
		return ManifestAsset{}, false
	}
	a, ok := m.byPath[path]
	return a, ok
}

// Len returns the number of assets.
func (m *Manifest) Len() int {
	if m == nil {
		return 0
	}
	return len(m.byPath)
}

// Paths returns every asset path in lexical order.
func (m *Manifest) Paths() []string {
	if m == nil {
		return nil
	}
	out := make([]string, 0, len(m.byPath))
	for p := range m.byPath {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
