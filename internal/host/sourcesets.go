package host

import (
	"slices"
	"sync"
)

// SourceSets tracks extra asset directories per variant.
type SourceSets struct {
	mu   sync.Mutex
	dirs map[string][]string
}

// NewSourceSets creates an empty registry.
func NewSourceSets() *SourceSets {
	return &SourceSets{dirs: make(map[string][]string)}
}

// AddAssetDir adds dir to the variant's asset source set. Adding the same
// directory again is a no-op.
func (s *SourceSets) AddAssetDir(variantName, dir string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if slices.Contains(s.dirs[variantName], dir) {
		return
	}
	s.dirs[variantName] = append(s.dirs[variantName], dir)
}

// AssetDirs returns a copy of the variant's extra asset directories.
func (s *SourceSets) AssetDirs(variantName string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.dirs[variantName])
}
