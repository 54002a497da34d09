// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package manuscript

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/manuscript-press/pkg/types"
)

// Save writes a manuscript to path as YAML.
func Save(path string, m *types.Manuscript) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling manuscript: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load reads a manuscript YAML file written by Save.
func Load(path string) (*types.Manuscript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manuscript %s: %w", path, err)
	}
	var m types.Manuscript
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manuscript %s: %w", path, err)
	}
	return &m, nil
}
