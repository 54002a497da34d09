// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// Save writes an extracted source to path as YAML so later pipeline stages
// (structure, validate) can run as separate invocations.
func Save(path string, src *Source) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating source directory: %w", err)
	}
	data, err := yaml.Marshal(src)
	if err != nil {
		return fmt.Errorf("marshaling source: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load reads a source YAML file written by Save.
func Load(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading source %s: %w", path, err)
	}
	var src Source
	if err := yaml.Unmarshal(data, &src); err != nil {
		return nil, fmt.Errorf("parsing source %s: %w", path, err)
	}
	return &src, nil
}
