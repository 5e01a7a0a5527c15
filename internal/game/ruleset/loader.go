// Package ruleset defines the YAML content model for Aspects of Power:
// classes, professions, races, and blessings, plus the registry that indexes
// loaded definitions by ID.
package ruleset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aspectsofpower/ruleset/internal/game/stat"
)

// yamlFiles lists all .yaml/.yml files in dir, sorted by directory order.
func yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

// loadAll reads every YAML file in dir, parses it into T via parse, and
// validates it.
func loadAll[T any](dir, kind string, parse func([]byte) (T, error)) ([]T, error) {
	files, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		v, err := parse(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %s file %s: %w", kind, path, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// statGains converts a raw ability->points map into typed keys.
func statGains(raw map[string]int) (map[stat.Key]int, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[stat.Key]int, len(raw))
	for name, pts := range raw {
		k, err := stat.ParseKey(name)
		if err != nil {
			return nil, err
		}
		out[k] = pts
	}
	return out, nil
}

// statKeys converts a raw ability name list into typed keys, preserving order.
func statKeys(raw []string) ([]stat.Key, error) {
	out := make([]stat.Key, 0, len(raw))
	for _, name := range raw {
		k, err := stat.ParseKey(name)
		if err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, nil
}

// unmarshalStrict decodes YAML into v, rejecting unknown fields.
func unmarshalStrict(data []byte, v any) error {
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	return dec.Decode(v)
}
