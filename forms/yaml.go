package forms

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefinitionFile pairs a parsed form definition with its on-disk source.
type DefinitionFile struct {
	Definition FormDefinition
	Path       string
}

// ParseFormYAML decodes and validates a single form definition payload.
func ParseFormYAML(data []byte) (FormDefinition, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return FormDefinition{}, fmt.Errorf("form: definition payload is empty")
	}
	var def FormDefinition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return FormDefinition{}, fmt.Errorf("form: decode definition: %w", err)
	}
	if err := def.Validate(); err != nil {
		return FormDefinition{}, err
	}
	return def.Normalized(), nil
}

// LoadFormFile reads a YAML file from disk and returns the parsed definition.
func LoadFormFile(path string) (DefinitionFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return DefinitionFile{}, fmt.Errorf("form: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return DefinitionFile{}, fmt.Errorf("form: %s is a directory", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return DefinitionFile{}, fmt.Errorf("form: read %s: %w", path, err)
	}
	def, err := ParseFormYAML(data)
	if err != nil {
		return DefinitionFile{}, fmt.Errorf("form: %s: %w", path, err)
	}
	return DefinitionFile{Definition: def, Path: filepath.Clean(path)}, nil
}

// LoadFormDir scans a directory for *.yaml forms and returns the parsed
// definitions. Missing directories are treated as "no custom forms" so
// startup stays cheap for projects that only use the built-ins.
func LoadFormDir(dir string) ([]DefinitionFile, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(trimmed)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("form: read %s: %w", trimmed, err)
	}
	var defs []DefinitionFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !isYAMLFile(name) {
			continue
		}
		def, err := LoadFormFile(filepath.Join(trimmed, name))
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	if len(defs) == 0 {
		return nil, nil
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Path < defs[j].Path })
	return defs, nil
}

func isYAMLFile(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	return strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml")
}
