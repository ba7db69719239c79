package particle

import (
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// ParseEffectFile parses an effect file from disk.
//
// Example usage:
//
//	file, err := ParseEffectFile("assets/effects/sparks.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Loaded %d effects\n", len(file.Effects))
func ParseEffectFile(path string) (*EffectFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read effect file %s: %w", path, err)
	}
	file, err := ParseEffect(data)
	if err != nil {
		return nil, fmt.Errorf("effect file %s: %w", path, err)
	}
	return file, nil
}

// ParseEffectFS parses an effect file from fsys, e.g. an embed.FS.
func ParseEffectFS(fsys fs.FS, path string) (*EffectFile, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read effect file %s: %w", path, err)
	}
	file, err := ParseEffect(data)
	if err != nil {
		return nil, fmt.Errorf("effect file %s: %w", path, err)
	}
	return file, nil
}

// ParseEffect parses YAML effect data.
func ParseEffect(data []byte) (*EffectFile, error) {
	var file EffectFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse effect yaml: %w", err)
	}

	if len(file.Effects) == 0 {
		return nil, fmt.Errorf("effect yaml contains no effects")
	}

	seen := make(map[string]bool, len(file.Effects))
	for i, e := range file.Effects {
		if e.Name == "" {
			return nil, fmt.Errorf("effect %d has no name", i)
		}
		if seen[e.Name] {
			return nil, fmt.Errorf("duplicate effect name %q", e.Name)
		}
		seen[e.Name] = true
	}

	return &file, nil
}

// Find returns the effect called name.
func (f *EffectFile) Find(name string) (*EffectConfig, bool) {
	for i := range f.Effects {
		if f.Effects[i].Name == name {
			return &f.Effects[i], true
		}
	}
	return nil, false
}

// Names lists effect names in file order.
func (f *EffectFile) Names() []string {
	names := make([]string, 0, len(f.Effects))
	for _, e := range f.Effects {
		names = append(names, e.Name)
	}
	return names
}
