package typedef

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFS walks fsys and merges every JSON/YAML definition file in lexical path
// order. A nil filesystem yields an empty document.
func LoadFS(fsys fs.FS) (*Document, error) {
	merged := &Document{}
	if fsys == nil {
		return merged, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("typedef: read %s: %w", path, err)
		}
		doc, err := Parse(data, path)
		if err != nil {
			return err
		}
		merged.Types = append(merged.Types, doc.Types...)
		merged.Derive = append(merged.Derive, doc.Derive...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return merged, nil
}

// Parse decodes a single JSON or YAML document.
func Parse(data []byte, source string) (*Document, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("typedef: file %s is empty", source)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		doc = Document{}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("typedef: parse %s: invalid JSON or YAML", source)
		}
	}

	for i := range doc.Types {
		doc.Types[i].source = source
		doc.Types[i].Name = strings.TrimSpace(doc.Types[i].Name)
	}
	for i := range doc.Derive {
		doc.Derive[i].source = source
		doc.Derive[i].Name = strings.TrimSpace(doc.Derive[i].Name)
		doc.Derive[i].Mapping = strings.ToLower(strings.TrimSpace(doc.Derive[i].Mapping))
	}
	return &doc, nil
}

// Validate checks names and mappings. References are resolved by Apply.
func (d *Document) Validate() error {
	seen := make(map[string]string)
	claim := func(name, source string) error {
		if name == "" {
			return fmt.Errorf("typedef: file %s declares a type without a name", source)
		}
		if prev, dup := seen[name]; dup {
			return fmt.Errorf("typedef: duplicate type %q (files %s, %s)", name, prev, source)
		}
		seen[name] = source
		return nil
	}

	for _, spec := range d.Types {
		if err := claim(spec.Name, spec.source); err != nil {
			return err
		}
		fields := make(map[string]struct{}, len(spec.Fields))
		for _, field := range spec.Fields {
			if strings.TrimSpace(field.Name) == "" {
				return fmt.Errorf("typedef: type %q declares a field without a name", spec.Name)
			}
			if _, dup := fields[field.Name]; dup {
				return fmt.Errorf("typedef: type %q declares field %q twice", spec.Name, field.Name)
			}
			fields[field.Name] = struct{}{}
			for _, rule := range field.Validate {
				if strings.TrimSpace(rule.Kind) == "" {
					return fmt.Errorf("typedef: %s.%s: validation rule kind is required", spec.Name, field.Name)
				}
			}
		}
	}
	for _, spec := range d.Derive {
		if err := claim(spec.Name, spec.source); err != nil {
			return err
		}
		switch spec.Mapping {
		case MappingRequired, MappingPartial:
		case MappingPick, MappingOmit:
			if len(spec.Fields) == 0 {
				return fmt.Errorf("typedef: derive %q: %s requires fields", spec.Name, spec.Mapping)
			}
		default:
			return fmt.Errorf("typedef: derive %q: unknown mapping %q", spec.Name, spec.Mapping)
		}
		if strings.TrimSpace(spec.Source) == "" {
			return fmt.Errorf("typedef: derive %q: source is required", spec.Name)
		}
	}
	return nil
}

func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
