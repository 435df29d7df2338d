// Package unitfile loads analysis-unit snapshots from YAML. It is the
// scripting frontend: fixtures, tests, and tools that already know
// their shapes feed the analyzer without any source parsing.
package unitfile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"maplint/internal/analysis"
	"maplint/internal/mapping"
	"maplint/internal/shape"
)

// document is the YAML schema of one analysis unit.
type document struct {
	Unit     string                 `yaml:"unit"`
	Types    []*shape.TypeShape     `yaml:"types"`
	Mappings []*mapping.Declaration `yaml:"mappings"`
}

// Loader reads one or more unit files. Each file may hold several YAML
// documents; each document is one analysis unit.
type Loader struct {
	paths []string
}

// NewLoader creates a loader over the given file paths.
func NewLoader(paths ...string) *Loader {
	return &Loader{paths: paths}
}

// Load implements analysis.Loader.
func (l *Loader) Load(ctx context.Context) ([]*analysis.Unit, error) {
	var units []*analysis.Unit
	for _, path := range l.paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fileUnits, err := loadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		units = append(units, fileUnits...)
	}
	return units, nil
}

func loadFile(path string) ([]*analysis.Unit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var units []*analysis.Unit
	dec := yaml.NewDecoder(f)
	for {
		var doc document
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		unit, err := doc.toUnit()
		if err != nil {
			return nil, err
		}
		units = append(units, unit)
	}
	return units, nil
}

func (d *document) toUnit() (*analysis.Unit, error) {
	if d.Unit == "" {
		return nil, fmt.Errorf("unit document missing 'unit' name")
	}
	shapes := make(map[string]*shape.TypeShape, len(d.Types))
	for _, t := range d.Types {
		if t == nil || t.Name == "" {
			return nil, fmt.Errorf("unit %s: type with empty name", d.Unit)
		}
		if _, dup := shapes[t.Name]; dup {
			return nil, fmt.Errorf("unit %s: duplicate type %q", d.Unit, t.Name)
		}
		shapes[t.Name] = t
	}
	for i, m := range d.Mappings {
		if m == nil || m.SourceType == "" || m.DestType == "" {
			return nil, fmt.Errorf("unit %s: mapping %d missing source or dest type", d.Unit, i)
		}
	}
	return &analysis.Unit{
		ID:           d.Unit,
		Shapes:       shapes,
		Declarations: d.Mappings,
	}, nil
}
