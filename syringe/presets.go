package syringe

import (
	"bytes"
	_ "embed"
	"fmt"
	"gopkg.in/yaml.v3"
	"io"
	"sort"
	"strings"
)

//go:embed presets.yaml
var builtinPresets []byte

type Preset struct {
	Name     string `yaml:"name"`
	Geometry `yaml:",inline"`
}

type presetFile struct {
	Presets []Preset `yaml:"presets"`
}

// Catalog maps lower-cased preset names to barrel geometry.
type Catalog map[string]Geometry

// LoadCatalog decodes a preset file. Entries with a non-positive diameter
// are rejected.
func LoadCatalog(r io.Reader) (Catalog, error) {
	var f presetFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode presets: %w", err)
	}
	c := make(Catalog, len(f.Presets))
	for _, p := range f.Presets {
		if err := p.Geometry.validate(); err != nil {
			return nil, fmt.Errorf("preset %q: %w", p.Name, err)
		}
		c[strings.ToLower(p.Name)] = p.Geometry
	}
	return c, nil
}

// Builtin returns the catalogue shipped with the binary.
func Builtin() Catalog {
	c, err := LoadCatalog(bytes.NewReader(builtinPresets))
	if err != nil {
		panic(err)
	}
	return c
}

func (c Catalog) Lookup(name string) (Geometry, bool) {
	g, ok := c[strings.ToLower(strings.TrimSpace(name))]
	return g, ok
}

// Names returns the preset names in sorted order.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for n := range c {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
