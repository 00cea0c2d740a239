// Package material holds the static catalog of construction materials the
// dashboard offers. The catalog is configuration data: loaded once at
// startup, immutable afterwards.
package material

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownMaterial     = errors.New("unknown material")
	ErrUnsupportedMaterial = errors.New("unsupported material class for allowable stress")
)

// Class is the explicit material family tag. The allowable-stress rule is
// selected by this tag, never by matching on the material name.
type Class string

const (
	ClassSteel    Class = "steel"
	ClassConcrete Class = "concrete"
	ClassWood     Class = "wood"
)

// Material is one catalog entry. Strength is fy for steel, f'c for concrete
// and fm for wood, all in Pa; E in Pa; density in kg/m³.
type Material struct {
	Name        string  `yaml:"name" json:"name"`
	Class       Class   `yaml:"class" json:"class"`
	EPa         float64 `yaml:"e_pa" json:"e_pa"`
	StrengthPa  float64 `yaml:"strength_pa" json:"strength_pa"`
	DensityKgM3 float64 `yaml:"density_kg_m3" json:"density_kg_m3"`
}

// Partial safety factors applied to the characteristic strength.
const (
	GammaSteel    = 1.15
	GammaConcrete = 1.5
)

// AllowableStress returns the design stress limit in Pa.
//
// Wood has no allowable-stress rule in the dashboard's method set; asking
// for one is an explicit error rather than a silent fall-through to the
// concrete factor.
func (m Material) AllowableStress() (float64, error) {
	switch m.Class {
	case ClassSteel:
		return m.StrengthPa / GammaSteel, nil
	case ClassConcrete:
		return m.StrengthPa / GammaConcrete, nil
	case ClassWood:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedMaterial, m.Name)
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedMaterial, m.Name)
}

// Catalog maps material names to their constants.
type Catalog struct {
	materials map[string]Material
}

type catalogFile struct {
	Materials []Material `yaml:"materials"`
}

//go:embed materials.yaml
var defaultCatalog []byte

// Load reads the catalog from path, or the embedded default when path is
// empty.
func Load(path string) (*Catalog, error) {
	raw := defaultCatalog
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		raw = b
	}
	var f catalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("materials catalog: %w", err)
	}
	if len(f.Materials) == 0 {
		return nil, errors.New("materials catalog: no entries")
	}
	c := &Catalog{materials: make(map[string]Material, len(f.Materials))}
	for _, m := range f.Materials {
		if m.Name == "" || m.EPa <= 0 || m.StrengthPa <= 0 {
			return nil, fmt.Errorf("materials catalog: bad entry %q", m.Name)
		}
		switch m.Class {
		case ClassSteel, ClassConcrete, ClassWood:
		default:
			return nil, fmt.Errorf("materials catalog: bad class %q for %q", m.Class, m.Name)
		}
		c.materials[m.Name] = m
	}
	return c, nil
}

// Get looks a material up by its catalog name.
func (c *Catalog) Get(name string) (Material, error) {
	m, ok := c.materials[name]
	if !ok {
		return Material{}, fmt.Errorf("%w: %s", ErrUnknownMaterial, name)
	}
	return m, nil
}

// Names returns the catalog entries in stable order for selector UIs.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.materials))
	for n := range c.materials {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
