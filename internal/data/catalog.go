package data

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrUnknownArchetype is returned for an archetype index missing from a catalog.
var ErrUnknownArchetype = errors.New("unknown archetype")

// Goods is a bundle of the four raw resources.
type Goods struct {
	Wood  int `yaml:"wood" json:"wood"`
	Stone int `yaml:"stone" json:"stone"`
	Iron  int `yaml:"iron" json:"iron"`
	Gold  int `yaml:"gold" json:"gold"`
}

// Catalogs bundles the static lookup tables the simulation indexes by
// archetype id.
type Catalogs struct {
	Bodies     *BodyTable
	Buildings  *BuildingTable
	Animations *AnimationTable
}

// LoadCatalogs loads all three tables and cross-checks body animation sets.
func LoadCatalogs(bodiesPath, buildingsPath, animationsPath string) (*Catalogs, error) {
	anims, err := LoadAnimationTable(animationsPath)
	if err != nil {
		return nil, err
	}
	bodies, err := LoadBodyTable(bodiesPath)
	if err != nil {
		return nil, err
	}
	buildings, err := LoadBuildingTable(buildingsPath)
	if err != nil {
		return nil, err
	}
	for _, b := range bodies.bodies {
		if b.AnimationSet != "" && anims.Get(b.AnimationSet) == nil {
			return nil, fmt.Errorf("body %d (%s): animation set %q not defined", b.ID, b.Name, b.AnimationSet)
		}
	}
	return &Catalogs{Bodies: bodies, Buildings: buildings, Animations: anims}, nil
}

func readYAML(path, what string, out any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", what, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse %s: %w", what, err)
	}
	return nil
}
