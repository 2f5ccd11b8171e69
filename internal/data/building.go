package data

import "fmt"

// BuildingTileSprite points at one sprite in a sheet.
type BuildingTileSprite struct {
	Spritesheet    string `yaml:"spritesheet"`
	Index          int    `yaml:"index"`
	DestroyedIndex *int   `yaml:"destroyed_index"`
}

// Offset is an isometric tile offset from the building's anchor.
type Offset struct {
	I int `yaml:"i"`
	J int `yaml:"j"`
}

// BuildingTile is one rectangular part of a building footprint.
type BuildingTile struct {
	SpriteN  BuildingTileSprite  `yaml:"sprite_n"`
	SpriteE  *BuildingTileSprite `yaml:"sprite_e"`
	SpriteS  *BuildingTileSprite `yaml:"sprite_s"`
	SpriteW  *BuildingTileSprite `yaml:"sprite_w"`
	Walkable bool                `yaml:"walkable"`
	Width    int                 `yaml:"width"`
	Height   int                 `yaml:"height"`
	Offset   Offset              `yaml:"offset"`
}

// Building is one building archetype.
type Building struct {
	ID     uint32         `yaml:"id"`
	Type   string         `yaml:"type"`
	Tiles  []BuildingTile `yaml:"tiles"`
	Health float64        `yaml:"health"`
	Costs  struct {
		Goods Goods `yaml:"goods"`
	} `yaml:"costs"`
}

// Footprint returns the blocked (non-walkable) cells relative to the anchor,
// in row-major order per part.
func (b *Building) Footprint() []Offset {
	var cells []Offset
	for _, part := range b.Tiles {
		if part.Walkable {
			continue
		}
		for dj := 0; dj < part.Height; dj++ {
			for di := 0; di < part.Width; di++ {
				cells = append(cells, Offset{I: part.Offset.I + di, J: part.Offset.J + dj})
			}
		}
	}
	return cells
}

type buildingListFile struct {
	Buildings []Building `yaml:"buildings"`
}

// BuildingTable holds all building archetypes indexed by id.
type BuildingTable struct {
	buildings map[uint32]*Building
}

// LoadBuildingTable loads building archetypes from a YAML file.
func LoadBuildingTable(path string) (*BuildingTable, error) {
	var f buildingListFile
	if err := readYAML(path, "building_list", &f); err != nil {
		return nil, err
	}
	t := &BuildingTable{buildings: make(map[uint32]*Building, len(f.Buildings))}
	for i := range f.Buildings {
		b := &f.Buildings[i]
		if _, dup := t.buildings[b.ID]; dup {
			return nil, fmt.Errorf("building_list: duplicate id %d", b.ID)
		}
		for _, part := range b.Tiles {
			if part.Width <= 0 || part.Height <= 0 {
				return nil, fmt.Errorf("building_list: building %d (%s) has an empty tile part", b.ID, b.Type)
			}
		}
		t.buildings[b.ID] = b
	}
	return t, nil
}

// Get returns the building for id, or nil if none defined.
func (t *BuildingTable) Get(id uint32) *Building {
	return t.buildings[id]
}

// Lookup is Get with an ErrUnknownArchetype error.
func (t *BuildingTable) Lookup(id uint32) (*Building, error) {
	b := t.buildings[id]
	if b == nil {
		return nil, fmt.Errorf("building %d: %w", id, ErrUnknownArchetype)
	}
	return b, nil
}

// Count returns the number of buildings.
func (t *BuildingTable) Count() int {
	return len(t.buildings)
}
