package data

import "fmt"

// Animation is a frame range played at Speed frames per second.
type Animation struct {
	StartFrame int     `yaml:"start_frame"`
	EndFrame   int     `yaml:"end_frame"`
	Speed      float64 `yaml:"speed"`
}

// BodyFrames holds the animations every body exposes.
type BodyFrames struct {
	Idle       Animation  `yaml:"idle"`
	HitByArrow *Animation `yaml:"hit_by_arrow"`
}

// Body is one unit archetype.
type Body struct {
	ID            uint32     `yaml:"id"`
	Name          string     `yaml:"name"`
	MovementSpeed float64    `yaml:"movement_speed"` // tiles per second
	Health        float64    `yaml:"health"`
	AnimationSet  string     `yaml:"animation_set"`
	Frames        BodyFrames `yaml:"frames"`
}

type bodyListFile struct {
	Bodies []Body `yaml:"bodies"`
}

// BodyTable holds all body archetypes indexed by id.
type BodyTable struct {
	bodies map[uint32]*Body
}

// LoadBodyTable loads body archetypes from a YAML file.
func LoadBodyTable(path string) (*BodyTable, error) {
	var f bodyListFile
	if err := readYAML(path, "body_list", &f); err != nil {
		return nil, err
	}
	t := &BodyTable{bodies: make(map[uint32]*Body, len(f.Bodies))}
	for i := range f.Bodies {
		b := &f.Bodies[i]
		if _, dup := t.bodies[b.ID]; dup {
			return nil, fmt.Errorf("body_list: duplicate id %d", b.ID)
		}
		if b.MovementSpeed < 0 {
			return nil, fmt.Errorf("body_list: body %d has negative movement_speed", b.ID)
		}
		t.bodies[b.ID] = b
	}
	return t, nil
}

// Get returns the body for id, or nil if none defined.
func (t *BodyTable) Get(id uint32) *Body {
	return t.bodies[id]
}

// Lookup is Get with an ErrUnknownArchetype error.
func (t *BodyTable) Lookup(id uint32) (*Body, error) {
	b := t.bodies[id]
	if b == nil {
		return nil, fmt.Errorf("body %d: %w", id, ErrUnknownArchetype)
	}
	return b, nil
}

// Count returns the number of bodies.
func (t *BodyTable) Count() int {
	return len(t.bodies)
}
