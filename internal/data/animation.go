package data

import (
	"fmt"

	"github.com/isorts/sim/internal/component"
)

// AnimationDescriptor locates an animation in a sprite sheet: frame k of the
// animation is sheet frame Offset + k*Increment.
type AnimationDescriptor struct {
	Offset    int     `yaml:"offset"`
	Frames    int     `yaml:"frames"`
	Increment int     `yaml:"increment"`
	FPS       float64 `yaml:"fps"`
}

// AnimationSet maps animation names (moveN, attackSE, idle...) to descriptors.
type AnimationSet map[string]AnimationDescriptor

// SheetFrame returns the sprite sheet frame for animation frame k, wrapping.
func (d AnimationDescriptor) SheetFrame(k int) int {
	if d.Frames <= 0 {
		return d.Offset
	}
	return d.Offset + (k%d.Frames)*d.Increment
}

// NextFrame returns the sheet frame after current, wrapping to Offset at
// the end of the animation or when current does not belong to it.
func (d AnimationDescriptor) NextFrame(current int) int {
	if d.Increment <= 0 {
		return d.Offset
	}
	end := d.Offset + (d.Frames-1)*d.Increment
	next := current + d.Increment
	if next > end || next < d.Offset || (next-d.Offset)%d.Increment != 0 {
		return d.Offset
	}
	return next
}

// MoveAnimation returns the descriptor name for walking in direction dir,
// or "idle" when the unit is not moving.
func MoveAnimation(dir component.Direction) string {
	switch dir {
	case component.DirN:
		return "moveN"
	case component.DirNE:
		return "moveNE"
	case component.DirE:
		return "moveE"
	case component.DirSE:
		return "moveSE"
	case component.DirS:
		return "moveS"
	case component.DirSW:
		return "moveSW"
	case component.DirW:
		return "moveW"
	case component.DirNW:
		return "moveNW"
	}
	return "idle"
}

type animationListFile struct {
	Sets map[string]AnimationSet `yaml:"animation_sets"`
}

// AnimationTable holds named animation sets.
type AnimationTable struct {
	sets map[string]AnimationSet
}

// LoadAnimationTable loads animation sets from a YAML file.
func LoadAnimationTable(path string) (*AnimationTable, error) {
	var f animationListFile
	if err := readYAML(path, "animation_list", &f); err != nil {
		return nil, err
	}
	for name, set := range f.Sets {
		for anim, d := range set {
			if d.Frames < 0 || d.FPS < 0 {
				return nil, fmt.Errorf("animation_list: %s.%s has negative frames or fps", name, anim)
			}
		}
	}
	if f.Sets == nil {
		f.Sets = map[string]AnimationSet{}
	}
	return &AnimationTable{sets: f.Sets}, nil
}

// Get returns the named set, or nil.
func (t *AnimationTable) Get(name string) AnimationSet {
	return t.sets[name]
}

// Count returns the number of animation sets.
func (t *AnimationTable) Count() int {
	return len(t.sets)
}
