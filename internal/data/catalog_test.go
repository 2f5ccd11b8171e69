package data

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/isorts/sim/internal/component"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadShippedCatalogs(t *testing.T) {
	root := filepath.Join("..", "..", "data", "yaml")
	c, err := LoadCatalogs(
		filepath.Join(root, "body_list.yaml"),
		filepath.Join(root, "building_list.yaml"),
		filepath.Join(root, "animation_list.yaml"),
	)
	if err != nil {
		t.Fatalf("LoadCatalogs: %v", err)
	}
	body, err := c.Bodies.Lookup(0)
	if err != nil {
		t.Fatal(err)
	}
	if body.MovementSpeed != 2.5 {
		t.Errorf("body 0 speed = %v, want 2.5", body.MovementSpeed)
	}
	set := c.Animations.Get(body.AnimationSet)
	if set == nil {
		t.Fatalf("animation set %q missing", body.AnimationSet)
	}
	if d := set["moveSE"]; d.Offset != 3 || d.Increment != 8 || d.Frames != 16 {
		t.Errorf("moveSE = %+v", d)
	}
	tower, err := c.Buildings.Lookup(0)
	if err != nil {
		t.Fatal(err)
	}
	if got := len(tower.Footprint()); got != 9 {
		t.Errorf("tower footprint = %d cells, want 9", got)
	}
	quarters := c.Buildings.Get(1)
	if got := len(quarters.Footprint()); got != 25 {
		t.Errorf("quarters footprint = %d cells, want 25 (walkable part excluded)", got)
	}
}

func TestUnknownArchetype(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "bodies.yaml", "bodies:\n  - id: 3\n    name: x\n    movement_speed: 1\n")
	bodies, err := LoadBodyTable(p)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := bodies.Lookup(4); !errors.Is(err, ErrUnknownArchetype) {
		t.Errorf("expected ErrUnknownArchetype, got %v", err)
	}
	if bodies.Count() != 1 {
		t.Errorf("Count = %d", bodies.Count())
	}
}

func TestLoadRejectsBadData(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		load func(string) error
		body string
	}{
		{"duplicate body", func(p string) error { _, err := LoadBodyTable(p); return err },
			"bodies:\n  - id: 1\n  - id: 1\n"},
		{"negative speed", func(p string) error { _, err := LoadBodyTable(p); return err },
			"bodies:\n  - id: 1\n    movement_speed: -2\n"},
		{"empty footprint part", func(p string) error { _, err := LoadBuildingTable(p); return err },
			"buildings:\n  - id: 0\n    tiles:\n      - width: 0\n        height: 2\n"},
		{"malformed yaml", func(p string) error { _, err := LoadAnimationTable(p); return err },
			"animation_sets: [\n"},
	}
	for i, tt := range tests {
		p := writeFile(t, dir, tt.name+".yaml", tt.body)
		if err := tt.load(p); err == nil {
			t.Errorf("case %d (%s): expected error", i, tt.name)
		}
	}
	if _, err := LoadBodyTable(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestLoadCatalogsChecksAnimationSets(t *testing.T) {
	dir := t.TempDir()
	bodies := writeFile(t, dir, "b.yaml", "bodies:\n  - id: 0\n    animation_set: nope\n")
	buildings := writeFile(t, dir, "bl.yaml", "buildings: []\n")
	anims := writeFile(t, dir, "a.yaml", "animation_sets: {}\n")
	if _, err := LoadCatalogs(bodies, buildings, anims); err == nil {
		t.Fatal("expected error for undefined animation set")
	}
}

func TestAnimationHelpers(t *testing.T) {
	d := AnimationDescriptor{Offset: 2, Frames: 16, Increment: 8}
	if got := d.SheetFrame(0); got != 2 {
		t.Errorf("SheetFrame(0) = %d", got)
	}
	if got := d.SheetFrame(17); got != 10 {
		t.Errorf("SheetFrame(17) = %d, want 10", got)
	}
	if got := d.NextFrame(2); got != 10 {
		t.Errorf("NextFrame(2) = %d, want 10", got)
	}
	if got := d.NextFrame(2 + 15*8); got != 2 {
		t.Errorf("NextFrame(last) = %d, want wrap to 2", got)
	}
	if got := d.NextFrame(5); got != 2 {
		t.Errorf("NextFrame(foreign frame) = %d, want 2", got)
	}
	if MoveAnimation(component.DirNone) != "idle" || MoveAnimation(component.DirSW) != "moveSW" {
		t.Error("MoveAnimation mapping broken")
	}
}
