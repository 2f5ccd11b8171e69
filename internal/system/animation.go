package system

import (
	"github.com/isorts/sim/internal/component"
	"github.com/isorts/sim/internal/core/ecs"
	coresys "github.com/isorts/sim/internal/core/system"
	"github.com/isorts/sim/internal/data"
	"github.com/isorts/sim/internal/world"
)

// AnimationSystem steps the sprite sheet frame of every rendered body,
// choosing the walk animation for its facing or idle when it stands still.
// Phase 3 (Presentation), registered ahead of view systems so they read the
// frame of the current tick.
type AnimationSystem struct {
	catalogs *data.Catalogs
	bodies   *ecs.Query
}

func NewAnimationSystem(w *world.State, catalogs *data.Catalogs) *AnimationSystem {
	return &AnimationSystem{
		catalogs: catalogs,
		bodies:   w.NewQuery(w.Renderables, w.RenderableBodies),
	}
}

func (s *AnimationSystem) Phase() coresys.Phase { return coresys.PhasePresentation }

func (s *AnimationSystem) Update(w *world.State) {
	now := w.Time.Elapsed.Seconds()
	for _, e := range s.bodies.Entered() {
		rb := w.RenderableBodies.Get(e)
		if idle, ok := s.animation(rb.BodyIndex, component.DirNone); ok {
			rb.CurrentFrame = uint32(idle.Offset)
		}
		rb.LastFrameTime = now
	}
	s.bodies.Exited()

	if w.GameSpeed <= 0 {
		return
	}
	for _, e := range s.bodies.Entities() {
		rb := w.RenderableBodies.Get(e)
		dir := component.DirNone
		if mv, ok := w.Movables.Lookup(e); ok {
			dir = mv.Direction
		}
		anim, ok := s.animation(rb.BodyIndex, dir)
		if !ok || anim.FPS <= 0 {
			continue
		}
		perFrame := 1 / anim.FPS / w.GameSpeed
		if now <= rb.LastFrameTime+perFrame {
			continue
		}
		rb.CurrentFrame = uint32(anim.NextFrame(int(rb.CurrentFrame)))
		rb.LastFrameTime = now
	}
}

func (s *AnimationSystem) animation(body uint32, dir component.Direction) (data.AnimationDescriptor, bool) {
	b := s.catalogs.Bodies.Get(body)
	if b == nil {
		return data.AnimationDescriptor{}, false
	}
	set := s.catalogs.Animations.Get(b.AnimationSet)
	d, ok := set[data.MoveAnimation(dir)]
	return d, ok
}
