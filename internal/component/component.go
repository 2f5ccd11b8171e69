package component

// Components are pure data. All mutations happen in systems or the engine.
// The set is closed: every variant implements Value through the unexported
// marker, and world.State stores each variant in its own column.

// Value is one tagged component variant with its initial data.
type Value interface {
	Kind() Kind
	isComponent()
}

// Kind identifies a component variant.
type Kind uint8

const (
	KindPosition Kind = iota
	KindMovable
	KindPathTarget
	KindPathProgress
	KindHealth
	KindOwner
	KindRenderable
	KindRenderableBody
	KindRenderableBuilding
	KindSelectableGroupable
	KindSelectableSingle
	kindCount
)

// KindCount is the number of component variants.
const KindCount = int(kindCount)

var kindNames = [...]string{
	"position", "movable", "path_target", "path_progress", "health", "owner",
	"renderable", "renderable_body", "renderable_building",
	"selectable_groupable", "selectable_single",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Position is the continuous isometric position. Integer values sit exactly
// on a tile.
type Position struct {
	I, J float64
}

// Movable carries the movement speed in tiles per second and the facing
// derived from the last movement step.
type Movable struct {
	Speed     float64
	Direction Direction
}

// PathTarget requests a path to the tile (I, J). Token is assigned by the
// pathfinding system when the request is issued.
type PathTarget struct {
	I, J  int
	Token uint64
}

// PathProgress is the cursor into the cached waypoint list.
type PathProgress struct {
	Index int
}

type Health struct {
	Health float64
}

type Owner struct {
	Player uint8
}

// Renderable tags entities the presentation layer draws.
type Renderable struct{}

// RenderableBody references a Body archetype and its animation state.
type RenderableBody struct {
	BodyIndex     uint32
	CurrentFrame  uint32
	LastFrameTime float64
}

// RenderableBuilding references a Building archetype.
type RenderableBuilding struct {
	BuildingIndex uint32
}

type SelectableGroupable struct{}

type SelectableSingle struct{}

func (Position) Kind() Kind            { return KindPosition }
func (Movable) Kind() Kind             { return KindMovable }
func (PathTarget) Kind() Kind          { return KindPathTarget }
func (PathProgress) Kind() Kind        { return KindPathProgress }
func (Health) Kind() Kind              { return KindHealth }
func (Owner) Kind() Kind               { return KindOwner }
func (Renderable) Kind() Kind          { return KindRenderable }
func (RenderableBody) Kind() Kind      { return KindRenderableBody }
func (RenderableBuilding) Kind() Kind  { return KindRenderableBuilding }
func (SelectableGroupable) Kind() Kind { return KindSelectableGroupable }
func (SelectableSingle) Kind() Kind    { return KindSelectableSingle }

func (Position) isComponent()            {}
func (Movable) isComponent()             {}
func (PathTarget) isComponent()          {}
func (PathProgress) isComponent()        {}
func (Health) isComponent()              {}
func (Owner) isComponent()               {}
func (Renderable) isComponent()          {}
func (RenderableBody) isComponent()      {}
func (RenderableBuilding) isComponent()  {}
func (SelectableGroupable) isComponent() {}
func (SelectableSingle) isComponent()    {}
