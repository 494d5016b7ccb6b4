package world

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/aero/game"
	"github.com/oomph-ac/aero/simulation"
)

// Ramp is a sloped walkable surface. It is a plane through Origin with the given upward
// facing Normal, bounded horizontally by Footprint. Only its top side collides.
type Ramp struct {
	Origin    mgl64.Vec3
	Normal    mgl64.Vec3
	Footprint cube.BBox
}

// NewRamp creates a ramp rising along +X by rise over the footprint's length.
func NewRamp(footprint cube.BBox, rise float64) Ramp {
	min, max := footprint.Min(), footprint.Max()
	run := max.X() - min.X()
	normal := game.SafeNormal(mgl64.Vec3{-rise, 0, run})
	return Ramp{
		Origin:    mgl64.Vec3{min.X(), min.Y(), min.Z()},
		Normal:    normal,
		Footprint: footprint,
	}
}

// BoxWorld is a static world made of axis-aligned boxes, ramps, water volumes and
// navigation mesh regions. It implements simulation.Collision, simulation.Environment and
// simulation.Navigation.
type BoxWorld struct {
	solids []cube.BBox
	ramps  []Ramp
	water  []cube.BBox
	nav    []cube.BBox

	airFriction   float64
	waterFriction float64
}

// New returns an empty BoxWorld.
func New() *BoxWorld {
	return &BoxWorld{
		airFriction:   game.DefaultFluidFriction,
		waterFriction: game.WaterFluidFriction,
	}
}

// AddSolid adds a blocking box.
func (w *BoxWorld) AddSolid(b cube.BBox) *BoxWorld {
	w.solids = append(w.solids, b)
	return w
}

// AddRamp adds a walkable ramp.
func (w *BoxWorld) AddRamp(r Ramp) *BoxWorld {
	w.ramps = append(w.ramps, r)
	return w
}

// AddWater adds a water volume. Water does not block movement.
func (w *BoxWorld) AddWater(b cube.BBox) *BoxWorld {
	w.water = append(w.water, b)
	return w
}

// AddNavMesh adds a region covered by navigation data. The top of the box is the
// navigable floor.
func (w *BoxWorld) AddNavMesh(b cube.BBox) *BoxWorld {
	w.nav = append(w.nav, b)
	return w
}

// SetFluidFriction overrides the friction of air and water.
func (w *BoxWorld) SetFluidFriction(air, water float64) *BoxWorld {
	w.airFriction, w.waterFriction = air, water
	return w
}

// InWater ...
func (w *BoxWorld) InWater(pos mgl64.Vec3) bool {
	for _, b := range w.water {
		if b.Vec3Within(pos) {
			return true
		}
	}
	return false
}

// FluidFriction returns the friction of the medium at pos.
func (w *BoxWorld) FluidFriction(pos mgl64.Vec3) float64 {
	if w.InWater(pos) {
		return w.waterFriction
	}
	return w.airFriction
}

// navSearchHeight is how far above or below a nav region's floor a point may be and still
// project onto it.
const navSearchHeight = 50.0

// FindNavFloor projects pos onto the navigation regions.
func (w *BoxWorld) FindNavFloor(pos mgl64.Vec3) (simulation.NavLocation, bool) {
	for i, b := range w.nav {
		min, max := b.Min(), b.Max()
		if pos.X() < min.X() || pos.X() > max.X() || pos.Y() < min.Y() || pos.Y() > max.Y() {
			continue
		}
		if pos.Z() < max.Z()-navSearchHeight || pos.Z() > max.Z()+navSearchHeight {
			continue
		}
		return simulation.NavLocation{
			Pos:     mgl64.Vec3{pos.X(), pos.Y(), max.Z()},
			NodeRef: uint64(i + 1),
		}, true
	}
	return simulation.NavLocation{}, false
}

// ShapeBox returns the box occupied by shape centred at pos.
func ShapeBox(shape simulation.Shape, pos mgl64.Vec3) cube.BBox {
	ext := shape.Extents()
	min, max := pos.Sub(ext), pos.Add(ext)
	return cube.Box(min.X(), min.Y(), min.Z(), max.X(), max.Y(), max.Z())
}
