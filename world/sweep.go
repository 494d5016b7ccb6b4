package world

import (
	"math"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/aero/game"
	"github.com/oomph-ac/aero/simulation"
)

// Sweep implements simulation.Collision.
func (w *BoxWorld) Sweep(shape simulation.Shape, start, delta mgl64.Vec3) simulation.HitResult {
	best := simulation.NoHit()
	if delta.LenSqr() < game.SmallNumber {
		return best
	}

	ext := shape.Extents()
	swept := ShapeBox(shape, start).Extend(delta).Grow(game.SweepSkin)
	for _, b := range w.solids {
		if !swept.IntersectsWith(b) {
			continue
		}
		if hit, ok := sweepBox(b, ext, start, delta); ok && closer(hit, best) {
			best = hit
		}
	}
	for _, r := range w.ramps {
		if hit, ok := sweepRamp(r, ext, start, delta); ok && closer(hit, best) {
			best = hit
		}
	}
	return best
}

func closer(hit, best simulation.HitResult) bool {
	if !best.Blocking {
		return true
	}
	if hit.StartPenetrating != best.StartPenetrating {
		return hit.StartPenetrating
	}
	return hit.Time < best.Time
}

// sweepBox sweeps a box with half-size ext from start along delta against b. It treats the
// sweep as a ray against b grown by ext.
func sweepBox(b cube.BBox, ext, start, delta mgl64.Vec3) (simulation.HitResult, bool) {
	grown := b.GrowVec3(ext)
	min, max := grown.Min(), grown.Max()

	if grown.Vec3Within(start) {
		return penetration(min, max, ext, start), true
	}

	tEnter, tExit := math.Inf(-1), math.Inf(1)
	var normal mgl64.Vec3
	axis := -1
	for a := 0; a < 3; a++ {
		if math.Abs(delta[a]) < game.SmallNumber {
			if start[a] <= min[a] || start[a] >= max[a] {
				return simulation.HitResult{}, false
			}
			continue
		}
		inv := 1 / delta[a]
		t1, t2 := (min[a]-start[a])*inv, (max[a]-start[a])*inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tEnter {
			tEnter = t1
			normal = mgl64.Vec3{}
			normal[a] = -math.Copysign(1, delta[a])
			axis = a
		}
		tExit = math.Min(tExit, t2)
		if tEnter > tExit {
			return simulation.HitResult{}, false
		}
	}
	if axis < 0 || tEnter < 0 || tEnter > 1 || tExit <= 0 {
		return simulation.HitResult{}, false
	}

	t := math.Max(0, tEnter-game.SweepSkin/math.Abs(delta[axis]))
	contact := start.Add(delta.Mul(tEnter))
	impact := contact
	impact[axis] -= normal[axis] * ext[axis]
	return simulation.HitResult{
		Blocking:     true,
		Time:         t,
		Distance:     delta.Len() * t,
		Location:     start.Add(delta.Mul(t)),
		ImpactPoint:  impact,
		Normal:       normal,
		ImpactNormal: normal,
	}, true
}

// penetration builds the hit for a sweep that starts inside a grown box. The normal
// points out of the shallowest face.
func penetration(min, max, ext, start mgl64.Vec3) simulation.HitResult {
	depth := math.Inf(1)
	var normal mgl64.Vec3
	for a := 0; a < 3; a++ {
		if d := start[a] - min[a]; d < depth {
			depth, normal = d, mgl64.Vec3{}
			normal[a] = -1
		}
		if d := max[a] - start[a]; d < depth {
			depth, normal = d, mgl64.Vec3{}
			normal[a] = 1
		}
	}
	impact := start.Sub(mgl64.Vec3{normal[0] * ext[0], normal[1] * ext[1], normal[2] * ext[2]})
	return simulation.HitResult{
		Blocking:         true,
		StartPenetrating: true,
		Location:         start,
		ImpactPoint:      impact,
		Normal:           normal,
		ImpactNormal:     normal,
		Distance:         depth,
	}
}

// sweepRamp sweeps the lowest corner of the box against the ramp plane.
func sweepRamp(r Ramp, ext, start, delta mgl64.Vec3) (simulation.HitResult, bool) {
	n := r.Normal
	corner := start.Sub(mgl64.Vec3{
		math.Copysign(ext[0], n[0]),
		math.Copysign(ext[1], n[1]),
		math.Copysign(ext[2], n[2]),
	})
	s0 := n.Dot(corner.Sub(r.Origin))
	s1 := s0 + n.Dot(delta)

	if s0 < 0 {
		if s0 < -game.MaxStepHeight || !r.covers(corner) {
			return simulation.HitResult{}, false
		}
		return simulation.HitResult{
			Blocking:         true,
			StartPenetrating: true,
			Location:         start,
			ImpactPoint:      corner,
			Normal:           n,
			ImpactNormal:     n,
			Distance:         -s0,
		}, true
	}
	if s1 >= 0 || s0 == s1 {
		return simulation.HitResult{}, false
	}

	tContact := s0 / (s0 - s1)
	impact := corner.Add(delta.Mul(tContact))
	if !r.covers(impact) {
		return simulation.HitResult{}, false
	}
	t := math.Max(0, (s0-game.SweepSkin)/(s0-s1))
	return simulation.HitResult{
		Blocking:     true,
		Time:         t,
		Distance:     delta.Len() * t,
		Location:     start.Add(delta.Mul(t)),
		ImpactPoint:  impact,
		Normal:       n,
		ImpactNormal: n,
	}, true
}

func (r Ramp) covers(p mgl64.Vec3) bool {
	min, max := r.Footprint.Min(), r.Footprint.Max()
	return p.X() >= min.X() && p.X() <= max.X() && p.Y() >= min.Y() && p.Y() <= max.Y()
}
