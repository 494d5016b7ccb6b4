package simulation

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/aero/game"
)

// SafeMove sweeps the character by delta, applying rot, and moves it as far as the world
// allows. It returns the blocking hit, if any.
func (s *Simulator) SafeMove(state *MovementState, delta mgl64.Vec3, rot mgl64.Quat) HitResult {
	state.SetRotation(rot)
	if delta.LenSqr() < game.SmallNumber || s.Collision == nil {
		state.SetPos(state.Pos.Add(delta))
		return NoHit()
	}

	hit := s.Collision.Sweep(state.Shape, state.Pos, delta)
	if hit.StartPenetrating {
		// Pull out along the penetration normal and try once more.
		state.SetPos(state.Pos.Add(hit.Normal.Mul(game.SweepSkin)))
		hit = s.Collision.Sweep(state.Shape, state.Pos, delta)
		if hit.StartPenetrating {
			return hit
		}
	}
	state.SetPos(state.Pos.Add(delta.Mul(hit.Time)))
	return hit
}

// IsWalkable returns true if the hit surface can be stood on.
func (s *Simulator) IsWalkable(hit HitResult) bool {
	return hit.Blocking && hit.ImpactNormal.Z() >= game.WalkableFloorZ
}

// CanStepUp returns true if the character may try to step over the hit obstacle.
func (s *Simulator) CanStepUp(hit HitResult) bool {
	return hit.ValidBlockingHit()
}

// ComputeSlideVector returns the part of delta that remains when sliding along a surface.
func ComputeSlideVector(delta mgl64.Vec3, time float64, normal mgl64.Vec3) mgl64.Vec3 {
	return game.ProjectOnPlane(delta, normal).Mul(time)
}

// TwoWallAdjust adjusts a slide that ran into a second surface. Sliding into a corner
// moves along the crease between both surfaces.
func TwoWallAdjust(delta mgl64.Vec3, hit HitResult, oldNormal mgl64.Vec3) mgl64.Vec3 {
	desired := delta
	normal := hit.Normal
	if oldNormal.Dot(normal) <= 0 {
		crease := game.SafeNormal(normal.Cross(oldNormal))
		delta = crease.Mul(delta.Dot(crease) * (1 - hit.Time))
		if desired.Dot(delta) < 0 {
			delta = delta.Mul(-1)
		}
		return delta
	}
	return ComputeSlideVector(delta, 1-hit.Time, normal)
}

// SlideAlongSurface moves the character along the surface it hit, using the time that
// was left of the original move. It returns the fraction of that time that was consumed.
func (s *Simulator) SlideAlongSurface(state *MovementState, delta mgl64.Vec3, time float64, normal mgl64.Vec3, hit HitResult, handleImpact bool) float64 {
	if !hit.Blocking {
		return 0
	}

	if state.IsGrounded() {
		// Do not slide up walls or down into the floor while walking.
		if normal.Z() > 0 && !s.IsWalkable(hit) {
			normal = game.SafeNormal(mgl64.Vec3{normal[0], normal[1], 0})
		} else if normal.Z() < -game.KindaSmallNumber {
			normal = game.SafeNormal(mgl64.Vec3{normal[0], normal[1], 0})
		}
	}

	slide := ComputeSlideVector(delta, time, normal)
	if slide.Dot(delta) <= 0 {
		return 0
	}

	slideHit := s.SafeMove(state, slide, state.Rotation)
	percent := slideHit.Time
	if slideHit.Time < 1 && slideHit.Blocking {
		if handleImpact {
			s.HandleImpact(state, slideHit)
		}
		adjusted := TwoWallAdjust(slide, slideHit, normal)
		if adjusted.LenSqr() > game.SmallNumber && adjusted.Dot(delta) > 0 {
			secondHit := s.SafeMove(state, adjusted, state.Rotation)
			percent += (1 - slideHit.Time) * secondHit.Time
			if secondHit.Time < 1 && secondHit.Blocking && handleImpact {
				s.HandleImpact(state, secondHit)
			}
		}
	}
	return math.Min(1, percent) * time
}

// StepUp tries to move the character up and over the obstacle it hit. On failure the
// character is left where it was and false is returned.
func (s *Simulator) StepUp(state *MovementState, gravDir, delta mgl64.Vec3, hit HitResult) bool {
	if !s.CanStepUp(hit) {
		return false
	}
	start := state.Snapshot()
	fail := func() bool {
		state.Restore(start)
		return false
	}

	feetZ := state.Feet().Z()
	if hit.ImpactPoint.Z()-feetZ > game.MaxStepHeight {
		return fail()
	}

	up := gravDir.Mul(-game.MaxStepHeight)
	upHit := s.SafeMove(state, up, state.Rotation)
	if upHit.StartPenetrating {
		return fail()
	}
	climbed := state.Pos.Sub(start.Pos).Dot(gravDir.Mul(-1))

	forward := game.ProjectOnPlane(delta, gravDir)
	if forward.LenSqr() < game.SmallNumber {
		return fail()
	}
	forwardHit := s.SafeMove(state, forward, state.Rotation)
	if forwardHit.StartPenetrating || (forwardHit.Blocking && forwardHit.Time < 1) {
		return fail()
	}

	downHit := s.SafeMove(state, gravDir.Mul(climbed+game.MaxFloorDist), state.Rotation)
	if !downHit.Blocking || !s.IsWalkable(downHit) {
		return fail()
	}
	if state.Feet().Z()-feetZ > game.MaxStepHeight {
		return fail()
	}
	state.LastPos = start.Pos
	s.debugf("stepped up %.2f", state.Feet().Z()-feetZ)
	return true
}

// FindFloor probes below the character for a walkable floor.
func (s *Simulator) FindFloor(state *MovementState) (HitResult, bool) {
	if s.Collision == nil {
		return NoHit(), false
	}
	hit := s.Collision.Sweep(state.Shape, state.Pos, mgl64.Vec3{0, 0, -game.MaxFloorDist})
	if !hit.Blocking || hit.Time >= 1 {
		return hit, false
	}
	return hit, s.IsWalkable(hit)
}

// HandleImpact reacts to a blocking hit that was not a landing.
func (s *Simulator) HandleImpact(state *MovementState, hit HitResult) {
	s.listener().ImpactForces(hit, state.Accel, state.Vel)
}
