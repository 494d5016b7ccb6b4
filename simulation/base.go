package simulation

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/aero/game"
)

const terminalVelocity = 4000.0

// RegisterDefaults registers the handlers of the built-in movement modes. Custom modes are
// left to the caller.
func RegisterDefaults(s *Simulator) {
	s.Register(Key(ModeWalking, CustomNone), ModeHandlerFunc(physWalking))
	s.Register(Key(ModeNavWalking, CustomNone), ModeHandlerFunc(physNavWalking))
	s.Register(Key(ModeFalling, CustomNone), ModeHandlerFunc(physFalling))
	s.Register(Key(ModeSwimming, CustomNone), ModeHandlerFunc(physSwimming))
	s.Register(Key(ModeFlying, CustomNone), ModeHandlerFunc(physFlying))
}

func physWalking(s *Simulator, state *MovementState, dt float64, iterations int) {
	if dt < game.MinTickTime {
		return
	}
	iterations++
	state.JustTeleported = false

	if !state.RootMotion.Active() {
		state.Accel[2] = 0
		state.Vel[2] = 0
		CalcVelocity(state, dt, game.GroundFriction, false, game.BrakingDecelerationWalking, game.MaxWalkSpeed)
	}
	state.RootMotion.ApplyToVelocity(&state.Vel)

	oldPos := state.Pos
	delta := state.Vel.Mul(dt)
	hit := s.SafeMove(state, delta, state.Rotation)
	if hit.Time < 1 {
		remaining := delta.Mul(1 - hit.Time)
		if s.IsWalkable(hit) && hit.ImpactNormal.Z() < 1-game.KindaSmallNumber {
			rampHit := s.SafeMove(state, groundMovementDelta(remaining, hit.ImpactNormal), state.Rotation)
			if rampHit.Time < 1 {
				s.HandleImpact(state, rampHit)
				s.SlideAlongSurface(state, remaining, 1-rampHit.Time, rampHit.Normal, rampHit, true)
			}
		} else if !s.StepUp(state, s.GravityDir(), remaining, hit) {
			s.HandleImpact(state, hit)
			s.SlideAlongSurface(state, delta, 1-hit.Time, hit.Normal, hit, true)
		}
	}

	if _, ok := s.FindFloor(state); !ok {
		s.debugf("walked off ledge at %v", state.Pos)
		s.SetMovementMode(state, ModeFalling, CustomNone)
		return
	}
	// Keep the character glued to the floor.
	s.SafeMove(state, mgl64.Vec3{0, 0, -game.MaxFloorDist}, state.Rotation)

	if !state.JustTeleported && !state.RootMotion.Active() {
		state.Vel = state.Pos.Sub(oldPos).Mul(1 / dt)
		state.Vel[2] = 0
	}
}

func physNavWalking(s *Simulator, state *MovementState, dt float64, iterations int) {
	if dt < game.MinTickTime {
		return
	}
	if s.Navigation == nil {
		s.SetMovementMode(state, ModeWalking, CustomNone)
		s.StartNewPhysics(state, dt, iterations+1)
		return
	}
	if loc, ok := s.Navigation.FindNavFloor(state.Feet()); !ok || loc.NodeRef == InvalidNavNodeRef {
		s.warnf("navwalking without navmesh at %v, switching to walking", state.Feet())
		s.SetMovementMode(state, ModeWalking, CustomNone)
		s.StartNewPhysics(state, dt, iterations+1)
		return
	}
	physWalking(s, state, dt, iterations)
}

// groundMovementDelta bends a horizontal delta so it follows a walkable ramp.
func groundMovementDelta(delta, rampNormal mgl64.Vec3) mgl64.Vec3 {
	floorDot := delta.Dot(rampNormal)
	if rampNormal.Z() <= game.KindaSmallNumber {
		return delta
	}
	return mgl64.Vec3{delta[0], delta[1], -floorDot / rampNormal.Z()}
}

func physFalling(s *Simulator, state *MovementState, dt float64, iterations int) {
	if dt < game.MinTickTime {
		return
	}
	iterations++
	state.JustTeleported = false
	state.RootMotion.RestorePreAdditiveVelocity(&state.Vel)

	if !state.RootMotion.Active() {
		fallZ := state.Vel[2]
		state.Accel = mgl64.Vec3{state.Accel[0], state.Accel[1], 0}.Mul(game.AirControl)
		state.Vel[2] = 0
		CalcVelocity(state, dt, 0, false, 0, game.MaxWalkSpeed)
		state.Vel[2] = fallZ
	}
	state.Vel = state.Vel.Add(mgl64.Vec3{0, 0, s.GravityZ() * dt})
	if state.Vel[2] < -terminalVelocity {
		state.Vel[2] = -terminalVelocity
	}
	state.RootMotion.ApplyToVelocity(&state.Vel)

	oldPos := state.Pos
	delta := state.Vel.Mul(dt)
	hit := s.SafeMove(state, delta, state.Rotation)
	if hit.Time < 1 {
		if s.IsWalkable(hit) {
			s.ProcessLanded(state, hit, dt*(1-hit.Time), iterations)
			return
		}
		s.HandleImpact(state, hit)
		s.SlideAlongSurface(state, delta, 1-hit.Time, hit.Normal, hit, true)
		if !state.JustTeleported && !state.RootMotion.Active() {
			state.Vel = state.Pos.Sub(oldPos).Mul(1 / dt)
		}
	}
}

func physSwimming(s *Simulator, state *MovementState, dt float64, iterations int) {
	if dt < game.MinTickTime {
		return
	}
	if !s.inWater(state) {
		s.SetMovementMode(state, ModeFalling, CustomNone)
		s.StartNewPhysics(state, dt, iterations+1)
		return
	}
	iterations++
	moveThroughMedium(s, state, dt, s.fluidFriction(state), game.MaxSwimSpeed)
}

func physFlying(s *Simulator, state *MovementState, dt float64, iterations int) {
	if dt < game.MinTickTime {
		return
	}
	iterations++
	moveThroughMedium(s, state, dt, 0.5*s.fluidFriction(state), game.MaxFlySpeed)
}

// moveThroughMedium is the shared step of swimming and flying.
func moveThroughMedium(s *Simulator, state *MovementState, dt, friction, maxSpeed float64) {
	state.JustTeleported = false
	state.RootMotion.RestorePreAdditiveVelocity(&state.Vel)
	if !state.RootMotion.Active() {
		CalcVelocity(state, dt, friction, true, 0, maxSpeed)
	}
	state.RootMotion.ApplyToVelocity(&state.Vel)

	oldPos := state.Pos
	delta := state.Vel.Mul(dt)
	hit := s.SafeMove(state, delta, state.Rotation)
	if hit.Time < 1 {
		s.HandleImpact(state, hit)
		s.SlideAlongSurface(state, delta, 1-hit.Time, hit.Normal, hit, true)
	}
	if !state.JustTeleported && !state.RootMotion.Active() {
		state.Vel = state.Pos.Sub(oldPos).Mul(1 / dt)
	}
}
