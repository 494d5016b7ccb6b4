package simulation

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/aero/game"
)

// brakeToStopVelocity is the speed below which braking stops the character outright.
const brakeToStopVelocity = 10.0

// CalcVelocity integrates the state's input acceleration and friction into its velocity.
// friction is the friction of the current surface or medium, fluid applies an additional
// medium drag, brakingDecel is the deceleration applied when there is no input and
// maxSpeed is the speed input acceleration may not push the character past. A maxSpeed of
// zero means any motion counts as over the limit, which is how custom modes brake.
func CalcVelocity(state *MovementState, dt, friction float64, fluid bool, brakingDecel, maxSpeed float64) {
	if dt < game.MinTickTime || state.RootMotion.Active() {
		return
	}

	friction = math.Max(0, friction)
	maxSpeed = math.Max(0, maxSpeed)
	zeroAccel := game.IsNearlyZero(state.Accel, game.SmallNumber)
	overMax := exceedsMaxSpeed(state.Vel, maxSpeed)

	if zeroAccel || overMax {
		oldVel := state.Vel
		ApplyVelocityBraking(&state.Vel, dt, friction, brakingDecel)
		if overMax && state.Vel.LenSqr() < maxSpeed*maxSpeed && state.Accel.Dot(oldVel) > 0 {
			state.Vel = game.SafeNormal(oldVel).Mul(maxSpeed)
		}
	} else {
		// Turn the velocity towards the input direction at a rate scaled by friction.
		accelDir := game.SafeNormal(state.Accel)
		speed := state.Vel.Len()
		state.Vel = state.Vel.Sub(state.Vel.Sub(accelDir.Mul(speed)).Mul(math.Min(dt*friction, 1)))
	}

	if fluid {
		state.Vel = state.Vel.Mul(1 - math.Min(friction*dt, 1))
	}

	if !zeroAccel {
		newMax := maxSpeed
		if exceedsMaxSpeed(state.Vel, maxSpeed) {
			newMax = state.Vel.Len()
		}
		state.Vel = game.ClampLen(state.Vel.Add(state.Accel.Mul(dt)), newMax)
	}
}

// ApplyVelocityBraking slows vel down by friction and a constant deceleration. Large steps
// are sub-stepped so high friction stays stable.
func ApplyVelocityBraking(vel *mgl64.Vec3, dt, friction, brakingDecel float64) {
	if dt < game.MinTickTime || vel.LenSqr() == 0 {
		return
	}

	friction = math.Max(0, friction*game.BrakingFrictionFactor)
	brakingDecel = math.Max(0, brakingDecel)
	zeroFriction, zeroBraking := friction == 0, brakingDecel == 0
	if zeroFriction && zeroBraking {
		return
	}

	oldVel := *vel
	var revAccel mgl64.Vec3
	if !zeroBraking {
		revAccel = game.SafeNormal(*vel).Mul(-brakingDecel)
	}

	remaining := dt
	for remaining >= game.MinTickTime {
		step := remaining
		if remaining > game.BrakingSubStepTime && !zeroFriction {
			step = math.Min(game.BrakingSubStepTime, remaining*0.5)
		}
		remaining -= step

		*vel = vel.Add(vel.Mul(-friction).Add(revAccel).Mul(step))
		// Braking never reverses direction.
		if vel.Dot(oldVel) <= 0 {
			*vel = mgl64.Vec3{}
			return
		}
	}

	if lenSqr := vel.LenSqr(); lenSqr <= game.KindaSmallNumber || (!zeroBraking && lenSqr <= brakeToStopVelocity*brakeToStopVelocity) {
		*vel = mgl64.Vec3{}
	}
}

func exceedsMaxSpeed(vel mgl64.Vec3, maxSpeed float64) bool {
	const overVelocityPercent = 1.01
	return vel.LenSqr() > maxSpeed*maxSpeed*overVelocityPercent
}
