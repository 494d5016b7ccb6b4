package simulation

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/aero/game"
)

// GlideTuning are the per character type parameters of the glide mode. They are read once
// when the handler is created.
type GlideTuning struct {
	// DownwardInfluence scales how strongly gravity bends the glide path down.
	DownwardInfluence float64
	// ForwardInfluence scales how strongly the glide path is pulled along the character's
	// forward axis.
	ForwardInfluence float64
	// GravityInfluence is the magnitude of the gravity term.
	GravityInfluence float64
	// FrictionFactor scales the fluid friction of the current medium.
	FrictionFactor float64
}

// DefaultGlideTuning returns the default glide parameters.
func DefaultGlideTuning() GlideTuning {
	return GlideTuning{
		DownwardInfluence: game.DefaultGlideDownwardInfluence,
		ForwardInfluence:  game.DefaultGlideForwardInfluence,
		GravityInfluence:  game.DefaultGlideGravityInfluence,
		FrictionFactor:    game.DefaultGlideFrictionFactor,
	}
}

// GlideSteering decides the input acceleration applied while gliding.
type GlideSteering interface {
	Accel(state *MovementState, dt float64) mgl64.Vec3
}

// ZeroSteering ignores player input while gliding: the glide direction follows the view.
type ZeroSteering struct{}

func (ZeroSteering) Accel(*MovementState, float64) mgl64.Vec3 {
	return mgl64.Vec3{}
}

// GlideHandler is the ModeHandler of the glide custom mode.
type GlideHandler struct {
	tuning   GlideTuning
	steering GlideSteering
}

// NewGlideHandler creates a glide handler. A nil steering is ZeroSteering.
func NewGlideHandler(tuning GlideTuning, steering GlideSteering) *GlideHandler {
	if steering == nil {
		steering = ZeroSteering{}
	}
	return &GlideHandler{tuning: tuning, steering: steering}
}

// Tuning returns the parameters the handler was created with.
func (h *GlideHandler) Tuning() GlideTuning {
	return h.tuning
}

// Phys runs one glide step: velocity is relaxed towards the view direction with a
// gravity term pulling it down, the character turns towards its velocity and is swept
// through the world.
func (h *GlideHandler) Phys(s *Simulator, state *MovementState, dt float64, iterations int) {
	if dt < game.MinTickTime {
		return
	}
	state.RootMotion.RestorePreAdditiveVelocity(&state.Vel)

	oldVel := state.Vel
	speed := oldVel.Len()
	view := state.ViewDirection()
	forward, up := state.Forward(), state.Up()
	dpUp := view.Dot(up)

	target := view.Mul(speed)

	gravDir, gravZ := s.GravityDir(), s.GravityZ()
	gravityVel := gravDir.Mul(gravZ * h.tuning.DownwardInfluence * -1).Add(oldVel).Add(forward.Mul(h.tuning.ForwardInfluence))
	gravityVel = game.SafeNormal(gravityVel).Mul(h.tuning.GravityInfluence)
	if dpUp < 0 {
		// Diving: pull harder along the view the steeper it points down.
		gravityVel = gravityVel.Add(view.Mul(gravZ * dpUp))
	}

	state.Vel = state.Vel.Add(target.Add(gravityVel).Sub(state.Vel).Mul(dt))

	if !state.RootMotion.Active() {
		if state.CheatFlying && game.IsNearlyZero(state.Accel, game.SmallNumber) {
			state.Vel = mgl64.Vec3{}
		}
		state.Accel = h.steering.Accel(state, dt)
		CalcVelocity(state, dt, h.tuning.FrictionFactor*s.fluidFriction(state), true, 0, 0)
	}
	state.RootMotion.ApplyToVelocity(&state.Vel)

	iterations++
	state.JustTeleported = false

	oldPos := state.Pos
	adjusted := state.Vel.Mul(dt)
	desired := state.Rotation
	if dir := game.SafeNormal(state.Vel); dir.LenSqr() > 0 {
		desired = game.QuatFromZX(game.WorldUp, dir)
	}
	newRot := game.QInterpConstantTo(state.Rotation, desired, dt, game.GlideRotationRate)

	hit := s.SafeMove(state, adjusted, newRot)
	if hit.Time < 1 {
		if s.IsWalkable(hit) {
			s.ProcessLanded(state, hit, dt*(1-hit.Time), iterations)
			return
		}
		s.impacts++
		s.listener().GlideImpact(hit)

		upDown := gravDir.Dot(game.SafeNormal(state.Vel))
		steppedUp := false
		if math.Abs(hit.ImpactNormal.Z()) < 0.2 && upDown < 0.5 && upDown > -0.2 && s.CanStepUp(hit) {
			stepZ := state.Pos.Z()
			steppedUp = s.StepUp(state, gravDir, adjusted.Mul(1-hit.Time), hit)
			if steppedUp {
				oldPos[2] = state.Pos.Z() + (oldPos.Z() - stepZ)
			}
		}
		if !steppedUp {
			s.HandleImpact(state, hit)
			s.SlideAlongSurface(state, adjusted, 1-hit.Time, hit.Normal, hit, true)
		}
	}

	if !state.JustTeleported && !state.RootMotion.Active() {
		state.Vel = state.Pos.Sub(oldPos).Mul(1 / dt)
	}
}
