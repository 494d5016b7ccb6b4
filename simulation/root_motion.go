package simulation

import "github.com/go-gl/mathgl/mgl64"

// RootMotion holds the externally driven velocity sources. Animation root motion and
// override velocities replace the simulated velocity. Additive velocity is added after
// the mode's own integration and removed again before the next one.
type RootMotion struct {
	Animation bool

	Override         bool
	OverrideVelocity mgl64.Vec3

	Additive         bool
	AdditiveVelocity mgl64.Vec3

	preAdditive     mgl64.Vec3
	additiveApplied bool
}

// Active returns true if the velocity is currently owned by root motion.
func (r *RootMotion) Active() bool {
	return r.Animation || r.Override
}

// Any returns true if any kind of root motion is present.
func (r *RootMotion) Any() bool {
	return r.Active() || r.Additive
}

// RestorePreAdditiveVelocity undoes the additive velocity applied by the last call to
// ApplyToVelocity.
func (r *RootMotion) RestorePreAdditiveVelocity(vel *mgl64.Vec3) {
	if r.additiveApplied {
		*vel = r.preAdditive
		r.additiveApplied = false
	}
}

// ApplyToVelocity applies the override or additive velocity, if any.
func (r *RootMotion) ApplyToVelocity(vel *mgl64.Vec3) {
	if r.Override {
		*vel = r.OverrideVelocity
		return
	}
	if r.Additive {
		r.preAdditive = *vel
		r.additiveApplied = true
		*vel = vel.Add(r.AdditiveVelocity)
	}
}

// Clear removes every root motion source.
func (r *RootMotion) Clear() {
	*r = RootMotion{}
}
