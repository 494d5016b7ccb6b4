package simulation

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/aero/game"
)

// Collision is the sweep primitive of the world the character moves through.
type Collision interface {
	// Sweep moves the shape from start along delta and reports the first blocking hit.
	// It must not mutate anything. A sweep that hits nothing returns NoHit().
	Sweep(shape Shape, start, delta mgl64.Vec3) HitResult
}

// Environment describes the physics volume at a location.
type Environment interface {
	InWater(pos mgl64.Vec3) bool
	FluidFriction(pos mgl64.Vec3) float64
}

// InvalidNavNodeRef is the node reference of a location without navigation data.
const InvalidNavNodeRef uint64 = 0

// NavLocation is a point projected onto the navigation mesh.
type NavLocation struct {
	Pos     mgl64.Vec3
	NodeRef uint64
}

// Navigation provides navigation mesh queries.
type Navigation interface {
	// FindNavFloor projects pos onto the navigation mesh. It returns false if there is
	// no navigation data around pos.
	FindNavFloor(pos mgl64.Vec3) (NavLocation, bool)
}

// PathFollower is notified when the character it drives lands.
type PathFollower interface {
	OnLanded()
}

// Listener receives the notifications the simulation raises while stepping a character.
type Listener interface {
	// ShouldNotifyLanded returns true if Landed should be called for the hit.
	ShouldNotifyLanded(hit HitResult) bool
	// Landed is called once when the character lands on a walkable surface.
	Landed(hit HitResult)
	// GlideImpact is called when a gliding character strikes a surface it cannot land on.
	GlideImpact(hit HitResult)
	// ImpactForces is called with the pre-impact acceleration and velocity whenever the
	// character collides with something, so physics bodies can be pushed.
	ImpactForces(hit HitResult, accel, vel mgl64.Vec3)
	// ModeChanged is called for every movement mode change.
	ModeChanged(from, to ModeKey)
}

// NopListener implements Listener and does nothing.
type NopListener struct{}

func (NopListener) ShouldNotifyLanded(HitResult) bool             { return true }
func (NopListener) Landed(HitResult)                              {}
func (NopListener) GlideImpact(HitResult)                         {}
func (NopListener) ImpactForces(HitResult, mgl64.Vec3, mgl64.Vec3) {}
func (NopListener) ModeChanged(ModeKey, ModeKey)                  {}

// dryEnvironment is used when no Environment is set.
type dryEnvironment struct{}

func (dryEnvironment) InWater(mgl64.Vec3) bool { return false }
func (dryEnvironment) FluidFriction(mgl64.Vec3) float64 {
	return game.DefaultFluidFriction
}
