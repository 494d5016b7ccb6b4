package simulation

import "github.com/go-gl/mathgl/mgl64"

// HitResult describes the first blocking contact found by a sweep.
type HitResult struct {
	// Blocking is true if the sweep was stopped by something.
	Blocking bool
	// StartPenetrating is true if the shape already overlapped the hit collider at the
	// start of the sweep.
	StartPenetrating bool
	// Time is the fraction of the requested delta that was travelled, in [0, 1].
	Time float64
	// Distance is the distance travelled before the hit.
	Distance float64

	// Location is the centre of the shape at the time of the hit.
	Location mgl64.Vec3
	// ImpactPoint is the point of contact on the hit surface.
	ImpactPoint mgl64.Vec3
	// Normal is the normal of the swept shape at the contact.
	Normal mgl64.Vec3
	// ImpactNormal is the normal of the surface that was hit.
	ImpactNormal mgl64.Vec3
}

// NoHit is the result of an unobstructed sweep.
func NoHit() HitResult {
	return HitResult{Time: 1}
}

// ValidBlockingHit returns true if the hit stopped the sweep and did not start inside
// the collider.
func (h HitResult) ValidBlockingHit() bool {
	return h.Blocking && !h.StartPenetrating
}
