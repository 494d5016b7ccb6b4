package simulation_test

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/aero/simulation"
)

const tick = 1.0 / 60

// recorder is a Listener that records every notification it receives.
type recorder struct {
	simulation.NopListener

	landed  []simulation.HitResult
	impacts []simulation.HitResult
	modes   []simulation.ModeKey
}

func (r *recorder) Landed(hit simulation.HitResult) {
	r.landed = append(r.landed, hit)
}

func (r *recorder) GlideImpact(hit simulation.HitResult) {
	r.impacts = append(r.impacts, hit)
}

func (r *recorder) ModeChanged(_, to simulation.ModeKey) {
	r.modes = append(r.modes, to)
}

// noNav is a navigation provider without any navmesh.
type noNav struct{}

func (noNav) FindNavFloor(mgl64.Vec3) (simulation.NavLocation, bool) {
	return simulation.NavLocation{}, false
}

func newGlideSimulator(c simulation.Collision, tuning simulation.GlideTuning) (*simulation.Simulator, *recorder) {
	sim := simulation.NewSimulator(c, simulation.DefaultOptions())
	sim.Register(simulation.Key(simulation.ModeCustom, simulation.CustomGlide), simulation.NewGlideHandler(tuning, nil))
	sim.Role = simulation.RoleAuthority
	rec := &recorder{}
	sim.Listener = rec
	return sim, rec
}

func cosBetween(a, b mgl64.Vec3) float64 {
	return a.Normalize().Dot(b.Normalize())
}
