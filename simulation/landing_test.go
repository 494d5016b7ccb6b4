package simulation_test

import (
	"testing"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/aero/simulation"
	"github.com/oomph-ac/aero/world"
	"github.com/stretchr/testify/require"
)

func floorHit() simulation.HitResult {
	return simulation.HitResult{
		Blocking:     true,
		Time:         0.5,
		Normal:       mgl64.Vec3{0, 0, 1},
		ImpactNormal: mgl64.Vec3{0, 0, 1},
	}
}

func TestLandingWithoutNavMeshWalks(t *testing.T) {
	for _, nav := range []simulation.Navigation{nil, noNav{}, world.New()} {
		sim, rec := newGlideSimulator(nil, simulation.DefaultGlideTuning())
		sim.Navigation = nav
		var warnings int
		sim.Options.Warnf = func(string, ...any) { warnings++ }

		state := simulation.NewMovementState(mgl64.Vec3{0, 0, 100}, simulation.DefaultShape)
		state.GroundMode = simulation.ModeNavWalking
		state.DefaultLandMode = simulation.ModeNavWalking

		sim.ProcessLanded(&state, floorHit(), 0, 0)
		require.Equal(t, simulation.ModeWalking, state.Mode)
		require.Equal(t, simulation.ModeWalking, state.GroundMode)
		require.Len(t, rec.landed, 1)
		require.Equal(t, 1, warnings)
		require.NotContains(t, rec.modes, simulation.Key(simulation.ModeNavWalking, simulation.CustomNone))
	}
}

func TestLandingOnNavMesh(t *testing.T) {
	w := world.New().
		AddSolid(cube.Box(-1000, -1000, -100, 1000, 1000, 0)).
		AddNavMesh(cube.Box(-1000, -1000, -100, 1000, 1000, 0))
	sim, rec := newGlideSimulator(w, simulation.DefaultGlideTuning())
	sim.Navigation = w

	state := simulation.NewMovementState(mgl64.Vec3{0, 0, 88.5}, simulation.DefaultShape)
	state.GroundMode = simulation.ModeNavWalking
	sim.ProcessLanded(&state, floorHit(), 0, 0)

	require.Equal(t, simulation.ModeNavWalking, state.Mode)
	require.Len(t, rec.landed, 1)
}

func TestFallingOntoFloorWithoutNavMesh(t *testing.T) {
	w := world.New().AddSolid(cube.Box(-1000, -1000, -100, 1000, 1000, 0))
	sim, rec := newGlideSimulator(w, simulation.DefaultGlideTuning())
	sim.Navigation = noNav{}

	state := simulation.NewMovementState(mgl64.Vec3{0, 0, 89}, simulation.DefaultShape)
	state.GroundMode = simulation.ModeNavWalking
	state.Vel = mgl64.Vec3{0, 0, -300}

	res := sim.Simulate(&state, simulation.Input{DeltaTime: tick})
	require.Equal(t, simulation.OutcomeLanded, res.Outcome)
	require.Equal(t, 1, res.Landings)
	require.Len(t, rec.landed, 1)
	require.Equal(t, simulation.ModeWalking, state.Mode)
	require.NotContains(t, rec.modes, simulation.Key(simulation.ModeNavWalking, simulation.CustomNone))

	for range 10 {
		sim.Simulate(&state, simulation.Input{DeltaTime: tick})
	}
	require.Equal(t, simulation.ModeWalking, state.Mode)
	require.Len(t, rec.landed, 1)
}

func TestLandingInWaterSwims(t *testing.T) {
	w := world.New().AddWater(cube.Box(-1000, -1000, -1000, 1000, 1000, 1000))
	sim, _ := newGlideSimulator(w, simulation.DefaultGlideTuning())
	sim.Environment = w

	state := simulation.NewMovementState(mgl64.Vec3{0, 0, 100}, simulation.DefaultShape)
	sim.SetPostLandedPhysics(&state, floorHit())
	require.Equal(t, simulation.ModeSwimming, state.Mode)
}

type impactRecorder struct {
	simulation.NopListener
	accel mgl64.Vec3
}

func (r *impactRecorder) ImpactForces(_ simulation.HitResult, accel, _ mgl64.Vec3) {
	r.accel = accel
}

func TestLandingImpactAccelIncludesGravity(t *testing.T) {
	sim := simulation.NewSimulator(nil, simulation.DefaultOptions())
	rec := &impactRecorder{}
	sim.Listener = rec

	state := simulation.NewMovementState(mgl64.Vec3{}, simulation.DefaultShape)
	state.Accel = mgl64.Vec3{10, 0, 0}
	sim.SetPostLandedPhysics(&state, floorHit())
	require.Equal(t, mgl64.Vec3{10, 0, sim.GravityZ()}, rec.accel)
	require.True(t, state.OrientRotationToMovement)
	require.Equal(t, simulation.ModeWalking, state.Mode)
}

type pathFollower struct{ landed int }

func (p *pathFollower) OnLanded() { p.landed++ }

func TestLandingNotifiesPathFollower(t *testing.T) {
	sim, _ := newGlideSimulator(nil, simulation.DefaultGlideTuning())
	pf := &pathFollower{}
	sim.PathFollower = pf

	state := simulation.NewMovementState(mgl64.Vec3{}, simulation.DefaultShape)
	sim.ProcessLanded(&state, floorHit(), 0, 0)
	require.Equal(t, 1, pf.landed)
}
