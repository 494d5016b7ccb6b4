package simulation_test

import (
	"math"
	"testing"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/aero/movement"
	"github.com/oomph-ac/aero/simulation"
	"github.com/oomph-ac/aero/world"
	"github.com/stretchr/testify/require"
)

func startGliding(t *testing.T, sim *simulation.Simulator, state *simulation.MovementState) {
	t.Helper()
	require.True(t, movement.ApplyIntent(sim, state, true))
}

func TestGlideTurnsTowardsView(t *testing.T) {
	sim, _ := newGlideSimulator(world.New(), simulation.DefaultGlideTuning())
	state := simulation.NewMovementState(mgl64.Vec3{0, 0, 5000}, simulation.DefaultShape)
	state.Vel = mgl64.Vec3{0, 500, 0}
	view := mgl64.Vec3{1, 0, 0}

	startGliding(t, sim, &state)
	before := cosBetween(state.Vel, view)
	res := sim.Simulate(&state, simulation.Input{DeltaTime: tick, View: view})

	require.True(t, state.IsGliding())
	require.False(t, state.OrientRotationToMovement)
	require.Equal(t, simulation.OutcomeMoved, res.Outcome)
	require.Greater(t, cosBetween(state.Vel, view), before)
	require.Zero(t, res.Impacts)
	require.Zero(t, res.Landings)
}

func TestGlideFrictionMonotonic(t *testing.T) {
	factors := []float64{0, 0.05, 0.1, 0.5, 1, 2, 5}
	var speeds []float64
	for _, f := range factors {
		tuning := simulation.DefaultGlideTuning()
		tuning.FrictionFactor = f
		sim, _ := newGlideSimulator(world.New(), tuning)
		state := simulation.NewMovementState(mgl64.Vec3{0, 0, 1e6}, simulation.DefaultShape)
		state.Vel = mgl64.Vec3{800, 0, 0}
		startGliding(t, sim, &state)

		for range 60 {
			sim.Simulate(&state, simulation.Input{DeltaTime: tick, View: mgl64.Vec3{1, 0, 0}})
		}
		require.True(t, state.IsGliding())
		speeds = append(speeds, state.Vel.Len())
	}
	for i := 1; i < len(speeds); i++ {
		require.LessOrEqual(t, speeds[i], speeds[i-1], "friction %v retained more speed than %v", factors[i], factors[i-1])
	}
	require.Less(t, speeds[len(speeds)-1], speeds[0])
}

func TestGlideSlidesAlongWall(t *testing.T) {
	w := world.New().AddSolid(cube.Box(300, -5000, -5000, 400, 5000, 5000))
	sim, rec := newGlideSimulator(w, simulation.DefaultGlideTuning())
	state := simulation.NewMovementState(mgl64.Vec3{230, 0, 2000}, simulation.DefaultShape)
	state.Vel = mgl64.Vec3{3000, 0, 0}
	startGliding(t, sim, &state)

	res := sim.Simulate(&state, simulation.Input{DeltaTime: tick, View: mgl64.Vec3{1, 0, 0}})

	require.Len(t, rec.impacts, 1)
	require.Equal(t, 1, res.Impacts)
	require.Empty(t, rec.landed)
	require.True(t, state.IsGliding())

	normal := rec.impacts[0].ImpactNormal
	require.InDelta(t, -1, normal.X(), 1e-9)
	require.LessOrEqual(t, state.Pos.X()+simulation.DefaultShape.HalfWidth, 300.0)

	tangent := state.Vel.Sub(normal.Mul(state.Vel.Dot(normal)))
	require.Greater(t, tangent.Len(), 0.0)
	require.Less(t, state.Vel.Z(), 0.0)
}

func TestGlideCheatFlyingStops(t *testing.T) {
	sim, _ := newGlideSimulator(world.New(), simulation.DefaultGlideTuning())
	state := simulation.NewMovementState(mgl64.Vec3{0, 0, 5000}, simulation.DefaultShape)
	state.Vel = mgl64.Vec3{500, 0, 0}
	state.CheatFlying = true
	startGliding(t, sim, &state)

	sim.Simulate(&state, simulation.Input{DeltaTime: tick, View: mgl64.Vec3{1, 0, 0}})
	require.Equal(t, mgl64.Vec3{}, state.Vel)
}

func TestGlideSkipsTinySteps(t *testing.T) {
	sim, _ := newGlideSimulator(world.New(), simulation.DefaultGlideTuning())
	state := simulation.NewMovementState(mgl64.Vec3{0, 0, 5000}, simulation.DefaultShape)
	state.Vel = mgl64.Vec3{500, 0, 0}
	startGliding(t, sim, &state)
	before := state

	h, ok := sim.Handler(state.ModeKey())
	require.True(t, ok)
	h.Phys(sim, &state, 1e-7, 0)
	require.Equal(t, before, state)

	res := sim.Simulate(&state, simulation.Input{DeltaTime: 1e-7, View: mgl64.Vec3{1, 0, 0}})
	require.Equal(t, simulation.OutcomeSkipped, res.Outcome)
	require.Equal(t, before.Pos, state.Pos)
}

func TestNonFiniteStepSkipped(t *testing.T) {
	sim, _ := newGlideSimulator(world.New(), simulation.DefaultGlideTuning())
	state := simulation.NewMovementState(mgl64.Vec3{0, 0, 5000}, simulation.DefaultShape)
	state.Vel = mgl64.Vec3{500, 0, 0}
	startGliding(t, sim, &state)

	for _, dt := range []float64{math.Inf(1), math.NaN()} {
		res := sim.Simulate(&state, simulation.Input{DeltaTime: dt, View: mgl64.Vec3{1, 0, 0}})
		require.Equal(t, simulation.OutcomeSkipped, res.Outcome, "dt=%v", dt)
		require.Equal(t, mgl64.Vec3{0, 0, 5000}, state.Pos)
	}
	require.True(t, state.IsGliding())
}

func TestGlideNotSimulatedOnProxy(t *testing.T) {
	sim, _ := newGlideSimulator(world.New(), simulation.DefaultGlideTuning())
	sim.Role = simulation.RoleSimulatedProxy
	state := simulation.NewMovementState(mgl64.Vec3{0, 0, 5000}, simulation.DefaultShape)
	state.Vel = mgl64.Vec3{500, 0, 0}
	startGliding(t, sim, &state)

	sim.Simulate(&state, simulation.Input{DeltaTime: tick, View: mgl64.Vec3{1, 0, 0}})
	require.Equal(t, mgl64.Vec3{0, 0, 5000}, state.Pos)
}

type constSteering mgl64.Vec3

func (s constSteering) Accel(*simulation.MovementState, float64) mgl64.Vec3 {
	return mgl64.Vec3(s)
}

func TestGlideSteering(t *testing.T) {
	run := func(steering simulation.GlideSteering) mgl64.Vec3 {
		sim := simulation.NewSimulator(world.New(), simulation.DefaultOptions())
		sim.Register(simulation.Key(simulation.ModeCustom, simulation.CustomGlide), simulation.NewGlideHandler(simulation.DefaultGlideTuning(), steering))
		state := simulation.NewMovementState(mgl64.Vec3{0, 0, 5000}, simulation.DefaultShape)
		state.Vel = mgl64.Vec3{500, 0, 0}
		movement.ApplyIntent(sim, &state, true)
		sim.Simulate(&state, simulation.Input{DeltaTime: tick, View: mgl64.Vec3{1, 0, 0}})
		return state.Vel
	}
	plain := run(nil)
	steered := run(constSteering{0, 2000, 0})
	require.Greater(t, steered.Y(), plain.Y())
}
