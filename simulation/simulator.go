package simulation

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/aero/game"
)

// ModeHandler runs the physics of a single movement mode.
type ModeHandler interface {
	// Phys advances state by dt. iterations is the number of physics iterations already
	// run in the current step and must be passed on to StartNewPhysics if the handler
	// hands the remaining time to another mode.
	Phys(sim *Simulator, state *MovementState, dt float64, iterations int)
}

// ModeHandlerFunc is a function implementing ModeHandler.
type ModeHandlerFunc func(sim *Simulator, state *MovementState, dt float64, iterations int)

func (f ModeHandlerFunc) Phys(sim *Simulator, state *MovementState, dt float64, iterations int) {
	f(sim, state, dt, iterations)
}

// Options define simulator behavior.
type Options struct {
	GravityZ                float64
	MaxSimulationTimeStep   float64
	MaxSimulationIterations int

	// Debugf receives internal simulation trace logs for callers that need deep diagnostics.
	Debugf func(format string, args ...any)
	// Warnf receives soft failures that the simulation recovered from.
	Warnf func(format string, args ...any)
}

// DefaultOptions returns the options used by NewSimulator.
func DefaultOptions() Options {
	return Options{
		GravityZ:                game.DefaultGravityZ,
		MaxSimulationTimeStep:   game.MaxSimulationTimeStep,
		MaxSimulationIterations: game.MaxSimulationIterations,
	}
}

// Input is the per-step input fed to Simulate.
type Input struct {
	DeltaTime float64
	Accel     mgl64.Vec3
	View      mgl64.Vec3
}

// Simulator steps characters through their movement modes. One simulator is owned per
// character: it counts the notifications raised during a step, so it must not be shared
// between goroutines.
type Simulator struct {
	Collision    Collision
	Environment  Environment
	Navigation   Navigation
	PathFollower PathFollower
	Listener     Listener
	Options      Options
	Role         NetRole

	handlers map[ModeKey]ModeHandler

	landings int
	impacts  int
}

// NewSimulator creates a simulator with the default handlers for the built-in modes
// registered. Custom modes must be registered by the caller.
func NewSimulator(c Collision, opts Options) *Simulator {
	s := &Simulator{
		Collision: c,
		Options:   opts,
		handlers:  make(map[ModeKey]ModeHandler),
	}
	RegisterDefaults(s)
	return s
}

// Register sets the handler for a mode, replacing any previous one.
func (s *Simulator) Register(key ModeKey, h ModeHandler) {
	if s.handlers == nil {
		s.handlers = make(map[ModeKey]ModeHandler)
	}
	s.handlers[Key(key.Mode, key.Custom)] = h
}

// Handler returns the handler registered for a mode.
func (s *Simulator) Handler(key ModeKey) (ModeHandler, bool) {
	h, ok := s.handlers[Key(key.Mode, key.Custom)]
	return h, ok
}

// GravityZ returns the signed gravity acceleration along Z.
func (s *Simulator) GravityZ() float64 {
	return s.Options.GravityZ
}

// GravityDir returns the unit direction gravity pulls in.
func (s *Simulator) GravityDir() mgl64.Vec3 {
	return mgl64.Vec3{0, 0, -1}
}

// Simulate runs the movement simulation for one step of input and returns the result.
func (s *Simulator) Simulate(state *MovementState, input Input) Result {
	if state == nil {
		return Result{}
	}

	s.landings, s.impacts = 0, 0
	start := state.ModeKey()
	startPos, startVel := state.Pos, state.Vel

	state.Accel = game.ClampLen(input.Accel, game.MaxAcceleration)
	if v := game.SafeNormal(input.View); v.LenSqr() > 0 {
		state.View = v
	}
	if input.DeltaTime < game.MinTickTime || math.IsInf(input.DeltaTime, 0) || math.IsNaN(input.DeltaTime) {
		s.debugf("skipping step of %.8fs", input.DeltaTime)
		return s.resultFromState(state, start, startPos, startVel, OutcomeSkipped)
	}

	maxStep := s.Options.MaxSimulationTimeStep
	if maxStep <= 0 {
		maxStep = game.MaxSimulationTimeStep
	}
	remaining := input.DeltaTime
	for remaining >= game.MinTickTime {
		step := math.Min(remaining, maxStep)
		remaining -= step
		s.StartNewPhysics(state, step, 0)
		s.physicsRotation(state, step)
		if state.Mode == ModeNone {
			break
		}
	}
	state.JustTeleported = false

	outcome := OutcomeMoved
	if s.landings > 0 {
		outcome = OutcomeLanded
	}
	return s.resultFromState(state, start, startPos, startVel, outcome)
}

// StartNewPhysics dispatches dt of simulation to the handler of the current mode. It is
// called at the start of every step and again by handlers that change mode mid-step.
func (s *Simulator) StartNewPhysics(state *MovementState, dt float64, iterations int) {
	maxIterations := s.Options.MaxSimulationIterations
	if maxIterations <= 0 {
		maxIterations = game.MaxSimulationIterations
	}
	if dt < game.MinTickTime || iterations >= maxIterations {
		return
	}
	if state.Mode == ModeNone {
		return
	}
	if state.Mode == ModeCustom && s.Role == RoleSimulatedProxy {
		// Simulated proxies do not run custom physics: their position comes from
		// replication.
		return
	}

	h, ok := s.Handler(state.ModeKey())
	if !ok {
		s.debugf("no handler registered for %v", state.ModeKey())
		return
	}
	h.Phys(s, state, dt, iterations)
}

// SetMovementMode changes the movement mode of the character. The custom sub-mode is
// cleared unless mode is ModeCustom.
func (s *Simulator) SetMovementMode(state *MovementState, mode MovementMode, custom CustomMode) {
	to := Key(mode, custom)
	from := state.ModeKey()
	if from == to {
		return
	}

	state.LastMode, state.LastCustom = state.Mode, state.Custom
	state.Mode, state.Custom = to.Mode, to.Custom
	if mode.Grounded() {
		state.GroundMode = mode
		state.Vel[2] = 0
	}

	s.debugf("movement mode %v -> %v", from, to)
	s.listener().ModeChanged(from, to)
}

// SetDefaultMovementMode switches to the character's default land mode, or to swimming if
// the character is submerged and can swim.
func (s *Simulator) SetDefaultMovementMode(state *MovementState) {
	if state.CanEverSwim && s.inWater(state) {
		s.SetMovementMode(state, ModeSwimming, CustomNone)
		return
	}
	mode := state.DefaultLandMode
	if mode == ModeNone {
		mode = ModeWalking
	}
	s.SetMovementMode(state, mode, CustomNone)
}

// physicsRotation turns characters that orient to movement towards their input direction.
func (s *Simulator) physicsRotation(state *MovementState, dt float64) {
	if !state.OrientRotationToMovement || state.Mode == ModeCustom {
		return
	}
	dir := game.SafeNormal(mgl64.Vec3{state.Accel[0], state.Accel[1], 0})
	if dir.LenSqr() == 0 {
		return
	}
	desired := game.QuatFromZX(game.WorldUp, dir)
	state.SetRotation(game.QInterpConstantTo(state.Rotation, desired, dt, 2*math.Pi))
}

func (s *Simulator) listener() Listener {
	if s.Listener == nil {
		return NopListener{}
	}
	return s.Listener
}

func (s *Simulator) environment() Environment {
	if s.Environment == nil {
		return dryEnvironment{}
	}
	return s.Environment
}

func (s *Simulator) inWater(state *MovementState) bool {
	return s.environment().InWater(state.Pos)
}

func (s *Simulator) fluidFriction(state *MovementState) float64 {
	return s.environment().FluidFriction(state.Pos)
}

func (s *Simulator) debugf(format string, args ...any) {
	if s.Options.Debugf != nil {
		s.Options.Debugf(format, args...)
	}
}

func (s *Simulator) warnf(format string, args ...any) {
	if s.Options.Warnf != nil {
		s.Options.Warnf(format, args...)
		return
	}
	s.debugf(format, args...)
}
