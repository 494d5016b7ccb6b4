package simulation

import "github.com/go-gl/mathgl/mgl64"

// Outcome describes which path the simulator took for a step.
type Outcome uint8

const (
	OutcomeSkipped Outcome = iota
	OutcomeMoved
	OutcomeLanded
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeMoved:
		return "moved"
	case OutcomeLanded:
		return "landed"
	}
	return "unknown"
}

// Result captures the outcome of a single simulation step.
type Result struct {
	Position mgl64.Vec3
	Velocity mgl64.Vec3

	PositionDelta mgl64.Vec3
	VelocityDelta mgl64.Vec3

	Start, End ModeKey

	// Landings and Impacts count the landing resolutions and glide impacts raised during
	// the step.
	Landings int
	Impacts  int

	Outcome Outcome
}

// ModeChanged returns true if the step ended in a different mode than it started in.
func (r Result) ModeChanged() bool {
	return r.Start != r.End
}

func (s *Simulator) resultFromState(state *MovementState, start ModeKey, startPos, startVel mgl64.Vec3, outcome Outcome) Result {
	return Result{
		Position:      state.Pos,
		Velocity:      state.Vel,
		PositionDelta: state.Pos.Sub(startPos),
		VelocityDelta: state.Vel.Sub(startVel),
		Start:         start,
		End:           state.ModeKey(),
		Landings:      s.landings,
		Impacts:       s.impacts,
		Outcome:       outcome,
	}
}
