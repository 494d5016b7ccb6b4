package movement

import "github.com/oomph-ac/aero/simulation"

// Transition is the outcome of evaluating the glide intent against the current mode.
type Transition struct {
	Mode             simulation.MovementMode
	Custom           simulation.CustomMode
	OrientToMovement bool
	// Changed is false if the intent had no effect on the mode.
	Changed bool
}

// NextMode evaluates the glide intent. Wanting to glide while not gliding enters the glide
// mode and stops the character from orienting to its movement. Not wanting to glide while
// gliding drops the character into falling. Every other combination is left alone.
func NextMode(current simulation.ModeKey, orientToMovement, intent bool) Transition {
	current = simulation.Key(current.Mode, current.Custom)
	gliding := current.Custom == simulation.CustomGlide

	switch {
	case intent && !gliding:
		return Transition{Mode: simulation.ModeCustom, Custom: simulation.CustomGlide, OrientToMovement: false, Changed: true}
	case !intent && gliding:
		return Transition{Mode: simulation.ModeFalling, Custom: simulation.CustomNone, OrientToMovement: true, Changed: true}
	}
	return Transition{Mode: current.Mode, Custom: current.Custom, OrientToMovement: orientToMovement}
}

// ModeSetter changes the movement mode of a character. *simulation.Simulator implements it.
type ModeSetter interface {
	SetMovementMode(state *simulation.MovementState, mode simulation.MovementMode, custom simulation.CustomMode)
}

// ApplyIntent evaluates the glide intent against state and applies the resulting
// transition. It must be the only place the glide intent changes the movement mode so
// every peer converges on the same mode for the same intent. It returns true if the mode
// changed.
func ApplyIntent(setter ModeSetter, state *simulation.MovementState, intent bool) bool {
	t := NextMode(state.ModeKey(), state.OrientRotationToMovement, intent)
	if !t.Changed {
		return false
	}
	setter.SetMovementMode(state, t.Mode, t.Custom)
	state.OrientRotationToMovement = t.OrientToMovement
	return true
}
