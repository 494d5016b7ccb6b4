package simulation

// ProcessLanded resolves a landing on a walkable surface: it notifies the character,
// picks the post-land mode and hands the rest of the step to that mode.
func (s *Simulator) ProcessLanded(state *MovementState, hit HitResult, remaining float64, iterations int) {
	l := s.listener()
	if l.ShouldNotifyLanded(hit) {
		l.Landed(hit)
	}
	s.landings++

	if state.IsFalling() || state.IsGliding() {
		if state.GroundMode == ModeNavWalking && !s.hasNavFloor(state) {
			// Landing in navwalking without navmesh would fall straight back out of it
			// and land again, forever.
			s.warnf("no navmesh under %v on landing, falling back to walking", state.Feet())
			state.GroundMode = ModeWalking
		}
		s.SetPostLandedPhysics(state, hit)
	}

	if s.PathFollower != nil {
		s.PathFollower.OnLanded()
	}
	s.StartNewPhysics(state, remaining, iterations)
}

// SetPostLandedPhysics picks the mode a character ends up in after landing and applies
// the impact forces of the landing.
func (s *Simulator) SetPostLandedPhysics(state *MovementState, hit HitResult) {
	if state.CanEverSwim && s.inWater(state) {
		s.SetMovementMode(state, ModeSwimming, CustomNone)
		return
	}

	state.OrientRotationToMovement = true
	preImpactAccel := state.Accel
	if state.IsFalling() {
		preImpactAccel = preImpactAccel.Add(s.GravityDir().Mul(-1).Mul(s.GravityZ()))
	}
	preImpactVel := state.Vel

	switch state.DefaultLandMode {
	case ModeWalking, ModeNavWalking, ModeFalling:
		s.SetMovementMode(state, state.GroundMode, CustomNone)
	default:
		s.SetDefaultMovementMode(state)
	}
	s.listener().ImpactForces(hit, preImpactAccel, preImpactVel)
}

func (s *Simulator) hasNavFloor(state *MovementState) bool {
	if s.Navigation == nil {
		return false
	}
	loc, ok := s.Navigation.FindNavFloor(state.Feet())
	return ok && loc.NodeRef != InvalidNavNodeRef
}
