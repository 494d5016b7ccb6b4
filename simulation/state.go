package simulation

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/aero/game"
)

// Shape is the collision volume of a character: an upright box centred on the character's
// position.
type Shape struct {
	HalfWidth  float64
	HalfHeight float64
}

// Extents returns the half-size of the shape on every axis.
func (s Shape) Extents() mgl64.Vec3 {
	return mgl64.Vec3{s.HalfWidth, s.HalfWidth, s.HalfHeight}
}

// DefaultShape is the shape of an average humanoid character.
var DefaultShape = Shape{HalfWidth: 34, HalfHeight: 88}

// MovementState holds the authoritative movement state for a single character. It is owned
// by the character's movement component and passed by pointer into every step function.
// Mode handlers only mutate the fields relevant to their mode.
type MovementState struct {
	Pos, LastPos           mgl64.Vec3
	Vel, LastVel           mgl64.Vec3
	Rotation, LastRotation mgl64.Quat

	// Accel is the input acceleration for the current step.
	Accel mgl64.Vec3
	// View is the unit direction the controller is looking in.
	View mgl64.Vec3

	Shape Shape

	Mode, LastMode     MovementMode
	Custom, LastCustom CustomMode
	// GroundMode is the walking-family mode used when the character lands.
	GroundMode MovementMode
	// DefaultLandMode is the mode configured for this character type to use on land.
	DefaultLandMode MovementMode

	OrientRotationToMovement bool
	JustTeleported           bool
	CheatFlying              bool
	CanEverSwim              bool
	// Attached is true while the character has a movable update target. A detached
	// character is never considered gliding.
	Attached bool

	RootMotion RootMotion
}

// NewMovementState returns a falling character at the given position.
func NewMovementState(pos mgl64.Vec3, shape Shape) MovementState {
	return MovementState{
		Pos:                      pos,
		LastPos:                  pos,
		Rotation:                 mgl64.QuatIdent(),
		LastRotation:             mgl64.QuatIdent(),
		View:                     game.WorldForward,
		Shape:                    shape,
		Mode:                     ModeFalling,
		LastMode:                 ModeFalling,
		GroundMode:               ModeWalking,
		DefaultLandMode:          ModeWalking,
		OrientRotationToMovement: true,
		CanEverSwim:              true,
		Attached:                 true,
	}
}

// SetPos sets the position of the character, keeping the previous one in LastPos.
func (s *MovementState) SetPos(pos mgl64.Vec3) {
	s.LastPos = s.Pos
	s.Pos = pos
}

// SetVel sets the velocity of the character, keeping the previous one in LastVel.
func (s *MovementState) SetVel(vel mgl64.Vec3) {
	s.LastVel = s.Vel
	s.Vel = vel
}

// SetRotation sets the rotation of the character, keeping the previous one in LastRotation.
func (s *MovementState) SetRotation(rot mgl64.Quat) {
	s.LastRotation = s.Rotation
	s.Rotation = rot
}

// Teleport moves the character without sweeping and marks the step as teleported.
func (s *MovementState) Teleport(pos mgl64.Vec3) {
	s.SetPos(pos)
	s.JustTeleported = true
}

// Feet returns the location of the bottom of the character's shape.
func (s *MovementState) Feet() mgl64.Vec3 {
	return s.Pos.Sub(mgl64.Vec3{0, 0, s.Shape.HalfHeight})
}

func (s *MovementState) Forward() mgl64.Vec3 {
	return s.Rotation.Rotate(game.WorldForward)
}

func (s *MovementState) Up() mgl64.Vec3 {
	return s.Rotation.Rotate(game.WorldUp)
}

// ViewDirection returns the normalized view direction, or the character's forward vector
// if no view has been set.
func (s *MovementState) ViewDirection() mgl64.Vec3 {
	if v := game.SafeNormal(s.View); v.LenSqr() > 0 {
		return v
	}
	return s.Forward()
}

// ModeKey returns the current (mode, custom) pair.
func (s *MovementState) ModeKey() ModeKey {
	return Key(s.Mode, s.Custom)
}

// IsFalling returns true if the character is in the plain falling mode.
func (s *MovementState) IsFalling() bool {
	return s.Mode == ModeFalling
}

// IsGliding returns true if the glide sub-mode is active. It does not take attachment into
// account: see the movement component for the gameplay-facing check.
func (s *MovementState) IsGliding() bool {
	return s.Mode == ModeCustom && s.Custom == CustomGlide
}

// IsGrounded returns true for the walking family of modes.
func (s *MovementState) IsGrounded() bool {
	return s.Mode.Grounded()
}

// Snapshot returns a copy of the state. MovementState holds no references, so the copy is
// fully independent.
func (s *MovementState) Snapshot() MovementState {
	return *s
}

// Restore overwrites the state with a snapshot.
func (s *MovementState) Restore(snap MovementState) {
	*s = snap
}
