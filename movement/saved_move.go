package movement

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/aero/game"
	"github.com/oomph-ac/aero/simulation"
)

// MoveSubject is the character a saved move is captured from and applied back to.
type MoveSubject interface {
	MovementState() *simulation.MovementState
}

// GlideSubject is a MoveSubject that carries a glide intent.
type GlideSubject interface {
	MoveSubject
	WantsToGlide() bool
	SetWantsToGlide(bool)
}

// SavedMoveExtension adds custom state to a SavedMove. Extensions of a move run in the
// order they were registered.
type SavedMoveExtension interface {
	// Clear resets the extension for reuse.
	Clear()
	// SetMoveFor copies the extension's state out of the subject.
	SetMoveFor(subject MoveSubject)
	// PrepMoveFor writes the extension's state back onto the subject before the move is
	// replayed.
	PrepMoveFor(subject MoveSubject)
	// CanCombineWith returns false if merging with next would lose information. next is
	// always an extension created by the same factory.
	CanCombineWith(next SavedMoveExtension) bool
	// CompressedFlags returns the flag bits this extension contributes.
	CompressedFlags() uint8
}

// ExtensionFactory creates a fresh extension for a newly allocated move.
type ExtensionFactory func() SavedMoveExtension

// MoveInput is the input a move is captured with.
type MoveInput struct {
	Timestamp float64
	DeltaTime float64
	Accel     mgl64.Vec3
	View      mgl64.Vec3
	BaseFlags uint8
}

// SavedMove is the client side record of a single move: the input it was made with, the
// state it started from and the state it ended in.
type SavedMove struct {
	Timestamp float64
	DeltaTime float64
	// Accel and View are reduced to the precision they are sent to the server with.
	Accel     mgl64.Vec3
	View      mgl64.Vec3
	BaseFlags uint8

	// Start is the state of the character before the move was simulated.
	Start simulation.MovementState

	EndPos mgl64.Vec3
	EndVel mgl64.Vec3
	End    simulation.ModeKey

	Extensions []SavedMoveExtension
}

// Clear resets the move and every extension.
func (m *SavedMove) Clear() {
	exts := m.Extensions
	*m = SavedMove{Extensions: exts}
	for _, ext := range m.Extensions {
		ext.Clear()
	}
}

// Capture fills the move from the subject's current state and the given input.
func (m *SavedMove) Capture(subject MoveSubject, in MoveInput) {
	m.Timestamp = in.Timestamp
	m.DeltaTime = in.DeltaTime
	m.Accel = game.QuantizeVec10(in.Accel)
	m.View = game.Vec32To64(game.Vec64To32(in.View))
	m.BaseFlags = in.BaseFlags &^ FlagGlide
	m.Start = subject.MovementState().Snapshot()
	for _, ext := range m.Extensions {
		ext.SetMoveFor(subject)
	}
}

// PostUpdate records the state the subject ended in after the move was simulated.
func (m *SavedMove) PostUpdate(subject MoveSubject) {
	st := subject.MovementState()
	m.EndPos, m.EndVel, m.End = st.Pos, st.Vel, st.ModeKey()
}

// Apply writes the move's custom state back onto the subject, ready to be replayed.
func (m *SavedMove) Apply(subject MoveSubject) {
	for _, ext := range m.Extensions {
		ext.PrepMoveFor(subject)
	}
}

// Input returns the simulation input the move replays with.
func (m *SavedMove) Input() simulation.Input {
	return simulation.Input{DeltaTime: m.DeltaTime, Accel: m.Accel, View: m.View}
}

// CompressedFlags returns the flag byte sent to the server for this move.
func (m *SavedMove) CompressedFlags() uint8 {
	flags := m.BaseFlags
	for _, ext := range m.Extensions {
		flags |= ext.CompressedFlags()
	}
	return flags
}

// accelDotThreshold is the minimum cosine between two accelerations for them to be
// treated as the same input.
const accelDotThreshold = 0.99

// CanCombineWith returns true if next can be merged into this move without changing the
// outcome of the simulation.
func (m *SavedMove) CanCombineWith(next *SavedMove, maxDelta float64) bool {
	if next == nil || m.DeltaTime+next.DeltaTime > maxDelta {
		return false
	}
	if m.BaseFlags != next.BaseFlags || m.Start.ModeKey() != next.Start.ModeKey() {
		return false
	}
	if m.Start.RootMotion.Any() || next.Start.RootMotion.Any() {
		return false
	}
	if !sameAccel(m.Accel, next.Accel) {
		return false
	}
	if len(m.Extensions) != len(next.Extensions) {
		return false
	}
	for i, ext := range m.Extensions {
		if !ext.CanCombineWith(next.Extensions[i]) {
			return false
		}
	}
	return true
}

// CombineWith absorbs the previous move into this one. The combined move starts where
// prev started and lasts for both delta times.
func (m *SavedMove) CombineWith(prev *SavedMove) {
	m.DeltaTime += prev.DeltaTime
	m.Start = prev.Start
}

func sameAccel(a, b mgl64.Vec3) bool {
	aZero, bZero := a.LenSqr() == 0, b.LenSqr() == 0
	if aZero || bZero {
		return aZero == bZero
	}
	aLen, bLen := a.Len(), b.Len()
	if math.Abs(aLen-bLen) > 0.01*math.Max(aLen, bLen) {
		return false
	}
	return a.Mul(1/aLen).Dot(b.Mul(1/bLen)) >= accelDotThreshold
}

// GlideMoveExtension saves the glide intent of a move.
type GlideMoveExtension struct {
	WantsToGlide bool
}

// NewGlideMoveExtension is the ExtensionFactory of GlideMoveExtension.
func NewGlideMoveExtension() SavedMoveExtension {
	return &GlideMoveExtension{}
}

func (e *GlideMoveExtension) Clear() {
	e.WantsToGlide = false
}

func (e *GlideMoveExtension) SetMoveFor(subject MoveSubject) {
	if g, ok := subject.(GlideSubject); ok {
		e.WantsToGlide = g.WantsToGlide()
	}
}

func (e *GlideMoveExtension) PrepMoveFor(subject MoveSubject) {
	if g, ok := subject.(GlideSubject); ok {
		g.SetWantsToGlide(e.WantsToGlide)
	}
}

// CanCombineWith refuses to merge moves with different intents, since that would drop the
// edge where gliding started or stopped.
func (e *GlideMoveExtension) CanCombineWith(next SavedMoveExtension) bool {
	other, ok := next.(*GlideMoveExtension)
	return ok && other.WantsToGlide == e.WantsToGlide
}

func (e *GlideMoveExtension) CompressedFlags() uint8 {
	return EncodeFlags(e.WantsToGlide, 0)
}
