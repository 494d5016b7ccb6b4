package movement

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/aero/simulation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type subject struct {
	state simulation.MovementState
	glide bool
}

func newSubject() *subject {
	return &subject{state: simulation.NewMovementState(mgl64.Vec3{0, 0, 1000}, simulation.DefaultShape)}
}

func (s *subject) MovementState() *simulation.MovementState { return &s.state }
func (s *subject) WantsToGlide() bool                        { return s.glide }
func (s *subject) SetWantsToGlide(v bool)                    { s.glide = v }

func newMove() *SavedMove {
	return &SavedMove{Extensions: []SavedMoveExtension{NewGlideMoveExtension()}}
}

func capture(s *subject, ts float64, accel mgl64.Vec3) *SavedMove {
	m := newMove()
	m.Capture(s, MoveInput{Timestamp: ts, DeltaTime: 1.0 / 60, Accel: accel, View: mgl64.Vec3{1, 0, 0}})
	return m
}

func TestSavedMoveCaptureAndApply(t *testing.T) {
	s := newSubject()
	s.glide = true
	m := newMove()
	m.Capture(s, MoveInput{
		Timestamp: 1,
		DeltaTime: 0.016,
		Accel:     mgl64.Vec3{100.04, -3.96, 0},
		View:      mgl64.Vec3{0, 1, 0},
		BaseFlags: FlagJumpPressed | FlagGlide,
	})

	require.Equal(t, FlagJumpPressed, m.BaseFlags)
	require.InDelta(t, 100.0, m.Accel.X(), 1e-4)
	require.InDelta(t, -4.0, m.Accel.Y(), 1e-4)
	require.Equal(t, s.state.Pos, m.Start.Pos)
	require.Equal(t, FlagJumpPressed|FlagGlide, m.CompressedFlags())

	s.glide = false
	m.Apply(s)
	require.True(t, s.glide)

	s.state.Pos = mgl64.Vec3{1, 2, 3}
	m.PostUpdate(s)
	require.Equal(t, mgl64.Vec3{1, 2, 3}, m.EndPos)
	require.Equal(t, s.state.ModeKey(), m.End)

	m.Clear()
	require.Zero(t, m.Timestamp)
	require.Len(t, m.Extensions, 1)
	require.False(t, m.Extensions[0].(*GlideMoveExtension).WantsToGlide)
}

func TestCanCombineRefusesDifferentIntent(t *testing.T) {
	accels := []mgl64.Vec3{{}, {500, 0, 0}, {0, -300, 0}}
	for _, accel := range accels {
		s := newSubject()
		for _, first := range []bool{false, true} {
			s.glide = first
			a := capture(s, 1, accel)
			s.glide = !first
			b := capture(s, 2, accel)
			assert.False(t, a.CanCombineWith(b, 1), "intent %v then %v with accel %v", first, !first, accel)
		}
	}
}

func TestCanCombineIdenticalMoves(t *testing.T) {
	accels := []mgl64.Vec3{{}, {500, 0, 0}, {0, -300, 0}}
	for _, accel := range accels {
		for _, glide := range []bool{false, true} {
			s := newSubject()
			s.glide = glide
			a := capture(s, 1, accel)
			b := capture(s, 2, accel)
			assert.True(t, a.CanCombineWith(b, 1), "glide %v with accel %v", glide, accel)
		}
	}
}

func TestCanCombineBaseRules(t *testing.T) {
	s := newSubject()
	a := capture(s, 1, mgl64.Vec3{500, 0, 0})

	b := capture(s, 2, mgl64.Vec3{500, 0, 0})
	require.False(t, a.CanCombineWith(b, a.DeltaTime+b.DeltaTime-0.001), "combined move longer than the limit")

	b = capture(s, 2, mgl64.Vec3{0, 500, 0})
	require.False(t, a.CanCombineWith(b, 1), "different acceleration direction")

	b = capture(s, 2, mgl64.Vec3{250, 0, 0})
	require.False(t, a.CanCombineWith(b, 1), "different acceleration magnitude")

	b = capture(s, 2, mgl64.Vec3{})
	require.False(t, a.CanCombineWith(b, 1), "zero and non-zero acceleration")

	b = capture(s, 2, mgl64.Vec3{500, 0, 0})
	b.BaseFlags = FlagJumpPressed
	require.False(t, a.CanCombineWith(b, 1), "different base flags")

	s.state.Mode = simulation.ModeWalking
	b = capture(s, 2, mgl64.Vec3{500, 0, 0})
	require.False(t, a.CanCombineWith(b, 1), "different start mode")

	s.state.Mode = simulation.ModeFalling
	s.state.RootMotion.Animation = true
	b = capture(s, 2, mgl64.Vec3{500, 0, 0})
	require.False(t, a.CanCombineWith(b, 1), "root motion")

	require.False(t, a.CanCombineWith(nil, 1))
}

func TestCombineWith(t *testing.T) {
	s := newSubject()
	a := capture(s, 1, mgl64.Vec3{})
	s.state.Pos = mgl64.Vec3{10, 0, 0}
	b := capture(s, 2, mgl64.Vec3{})

	b.CombineWith(a)
	require.Equal(t, a.Start.Pos, b.Start.Pos)
	require.InDelta(t, 2.0/60, b.DeltaTime, 1e-12)
	require.Equal(t, 2.0, b.Timestamp)
}
