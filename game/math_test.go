package game

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"
)

func TestQuantize10(t *testing.T) {
	v := QuantizeVec10(mgl64.Vec3{1.04, -2.06, 512.349})
	require.InDelta(t, 1.0, v.X(), 1e-6)
	require.InDelta(t, -2.1, v.Y(), 1e-6)
	require.InDelta(t, 512.3, v.Z(), 1e-4)
	// Quantizing twice is the same as quantizing once.
	require.Equal(t, v, QuantizeVec10(v))
}

func TestSafeNormal(t *testing.T) {
	require.Equal(t, mgl64.Vec3{}, SafeNormal(mgl64.Vec3{1e-5, 0, 0}))
	require.InDelta(t, 1, SafeNormal(mgl64.Vec3{3, 4, 0}).Len(), 1e-12)
}

func TestClampLen(t *testing.T) {
	require.Equal(t, mgl64.Vec3{}, ClampLen(mgl64.Vec3{1, 2, 3}, 0))
	require.Equal(t, mgl64.Vec3{1, 0, 0}, ClampLen(mgl64.Vec3{1, 0, 0}, 2))
	require.InDelta(t, 2, ClampLen(mgl64.Vec3{10, 10, 0}, 2).Len(), 1e-12)
}

func TestProjectOnPlane(t *testing.T) {
	p := ProjectOnPlane(mgl64.Vec3{1, 2, 3}, WorldUp)
	require.Equal(t, mgl64.Vec3{1, 2, 0}, p)
}

func TestQuatFromZX(t *testing.T) {
	dir := SafeNormal(mgl64.Vec3{1, 1, 0})
	q := QuatFromZX(WorldUp, dir)
	require.InDelta(t, 1, q.Rotate(WorldForward).Dot(dir), 1e-9)
	require.InDelta(t, 1, q.Rotate(WorldUp).Dot(WorldUp), 1e-9)

	// A forward axis parallel to up falls back to a valid rotation.
	q = QuatFromZX(WorldUp, WorldUp)
	require.InDelta(t, 1, q.Len(), 1e-9)
}

func TestQInterpConstantTo(t *testing.T) {
	target := YawQuat(90)
	step := QInterpConstantTo(mgl64.QuatIdent(), target, 0.1, math.Pi/2)
	require.InDelta(t, math.Pi/20, AngularDistance(mgl64.QuatIdent(), step), 1e-6)

	// Never overshoots.
	done := QInterpConstantTo(mgl64.QuatIdent(), target, 10, math.Pi/2)
	require.InDelta(t, 0, AngularDistance(done, target), 1e-6)
	require.Equal(t, target, QInterpConstantTo(mgl64.QuatIdent(), target, 0.1, 0))
}

func TestDirectionVector(t *testing.T) {
	d := DirectionVector(90, 0)
	require.InDelta(t, 0, d.X(), 1e-12)
	require.InDelta(t, 1, d.Y(), 1e-12)
	require.InDelta(t, 1, DirectionVector(30, -45).Len(), 1e-12)
}

func TestRound(t *testing.T) {
	require.Equal(t, 1.235, Round64(1.23456, 3))
	require.Equal(t, float32(1.2), Round32(1.2345, 1))
}
