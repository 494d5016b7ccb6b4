package movement

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/aero/game"
	"github.com/oomph-ac/aero/oerror"
	"github.com/stretchr/testify/require"
)

func TestPredictionCellGet(t *testing.T) {
	var cell PredictionCell
	require.False(t, cell.Initialized())

	s := newSubject()
	ctx := cell.Get(s)
	require.True(t, cell.Initialized())
	require.Same(t, ctx, cell.Get(s))
	require.Equal(t, game.MaxSavedMoveCount, ctx.Moves().Cap())
	require.Equal(t, Pawn(s), ctx.Owner())
	require.Equal(t, game.MaxSmoothNetUpdateDist, ctx.MaxSmoothNetUpdateDist())
	require.Equal(t, game.NoSmoothNetUpdateDist, ctx.NoSmoothNetUpdateDist())

	cell.Reset()
	require.False(t, cell.Initialized())
}

func TestPredictionCellWithoutPawnPanics(t *testing.T) {
	var cell PredictionCell
	defer func() {
		r := recover()
		require.NotNil(t, r)
		_, ok := r.(*oerror.AeroError)
		require.True(t, ok, "expected an AeroError, got %T", r)
	}()
	cell.Get(nil)
}

func TestPredictionNewMoveHasExtensions(t *testing.T) {
	cell := PredictionCell{Capacity: 4, Extensions: []ExtensionFactory{NewGlideMoveExtension}}
	ctx := cell.Get(newSubject())

	m := ctx.NewMove()
	require.Len(t, m.Extensions, 1)
	m.Timestamp = 5
	ctx.FreeMove(m)

	m = ctx.NewMove()
	require.Zero(t, m.Timestamp)
	require.Len(t, m.Extensions, 1)
}

func TestPredictionAck(t *testing.T) {
	cell := PredictionCell{Extensions: []ExtensionFactory{NewGlideMoveExtension}}
	ctx := cell.Get(newSubject())
	for range 4 {
		m := ctx.NewMove()
		m.Timestamp = ctx.NextTimestamp(0.5)
		ctx.Moves().Append(m)
	}
	require.Equal(t, 2.0, ctx.CurrentTimestamp())

	require.Equal(t, 2, ctx.Ack(1))
	require.Equal(t, 1.0, ctx.LastAckedTimestamp())
	require.True(t, ctx.IsStale(0.5))
	require.False(t, ctx.IsStale(1))

	require.Zero(t, ctx.Ack(0.5))
	require.Equal(t, 1.0, ctx.LastAckedTimestamp())
}

func TestSmoothingFor(t *testing.T) {
	var cell PredictionCell
	ctx := cell.Get(newSubject())

	require.Equal(t, SmoothFull, ctx.SmoothingFor(0))
	require.Equal(t, SmoothFull, ctx.SmoothingFor(92))
	require.Equal(t, SmoothClamped, ctx.SmoothingFor(92.01))
	require.Equal(t, SmoothClamped, ctx.SmoothingFor(140))
	require.Equal(t, SmoothSnap, ctx.SmoothingFor(140.01))
}

func TestSmoothCorrection(t *testing.T) {
	var cell PredictionCell
	ctx := cell.Get(newSubject())

	require.Equal(t, SmoothFull, ctx.SmoothCorrection(mgl64.Vec3{50, 0, 0}, mgl64.Vec3{}))
	require.Equal(t, mgl64.Vec3{50, 0, 0}, ctx.VisualOffset())

	ctx.DecaySmoothing(0.1)
	require.Less(t, ctx.VisualOffset().X(), 50.0)
	require.Greater(t, ctx.VisualOffset().X(), 0.0)

	ctx.DecaySmoothing(10)
	require.Equal(t, mgl64.Vec3{}, ctx.VisualOffset())

	require.Equal(t, SmoothClamped, ctx.SmoothCorrection(mgl64.Vec3{120, 0, 0}, mgl64.Vec3{}))
	require.InDelta(t, 92, ctx.VisualOffset().Len(), 1e-9)

	require.Equal(t, SmoothSnap, ctx.SmoothCorrection(mgl64.Vec3{200, 0, 0}, mgl64.Vec3{}))
	require.Equal(t, mgl64.Vec3{}, ctx.VisualOffset())
}
