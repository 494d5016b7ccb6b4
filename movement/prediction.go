package movement

import (
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/aero/assert"
	"github.com/oomph-ac/aero/game"
)

// Pawn is the character a prediction context belongs to.
type Pawn interface {
	MoveSubject
}

// Smoothing is the way a client hides a correction of a character's position.
type Smoothing uint8

const (
	// SmoothFull blends the whole correction out over time.
	SmoothFull Smoothing = iota
	// SmoothClamped blends out a correction clamped to the maximum smoothing distance.
	SmoothClamped
	// SmoothSnap applies the correction immediately.
	SmoothSnap
)

func (s Smoothing) String() string {
	switch s {
	case SmoothFull:
		return "full"
	case SmoothClamped:
		return "clamped"
	case SmoothSnap:
		return "snap"
	}
	return "unknown"
}

var ctxPool = sync.Pool{
	New: func() any {
		return &PredictionContext{}
	},
}

// PredictionContext is the client side prediction data of a single character: the moves
// the server has not acknowledged yet, the client clock and the smoothing state.
type PredictionContext struct {
	owner Pawn

	moves    *SavedMoves
	movePool *sync.Pool
	pending  *SavedMove

	currentTimestamp   float64
	lastAckedTimestamp float64

	maxSmoothNetUpdateDist float64
	noSmoothNetUpdateDist  float64
	smoothNetUpdateTime    float64

	meshOffset mgl64.Vec3
}

func newPredictionContext(owner Pawn, capacity int, factories []ExtensionFactory) *PredictionContext {
	if capacity <= 0 {
		capacity = game.MaxSavedMoveCount
	}
	ctx := ctxPool.Get().(*PredictionContext)
	ctx.owner = owner
	ctx.moves = NewSavedMoves(capacity)
	ctx.maxSmoothNetUpdateDist = game.MaxSmoothNetUpdateDist
	ctx.noSmoothNetUpdateDist = game.NoSmoothNetUpdateDist
	ctx.smoothNetUpdateTime = game.SmoothNetUpdateTime

	factories = append([]ExtensionFactory(nil), factories...)
	ctx.movePool = &sync.Pool{
		New: func() any {
			m := &SavedMove{Extensions: make([]SavedMoveExtension, 0, len(factories))}
			for _, f := range factories {
				m.Extensions = append(m.Extensions, f())
			}
			return m
		},
	}
	return ctx
}

func putCtx(ctx *PredictionContext) {
	ctx.reset()
	ctxPool.Put(ctx)
}

func (ctx *PredictionContext) reset() {
	if ctx.moves != nil {
		ctx.moves.Clear(nil)
	}
	*ctx = PredictionContext{}
}

// Owner returns the character the context was created for.
func (ctx *PredictionContext) Owner() Pawn {
	return ctx.owner
}

// Moves returns the buffer of unacknowledged moves.
func (ctx *PredictionContext) Moves() *SavedMoves {
	return ctx.moves
}

func (ctx *PredictionContext) MaxSmoothNetUpdateDist() float64 {
	return ctx.maxSmoothNetUpdateDist
}

func (ctx *PredictionContext) NoSmoothNetUpdateDist() float64 {
	return ctx.noSmoothNetUpdateDist
}

// NewMove returns a cleared move with the context's extensions attached.
func (ctx *PredictionContext) NewMove() *SavedMove {
	m := ctx.movePool.Get().(*SavedMove)
	m.Clear()
	return m
}

// FreeMove returns a move to the pool. m must not be used afterwards.
func (ctx *PredictionContext) FreeMove(m *SavedMove) {
	if m == nil {
		return
	}
	m.Clear()
	ctx.movePool.Put(m)
}

// Pending returns the move that was simulated but not sent yet, if any.
func (ctx *PredictionContext) Pending() *SavedMove {
	return ctx.pending
}

// SetPending replaces the pending move.
func (ctx *PredictionContext) SetPending(m *SavedMove) {
	ctx.pending = m
}

// NextTimestamp advances the client clock by dt and returns the new time.
func (ctx *PredictionContext) NextTimestamp(dt float64) float64 {
	ctx.currentTimestamp += dt
	return ctx.currentTimestamp
}

// CurrentTimestamp returns the timestamp of the latest move made.
func (ctx *PredictionContext) CurrentTimestamp() float64 {
	return ctx.currentTimestamp
}

// LastAckedTimestamp returns the newest timestamp acknowledged by the server.
func (ctx *PredictionContext) LastAckedTimestamp() float64 {
	return ctx.lastAckedTimestamp
}

// IsStale returns true if a server response for ts has been superseded by a newer one.
func (ctx *PredictionContext) IsStale(ts float64) bool {
	return ts < ctx.lastAckedTimestamp
}

// Ack drops every saved move up to and including ts. It returns the number of moves
// dropped.
func (ctx *PredictionContext) Ack(ts float64) int {
	if ts > ctx.lastAckedTimestamp {
		ctx.lastAckedTimestamp = ts
	}
	return ctx.moves.AckUpTo(ts, ctx.FreeMove)
}

// SmoothingFor returns the smoothing used to hide a correction of errorDist.
func (ctx *PredictionContext) SmoothingFor(errorDist float64) Smoothing {
	switch {
	case errorDist <= ctx.maxSmoothNetUpdateDist:
		return SmoothFull
	case errorDist <= ctx.noSmoothNetUpdateDist:
		return SmoothClamped
	}
	return SmoothSnap
}

// SmoothCorrection records a correction of the character from oldPos to newPos. The
// visual offset is set so the character is still drawn at oldPos, then decays towards
// zero in DecaySmoothing.
func (ctx *PredictionContext) SmoothCorrection(oldPos, newPos mgl64.Vec3) Smoothing {
	offset := ctx.meshOffset.Add(oldPos.Sub(newPos))
	s := ctx.SmoothingFor(offset.Len())
	switch s {
	case SmoothClamped:
		offset = game.ClampLen(offset, ctx.maxSmoothNetUpdateDist)
	case SmoothSnap:
		offset = mgl64.Vec3{}
	}
	ctx.meshOffset = offset
	return s
}

// DecaySmoothing decays the visual offset exponentially over dt.
func (ctx *PredictionContext) DecaySmoothing(dt float64) {
	if ctx.smoothNetUpdateTime <= 0 {
		ctx.meshOffset = mgl64.Vec3{}
		return
	}
	ctx.meshOffset = ctx.meshOffset.Mul(math.Exp(-dt / ctx.smoothNetUpdateTime))
	if ctx.meshOffset.LenSqr() < game.KindaSmallNumber {
		ctx.meshOffset = mgl64.Vec3{}
	}
}

// VisualOffset is the offset the character should be drawn at relative to its simulated
// position.
func (ctx *PredictionContext) VisualOffset() mgl64.Vec3 {
	return ctx.meshOffset
}

// PredictionCell lazily holds the prediction context of a character. The zero value is
// ready to use.
type PredictionCell struct {
	Capacity   int
	Extensions []ExtensionFactory

	ctx *PredictionContext
}

// Get returns the prediction context of owner, creating it on first access.
func (c *PredictionCell) Get(owner Pawn) *PredictionContext {
	assert.NotNil(owner, "prediction context accessed without an owning pawn")
	if c.ctx == nil {
		c.ctx = newPredictionContext(owner, c.Capacity, c.Extensions)
	}
	return c.ctx
}

// Initialized returns true if the context has been created.
func (c *PredictionCell) Initialized() bool {
	return c.ctx != nil
}

// Reset drops the context. The next Get creates a new one.
func (c *PredictionCell) Reset() {
	if c.ctx == nil {
		return
	}
	putCtx(c.ctx)
	c.ctx = nil
}
