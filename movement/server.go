package movement

import (
	"fmt"
	"math"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/aero/game"
	"github.com/oomph-ac/aero/oerror"
	"github.com/oomph-ac/aero/simulation"
)

var (
	ErrStaleMove        = oerror.New("stale move")
	ErrInvalidMoveDelta = oerror.New("invalid move delta time")
)

// ServerClock tracks the client timestamps the server has accepted for a character.
type ServerClock struct {
	current  float64
	accepted uint64
	rejected uint64
}

// Verify accepts ts if it is newer than every timestamp accepted so far.
func (c *ServerClock) Verify(ts float64) error {
	if math.IsNaN(ts) || math.IsInf(ts, 0) {
		c.rejected++
		return fmt.Errorf("%w: timestamp %v", ErrInvalidMoveDelta, ts)
	}
	if ts <= c.current {
		c.rejected++
		return fmt.Errorf("%w: %.4f <= %.4f", ErrStaleMove, ts, c.current)
	}
	c.current = ts
	c.accepted++
	return nil
}

// ClampDelta bounds the delta time of a move stamped ts. A move may not be longer than
// maxDelta, nor longer than the client time passed since the newest accepted move.
// Deltas that are not finite and positive are rejected.
func (c *ServerClock) ClampDelta(ts, dt, maxDelta float64) (float64, error) {
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt <= 0 {
		c.rejected++
		return 0, fmt.Errorf("%w: %v", ErrInvalidMoveDelta, dt)
	}
	limit := ts - c.current + game.MoveDeltaTolerance
	if maxDelta > 0 {
		limit = math.Min(limit, maxDelta)
	}
	return math.Max(math.Min(dt, limit), 0), nil
}

// Current returns the newest accepted client timestamp.
func (c *ServerClock) Current() float64 {
	return c.current
}

// Stats returns the number of moves accepted and rejected.
func (c *ServerClock) Stats() (accepted, rejected uint64) {
	return c.accepted, c.rejected
}

// NeedsCorrection returns true if the client's end state for a move is too far from the
// server's.
func NeedsCorrection(serverPos, clientPos mgl64.Vec3, serverMode, clientMode simulation.ModeKey) bool {
	if serverMode != clientMode {
		return true
	}
	return serverPos.Sub(clientPos).LenSqr() > game.MaxPositionErrorSquared
}

// CorrectionReport describes a correction sent to a client, in a fixed field order.
func CorrectionReport(move ServerMove, serverPos mgl64.Vec3, serverMode simulation.ModeKey) *orderedmap.OrderedMap[string, any] {
	clientMode := simulation.UnpackModeKey(move.ClientMode)
	data := orderedmap.NewOrderedMap[string, any]()
	data.Set("ts", game.Round64(move.Timestamp, 4))
	data.Set("err", game.Round64(serverPos.Sub(move.ClientPos).Len(), 3))
	data.Set("server_mode", serverMode.String())
	data.Set("client_mode", clientMode.String())
	data.Set("glide", move.Flags&FlagGlide != 0)
	return data
}
