package component

import (
	"iter"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/aero/game"
	"github.com/oomph-ac/aero/movement"
	"github.com/oomph-ac/aero/player"
	"github.com/oomph-ac/aero/simulation"
	"github.com/oomph-ac/aero/utils"
	"github.com/sasha-s/go-deadlock"
)

// Network carries the messages of a movement component to the other peers of its
// character.
type Network interface {
	// Send sends a message to the other end of the owning connection: the server for an
	// autonomous proxy, and the owning client for the authority.
	Send(msg movement.Message)
	// Broadcast sends a message to every simulated proxy of the character, skipping the
	// owner.
	Broadcast(msg movement.Message)
}

// NopNetwork drops every message.
type NopNetwork struct{}

func (NopNetwork) Send(movement.Message)      {}
func (NopNetwork) Broadcast(movement.Message) {}

// Config is used to create a GlideMovementComponent.
type Config struct {
	Role    simulation.NetRole
	Network Network

	Collision   simulation.Collision
	Environment simulation.Environment
	Navigation  simulation.Navigation

	// Options default to simulation.DefaultOptions if nil.
	Options  *simulation.Options
	Tuning   simulation.GlideTuning
	Steering simulation.GlideSteering

	// SavedMoveCount is the capacity of the saved move buffer of an autonomous proxy.
	SavedMoveCount int
	// MaxMoveDeltaTime is the longest combined move an autonomous proxy sends.
	MaxMoveDeltaTime float64
}

// GlideMovementComponent drives the movement of a character on one peer. Its behaviour
// depends on the role of the peer: the authority simulates the moves sent by the owning
// client, the autonomous proxy predicts its own moves and the simulated proxy follows the
// state replicated by the authority.
type GlideMovementComponent struct {
	c    *player.Character
	sim  *simulation.Simulator
	role simulation.NetRole
	net  Network

	glide *simulation.GlideHandler

	prediction   movement.PredictionCell
	maxMoveDelta float64
	baseFlags    uint8

	clock            movement.ServerClock
	lastReplicatedTs float64

	inboxMu deadlock.Mutex
	inbox   []movement.Message

	corrections int
	acks        int
}

// NewGlideMovementComponent creates the movement component of c.
func NewGlideMovementComponent(c *player.Character, conf Config) *GlideMovementComponent {
	if conf.Network == nil {
		conf.Network = NopNetwork{}
	}
	opts := simulation.DefaultOptions()
	if conf.Options != nil {
		opts = *conf.Options
	}
	if conf.Tuning == (simulation.GlideTuning{}) {
		conf.Tuning = simulation.DefaultGlideTuning()
	}
	if conf.MaxMoveDeltaTime <= 0 {
		conf.MaxMoveDeltaTime = game.MaxMoveDeltaTime
	}

	sim := simulation.NewSimulator(conf.Collision, opts)
	sim.Environment = conf.Environment
	sim.Navigation = conf.Navigation
	sim.Listener = c
	sim.Role = conf.Role

	mc := &GlideMovementComponent{
		c:            c,
		sim:          sim,
		role:         conf.Role,
		net:          conf.Network,
		glide:        simulation.NewGlideHandler(conf.Tuning, conf.Steering),
		maxMoveDelta: conf.MaxMoveDeltaTime,
		prediction: movement.PredictionCell{
			Capacity:   conf.SavedMoveCount,
			Extensions: []movement.ExtensionFactory{movement.NewGlideMoveExtension},
		},
	}
	sim.Register(simulation.Key(simulation.ModeCustom, simulation.CustomGlide), mc.glide)
	if sim.Options.Debugf == nil {
		sim.Options.Debugf = func(format string, args ...any) {
			c.Dbg.Notify(player.DebugModeMovementSim, true, format, args...)
		}
	}
	if sim.Options.Warnf == nil {
		sim.Options.Warnf = c.Log().Warnf
	}
	return mc
}

// Character returns the character the component moves.
func (mc *GlideMovementComponent) Character() *player.Character {
	return mc.c
}

// Simulator returns the simulator of the component.
func (mc *GlideMovementComponent) Simulator() *simulation.Simulator {
	return mc.sim
}

// Role returns the network role of the component.
func (mc *GlideMovementComponent) Role() simulation.NetRole {
	return mc.role
}

// Prediction returns the prediction context of an autonomous proxy.
func (mc *GlideMovementComponent) Prediction() *movement.PredictionContext {
	return mc.prediction.Get(mc.c)
}

// SetBaseFlags sets the non-glide flags sent with every following move.
func (mc *GlideMovementComponent) SetBaseFlags(flags uint8) {
	mc.baseFlags = flags &^ movement.FlagGlide
}

// Corrections returns the number of corrections sent or received by the component.
func (mc *GlideMovementComponent) Corrections() int {
	return mc.corrections
}

// Acks returns the number of acknowledgements sent or received by the component.
func (mc *GlideMovementComponent) Acks() int {
	return mc.acks
}

// ServerClock returns the client clock tracked by the authority.
func (mc *GlideMovementComponent) ServerClock() *movement.ServerClock {
	return &mc.clock
}

// Deliver queues a message for the component. Messages are handled at the start of the
// next tick. Deliver may be called from any goroutine.
func (mc *GlideMovementComponent) Deliver(msg movement.Message) {
	mc.inboxMu.Lock()
	mc.inbox = append(mc.inbox, msg)
	mc.inboxMu.Unlock()
}

func (mc *GlideMovementComponent) drainInbox() {
	mc.inboxMu.Lock()
	msgs := mc.inbox
	mc.inbox = nil
	mc.inboxMu.Unlock()

	for _, msg := range msgs {
		mc.handle(msg)
	}
}

func (mc *GlideMovementComponent) handle(msg movement.Message) {
	switch mc.role {
	case simulation.RoleAuthority:
		if m, ok := msg.(movement.ServerMove); ok {
			mc.serverMove(m)
			return
		}
	case simulation.RoleAutonomousProxy:
		switch m := msg.(type) {
		case movement.ClientAck:
			mc.clientAck(m)
			return
		case movement.ClientAdjustment:
			mc.clientAdjustment(m)
			return
		}
	case simulation.RoleSimulatedProxy:
		switch m := msg.(type) {
		case movement.ReplicatedIntent:
			mc.c.SetWantsToGlide(m.WantsToGlide)
			movement.ApplyIntent(mc.sim, mc.c.MovementState(), m.WantsToGlide)
			return
		case movement.ReplicatedMovement:
			mc.replicatedMovement(m)
			return
		}
	}
	mc.c.Log().Debugf("%s (%v) dropped unexpected %v", mc.c.Name(), mc.role, msg.Kind())
}

// beforeMovement evaluates the glide intent before the character is simulated. It only
// runs on peers that simulate the character's own input.
func (mc *GlideMovementComponent) beforeMovement() {
	movement.ApplyIntent(mc.sim, mc.c.MovementState(), mc.c.WantsToGlide())
}

// Tick advances the component by dt. The authority handles the moves that arrived since
// the last tick and the simulated proxy applies the replicated state and extrapolates from
// it. An autonomous proxy must use TickLocal instead.
func (mc *GlideMovementComponent) Tick(dt float64) {
	mc.drainInbox()
	if mc.role != simulation.RoleSimulatedProxy {
		return
	}
	state := mc.c.MovementState()
	mc.sim.Simulate(state, simulation.Input{DeltaTime: dt, View: state.View})
}

// TickLocal runs one locally controlled move of an autonomous proxy.
func (mc *GlideMovementComponent) TickLocal(dt float64, accel, view mgl64.Vec3) simulation.Result {
	mc.drainInbox()
	if mc.role != simulation.RoleAutonomousProxy || dt < game.MinTickTime {
		return simulation.Result{}
	}

	ctx := mc.prediction.Get(mc.c)
	state := mc.c.MovementState()

	m := ctx.NewMove()
	m.Capture(mc.c, movement.MoveInput{
		Timestamp: ctx.NextTimestamp(dt),
		DeltaTime: dt,
		Accel:     accel,
		View:      view,
		BaseFlags: mc.baseFlags,
	})

	if pending := ctx.Pending(); pending != nil {
		ctx.SetPending(nil)
		if pending.CanCombineWith(m, mc.maxMoveDelta) {
			// Resimulate the pending move and this one as a single move.
			state.Restore(pending.Start)
			m.CombineWith(pending)
			if last, ok := ctx.Moves().Last(); ok && last == pending {
				ctx.Moves().RemoveLast()
			}
			ctx.FreeMove(pending)
		} else {
			mc.net.Send(movement.NewServerMove(pending))
		}
	}

	mc.beforeMovement()
	res := mc.sim.Simulate(state, m.Input())
	m.PostUpdate(mc.c)

	if evicted := ctx.Moves().Append(m); evicted != nil {
		mc.c.Log().Debugf("%s dropped unacknowledged move %.4f: buffer full", mc.c.Name(), evicted.Timestamp)
		ctx.FreeMove(evicted)
	}
	if mc.canDelay(m) {
		ctx.SetPending(m)
	} else {
		mc.net.Send(movement.NewServerMove(m))
	}
	ctx.DecaySmoothing(dt)
	return res
}

// Flush sends the pending move of an autonomous proxy, if any.
func (mc *GlideMovementComponent) Flush() {
	if mc.role != simulation.RoleAutonomousProxy || !mc.prediction.Initialized() {
		return
	}
	ctx := mc.prediction.Get(mc.c)
	if pending := ctx.Pending(); pending != nil {
		ctx.SetPending(nil)
		mc.net.Send(movement.NewServerMove(pending))
	}
}

// canDelay returns true if the move may be held back to be combined with the next one.
// Moves that change mode are sent straight away.
func (mc *GlideMovementComponent) canDelay(m *movement.SavedMove) bool {
	return m.End == m.Start.ModeKey() && m.DeltaTime*2 <= mc.maxMoveDelta
}

func (mc *GlideMovementComponent) clientAck(msg movement.ClientAck) {
	ctx := mc.prediction.Get(mc.c)
	if ctx.IsStale(msg.Timestamp) {
		return
	}
	n := ctx.Ack(msg.Timestamp)
	mc.acks++
	mc.c.Dbg.Notify(player.DebugModeACKs, true, "ack %.4f released %d moves (%d left)", msg.Timestamp, n, ctx.Moves().Len())
}

func (mc *GlideMovementComponent) clientAdjustment(msg movement.ClientAdjustment) {
	ctx := mc.prediction.Get(mc.c)
	if ctx.IsStale(msg.Timestamp) {
		mc.c.Dbg.Notify(player.DebugModeCorrections, true, "ignored stale correction %.4f (acked %.4f)", msg.Timestamp, ctx.LastAckedTimestamp())
		return
	}
	ctx.Ack(msg.Timestamp)
	mc.corrections++

	state := mc.c.MovementState()
	oldPos := state.Pos
	intent := mc.c.WantsToGlide()

	key := simulation.UnpackModeKey(msg.Mode)
	mc.sim.SetMovementMode(state, key.Mode, key.Custom)
	if ctx.SmoothingFor(oldPos.Sub(msg.Pos).Len()) == movement.SmoothSnap {
		state.Teleport(msg.Pos)
	} else {
		state.SetPos(msg.Pos)
	}
	state.SetVel(msg.Vel)
	state.SetRotation(msg.Rotation)
	state.OrientRotationToMovement = !state.IsGliding()
	mc.c.SetWantsToGlide(msg.WantsToGlide)

	replayed := mc.replay(ctx.Moves().After(msg.Timestamp))
	// Input the player gave since the last tick has not been captured yet.
	mc.c.SetWantsToGlide(intent)

	smoothing := ctx.SmoothCorrection(oldPos, state.Pos)
	mc.c.Dbg.Notify(player.DebugModeCorrections, true, "corrected at %.4f: replayed %d moves, error %.3f (%v)",
		msg.Timestamp, replayed, oldPos.Sub(state.Pos).Len(), smoothing)
}

// replay resimulates moves from the current state. Landings and impacts were already
// reported when the moves were first simulated, so the character is not notified again.
func (mc *GlideMovementComponent) replay(moves iter.Seq[*movement.SavedMove]) int {
	mc.sim.Listener = replayListener{c: mc.c}
	defer func() { mc.sim.Listener = mc.c }()

	state := mc.c.MovementState()
	replayed := 0
	for m := range moves {
		m.Start = state.Snapshot()
		m.Apply(mc.c)
		mc.beforeMovement()
		mc.sim.Simulate(state, m.Input())
		m.PostUpdate(mc.c)
		replayed++
	}
	return replayed
}

// replayListener drops gameplay notifications raised while replaying moves.
type replayListener struct {
	simulation.NopListener
	c *player.Character
}

func (l replayListener) ShouldNotifyLanded(hit simulation.HitResult) bool {
	return l.c.ShouldNotifyLanded(hit)
}

func (mc *GlideMovementComponent) serverMove(msg movement.ServerMove) {
	dt, err := mc.clock.ClampDelta(msg.Timestamp, msg.DeltaTime, mc.maxMoveDelta)
	if err != nil {
		mc.c.Log().Debugf("%s: %v", mc.c.Name(), err)
		return
	}
	if err := mc.clock.Verify(msg.Timestamp); err != nil {
		mc.c.Log().Debugf("%s: %v", mc.c.Name(), err)
		return
	}
	if dt != msg.DeltaTime {
		mc.c.Log().Debugf("%s: clamped move %.4f from %.4fs to %.4fs", mc.c.Name(), msg.Timestamp, msg.DeltaTime, dt)
	}

	intent, _ := movement.DecodeFlags(msg.Flags)
	mc.c.SetWantsToGlide(intent)
	mc.beforeMovement()

	state := mc.c.MovementState()
	input := msg.Input()
	input.DeltaTime = dt
	mc.sim.Simulate(state, input)

	clientMode := simulation.UnpackModeKey(msg.ClientMode)
	if movement.NeedsCorrection(state.Pos, msg.ClientPos, state.ModeKey(), clientMode) {
		mc.corrections++
		report := movement.CorrectionReport(msg, state.Pos, state.ModeKey())
		mc.c.Dbg.Notify(player.DebugModeCorrections, true, "correcting %s: %s", mc.c.Name(), utils.OrderedMapToString(report))
		mc.net.Send(movement.ClientAdjustment{
			Timestamp:    msg.Timestamp,
			Pos:          state.Pos,
			Vel:          state.Vel,
			Rotation:     state.Rotation,
			Mode:         state.ModeKey().Pack(),
			WantsToGlide: mc.c.WantsToGlide(),
		})
	} else {
		mc.acks++
		mc.net.Send(movement.ClientAck{Timestamp: msg.Timestamp})
	}

	mc.net.Broadcast(movement.ReplicatedIntent{WantsToGlide: mc.c.WantsToGlide()})
	mc.net.Broadcast(movement.ReplicatedMovement{
		Timestamp: msg.Timestamp,
		Pos:       state.Pos,
		Vel:       state.Vel,
		Rotation:  state.Rotation,
		Mode:      state.ModeKey().Pack(),
	})
}

func (mc *GlideMovementComponent) replicatedMovement(msg movement.ReplicatedMovement) {
	if msg.Timestamp <= mc.lastReplicatedTs {
		return
	}
	mc.lastReplicatedTs = msg.Timestamp

	state := mc.c.MovementState()
	key := simulation.UnpackModeKey(msg.Mode)
	mc.sim.SetMovementMode(state, key.Mode, key.Custom)
	state.SetPos(msg.Pos)
	state.SetVel(msg.Vel)
	state.SetRotation(msg.Rotation)
}
