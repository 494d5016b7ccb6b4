package player

import (
	"sync"

	"github.com/df-mc/dragonfly/server/event"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/aero/game"
	"github.com/oomph-ac/aero/simulation"
	"github.com/sirupsen/logrus"
)

// Config is used to create a Character.
type Config struct {
	Name     string
	Log      *logrus.Logger
	Position mgl64.Vec3
	Shape    simulation.Shape
	// KeepGlideOnLand keeps the glide intent set after the character lands. By default
	// landing stops the glide so the character does not take off again from the ground.
	KeepGlideOnLand bool
}

// Character is a networked character that can glide. It holds the movement state and
// intent shared by every peer's copy of the character, and receives the notifications of
// the simulation.
type Character struct {
	name string
	log  *logrus.Logger
	Dbg  *Debugger

	state        simulation.MovementState
	wantsToGlide bool

	keepGlideOnLand bool

	hMutex sync.RWMutex
	h      Handler

	landings int
	impacts  int
}

// New creates a character from the config.
func New(conf Config) *Character {
	if conf.Log == nil {
		conf.Log = logrus.New()
	}
	if conf.Shape == (simulation.Shape{}) {
		conf.Shape = simulation.DefaultShape
	}
	c := &Character{
		name:            conf.Name,
		log:             conf.Log,
		state:           simulation.NewMovementState(conf.Position, conf.Shape),
		keepGlideOnLand: conf.KeepGlideOnLand,
		h:               NopHandler{},
	}
	c.Dbg = NewDebugger(conf.Name, conf.Log)
	return c
}

// Name returns the name of the character.
func (c *Character) Name() string {
	return c.name
}

// Log returns the logger of the character.
func (c *Character) Log() *logrus.Logger {
	return c.log
}

// MovementState returns the movement state of the character.
func (c *Character) MovementState() *simulation.MovementState {
	return &c.state
}

// Handle sets the handler of the character. Passing nil resets it to a NopHandler.
func (c *Character) Handle(h Handler) {
	c.hMutex.Lock()
	defer c.hMutex.Unlock()

	if h == nil {
		h = NopHandler{}
	}
	c.h = h
}

func (c *Character) handler() Handler {
	c.hMutex.RLock()
	defer c.hMutex.RUnlock()
	return c.h
}

// StartGlide sets the glide intent. The character enters the glide mode on its next
// movement update.
func (c *Character) StartGlide() {
	c.wantsToGlide = true
}

// StopGlide clears the glide intent.
func (c *Character) StopGlide() {
	c.wantsToGlide = false
}

// WantsToGlide returns the glide intent of the character.
func (c *Character) WantsToGlide() bool {
	return c.wantsToGlide
}

// SetWantsToGlide sets the glide intent without any other side effect. It is used to
// restore the intent of a saved move and to apply replicated or decoded intents.
func (c *Character) SetWantsToGlide(v bool) {
	c.wantsToGlide = v
}

// IsGliding returns true if the character is in the glide mode and attached to the world.
func (c *Character) IsGliding() bool {
	return c.state.IsGliding() && c.state.Attached
}

// Landings returns the number of times the character has landed.
func (c *Character) Landings() int {
	return c.landings
}

// Impacts returns the number of non-walkable surfaces the character has hit while gliding.
func (c *Character) Impacts() int {
	return c.impacts
}

func (c *Character) ShouldNotifyLanded(simulation.HitResult) bool {
	return true
}

func (c *Character) Landed(hit simulation.HitResult) {
	c.landings++
	c.handler().HandleLanded(hit)
	if !c.keepGlideOnLand {
		c.StopGlide()
	}
	c.log.Debugf("%s landed at %v", c.name, hit.Location)
}

func (c *Character) GlideImpact(hit simulation.HitResult) {
	c.impacts++
	ctx := event.C(c)
	c.handler().HandleGlideImpact(ctx, hit)
	if ctx.Cancelled() {
		return
	}
	c.log.Debugf("%s hit a wall while gliding (normal=%v)", c.name, roundVec(hit.ImpactNormal))
}

func (c *Character) ImpactForces(hit simulation.HitResult, accel, vel mgl64.Vec3) {
	c.Dbg.Notify(DebugModeMovementSim, true, "impact forces accel=%v vel=%v", roundVec(accel), roundVec(vel))
}

func (c *Character) ModeChanged(from, to simulation.ModeKey) {
	c.Dbg.Notify(DebugModeMovementSim, true, "mode %v -> %v", from, to)
}

func roundVec(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{game.Round64(v[0], 3), game.Round64(v[1], 3), game.Round64(v[2], 3)}
}

var _ simulation.Listener = (*Character)(nil)
