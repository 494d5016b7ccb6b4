package netsim

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/aero/player"
	"github.com/oomph-ac/aero/player/component"
	"github.com/oomph-ac/aero/settings"
	"github.com/oomph-ac/aero/simulation"
	"github.com/oomph-ac/aero/worker"
	"github.com/oomph-ac/aero/world"
	"github.com/sirupsen/logrus"
)

// Input is the input of the owning client for a single tick.
type Input struct {
	Accel mgl64.Vec3
	View  mgl64.Vec3
	Glide bool
}

// SceneConfig is used to create a Scene.
type SceneConfig struct {
	Name     string
	Settings settings.Settings
	World    *world.BoxWorld
	Start    mgl64.Vec3
	Log      *logrus.Logger
}

// Scene runs the three peers of a single character: the server, the owning client and a
// client that only observes the character.
type Scene struct {
	Server, Owner, Proxy *Peer

	links []*Link
	dt    float64
	tick  int
	glide bool
}

// NewScene creates the peers of a character and connects them.
func NewScene(conf SceneConfig) *Scene {
	if conf.Log == nil {
		conf.Log = logrus.New()
	}
	if conf.World == nil {
		conf.World = world.New()
	}
	if conf.Name == "" {
		conf.Name = "character"
	}
	set := conf.Settings
	tickRate := set.Network.TickRate
	if tickRate <= 0 {
		tickRate = 60
	}

	s := &Scene{dt: 1 / float64(tickRate)}
	s.Server = s.newPeer(conf, simulation.RoleAuthority)
	s.Owner = s.newPeer(conf, simulation.RoleAutonomousProxy)
	s.Proxy = s.newPeer(conf, simulation.RoleSimulatedProxy)

	toServer := s.newLink("owner->server", set)
	toOwner := s.newLink("server->owner", set)
	toProxy := s.newLink("server->proxy", set)

	s.Owner.SendVia(toServer)
	s.Server.ReceiveFrom(toServer)
	s.Server.SendVia(toOwner)
	s.Owner.ReceiveFrom(toOwner)
	s.Server.BroadcastVia(toProxy)
	s.Proxy.ReceiveFrom(toProxy)
	return s
}

func (s *Scene) newLink(name string, set settings.Settings) *Link {
	l := NewLink(name, set.Network.LatencyTicks, set.Network.DropEvery)
	s.links = append(s.links, l)
	return l
}

func (s *Scene) newPeer(conf SceneConfig, role simulation.NetRole) *Peer {
	name := conf.Name + "@" + role.String()
	c := player.New(player.Config{
		Name:            name,
		Log:             conf.Log,
		Position:        conf.Start,
		KeepGlideOnLand: conf.Settings.Glide.KeepGlideOnLand,
	})
	opts := conf.Settings.SimulationOptions()

	p := NewPeer(name, conf.Log)
	p.Attach(component.NewGlideMovementComponent(c, component.Config{
		Role:             role,
		Network:          p,
		Collision:        conf.World,
		Environment:      conf.World,
		Navigation:       conf.World,
		Options:          &opts,
		Tuning:           conf.Settings.GlideTuning(),
		SavedMoveCount:   conf.Settings.Prediction.SavedMoveCount,
		MaxMoveDeltaTime: conf.Settings.Prediction.MaxMoveDeltaTime,
	}))
	return p
}

// DeltaTime returns the length of a tick.
func (s *Scene) DeltaTime() float64 {
	return s.dt
}

// Ticks returns the number of ticks run so far.
func (s *Scene) Ticks() int {
	return s.tick
}

// Peers returns the peers of the scene.
func (s *Scene) Peers() []*Peer {
	return []*Peer{s.Server, s.Owner, s.Proxy}
}

// Step runs a single tick. The glide intent of the owner only changes when in.Glide
// differs from the previous input, so a character that stopped gliding by landing stays
// on the ground.
func (s *Scene) Step(in Input) {
	if in.Glide != s.glide {
		owner := s.Owner.Component().Character()
		if in.Glide {
			owner.StartGlide()
		} else {
			owner.StopGlide()
		}
		s.glide = in.Glide
	}

	s.run(func(p *Peer) { p.Tick(s.dt, in.Accel, in.View) })
}

// run ticks every peer on the shared workers, then advances the links.
func (s *Scene) run(tick func(p *Peer)) {
	var wg sync.WaitGroup
	for _, p := range s.Peers() {
		wg.Add(1)
		worker.Submit(func() {
			defer wg.Done()
			tick(p)
		})
	}
	wg.Wait()

	for _, l := range s.links {
		l.Advance()
	}
	s.tick++
}

// Settle flushes the owner's pending move and syncs every peer until no message is in
// flight, or until max ticks have passed.
func (s *Scene) Settle(max int) {
	s.Owner.Component().Flush()
	for range max {
		if s.inFlight() == 0 {
			return
		}
		s.run(func(p *Peer) { p.Sync(s.dt) })
	}
}

func (s *Scene) inFlight() int {
	n := 0
	for _, l := range s.links {
		n += l.Pending()
	}
	return n
}

// Stats returns the counters of every link.
func (s *Scene) Stats() []LinkStats {
	stats := make([]LinkStats, 0, len(s.links))
	for _, l := range s.links {
		stats = append(stats, l.Stats())
	}
	return stats
}
