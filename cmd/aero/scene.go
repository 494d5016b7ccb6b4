package main

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"

	"github.com/oomph-ac/aero/game"
	"github.com/oomph-ac/aero/netsim"
	"github.com/oomph-ac/aero/player"
	"github.com/oomph-ac/aero/settings"
	"github.com/oomph-ac/aero/simulation"
	"github.com/oomph-ac/aero/world"
)

// demoWorld is a ground slab with a wall standing on it and a water pool sunk into it.
func demoWorld() *world.BoxWorld {
	return world.New().
		AddSolid(cube.Box(-4000, -4000, -200, 8000, 4000, 0)).
		AddSolid(cube.Box(3000, -4000, 0, 3200, 4000, 3000)).
		AddRamp(world.NewRamp(cube.Box(-2000, -4000, 0, -1000, 4000, 200), 200)).
		AddWater(cube.Box(-3500, -1000, -1000, -2500, 1000, 0)).
		AddNavMesh(cube.Box(-4000, -4000, -200, 3000, 4000, 0))
}

// script is the owner's input: glide off the ledge towards the wall, then let go and
// drop to the ground.
func script(tick, ticks int) netsim.Input {
	in := netsim.Input{View: mgl64.Vec3{1, 0, 0}}
	if tick < ticks/2 {
		in.Glide = true
	}
	return in
}

// runScene plays the demo script. With debug set, corrections are traced on every peer,
// or only on the peer of role trace if it is not RoleNone.
func runScene(log *logrus.Logger, set settings.Settings, ticks int, debug bool, trace simulation.NetRole) error {
	s := netsim.NewScene(netsim.SceneConfig{
		Name:     "glider",
		Settings: set,
		World:    demoWorld(),
		Start:    mgl64.Vec3{0, 0, 1500},
		Log:      log,
	})
	if debug {
		for _, p := range s.Peers() {
			if trace == simulation.RoleNone || p.Component().Role() == trace {
				p.Component().Character().Dbg.Toggle(player.DebugModeCorrections)
			}
		}
	}

	for tick := range ticks {
		s.Step(script(tick, ticks))
	}
	s.Settle(ticks)

	for _, p := range s.Peers() {
		mc := p.Component()
		c := mc.Character()
		st := c.MovementState()
		log.Infof("%-28s mode=%-14v pos=%v landings=%d impacts=%d corrections=%d acks=%d",
			p.Name(), st.ModeKey(), roundVec(st.Pos), c.Landings(), c.Impacts(), mc.Corrections(), mc.Acks())
	}
	accepted, rejected := s.Server.Component().ServerClock().Stats()
	log.Infof("server accepted %d moves, rejected %d", accepted, rejected)
	for _, st := range s.Stats() {
		log.Info(st.String())
	}
	return nil
}

func roundVec(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{game.Round64(v[0], 2), game.Round64(v[1], 2), game.Round64(v[2], 2)}
}
