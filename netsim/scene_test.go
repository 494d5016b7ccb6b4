package netsim

import (
	"io"
	"testing"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/aero/settings"
	"github.com/oomph-ac/aero/simulation"
	"github.com/oomph-ac/aero/world"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func floorWorld() *world.BoxWorld {
	return world.New().AddSolid(cube.Box(-100000, -100000, -1000, 100000, 100000, 0))
}

// glideAndLand glides for a second, then lets the character fall until it has landed and
// come to rest.
func glideAndLand(t *testing.T, s *Scene) {
	t.Helper()
	server := s.Server.Component().Character()
	for i := 0; i < 1200; i++ {
		s.Step(Input{View: mgl64.Vec3{1, 0, -0.2}, Glide: i < 60})
		if i > 60 && server.Landings() > 0 {
			break
		}
	}
	require.NotZero(t, server.Landings(), "character never landed")
	for range 60 {
		s.Step(Input{View: mgl64.Vec3{1, 0, 0}})
	}
	s.Settle(100)
}

func requireConverged(t *testing.T, s *Scene) {
	t.Helper()
	server := s.Server.Component().Character().MovementState()
	owner := s.Owner.Component().Character().MovementState()
	proxy := s.Proxy.Component().Character().MovementState()

	require.True(t, server.IsGrounded(), "server ended in %v", server.ModeKey())
	require.Equal(t, server.ModeKey(), owner.ModeKey())
	require.Equal(t, server.ModeKey(), proxy.ModeKey())
	require.InDelta(t, 0, server.Pos.Sub(owner.Pos).Len(), 1e-6)
	require.InDelta(t, 0, server.Pos.Sub(proxy.Pos).Len(), 1e-3)
}

func TestSceneConverges(t *testing.T) {
	set := settings.DefaultSettings()
	set.Network.LatencyTicks = 3
	s := NewScene(SceneConfig{Settings: set, World: floorWorld(), Start: mgl64.Vec3{0, 0, 3000}, Log: quietLogger()})

	glideAndLand(t, s)
	requireConverged(t, s)

	require.Zero(t, s.Server.Component().Corrections())
	require.NotZero(t, s.Owner.Component().Acks())
	require.Equal(t, 1, s.Owner.Component().Character().Landings())
	require.False(t, s.Owner.Component().Character().WantsToGlide())
	for _, p := range s.Peers() {
		require.False(t, p.Closed(), "%s closed", p.Name())
	}
}

func TestSceneConvergesWithDrops(t *testing.T) {
	set := settings.DefaultSettings()
	set.Network.LatencyTicks = 2
	set.Network.DropEvery = 5
	s := NewScene(SceneConfig{Settings: set, World: floorWorld(), Start: mgl64.Vec3{0, 0, 3000}, Log: quietLogger()})

	glideAndLand(t, s)
	requireConverged(t, s)

	var dropped uint64
	for _, st := range s.Stats() {
		dropped += st.Dropped
	}
	require.NotZero(t, dropped)
}

func TestPeerRecoversPanics(t *testing.T) {
	s := NewScene(SceneConfig{Settings: settings.DefaultSettings(), Log: quietLogger()})
	s.Server.run(func() { panic("boom") })

	require.True(t, s.Server.Closed())
	before := s.Server.Component().Character().MovementState().Pos
	s.Step(Input{})
	require.Equal(t, before, s.Server.Component().Character().MovementState().Pos)
	require.Equal(t, simulation.RoleAuthority, s.Server.Component().Role())
}
