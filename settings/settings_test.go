package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml"
	"github.com/stretchr/testify/require"
)

func TestSaveDefaultAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aero.toml")
	require.NoError(t, SaveDefault(path))
	require.Error(t, SaveDefault(path), "saving over an existing file must fail")

	s, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, DefaultSettings(), s)
}

func TestLoadCustom(t *testing.T) {
	s := DefaultSettings()
	s.Glide.FrictionFactor = 0.5
	s.Glide.KeepGlideOnLand = true
	s.Network.LatencyTicks = 2
	s.Network.DropEvery = 9

	data, err := toml.Marshal(s)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "aero.toml")
	require.NoError(t, os.WriteFile(path, data, 0644))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, s, loaded)
	require.Equal(t, 0.5, loaded.GlideTuning().FrictionFactor)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(filepath.Join(dir, "missing.toml"))
	require.Error(t, err)

	path := filepath.Join(dir, "broken.toml")
	require.NoError(t, os.WriteFile(path, []byte("[Glide\nFrictionFactor = "), 0644))
	_, err = Load(path)
	require.Error(t, err)
}

func TestSimulationOptions(t *testing.T) {
	s := DefaultSettings()
	s.Simulation.GravityZ = -500
	opts := s.SimulationOptions()
	require.Equal(t, -500.0, opts.GravityZ)
	require.Equal(t, s.Simulation.MaxSimulationIterations, opts.MaxSimulationIterations)
}
