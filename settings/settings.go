package settings

import (
	"errors"
	"fmt"
	"os"

	"github.com/oomph-ac/aero/game"
	"github.com/oomph-ac/aero/simulation"
	"github.com/pelletier/go-toml"
)

// Settings contains everything that can be configured for gliding characters and the
// simulation they run in.
type Settings struct {
	Glide struct {
		DownwardInfluence float64
		ForwardInfluence  float64
		GravityInfluence  float64
		FrictionFactor    float64
		// KeepGlideOnLand keeps the glide intent after a character lands.
		KeepGlideOnLand bool
	}
	Prediction struct {
		SavedMoveCount   int
		MaxMoveDeltaTime float64
	}
	Simulation struct {
		GravityZ                float64
		MaxSimulationTimeStep   float64
		MaxSimulationIterations int
	}
	Network struct {
		// LatencyTicks is the one-way latency of the simulated link.
		LatencyTicks int
		// DropEvery drops every Nth message sent over the simulated link. Zero disables
		// drops.
		DropEvery int
		TickRate  int
	}
}

// DefaultSettings returns the default settings.
func DefaultSettings() Settings {
	settings := Settings{}
	settings.Glide.DownwardInfluence = game.DefaultGlideDownwardInfluence
	settings.Glide.ForwardInfluence = game.DefaultGlideForwardInfluence
	settings.Glide.GravityInfluence = game.DefaultGlideGravityInfluence
	settings.Glide.FrictionFactor = game.DefaultGlideFrictionFactor

	settings.Prediction.SavedMoveCount = game.MaxSavedMoveCount
	settings.Prediction.MaxMoveDeltaTime = game.MaxMoveDeltaTime

	settings.Simulation.GravityZ = game.DefaultGravityZ
	settings.Simulation.MaxSimulationTimeStep = game.MaxSimulationTimeStep
	settings.Simulation.MaxSimulationIterations = game.MaxSimulationIterations

	settings.Network.LatencyTicks = 6
	settings.Network.TickRate = 60
	return settings
}

// GlideTuning returns the glide tuning described by the settings.
func (s Settings) GlideTuning() simulation.GlideTuning {
	return simulation.GlideTuning{
		DownwardInfluence: s.Glide.DownwardInfluence,
		ForwardInfluence:  s.Glide.ForwardInfluence,
		GravityInfluence:  s.Glide.GravityInfluence,
		FrictionFactor:    s.Glide.FrictionFactor,
	}
}

// SimulationOptions returns the simulator options described by the settings.
func (s Settings) SimulationOptions() simulation.Options {
	opts := simulation.DefaultOptions()
	opts.GravityZ = s.Simulation.GravityZ
	opts.MaxSimulationTimeStep = s.Simulation.MaxSimulationTimeStep
	opts.MaxSimulationIterations = s.Simulation.MaxSimulationIterations
	return opts
}

// SaveDefault will create and save the default settings file. If the file already exists, it will return an error.
func SaveDefault(path string) error {
	s := DefaultSettings()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if data, err := toml.Marshal(s); err != nil {
			return fmt.Errorf("failed encoding default settings: %w", err)
		} else if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed creating settings file: %w", err)
		}
		return nil
	}
	return errors.New("settings file already exists")
}

// Load will load the settings from your settings file, and return an error if the file does not exist.
func Load(path string) (Settings, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Settings{}, errors.New("settings file doesn't exist")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("error reading config: %w", err)
	}

	settings := DefaultSettings()
	if err = toml.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("error decoding config: %w", err)
	}
	return settings, nil
}
