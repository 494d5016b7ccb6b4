package player

import (
	"github.com/sirupsen/logrus"
)

const (
	DebugModeMovementSim = iota
	DebugModeACKs
	DebugModeCorrections
	debugModeCount
)

var debugModeNames = [debugModeCount]string{"movement_sim", "acks", "corrections"}

// ParseDebugMode returns the debug mode with the given name.
func ParseDebugMode(name string) (int, bool) {
	for mode, n := range debugModeNames {
		if n == name {
			return mode, true
		}
	}
	return 0, false
}

// Debugger logs debug information about a character for the modes that are enabled.
type Debugger struct {
	owner string
	log   *logrus.Logger
	modes [debugModeCount]bool
}

func NewDebugger(owner string, log *logrus.Logger) *Debugger {
	return &Debugger{owner: owner, log: log}
}

// Toggle flips a debug mode on or off.
func (d *Debugger) Toggle(mode int) {
	if mode < 0 || mode >= debugModeCount {
		return
	}
	d.modes[mode] = !d.modes[mode]
}

// Enabled returns true if the debug mode is on.
func (d *Debugger) Enabled(mode int) bool {
	if mode < 0 || mode >= debugModeCount {
		return false
	}
	return d.modes[mode]
}

// Notify logs the message if the mode is enabled and cond holds.
func (d *Debugger) Notify(mode int, cond bool, format string, args ...any) {
	if !cond || !d.Enabled(mode) {
		return
	}
	d.log.WithField("character", d.owner).Debugf("["+debugModeNames[mode]+"] "+format, args...)
}
