package simulation

import (
	"fmt"
	"strings"

	"github.com/oomph-ac/aero/oerror"
)

// MovementMode is the discrete locomotion mode a character is in.
type MovementMode uint8

const (
	ModeNone MovementMode = iota
	ModeWalking
	ModeNavWalking
	ModeFalling
	ModeSwimming
	ModeFlying
	ModeCustom
)

func (m MovementMode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case ModeWalking:
		return "walking"
	case ModeNavWalking:
		return "navwalking"
	case ModeFalling:
		return "falling"
	case ModeSwimming:
		return "swimming"
	case ModeFlying:
		return "flying"
	case ModeCustom:
		return "custom"
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

// Grounded returns true for the walking family of modes.
func (m MovementMode) Grounded() bool {
	return m == ModeWalking || m == ModeNavWalking
}

// CustomMode is the sub-mode active while the movement mode is ModeCustom.
type CustomMode uint8

const (
	CustomNone CustomMode = iota
	CustomGlide
)

func (c CustomMode) String() string {
	switch c {
	case CustomNone:
		return "none"
	case CustomGlide:
		return "glide"
	}
	return fmt.Sprintf("custom(%d)", uint8(c))
}

// ModeKey identifies a (mode, custom sub-mode) pair. The custom sub-mode is always
// CustomNone unless Mode is ModeCustom.
type ModeKey struct {
	Mode   MovementMode
	Custom CustomMode
}

// Key returns the normalized ModeKey for the given pair.
func Key(mode MovementMode, custom CustomMode) ModeKey {
	if mode != ModeCustom {
		custom = CustomNone
	}
	return ModeKey{Mode: mode, Custom: custom}
}

func (k ModeKey) String() string {
	if k.Mode == ModeCustom {
		return "custom/" + k.Custom.String()
	}
	return k.Mode.String()
}

// Pack encodes the key into a single byte for the wire: the mode in the low nibble and
// the custom sub-mode in the high nibble.
func (k ModeKey) Pack() uint8 {
	return uint8(k.Mode)&0x0f | uint8(k.Custom)<<4
}

// UnpackModeKey is the inverse of ModeKey.Pack.
func UnpackModeKey(b uint8) ModeKey {
	return Key(MovementMode(b&0x0f), CustomMode(b>>4))
}

// NetRole is the network role of the peer simulating a character.
type NetRole uint8

const (
	RoleNone NetRole = iota
	// RoleSimulatedProxy is a remote copy of a character owned by another client. It does
	// not predict.
	RoleSimulatedProxy
	// RoleAutonomousProxy is the owning client. It predicts locally and is corrected by
	// the authority.
	RoleAutonomousProxy
	// RoleAuthority is the server.
	RoleAuthority
)

func (r NetRole) String() string {
	switch r {
	case RoleNone:
		return "none"
	case RoleSimulatedProxy:
		return "simulated"
	case RoleAutonomousProxy:
		return "autonomous"
	case RoleAuthority:
		return "authority"
	}
	return fmt.Sprintf("role(%d)", uint8(r))
}

// ParseRole parses the string form of a NetRole.
func ParseRole(s string) (NetRole, error) {
	switch strings.ToLower(s) {
	case "none":
		return RoleNone, nil
	case "simulated":
		return RoleSimulatedProxy, nil
	case "autonomous":
		return RoleAutonomousProxy, nil
	case "authority":
		return RoleAuthority, nil
	}
	return RoleNone, oerror.New("unknown net role %q", s)
}
