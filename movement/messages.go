package movement

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/aero/game"
	"github.com/oomph-ac/aero/simulation"
)

// Kind identifies the type of a wire message.
type Kind uint8

const (
	KindServerMove Kind = iota + 1
	KindClientAck
	KindClientAdjustment
	KindReplicatedIntent
	KindReplicatedMovement
)

func (k Kind) String() string {
	switch k {
	case KindServerMove:
		return "ServerMove"
	case KindClientAck:
		return "ClientAck"
	case KindClientAdjustment:
		return "ClientAdjustment"
	case KindReplicatedIntent:
		return "ReplicatedIntent"
	case KindReplicatedMovement:
		return "ReplicatedMovement"
	}
	return "Unknown"
}

// Message is a message sent between the peers of a character.
type Message interface {
	Kind() Kind
}

// ServerMove is sent by the owning client for every move it makes.
type ServerMove struct {
	Timestamp float64    `cbor:"1,keyasint"`
	DeltaTime float64    `cbor:"2,keyasint"`
	Accel     mgl32.Vec3 `cbor:"3,keyasint"`
	View      mgl32.Vec3 `cbor:"4,keyasint"`
	// Flags is the compressed flag byte of the move.
	Flags uint8 `cbor:"5,keyasint"`
	// ClientPos and ClientMode are where the client ended up after the move.
	ClientPos  mgl64.Vec3 `cbor:"6,keyasint"`
	ClientMode uint8      `cbor:"7,keyasint"`
}

// NewServerMove builds the ServerMove of a saved move.
func NewServerMove(m *SavedMove) ServerMove {
	return ServerMove{
		Timestamp:  m.Timestamp,
		DeltaTime:  m.DeltaTime,
		Accel:      game.Vec64To32(m.Accel),
		View:       game.Vec64To32(m.View),
		Flags:      m.CompressedFlags(),
		ClientPos:  m.EndPos,
		ClientMode: m.End.Pack(),
	}
}

// Input returns the simulation input the server runs the move with.
func (m ServerMove) Input() simulation.Input {
	return simulation.Input{
		DeltaTime: m.DeltaTime,
		Accel:     game.QuantizeVec10(game.Vec32To64(m.Accel)),
		View:      game.Vec32To64(m.View),
	}
}

func (ServerMove) Kind() Kind { return KindServerMove }

// ClientAck tells the client its moves up to Timestamp matched the server.
type ClientAck struct {
	Timestamp float64 `cbor:"1,keyasint"`
}

func (ClientAck) Kind() Kind { return KindClientAck }

// ClientAdjustment corrects the client to the server's state at Timestamp.
type ClientAdjustment struct {
	Timestamp    float64    `cbor:"1,keyasint"`
	Pos          mgl64.Vec3 `cbor:"2,keyasint"`
	Vel          mgl64.Vec3 `cbor:"3,keyasint"`
	Rotation     mgl64.Quat `cbor:"4,keyasint"`
	Mode         uint8      `cbor:"5,keyasint"`
	WantsToGlide bool       `cbor:"6,keyasint"`
}

func (ClientAdjustment) Kind() Kind { return KindClientAdjustment }

// ReplicatedIntent carries the glide intent of a character to its simulated proxies.
type ReplicatedIntent struct {
	WantsToGlide bool `cbor:"1,keyasint"`
}

func (ReplicatedIntent) Kind() Kind { return KindReplicatedIntent }

// ReplicatedMovement carries the authoritative movement state of a character to its
// simulated proxies.
type ReplicatedMovement struct {
	Timestamp float64    `cbor:"1,keyasint"`
	Pos       mgl64.Vec3 `cbor:"2,keyasint"`
	Vel       mgl64.Vec3 `cbor:"3,keyasint"`
	Rotation  mgl64.Quat `cbor:"4,keyasint"`
	Mode      uint8      `cbor:"5,keyasint"`
}

func (ReplicatedMovement) Kind() Kind { return KindReplicatedMovement }
