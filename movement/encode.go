package movement

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/oomph-ac/aero/oerror"
	"github.com/zeebo/xxh3"
)

var (
	ErrUnknownMessage   = oerror.New("unknown message kind")
	ErrChecksumMismatch = oerror.New("message checksum mismatch")
)

// Envelope is the wire frame of a message.
type Envelope struct {
	Kind    Kind            `cbor:"1,keyasint"`
	Payload cbor.RawMessage `cbor:"2,keyasint"`
	// Sum is the xxh3 hash of Payload.
	Sum uint64 `cbor:"3,keyasint"`
}

// Marshal encodes a message into an envelope.
func Marshal(msg Message) ([]byte, error) {
	payload, err := cbor.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode %v: %w", msg.Kind(), err)
	}
	return cbor.Marshal(Envelope{
		Kind:    msg.Kind(),
		Payload: payload,
		Sum:     sum(payload),
	})
}

// Unmarshal decodes an envelope produced by Marshal.
func Unmarshal(b []byte) (Message, error) {
	var env Envelope
	if err := cbor.Unmarshal(b, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	if sum(env.Payload) != env.Sum {
		return nil, ErrChecksumMismatch
	}

	switch env.Kind {
	case KindServerMove:
		return decode[ServerMove](env)
	case KindClientAck:
		return decode[ClientAck](env)
	case KindClientAdjustment:
		return decode[ClientAdjustment](env)
	case KindReplicatedIntent:
		return decode[ReplicatedIntent](env)
	case KindReplicatedMovement:
		return decode[ReplicatedMovement](env)
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownMessage, env.Kind)
}

func sum(payload []byte) uint64 {
	return xxh3.Hash(payload)
}

func decode[T Message](env Envelope) (Message, error) {
	var msg T
	if err := cbor.Unmarshal(env.Payload, &msg); err != nil {
		return nil, fmt.Errorf("decode %v: %w", env.Kind, err)
	}
	return msg, nil
}
