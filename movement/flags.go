package movement

import "github.com/oomph-ac/aero/utils"

// Compressed move flags. The low nibble is owned by the base movement protocol; the high
// nibble holds the four custom flags.
const (
	FlagJumpPressed   uint8 = 0x01
	FlagWantsToCrouch uint8 = 0x02
	FlagReserved1     uint8 = 0x04
	FlagReserved2     uint8 = 0x08
	FlagCustom0       uint8 = 0x10
	FlagCustom1       uint8 = 0x20
	FlagCustom2       uint8 = 0x40
	FlagCustom3       uint8 = 0x80

	// FlagGlide carries the glide intent.
	FlagGlide = FlagCustom0
)

// EncodeFlags writes the glide intent into base. Every other bit of base is left as is.
func EncodeFlags(intent bool, base uint8) uint8 {
	return utils.SetFlag(base, FlagGlide, intent)
}

// DecodeFlags splits a compressed flag byte into the glide intent and the remaining base
// flags. Any byte is valid.
func DecodeFlags(flags uint8) (intent bool, base uint8) {
	return utils.HasFlag(flags, FlagGlide), flags &^ FlagGlide
}
