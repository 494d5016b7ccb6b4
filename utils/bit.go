package utils

// HasFlag returns whether given flags include the given bitflag.
func HasFlag(flags, flag uint8) bool {
	return flags&flag != 0
}

// SetFlag sets or clears the given bitflag, leaving every other bit untouched.
func SetFlag(flags, flag uint8, set bool) uint8 {
	if set {
		return flags | flag
	}
	return flags &^ flag
}
