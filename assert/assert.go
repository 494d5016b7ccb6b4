package assert

import "github.com/oomph-ac/aero/oerror"

// IsTrue panics with an oerror if ok is false. It is used for programming precondition
// violations only, never for conditions a peer on the network can trigger.
func IsTrue(ok bool, message string, args ...any) {
	if !ok {
		panic(oerror.New(message, args...))
	}
}

// NotNil panics if v is nil.
func NotNil(v any, message string, args ...any) {
	IsTrue(v != nil, message, args...)
}
