package oerror

import "fmt"

// AeroError is an error raised by the movement core. It only carries a message: the
// movement core never needs to attach more context than what fmt can format.
type AeroError struct {
	Err string
}

// New creates a new AeroError from the given format and arguments.
func New(format string, args ...any) *AeroError {
	if len(args) == 0 {
		return &AeroError{Err: format}
	}
	return &AeroError{Err: fmt.Sprintf(format, args...)}
}

func (e *AeroError) Error() string {
	return e.Err
}
