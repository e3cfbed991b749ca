package io

import (
	"github.com/pkg/errors"
)

var (
	// ErrDisconnected is returned when the peer closes its end of the stream.
	ErrDisconnected = errors.New("disconnected")
	// ErrLineTooLong is returned when a line exceeds the configured maximum length.
	ErrLineTooLong = errors.New("line too long")
	// ErrBlockTooLarge is returned when a block exceeds its size bound before the sentinel arrives.
	ErrBlockTooLarge = errors.New("block too large")
	// ErrQuit is returned after a client asked to end the session.
	ErrQuit = errors.New("quit received")
	// ErrIdle is returned when no complete line arrived within the idle timeout.
	ErrIdle = errors.New("idle timeout")
)

// ConnectionError is the single signal that a connection can not be used anymore.
// Reason names the step that failed (read, write, quit).
type ConnectionError struct {
	Reason string
	Err    error
}

func (e *ConnectionError) Error() string {
	if e.Err == nil {
		return e.Reason
	}
	return e.Reason + ": " + e.Err.Error()
}

func (e *ConnectionError) Cause() error {
	return e.Err
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// Fatal wraps err into a ConnectionError.
func Fatal(reason string, err error) error {
	return &ConnectionError{Reason: reason, Err: err}
}

// IsFatal returns true if err terminates a connection.
func IsFatal(err error) bool {
	var ce *ConnectionError
	return errors.As(err, &ce)
}

// Graceful returns true for the expected ways of ending a session: the client said quit or hung up.
func Graceful(err error) bool {
	return errors.Is(err, ErrQuit) || errors.Is(err, ErrDisconnected)
}
