package snaprelay

import (
	"errors"
)

// FatalError marks an error after which the connection cannot be used and
// must be disconnected.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

func IsFatalErr(err error) bool {
	if err == nil {
		return false
	}
	var fatalErr *FatalError
	return errors.As(err, &fatalErr)
}

func fatal(err error) error {
	if err == nil {
		return nil
	}
	return &FatalError{Err: err}
}

// HandshakeError is a rejected upgrade request. Code is the HTTP status
// written back to the client.
type HandshakeError struct {
	Code int
	Err  error
}

func AsHandshakeErr(err error) (*HandshakeError, bool) {
	var e *HandshakeError
	ok := errors.As(err, &e)
	return e, ok
}

func (e *HandshakeError) Error() string {
	return e.Err.Error()
}

func (e *HandshakeError) Unwrap() error {
	return e.Err
}

var (
	ErrMissingSecKey      = errors.New("missing Sec-WebSocket-Key header")
	ErrInvalidSecKey      = errors.New("invalid Sec-WebSocket-Key header")
	ErrHandshakeTooLarge  = errors.New("upgrade request too large")
	ErrIncompleteFrame    = errors.New("incomplete frame")
	ErrTooLargePayload    = errors.New("payload length too large")
	ErrMalformedPayload   = errors.New("malformed message payload")
	ErrUnknownMessageType = errors.New("unknown message type")
	ErrConnNotFound       = errors.New("connection is not registered")
	ErrConnClosed         = errors.New("connection is closed")
	// ErrSlowConsumer is returned when a connection's outbound queue is full.
	ErrSlowConsumer       = errors.New("outbound queue is full")
	ErrRateLimited        = errors.New("rate limit exceeded")
	ErrTooManyConnections = errors.New("connection limit reached")
)
