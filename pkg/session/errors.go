package session

import "errors"

// Common errors for the session package.
var (
	// ErrConnectInProgress indicates a Connect call is already pending.
	ErrConnectInProgress = errors.New("connection already in progress")
	// ErrConnectAborted indicates Disconnect won a race against a pending
	// Connect, which therefore did not install its transport.
	ErrConnectAborted = errors.New("connect aborted by disconnect")
	// ErrNotConnected indicates an outbound action was dropped because the
	// transport is not open.
	ErrNotConnected = errors.New("transport not open")
	// ErrMissingRoom indicates an empty room identifier.
	ErrMissingRoom = errors.New("room ID is required")
)
