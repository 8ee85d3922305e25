package session

// State describes the connection lifecycle. Transitions are driven solely by
// transport events and client calls, never set directly by consumers.
type State int

const (
	// StateIdle means no room is bound and no transport exists.
	StateIdle State = iota
	// StateConnecting means a dial is in flight.
	StateConnecting
	// StateOpen means the transport is live and accepting outbound actions.
	StateOpen
	// StateClosed means an open transport was lost and the room binding is
	// still active, so reconnection may be pending.
	StateClosed
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}
