package conn

// State is the connection lifecycle of the process-wide Redis client.
// Exactly one Manager (and so one State) exists per process.
//
// Ready is the only state in which operations are expected to succeed.
// Operations are still attempted in every other state - the client queues
// or fails fast - but their failures are routine, not anomalies.
type State int32

const (
	StateUninitialized State = iota
	StateConnecting          // first Client() call, dial in flight
	StateConnected           // socket established, not yet verified
	StateReady               // ping succeeded, serving
	StateReconnecting        // probe failed, retrying under the attempt cap
	StateDisconnected        // attempt cap exhausted, or closed; see Manager.Err
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReady:
		return "ready"
	case StateReconnecting:
		return "reconnecting"
	case StateDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}
