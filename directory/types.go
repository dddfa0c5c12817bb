package directory

// PeerState mirrors the state string the registry publishes per container.
type PeerState string

const (
	StateRunning PeerState = "running"
	StateStopped PeerState = "stopped"
)

// Peer is one registered member of the local service group. Index is the
// registration order and doubles as the fallback priority order.
type Peer struct {
	Index   int
	Address string
	UUID    string
	State   PeerState
}
