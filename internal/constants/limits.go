package constants

// Structural limits from the line-editor data model.
const (
	// VisibleLines is the fixed viewport height.
	VisibleLines = 15

	// UndoCapacity is the number of inverse operations retained before
	// the oldest entry is evicted from the bottom of the stack.
	UndoCapacity = 100

	// MaxPeers is the maximum number of Live Share participants in a
	// single session, including the host.
	MaxPeers = 20

	// HostPeerID is the peer id always assigned to the session host.
	HostPeerID = 1

	// DefaultPort is the port shown in the --host flag's help example.
	// The --host/--join addresses are used exactly as given; no port is
	// filled in when one is missing.
	DefaultPort = 7543
)
