package constants

// Channel buffer sizes.
const (
	// BroadcastChannelSize buffers outbound ops queued for a single peer
	// connection so a slow peer never blocks the originator.
	BroadcastChannelSize = 64

	// LoggerBufferChannelMultiplier scales the async logger's channel
	// depth with runtime.NumCPU(), mirroring the teacher's logger sizing.
	LoggerBufferChannelMultiplier = 100
)
