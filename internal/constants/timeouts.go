package constants

import "time"

// Timing constants used throughout the editor and Live Share transport.
const (
	// EscapeSequenceTimeout bounds how long the keystroke decoder waits
	// after a bare 0x1B byte for a following CSI sequence before it
	// decides the user pressed a standalone Escape.
	EscapeSequenceTimeout = 100 * time.Millisecond

	// AnyKeyPromptPoll is a polling interval for a "press any key"
	// prompt. The dispatcher's prompt does not poll: it clears the
	// pending error on the next decoded keystroke, and nothing reads
	// this value.
	AnyKeyPromptPoll = 20 * time.Millisecond
)
