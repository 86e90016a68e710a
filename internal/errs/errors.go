// Package errs collects sentinel errors for the editor and Live Share
// transport, plus small wrapping helpers, so call sites can use errors.Is
// instead of matching on strings.
package errs

import (
	"errors"
	"fmt"
)

var (
	// Input errors (reported before raw mode is entered).
	ErrEmptyFile    = errors.New("file is empty")
	ErrFileNotFound = errors.New("file not found")
	ErrTooManyFiles = errors.New("at most two files may be opened")
	ErrBadArgs      = errors.New("invalid arguments")

	// Structural-mutation errors.
	ErrOnlyLine  = errors.New("cannot delete the only remaining line")
	ErrEmptyUndo = errors.New("nothing to undo")

	// Live Share / transport errors.
	ErrBadFrameHeader  = errors.New("malformed frame header")
	ErrPayloadTooLarge = errors.New("frame payload exceeds capacity")
	ErrTooManyPeers    = errors.New("session already has the maximum number of peers")
	ErrConnRefused     = errors.New("connection refused")
	ErrPeerGone        = errors.New("peer connection closed")
)

// Wrap attaches additional context to err, or returns nil unchanged.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is is a re-export of errors.Is for call sites that only import errs.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
