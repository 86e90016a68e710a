// Package shutdown gives the dispatcher a channel-fed signal watcher so
// a termination signal and the interactive "q" key drive the exact same
// exit path: persist, tear down Live Share, restore the terminal. In raw
// mode Ctrl-C reaches the editor as a byte, not as SIGINT.
package shutdown

import (
	"context"
	"os"
	gosignal "os/signal"
	"syscall"
)

// RequestCh returns a channel that fires once a SIGINT, SIGTERM, SIGHUP or
// SIGQUIT is received. A second SIGINT/SIGTERM while the caller is still
// shutting down exits immediately rather than waiting for cleanup.
func RequestCh(ctx context.Context) <-chan struct{} {
	sigCh := make(chan os.Signal, 4)
	gosignal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)
	requestCh := make(chan struct{}, 1)

	go func() {
		select {
		case <-sigCh:
			requestCh <- struct{}{}
		case <-ctx.Done():
			return
		}
		select {
		case <-sigCh:
			os.Exit(1)
		case <-ctx.Done():
		}
	}()
	return requestCh
}
