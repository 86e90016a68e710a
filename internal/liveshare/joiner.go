package liveshare

import (
	"bufio"
	"context"
	"net"

	"github.com/lineshare/lineshare/internal/constants"
	"github.com/lineshare/lineshare/internal/dlog"
	"github.com/lineshare/lineshare/internal/errs"
	"github.com/lineshare/lineshare/internal/session"
)

// Joiner dials a host and runs the single reader thread that applies
// every frame the host sends to editor slot 0.
type Joiner struct {
	sess *session.Session
	nc   net.Conn
}

// DialJoiner connects to a Live Share host at addr. The connection is
// held open until ctx is cancelled or the host drops it.
func DialJoiner(sess *session.Session, addr string) (*Joiner, error) {
	nc, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, errs.Wrapf(errs.ErrConnRefused, "dialing %s: %v", addr, err)
	}
	sess.Mode = session.ModeJoin
	return &Joiner{sess: sess, nc: nc}, nil
}

// Send writes f to the host.
func (j *Joiner) Send(f Frame) error {
	_, err := j.nc.Write(Encode(f))
	return err
}

// Run reads frames from the host and applies them to editor slot 0
// until ctx is cancelled or the connection fails. There is no automatic
// reconnect: on failure the editor is left in its current local state.
func (j *Joiner) Run(ctx context.Context) {
	go func() {
		<-ctx.Done()
		j.nc.Close()
	}()

	slot := j.sess.Slots[0]
	reader := bufio.NewReaderSize(j.nc, constants.NetworkReadBufferSize)

	for {
		f, err := Decode(reader)
		if err != nil {
			select {
			case <-ctx.Done():
			default:
				dlog.Live.Warn("host connection lost", errs.Wrap(errs.ErrPeerGone, err.Error()))
			}
			return
		}

		slot.Mutex.Lock()
		selfID := j.sess.SelfID
		applyErr := Apply(slot.State, f, &selfID)
		j.sess.SelfID = selfID
		slot.Mutex.Unlock()
		if applyErr != nil {
			dlog.Live.Warn("host sent bad op", applyErr)
		}
		f.Release()
	}
}

// Close releases the connection to the host.
func (j *Joiner) Close() error {
	return j.nc.Close()
}

// Broadcast sends a locally-originated op to the host, which applies it
// and relays every non-cursor op to the other joiners. Matches Host.Broadcast's signature so the
// dispatcher can treat both roles identically.
func (j *Joiner) Broadcast(f Frame) {
	if err := j.Send(f); err != nil {
		dlog.Live.Warn("send to host failed", err)
	}
}
