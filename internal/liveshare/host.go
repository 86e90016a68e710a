package liveshare

import (
	"bufio"
	"context"
	"net"
	"sync"
	"sync/atomic"

	"github.com/lineshare/lineshare/internal/constants"
	"github.com/lineshare/lineshare/internal/dlog"
	"github.com/lineshare/lineshare/internal/errs"
	"github.com/lineshare/lineshare/internal/session"
)

// conn adapts a net.Conn into a session.PeerConn. Outbound frames are
// queued on a buffered channel and written by a dedicated goroutine, so
// Send never blocks the caller: a slow joiner stalls only its own
// queue, not the broadcast loop or the other peers in it. Queued frames
// for one peer are always written in the order they were queued.
type conn struct {
	nc   net.Conn
	out  chan []byte
	stop chan struct{}
	once sync.Once
	fail func(error)
}

func newConn(nc net.Conn, onFail func(error)) *conn {
	c := &conn{
		nc:   nc,
		out:  make(chan []byte, constants.BroadcastChannelSize),
		stop: make(chan struct{}),
		fail: onFail,
	}
	go c.writeLoop()
	return c
}

func (c *conn) writeLoop() {
	for {
		select {
		case frame := <-c.out:
			if _, err := c.nc.Write(frame); err != nil {
				c.fail(err)
				return
			}
		case <-c.stop:
			return
		}
	}
}

// Send queues frame for the peer's writer goroutine. If the queue is
// full, the frame is dropped rather than blocking the originator. A
// dropped frame is not resent; the peer only gets the whole buffer again
// in the SYNC_FULL sent when it next connects.
func (c *conn) Send(frame []byte) error {
	select {
	case c.out <- frame:
	default:
		dlog.Live.Warn("peer queue full, dropping frame")
	}
	return nil
}

func (c *conn) Close() error {
	c.once.Do(func() { close(c.stop) })
	return c.nc.Close()
}

// Host listens for joiners and relays their non-cursor ops to every
// other connected joiner, per §4.5's star topology. Only editor slot 0
// is ever replicated.
type Host struct {
	sess     *session.Session
	nextID   int32
	listener net.Listener
}

// NewHost creates a Host bound to the given address. Slot 0 must
// already hold a loaded editor.
func NewHost(sess *session.Session, addr string) (*Host, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errs.Wrapf(errs.ErrConnRefused, "binding %s: %v", addr, err)
	}
	sess.Mode = session.ModeHost
	sess.SelfID = constants.HostPeerID
	return &Host{sess: sess, nextID: constants.HostPeerID, listener: ln}, nil
}

// Serve runs the accept loop until ctx is cancelled.
func (h *Host) Serve(ctx context.Context) {
	go func() {
		<-ctx.Done()
		h.listener.Close()
	}()

	for {
		nc, err := h.listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return
			default:
			}
			dlog.Live.Error("accept failed", err)
			continue
		}

		h.sess.ClientsMu.Lock()
		n := len(h.sess.Clients)
		h.sess.ClientsMu.Unlock()
		if n >= constants.MaxPeers-1 {
			dlog.Live.Warn("rejecting joiner", errs.ErrTooManyPeers)
			nc.Close()
			continue
		}

		id := int(atomic.AddInt32(&h.nextID, 1))
		go h.handleJoiner(ctx, nc, id)
	}
}

func (h *Host) handleJoiner(ctx context.Context, nc net.Conn, id int) {
	var pc *conn
	pc = newConn(nc, func(err error) {
		dlog.Live.Warn("peer write failed", id, errs.Wrap(errs.ErrPeerGone, err.Error()))
		h.dropJoiner(id, pc)
	})
	h.sess.ClientsMu.Lock()
	h.sess.Clients[id] = pc
	h.sess.ClientsMu.Unlock()

	dlog.Live.Info("joiner connected", id)

	slot := h.sess.Slots[0]
	slot.Mutex.Lock()
	st := slot.State
	snapshot, err := EncodeSnapshot(st.Buf.Bytes())
	slot.Mutex.Unlock()
	if err != nil {
		dlog.Live.Error("compressing snapshot for joiner", id, err)
		h.dropJoiner(id, pc)
		return
	}

	pc.Send(Encode(Frame{Op: Hello, Payload: EncodeHello(id)}))
	pc.Send(Encode(Frame{Op: SyncFull, Payload: snapshot}))

	slot.Mutex.Lock()
	for peerID, cur := range st.Peers {
		pc.Send(Encode(Frame{Op: Cursor, Payload: EncodeCursor(peerID, cur.Line, cur.Col)}))
	}
	pc.Send(Encode(Frame{Op: Cursor, Payload: EncodeCursor(constants.HostPeerID, st.CurrentLine, 0)}))
	slot.Mutex.Unlock()

	reader := bufio.NewReaderSize(nc, constants.NetworkReadBufferSize)
	for {
		select {
		case <-ctx.Done():
			h.dropJoiner(id, pc)
			return
		default:
		}

		f, err := Decode(reader)
		if err != nil {
			dlog.Live.Warn("joiner read failed", id, err)
			h.dropJoiner(id, pc)
			return
		}

		slot.Mutex.Lock()
		applyErr := Apply(st, f, nil)
		slot.Mutex.Unlock()
		if applyErr != nil {
			dlog.Live.Warn("joiner sent bad op", id, applyErr)
			continue
		}

		if f.Op != Cursor {
			h.relay(id, f)
		}
		f.Release()
	}
}

// relay forwards f to every connected joiner except origin. The host's
// own viewport was already updated by the Apply call above. Queuing is
// per peer, so one slow joiner never delays delivery to the others.
func (h *Host) relay(origin int, f Frame) {
	encoded := Encode(f)
	h.sess.ClientsMu.Lock()
	defer h.sess.ClientsMu.Unlock()
	for id, pc := range h.sess.Clients {
		if id == origin {
			continue
		}
		pc.Send(encoded)
	}
}

func (h *Host) dropJoiner(id int, pc *conn) {
	pc.Close()
	h.sess.ClientsMu.Lock()
	delete(h.sess.Clients, id)
	h.sess.ClientsMu.Unlock()

	slot := h.sess.Slots[0]
	slot.Mutex.Lock()
	delete(slot.State.Peers, id)
	slot.Mutex.Unlock()
}

// Broadcast sends f to every connected joiner; used by the local
// command layer (the Originator) after a mutation on slot 0. Queuing is
// per peer, so a slow joiner never blocks the originator or the other
// peers' delivery.
func (h *Host) Broadcast(f Frame) {
	encoded := Encode(f)
	h.sess.ClientsMu.Lock()
	defer h.sess.ClientsMu.Unlock()
	for _, pc := range h.sess.Clients {
		pc.Send(encoded)
	}
}
