// Package pipe provides in-memory, synchronous connections.
// Its design follows net.Pipe: a write blocks until readers consumed all of it.
package pipe

import (
	"sync"
	"time"

	"http-server/transport"

	"github.com/benbjohnson/clock"
)

type Addr struct{ Name string }

var _ transport.Addr = Addr{}

func (a Addr) Protocol() transport.Protocol { return transport.Pipe }
func (a Addr) Identifier() any              { return a.Name }
func (a Addr) String() string               { return a.Name }

// Conn is one end of a pipe.
type Conn struct {
	addr Addr

	rx chan []byte // Chunks written by the peer.
	ack chan int   // Bytes of our last write the peer has read.

	writeMu sync.Mutex

	closed    chan struct{}
	closeOnce sync.Once

	rdeadline, wdeadline *deadline

	peer *Conn
}

var _ transport.Conn = (*Conn)(nil)

// New creates a pair of connected ends, named local and remote.
func New(local, remote string, clock clock.Clock) (c1, c2 *Conn) {
	c1, c2 = newConn(local, clock), newConn(remote, clock)
	c1.peer, c2.peer = c2, c1
	return c1, c2
}

func newConn(name string, clock clock.Clock) *Conn {
	return &Conn{
		addr:      Addr{Name: name},
		rx:        make(chan []byte),
		ack:       make(chan int),
		closed:    make(chan struct{}),
		rdeadline: newDeadline(clock),
		wdeadline: newDeadline(clock),
	}
}

func (c *Conn) LocalAddr() transport.Addr  { return c.addr }
func (c *Conn) RemoteAddr() transport.Addr { return c.peer.addr }

func (c *Conn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

func (c *Conn) Read(b []byte) (int, error) {
	if err := c.check(c.rdeadline); err != nil {
		return 0, err
	}

	select {
	case chunk := <-c.rx:
		n := copy(b, chunk)
		c.peer.ack <- n
		return n, nil
	case <-c.closed:
		return 0, transport.ErrConnClosed
	case <-c.peer.closed:
		return 0, transport.ErrConnClosed
	case <-c.rdeadline.done():
		return 0, transport.ErrDeadLineExceeded
	}
}

func (c *Conn) Write(b []byte) (int, error) {
	if err := c.check(c.wdeadline); err != nil {
		return 0, err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	written := 0
	for len(b) > 0 {
		select {
		case c.peer.rx <- b:
			n := <-c.ack
			b = b[n:]
			written += n
		case <-c.closed:
			return written, transport.ErrConnClosed
		case <-c.peer.closed:
			return written, transport.ErrConnClosed
		case <-c.wdeadline.done():
			return written, transport.ErrDeadLineExceeded
		}
	}

	return written, nil
}

func (c *Conn) SetReadDeadLine(t time.Time)  { c.rdeadline.set(t) }
func (c *Conn) SetWriteDeadLine(t time.Time) { c.wdeadline.set(t) }

func (c *Conn) check(d *deadline) error {
	switch {
	case isDone(c.closed), isDone(c.peer.closed):
		return transport.ErrConnClosed
	case isDone(d.done()):
		return transport.ErrDeadLineExceeded
	}
	return nil
}

// deadline is a channel closed once its time passes.
type deadline struct {
	clock clock.Clock

	mu     sync.Mutex
	timer  *clock.Timer
	passed chan struct{}
}

func newDeadline(clock clock.Clock) *deadline {
	return &deadline{clock: clock, passed: make(chan struct{})}
}

func (d *deadline) set(t time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		if !d.timer.Stop() {
			// The timer fired or is about to close the old channel.
			d.passed = make(chan struct{})
		}
		d.timer = nil
	}

	if isDone(d.passed) {
		d.passed = make(chan struct{})
	}

	if t.IsZero() {
		return
	}

	wait := d.clock.Until(t)
	if wait <= 0 {
		close(d.passed)
		return
	}

	passed := d.passed
	d.timer = d.clock.AfterFunc(wait, func() { close(passed) })
}

func (d *deadline) done() <-chan struct{} {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.passed
}

func isDone(c <-chan struct{}) bool {
	select {
	case <-c:
		return true
	default:
		return false
	}
}
