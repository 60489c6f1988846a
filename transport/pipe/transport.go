package pipe

import (
	"context"
	"sync"

	"http-server/transport"

	"github.com/benbjohnson/clock"
)

// Transport is an in-memory network where listeners are addressed by name.
type Transport struct {
	clock clock.Clock

	mu        sync.Mutex
	listeners map[Addr]*Listener
}

var _ transport.ConnDialer = (*Transport)(nil)

func NewTransport(clock clock.Clock) *Transport {
	return &Transport{
		clock:     clock,
		listeners: make(map[Addr]*Listener),
	}
}

func (t *Transport) Listen(addr Addr) (*Listener, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.listeners[addr]; ok {
		return nil, transport.ErrAddrAlreadyInUse
	}

	l := &Listener{
		addr:      addr,
		transport: t,
		pending:   make(chan *Conn),
		closed:    make(chan struct{}),
	}
	t.listeners[addr] = l

	return l, nil
}

func (t *Transport) Dial(ctx context.Context, addr transport.Addr) (transport.Conn, error) {
	pa, ok := addr.(Addr)
	if !ok {
		return nil, transport.ErrConnRefused
	}

	t.mu.Lock()
	l, ok := t.listeners[pa]
	t.mu.Unlock()
	if !ok {
		return nil, transport.ErrConnRefused
	}

	local, remote := New("dialer", pa.Name, t.clock)

	select {
	case l.pending <- remote:
		return local, nil
	case <-l.closed:
		return nil, transport.ErrConnRefused
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type Listener struct {
	addr      Addr
	transport *Transport

	pending chan *Conn

	closed    chan struct{}
	closeOnce sync.Once
}

var _ transport.ConnListener = (*Listener)(nil)

func (l *Listener) Addr() transport.Addr { return l.addr }

func (l *Listener) Accept(ctx context.Context) (transport.Conn, error) {
	select {
	case conn := <-l.pending:
		return conn, nil
	case <-l.closed:
		return nil, transport.ErrConnListenerClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (l *Listener) Close() error {
	err := transport.ErrConnListenerClosed
	l.closeOnce.Do(func() {
		close(l.closed)

		l.transport.mu.Lock()
		delete(l.transport.listeners, l.addr)
		l.transport.mu.Unlock()

		err = nil
	})
	return err
}
