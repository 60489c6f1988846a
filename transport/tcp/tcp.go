// Package tcp adapts the operating system's TCP sockets to the transport interfaces.
package tcp

import (
	"context"
	"io"
	"net"
	"net/netip"
	"os"
	"strconv"
	"sync"
	"time"

	"http-server/transport"

	"github.com/pkg/errors"
)

type Addr struct{ addrPort netip.AddrPort }

var _ transport.Addr = Addr{}

func NewAddr(ip netip.Addr, port uint16) Addr { return Addr{netip.AddrPortFrom(ip, port)} }

// ResolveAddr resolves host and port into an Addr. Host may be a name or an IP literal.
func ResolveAddr(host string, port uint16) (Addr, error) {
	resolved, err := net.ResolveTCPAddr("tcp", net.JoinHostPort(host, strconv.FormatUint(uint64(port), 10)))
	if err != nil {
		return Addr{}, errors.Wrapf(err, "resolving %s", host)
	}
	return addrOf(resolved), nil
}

func (a Addr) Protocol() transport.Protocol { return transport.TCP }
func (a Addr) Identifier() any              { return a.addrPort.Port() }
func (a Addr) Port() uint16                 { return a.addrPort.Port() }
func (a Addr) IP() netip.Addr               { return a.addrPort.Addr() }
func (a Addr) String() string               { return a.addrPort.String() }

func addrOf(a net.Addr) Addr {
	if tcpAddr, ok := a.(*net.TCPAddr); ok {
		ap := tcpAddr.AddrPort()
		return Addr{netip.AddrPortFrom(ap.Addr().Unmap(), ap.Port())}
	}
	return Addr{}
}

type Conn struct {
	c net.Conn

	closeOnce sync.Once
	closeErr  error
}

var _ transport.Conn = (*Conn)(nil)

func (c *Conn) Read(p []byte) (int, error) {
	n, err := c.c.Read(p)
	return n, convertErr(err)
}

func (c *Conn) Write(p []byte) (int, error) {
	n, err := c.c.Write(p)
	return n, convertErr(err)
}

// Close closes the socket. Closing an already closed Conn is a no-op.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() { c.closeErr = convertErr(c.c.Close()) })
	return c.closeErr
}

func (c *Conn) LocalAddr() transport.Addr  { return addrOf(c.c.LocalAddr()) }
func (c *Conn) RemoteAddr() transport.Addr { return addrOf(c.c.RemoteAddr()) }

func (c *Conn) SetReadDeadLine(t time.Time)  { _ = c.c.SetReadDeadline(t) }
func (c *Conn) SetWriteDeadLine(t time.Time) { _ = c.c.SetWriteDeadline(t) }

// convertErr maps socket errors onto the transport errors.
func convertErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed):
		return transport.ErrConnClosed
	case errors.Is(err, os.ErrDeadlineExceeded):
		return transport.ErrDeadLineExceeded
	}
	return err
}

type Listener struct{ l *net.TCPListener }

var _ transport.ConnListener = (*Listener)(nil)

func Listen(addr Addr) (*Listener, error) {
	l, err := net.ListenTCP("tcp", net.TCPAddrFromAddrPort(addr.addrPort))
	if err != nil {
		return nil, errors.Wrapf(err, "listening on %s", addr)
	}
	return &Listener{l: l}, nil
}

func (l *Listener) Addr() transport.Addr { return addrOf(l.l.Addr()) }

// Accept waits for the next connection. Cancelling ctx unblocks it.
func (l *Listener) Accept(ctx context.Context) (transport.Conn, error) {
	if err := l.l.SetDeadline(time.Time{}); err != nil {
		return nil, convertListenerErr(err)
	}

	stop := context.AfterFunc(ctx, func() {
		// Unblock the pending Accept call below.
		_ = l.l.SetDeadline(time.Unix(1, 0))
	})
	defer stop()

	c, err := l.l.Accept()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, convertListenerErr(err)
	}

	return &Conn{c: c}, nil
}

func (l *Listener) Close() error { return convertListenerErr(l.l.Close()) }

func convertListenerErr(err error) error {
	if errors.Is(err, net.ErrClosed) {
		return transport.ErrConnListenerClosed
	}
	return err
}

type Dialer struct{ d net.Dialer }

var _ transport.ConnDialer = (*Dialer)(nil)

func (d *Dialer) Dial(ctx context.Context, addr transport.Addr) (transport.Conn, error) {
	c, err := d.d.DialContext(ctx, "tcp", addr.String())
	if err != nil {
		return nil, errors.Wrapf(err, "dialing %s", addr)
	}
	return &Conn{c: c}, nil
}
