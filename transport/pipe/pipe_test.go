package pipe

import (
	"context"
	"testing"
	"time"

	"http-server/transport"
	"http-server/transport/test"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/goleak"
)

type PipeTestSuite struct {
	test.ConnTestSuite
}

func TestPipeTestSuite(t *testing.T) {
	suite.Run(t, new(PipeTestSuite))
}

func (s *PipeTestSuite) SetupTest() {
	s.ConnTestSuite.SetupTest()
	s.C1, s.C2 = New("A", "B", s.Clock)
}

func TestDeadlineWithMockClock(t *testing.T) {
	defer goleak.VerifyNone(t)

	mock := clock.NewMock()
	c1, c2 := New("A", "B", mock)
	defer c1.Close()
	defer c2.Close()

	c1.SetReadDeadLine(mock.Now().Add(time.Second))

	errs := make(chan error, 1)
	go func() {
		_, err := c1.Read(make([]byte, 1))
		errs <- err
	}()

	mock.Add(time.Second)
	assert.ErrorIs(t, <-errs, transport.ErrDeadLineExceeded)

	// Clearing the deadline makes the connection usable again.
	c1.SetReadDeadLine(time.Time{})
	go func() { _, _ = c2.Write([]byte("x")) }()

	b := make([]byte, 1)
	n, err := c1.Read(b)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestTransport(t *testing.T) {
	defer goleak.VerifyNone(t)

	tr := NewTransport(clock.New())
	addr := Addr{Name: "server"}

	l, err := tr.Listen(addr)
	require.NoError(t, err)
	assert.Equal(t, addr, l.Addr())

	_, err = tr.Listen(addr)
	assert.ErrorIs(t, err, transport.ErrAddrAlreadyInUse)

	accepted := make(chan transport.Conn, 1)
	go func() {
		conn, err := l.Accept(context.Background())
		assert.NoError(t, err)
		accepted <- conn
	}()

	client, err := tr.Dial(context.Background(), addr)
	require.NoError(t, err)
	server := <-accepted

	assert.Equal(t, addr, client.RemoteAddr())
	assert.Equal(t, client.LocalAddr(), server.RemoteAddr())

	require.NoError(t, client.Close())
	require.NoError(t, server.Close())

	require.NoError(t, l.Close())
	assert.ErrorIs(t, l.Close(), transport.ErrConnListenerClosed)

	_, err = l.Accept(context.Background())
	assert.ErrorIs(t, err, transport.ErrConnListenerClosed)

	_, err = tr.Dial(context.Background(), addr)
	assert.ErrorIs(t, err, transport.ErrConnRefused)
}

func TestAcceptCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	l, err := NewTransport(clock.New()).Listen(Addr{Name: "server"})
	require.NoError(t, err)
	defer l.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = l.Accept(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
