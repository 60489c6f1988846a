package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DefaultBufferSize is the read buffer size used when Options.BufferSize is zero.
// A request larger than the buffer is truncated.
const DefaultBufferSize = 1024

type Options struct {
	BufferSize uint
	Timeout    TimeoutOptions

	// Registerer receives the server metrics. Nil leaves them unregistered.
	Registerer prometheus.Registerer
}

type TimeoutOptions struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func (o Options) bufferSize() uint {
	if o.BufferSize == 0 {
		return DefaultBufferSize
	}
	return o.BufferSize
}
