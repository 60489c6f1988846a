package server

import (
	"strconv"

	"http-server/application/http"
	"http-server/application/http/status"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	requests     *prometheus.CounterVec
	parseErrors  *prometheus.CounterVec
	requestBytes prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "http_server",
			Name:      "requests_total",
			Help:      "Responses sent, by status code.",
		}, []string{"status"}),
		parseErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "http_server",
			Name:      "parse_errors_total",
			Help:      "Requests that could not be parsed, by error kind.",
		}, []string{"kind"}),
		requestBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "http_server",
			Name:      "request_bytes",
			Help:      "Size of received requests.",
			Buckets:   prometheus.ExponentialBuckets(64, 2, 8),
		}),
	}

	if reg == nil {
		return m, nil
	}

	for _, c := range []prometheus.Collector{m.requests, m.parseErrors, m.requestBytes} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrap(err, "registering metrics")
		}
	}

	return m, nil
}

func (m *metrics) observeRequest(size int, parseErr error) {
	m.requestBytes.Observe(float64(size))

	if parseErr == nil {
		return
	}

	kind := "unknown"
	if perr := new(http.ParseError); errors.As(parseErr, &perr) {
		kind = perr.Kind.String()
	}
	m.parseErrors.WithLabelValues(kind).Inc()
}

func (m *metrics) observeResponse(code status.Code) {
	m.requests.WithLabelValues(strconv.FormatUint(uint64(code), 10)).Inc()
}
