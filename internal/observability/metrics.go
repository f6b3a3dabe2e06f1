package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/danmuck/ircwire/internal/protocol"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	DirectionDecode = "decode"
	DirectionEncode = "encode"

	resultOK = "ok"
)

var (
	registerOnce sync.Once

	codecLines = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ircwire",
			Subsystem: "codec",
			Name:      "lines_total",
			Help:      "Protocol lines processed by the codec, by direction and result.",
		},
		[]string{"direction", "result"},
	)
	codecBytes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ircwire",
			Subsystem: "codec",
			Name:      "bytes_total",
			Help:      "Raw line bytes processed by the codec.",
		},
		[]string{"direction"},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ircwire",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"node", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ircwire",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(codecLines, codecBytes, httpRequests, httpDuration)
	})
}

// RecordDecode counts one decode attempt of n raw bytes. err is the decode
// result; nil counts as ok, anything else under its protocol error kind.
func RecordDecode(n int, err error) {
	RegisterMetrics()
	result := resultOK
	if err != nil {
		result = protocol.ErrorKind(err)
	}
	codecLines.WithLabelValues(DirectionDecode, result).Inc()
	codecBytes.WithLabelValues(DirectionDecode).Add(float64(n))
}

// RecordEncode counts one encoded line of n bytes.
func RecordEncode(n int) {
	RegisterMetrics()
	codecLines.WithLabelValues(DirectionEncode, resultOK).Inc()
	codecBytes.WithLabelValues(DirectionEncode).Add(float64(n))
}

func RecordHTTPRequest(node, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(node, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(node, method, path, statusLabel).Observe(duration.Seconds())
}
