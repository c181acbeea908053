package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"umeng-push/internal/push"
)

const resultOK = "ok"

var (
	requests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "umeng_push_requests_total",
		Help: "Umeng api calls by operation, platform and result code.",
	}, []string{"operation", "platform", "result"})

	duration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "umeng_push_request_duration_seconds",
		Help:    "Umeng api call latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
)

// Result maps an error to a low cardinality label value.
func Result(err error) string {
	if err == nil {
		return resultOK
	}
	var pe push.PushError
	if errors.As(err, &pe) {
		return pe.TransportErrorCode()
	}
	return "error"
}

func Observe(operation, platform string, start time.Time, err error) {
	requests.WithLabelValues(operation, platform, Result(err)).Inc()
	duration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
