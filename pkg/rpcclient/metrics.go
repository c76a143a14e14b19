package rpcclient

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	requestTime *prometheus.HistogramVec
}

func newMetrics(r prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		requestTime: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Help:      "REST request duration",
				Name:      "rest_request_duration_seconds",
				Namespace: "sirius",
			},
			[]string{"method", "route"},
		),
	}
	if err := r.Register(m.requestTime); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *metrics) observe(method, route string, t time.Duration) {
	if m == nil {
		return
	}
	m.requestTime.WithLabelValues(method, route).Observe(t.Seconds())
}
