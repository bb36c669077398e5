package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Requests       *prometheus.CounterVec
	RequestSeconds prometheus.Histogram
	LastHPE        prometheus.Gauge
	PublishErrors  prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		Requests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "locate_requests_total",
			Help: "Total number of location requests by result code.",
		}, []string{"code"}),
		RequestSeconds: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "locate_request_duration_seconds",
			Help:    "Duration of location requests, including radio scans.",
			Buckets: prometheus.DefBuckets,
		}),
		LastHPE: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "locate_last_hpe_meters",
			Help: "Horizontal position error of the last successful fix.",
		}),
		PublishErrors: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "locate_publish_errors_total",
			Help: "Total number of location messages that could not be published.",
		}),
	}
}
