package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
type Service struct {
	Proposals          prometheus.Counter
	Transitions        *prometheus.CounterVec
	Rejections         *prometheus.CounterVec
	Ratings            *prometheus.CounterVec
	ActionDuration     *prometheus.HistogramVec
	NotifSent          prometheus.Counter
	NotifFailed        prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}
