package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		Proposals: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtside_match_proposals_total",
			Help: "The total number of matches proposed.",
		}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "courtside_match_transitions_total",
			Help: "The total number of successful match actions.",
		}, []string{"action"}),
		Rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "courtside_match_rejections_total",
			Help: "The total number of match actions that were refused.",
		}, []string{"action", "kind"}),
		Ratings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "courtside_ratings_total",
			Help: "The total number of player ratings recorded.",
		}, []string{"stars"}),
		ActionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "courtside_match_action_duration_seconds",
			Help:    "The duration of match actions including storage.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"action"}),
		NotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtside_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		NotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtside_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "courtside_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.Proposals,
		s.Transitions,
		s.Rejections,
		s.Ratings,
		s.ActionDuration,
		s.NotifSent,
		s.NotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncProposals() {
	s.Proposals.Inc()
}

func (s *Service) IncTransition(action string) {
	s.Transitions.WithLabelValues(action).Inc()
}

func (s *Service) IncRejection(action, kind string) {
	s.Rejections.WithLabelValues(action, kind).Inc()
}

func (s *Service) IncRatings(stars int) {
	s.Ratings.WithLabelValues(strconv.Itoa(stars)).Inc()
}

func (s *Service) ObserveActionDuration(action string, seconds float64) {
	s.ActionDuration.WithLabelValues(action).Observe(seconds)
}

func (s *Service) IncNotifSent() {
	s.NotifSent.Inc()
}

func (s *Service) IncNotifFailed() {
	s.NotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
