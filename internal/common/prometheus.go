package common

import "github.com/prometheus/client_golang/prometheus"

const (
	HTTPRequestTotal           = "http_requests_total"
	HTTPRequestDurationSeconds = "http_request_duration_seconds"
	PointGrantTotal            = "point_grant_total"
	RewardRedemptionTotal      = "reward_redemption_total"
)

var (
	PromCounters = map[string]*prometheus.CounterVec{
		HTTPRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: HTTPRequestTotal,
			Help: "Count of all HTTP requests",
		}, []string{"method", "status_code"}),
		PointGrantTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: PointGrantTotal,
			Help: "Count of all point grants",
		}, []string{"reason"}),
		RewardRedemptionTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: RewardRedemptionTotal,
			Help: "Count of all reward redemptions",
		}, []string{"status"}),
	}

	PromHistograms = map[string]*prometheus.HistogramVec{
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: HTTPRequestDurationSeconds,
			Help: "Duration of all HTTP requests",
		}, []string{"method", "status_code"}),
	}
)
