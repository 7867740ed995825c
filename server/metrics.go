package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	racesScored   prometheus.Counter
	racesRotated  prometheus.Counter
	rejectedInput *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "regattascore",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "regattascore",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		racesScored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "regattascore",
			Name:      "races_scored_total",
			Help:      "Races scored through the API.",
		}),
		racesRotated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "regattascore",
			Name:      "races_rotated_total",
			Help:      "Races given a rotation through the API.",
		}),
		rejectedInput: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "regattascore",
			Name:      "rejected_documents_total",
			Help:      "Uploaded documents rejected, by kind.",
		}, []string{"kind"}),
	}
	reg.MustRegister(m.requests, m.duration, m.racesScored, m.racesRotated, m.rejectedInput)
	return m
}
