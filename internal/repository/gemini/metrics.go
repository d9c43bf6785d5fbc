package gemini

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ExplanationFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "explanation_fallbacks_total",
			Help: "Count of explanation requests answered with the fallback template, by reason.",
		},
		[]string{"reason"},
	)
)

func init() {
	prometheus.MustRegister(ExplanationFallbacksTotal)
}
