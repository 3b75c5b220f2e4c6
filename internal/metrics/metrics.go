package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for Generations.
const (
	OutcomeSuccess = "success"
	OutcomeInvalid = "invalid"
	OutcomeFailed  = "failed"
	OutcomeUnsaved = "unsaved"
)

// Metrics groups the designer's collectors.
type Metrics struct {
	Generations        *prometheus.CounterVec
	WatermarkFallbacks prometheus.Counter
	HeroShrinks        prometheus.Counter
	CompositeDuration  prometheus.Histogram
}

// New registers the collectors on reg. Pass prometheus.DefaultRegisterer in
// main and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Generations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "couponart",
			Name:      "generations_total",
			Help:      "Voucher generation requests by outcome.",
		}, []string{"outcome", "campaign_type"}),
		WatermarkFallbacks: f.NewCounter(prometheus.CounterOpts{
			Namespace: "couponart",
			Name:      "watermark_fallbacks_total",
			Help:      "Composites drawn with the monogram fallback.",
		}),
		HeroShrinks: f.NewCounter(prometheus.CounterOpts{
			Namespace: "couponart",
			Name:      "hero_shrinks_total",
			Help:      "Composites whose discount text was shrunk to fit.",
		}),
		CompositeDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "couponart",
			Name:      "generation_duration_seconds",
			Help:      "Time to synthesize and composite one voucher.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}),
	}
}
