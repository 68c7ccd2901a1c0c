package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder counts rendered cards and photo fallbacks. It satisfies
// card.Observer.
type Recorder struct {
	Rendered       *prometheus.CounterVec
	RenderDuration *prometheus.HistogramVec
	PhotoFallbacks *prometheus.CounterVec
}

// NewRecorder registers the render metrics on reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		Rendered: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "casecard",
			Name:      "cards_rendered_total",
			Help:      "Cards rendered, by layout and kind.",
		}, []string{"layout", "kind"}),
		RenderDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "casecard",
			Name:      "render_duration_seconds",
			Help:      "Time to compose and encode one card.",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"layout", "kind"}),
		PhotoFallbacks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "casecard",
			Name:      "photo_fallbacks_total",
			Help:      "Photos replaced by the placeholder, by reason.",
		}, []string{"layout", "kind", "reason"}),
	}
}

func (r *Recorder) CardRendered(layout, kind string, d time.Duration) {
	r.Rendered.WithLabelValues(layout, kind).Inc()
	r.RenderDuration.WithLabelValues(layout, kind).Observe(d.Seconds())
}

func (r *Recorder) PhotoFallback(layout, kind, reason string) {
	r.PhotoFallbacks.WithLabelValues(layout, kind, reason).Inc()
}
