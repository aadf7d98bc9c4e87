package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SelectionChanges = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "salonreviews_selection_changes_total",
			Help: "Stylist tab selection changes.",
		},
	)
	IndicatorResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "salonreviews_indicator_resolutions_total",
			Help: "Indicator geometry resolutions by result (hit, miss).",
		},
		[]string{"result"},
	)
	EmphasisWindows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "salonreviews_emphasis_windows_total",
			Help: "Emphasis windows by how they ended (elapsed, superseded, cancelled).",
		},
		[]string{"outcome"},
	)
	LiveMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "salonreviews_live_messages_total",
			Help: "Messages received from the front-desk feed by type.",
		},
		[]string{"type"},
	)
	ViewportSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "salonreviews_viewport_subscribers",
			Help: "Tab bars currently subscribed to viewport changes.",
		},
	)
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
