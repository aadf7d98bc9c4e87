package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(SelectionChanges)
	SelectionChanges.Inc()
	if got := testutil.ToFloat64(SelectionChanges); got != before+1 {
		t.Errorf("selection changes = %v, want %v", got, before+1)
	}

	hits := IndicatorResolutions.WithLabelValues("hit")
	before = testutil.ToFloat64(hits)
	hits.Inc()
	if got := testutil.ToFloat64(hits); got != before+1 {
		t.Errorf("hits = %v, want %v", got, before+1)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	EmphasisWindows.WithLabelValues("elapsed").Inc()
	ViewportSubscribers.Set(2)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)

	for _, want := range []string{
		`salonreviews_emphasis_windows_total{outcome="elapsed"}`,
		"salonreviews_viewport_subscribers 2",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
