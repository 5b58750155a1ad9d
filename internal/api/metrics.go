package api

import (
	"net/http"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/linkpeek/linkpeek/internal/cache"
	"github.com/linkpeek/linkpeek/internal/preview"
)

// Metrics returns the GET /metrics handler exposing cache and preview
// counters in Prometheus text exposition format.
func Metrics(ca *cache.Cache, counters *preview.Counters, sessions SessionCounter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		st := ca.Stats()
		mfs := []*dto.MetricFamily{
			gauge("linkpeek_cache_size", "Number of entries currently cached.", float64(st.Size)),
			gauge("linkpeek_cache_capacity", "Maximum number of cache entries.", float64(st.Capacity)),
			counter("linkpeek_cache_hits_total", "Cache lookups that found an entry.", float64(st.Hits)),
			counter("linkpeek_cache_evictions_total", "Entries evicted by capacity pressure.", float64(st.Evictions)),
			counter("linkpeek_previews_shown_total", "Previews that reached the shown state.", float64(counters.Shown.Load())),
			counter("linkpeek_image_load_failures_total", "Image loads that failed.", float64(counters.LoadFailures.Load())),
			counter("linkpeek_superseded_loads_total", "Load results discarded because the hover was superseded.", float64(counters.Superseded.Load())),
			gauge("linkpeek_sessions_active", "Connected page contexts.", float64(sessions.SessionCount())),
		}

		format := expfmt.Negotiate(r.Header)
		w.Header().Set("Content-Type", string(format))

		enc := expfmt.NewEncoder(w, format)
		for _, mf := range mfs {
			if err := enc.Encode(mf); err != nil {
				return
			}
		}
		if closer, ok := enc.(expfmt.Closer); ok {
			closer.Close() //nolint:errcheck
		}
	})
}

// gauge builds a single-sample gauge metric family.
func gauge(name, help string, v float64) *dto.MetricFamily {
	t := dto.MetricType_GAUGE
	return &dto.MetricFamily{
		Name:   &name,
		Help:   &help,
		Type:   &t,
		Metric: []*dto.Metric{{Gauge: &dto.Gauge{Value: &v}}},
	}
}

// counter builds a single-sample counter metric family.
func counter(name, help string, v float64) *dto.MetricFamily {
	t := dto.MetricType_COUNTER
	return &dto.MetricFamily{
		Name:   &name,
		Help:   &help,
		Type:   &t,
		Metric: []*dto.Metric{{Counter: &dto.Counter{Value: &v}}},
	}
}
