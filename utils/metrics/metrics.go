package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for lookups, entity resolution and search.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	RegistryLookups  *prometheus.CounterVec
	ResolvedEntities *prometheus.CounterVec
	SearchDuration   prometheus.Histogram
	SearchRows       prometheus.Histogram
}

// New registers all metrics on reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RegistryLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "scouting_registry_lookups_total",
			Help: "External registry lookups by registry and outcome (hit, miss, error, cached)",
		}, []string{"registry", "outcome"}),
		ResolvedEntities: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "scouting_resolved_entities_total",
			Help: "Entity resolutions by entity kind and source (local, alias, registry, conflict)",
		}, []string{"entity", "source"}),
		SearchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "scouting_search_duration_seconds",
			Help:    "Duration of catalog searches",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		SearchRows: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "scouting_search_rows",
			Help:    "Rows returned by catalog searches after deduplication",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
		}),
	}
}

// IncLookup records one external registry lookup
func (m *Metrics) IncLookup(registry, outcome string) {
	if m == nil {
		return
	}
	m.RegistryLookups.WithLabelValues(registry, outcome).Inc()
}

// IncResolved records where an entity id came from
func (m *Metrics) IncResolved(entity, source string) {
	if m == nil {
		return
	}
	m.ResolvedEntities.WithLabelValues(entity, source).Inc()
}

// ObserveSearch records a search. Call with time.Now() taken at the start.
func (m *Metrics) ObserveSearch(start time.Time, rows int) {
	if m == nil {
		return
	}
	m.SearchDuration.Observe(time.Since(start).Seconds())
	m.SearchRows.Observe(float64(rows))
}
