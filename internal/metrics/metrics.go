package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the domain counters for the storage-consistency core.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	ingested      *prometheus.CounterVec
	reconciled    *prometheus.CounterVec
	watcherEvents *prometheus.CounterVec
	migrated      *prometheus.CounterVec
	orphans       prometheus.Counter
}

// New creates the domain metrics and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		ingested: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pastebox_records_ingested_total",
				Help: "Records created by ingest, by kind.",
			},
			[]string{"kind"},
		),
		reconciled: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pastebox_records_reconciled_total",
				Help: "Records removed because their file was missing, by source.",
			},
			[]string{"source"},
		),
		watcherEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pastebox_watcher_events_total",
				Help: "Deletion events handled by the filesystem watcher, by outcome.",
			},
			[]string{"outcome"},
		),
		migrated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pastebox_migrated_files_total",
				Help: "Files handled by storage root migrations, by result.",
			},
			[]string{"result"},
		),
		orphans: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pastebox_orphan_files_removed_total",
			Help: "Unreferenced files removed from the storage root.",
		}),
	}

	for _, c := range []prometheus.Collector{m.ingested, m.reconciled, m.watcherEvents, m.migrated, m.orphans} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) Ingested(kind string) {
	if m == nil {
		return
	}
	m.ingested.WithLabelValues(kind).Inc()
}

func (m *Metrics) Reconciled(source string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.reconciled.WithLabelValues(source).Add(float64(n))
}

func (m *Metrics) WatcherEvent(outcome string) {
	if m == nil {
		return
	}
	m.watcherEvents.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Migrated(moved, failed int) {
	if m == nil {
		return
	}
	m.migrated.WithLabelValues("moved").Add(float64(moved))
	m.migrated.WithLabelValues("failed").Add(float64(failed))
}

func (m *Metrics) OrphansRemoved(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.orphans.Add(float64(n))
}
