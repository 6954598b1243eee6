// Package metrics exposes farm state and store activity to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mamadbah2/farmdash/internal/domain/models"
	"github.com/mamadbah2/farmdash/internal/store"
)

// Collector holds the dashboard's Prometheus instruments.
type Collector struct {
	registry        *prometheus.Registry
	mutations       *prometheus.CounterVec
	snapshotVersion prometheus.Gauge
	sensorValue     *prometheus.GaugeVec
	unreadAlerts    *prometheus.GaugeVec
	openTasks       prometheus.Gauge
	eggsLatest      prometheus.Gauge
	productionDays  prometheus.Gauge
}

// New registers the instruments on a dedicated registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "farmdash",
			Name:      "store_mutations_total",
			Help:      "Committed store mutations by kind.",
		}, []string{"kind"}),
		snapshotVersion: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "farmdash",
			Name:      "snapshot_version",
			Help:      "Version of the current farm snapshot.",
		}),
		sensorValue: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "farmdash",
			Name:      "sensor_value",
			Help:      "Latest sensor reading.",
		}, []string{"id", "type", "location", "unit"}),
		unreadAlerts: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "farmdash",
			Name:      "unread_alerts",
			Help:      "Unread alerts by severity.",
		}, []string{"type"}),
		openTasks: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "farmdash",
			Name:      "open_maintenance_tasks",
			Help:      "Maintenance tasks not yet completed.",
		}),
		eggsLatest: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "farmdash",
			Name:      "eggs_collected_latest",
			Help:      "Eggs collected in the newest production record.",
		}),
		productionDays: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "farmdash",
			Name:      "production_history_records",
			Help:      "Production records currently held.",
		}),
	}

	c.registry.MustRegister(
		c.mutations,
		c.snapshotVersion,
		c.sensorValue,
		c.unreadAlerts,
		c.openTasks,
		c.eggsLatest,
		c.productionDays,
		collectors.NewGoCollector(),
	)
	return c
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Listener returns a store listener that keeps the gauges current.
func (c *Collector) Listener() store.Listener {
	return func(change store.Change) {
		c.mutations.WithLabelValues(string(change.Kind)).Inc()
		c.Observe(change.Snapshot)
	}
}

// Observe sets every gauge from snap.
func (c *Collector) Observe(snap models.Snapshot) {
	c.snapshotVersion.Set(float64(snap.Version))

	c.sensorValue.Reset()
	for _, s := range snap.SensorData {
		c.sensorValue.WithLabelValues(s.ID, string(s.Type), s.Location, s.Unit).Set(s.Value)
	}

	unread := map[models.AlertType]int{models.AlertCritical: 0, models.AlertWarning: 0, models.AlertInfo: 0}
	for _, a := range snap.Alerts {
		if !a.IsRead {
			unread[a.Type]++
		}
	}
	for kind, n := range unread {
		c.unreadAlerts.WithLabelValues(string(kind)).Set(float64(n))
	}

	var open int
	for _, t := range snap.MaintenanceTasks {
		if t.Status != models.TaskCompleted {
			open++
		}
	}
	c.openTasks.Set(float64(open))

	c.productionDays.Set(float64(len(snap.ProductionData)))
	if latest, ok := snap.LatestProduction(); ok {
		c.eggsLatest.Set(float64(latest.EggsCollected))
	}
}
