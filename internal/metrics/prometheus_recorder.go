package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once            sync.Once
	operations      *prom.CounterVec
	rooms           *prom.GaugeVec
	persistFailures prom.Counter
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.operations = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "hotelkeys",
			Name:      "operations_total",
			Help:      "Check-in and check-out attempts by result",
		}, []string{"operation", "result"})
		pr.rooms = prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: "hotelkeys",
			Name:      "rooms",
			Help:      "Rooms by occupancy status",
		}, []string{"status"})
		pr.persistFailures = prom.NewCounter(prom.CounterOpts{
			Namespace: "hotelkeys",
			Name:      "persist_failures_total",
			Help:      "Snapshot writes that failed and were kept in memory only",
		})
		reg.MustRegister(pr.operations, pr.rooms, pr.persistFailures)
	})
	return pr
}

func (p *PrometheusRecorder) IncOperation(operation string, result ResultLabel) {
	if p == nil || p.operations == nil {
		return
	}
	p.operations.WithLabelValues(operation, string(result)).Inc()
}

func (p *PrometheusRecorder) SetOccupancy(available, occupied int) {
	if p == nil || p.rooms == nil {
		return
	}
	p.rooms.WithLabelValues("available").Set(float64(available))
	p.rooms.WithLabelValues("occupied").Set(float64(occupied))
}

func (p *PrometheusRecorder) IncPersistFailure() {
	if p == nil || p.persistFailures == nil {
		return
	}
	p.persistFailures.Inc()
}

// WriteTextfile writes every metric in g to path in the text exposition
// format read by node_exporter's textfile collector.
func WriteTextfile(path string, g prom.Gatherer) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	if err := prom.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
