package shoppinglist

import "github.com/prometheus/client_golang/prometheus"

const (
	StageLoad = "load"
	StageSave = "save"
)

type Metrics struct {
	Operations      *prometheus.CounterVec
	StorageFailures *prometheus.CounterVec
	Entries         prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shopping_list_operations_total",
				Help: "Shopping list operations by name.",
			},
			[]string{"op"},
		),
		StorageFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shopping_list_storage_failures_total",
				Help: "Swallowed shopping list storage failures by stage.",
			},
			[]string{"stage"},
		),
		Entries: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "shopping_list_entries",
			Help: "Distinct products currently on the list.",
		}),
	}

	reg.MustRegister(m.Operations, m.StorageFailures, m.Entries)
	return m
}

func (m *Metrics) op(name string) {
	if m != nil {
		m.Operations.WithLabelValues(name).Inc()
	}
}

func (m *Metrics) storageFailed(stage string) {
	if m != nil {
		m.StorageFailures.WithLabelValues(stage).Inc()
	}
}

func (m *Metrics) entries(n int) {
	if m != nil {
		m.Entries.Set(float64(n))
	}
}
