package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	Evaluations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "relistats_evaluations_total", Help: "Statistic evaluations by kind and result (ok|none)",
	}, []string{"kind", "result"})
	CacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "relistats_cache_lookups_total", Help: "Table cache lookups (hit|miss)",
	}, []string{"result"})
	TableCells = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "relistats_table_cells", Help: "Cells in the last table built",
	})
	TableSeconds = prometheus.NewSummary(prometheus.SummaryOpts{
		Name: "relistats_table_seconds", Help: "Table build time",
	})
)

var registerOnce sync.Once

// MustRegister adds the collectors to the default registry. Repeated calls
// are no-ops.
func MustRegister() {
	registerOnce.Do(func() {
		prometheus.MustRegister(Evaluations, CacheLookups, TableCells, TableSeconds)
	})
}

// WriteTextfile dumps g in the text exposition format for the node
// exporter textfile collector. The file is replaced atomically.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
