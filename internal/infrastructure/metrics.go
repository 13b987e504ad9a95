package infrastructure

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus collectors for the sales query pipeline. Registered on the
// default registry; the /metrics handler exposes them.
var (
	// DatasetLoads counts source spreadsheet loads by outcome.
	DatasetLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vendas_dataset_loads_total",
		Help: "Number of sales spreadsheet loads, labelled by outcome.",
	}, []string{"outcome"})

	// DroppedRows counts rows excluded for unparseable dates.
	DroppedRows = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vendas_dropped_rows_total",
		Help: "Number of source rows dropped for unparseable transaction dates.",
	})

	// Queries counts filter/aggregate queries by outcome.
	Queries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vendas_queries_total",
		Help: "Number of sales queries, labelled by outcome.",
	}, []string{"outcome"})
)
