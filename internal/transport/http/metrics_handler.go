package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsHandler exposes the Prometheus collectors registered on the
// default registry.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
