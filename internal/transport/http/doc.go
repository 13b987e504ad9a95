// Package http contains the chi handlers for the sales query API: the
// filter/aggregate query surface, CSV export, cache reload, health and
// Prometheus metrics endpoints.
package http
