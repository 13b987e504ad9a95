// Package exporter holds the pure presentation helpers: Brazilian currency
// and date formatting, and CSV export of filtered views. It depends on the
// data model only for reading, never the other way around.
package exporter
