// Package dataprocessing implements the sales data pipeline core: the
// locale-ambiguous numeric token parser, the spreadsheet loader with its
// derived line-total calculation, and the filter and aggregation passes
// that queries run over the loaded dataset.
package dataprocessing
