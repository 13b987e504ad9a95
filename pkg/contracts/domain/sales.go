package domain

import (
	"time"
)

// CellKind discriminates the raw value variants a spreadsheet cell can carry.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellNumber
	CellText
)

// Cell is a raw spreadsheet cell before any interpretation. Numeric parsing
// must branch on Kind instead of guessing the runtime type of the value.
type Cell struct {
	Kind   CellKind
	Number float64
	Text   string
}

// EmptyCell returns the absent-value variant.
func EmptyCell() Cell {
	return Cell{Kind: CellEmpty}
}

// NumberCell wraps a value that the source already stored as a number.
func NumberCell(v float64) Cell {
	return Cell{Kind: CellNumber, Number: v}
}

// TextCell wraps a raw text token.
func TextCell(s string) Cell {
	return Cell{Kind: CellText, Text: s}
}

// SalesRecord represents one sale line item loaded from the spreadsheet.
// LineTotal is always derived as Quantity * UnitPrice rounded to 2 decimal
// places; a precomputed total column in the source is never trusted.
type SalesRecord struct {
	OrderID     string    `json:"order_id"`
	Customer    string    `json:"customer,omitempty"`
	ProductCode string    `json:"product_code"`
	ProductName string    `json:"product_name"`
	Date        time.Time `json:"date"`
	Quantity    float64   `json:"quantity"`
	UnitPrice   float64   `json:"unit_price"`
	LineTotal   float64   `json:"line_total"`
}

// FilterCriteria represents one query over the loaded record set. Nil or
// empty fields impose no constraint; supplied predicates combine with AND.
type FilterCriteria struct {
	DateFrom      *time.Time `json:"date_from,omitempty"`
	DateTo        *time.Time `json:"date_to,omitempty"`
	ProductCode   string     `json:"product_code,omitempty"`
	CustomerQuery string     `json:"customer_query,omitempty"`
}

// IsZero reports whether the criteria impose no constraint at all.
func (c FilterCriteria) IsZero() bool {
	return c.DateFrom == nil && c.DateTo == nil && c.ProductCode == "" && c.CustomerQuery == ""
}

// AggregateResult holds the summary statistics for a filtered view.
type AggregateResult struct {
	TotalValue         float64 `json:"total_value"`
	DistinctOrderCount int     `json:"distinct_order_count"`
}

// Dataset is the immutable snapshot produced by one load of the source
// spreadsheet. Records are never mutated after loading; queries operate on
// the slice as a read-only view.
type Dataset struct {
	Records       []SalesRecord `json:"records"`
	DroppedRows   int           `json:"dropped_rows"`
	SourcePath    string        `json:"source_path"`
	SourceModTime time.Time     `json:"source_mod_time"`
	LoadedAt      time.Time     `json:"loaded_at"`
}
