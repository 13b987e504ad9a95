package dataprocessing

import (
	"vendascli/pkg/contracts/domain"
)

// Summarize computes the aggregate statistics for a filtered view. The sum
// runs in input order so results are reproducible; an empty view yields
// zeros.
func Summarize(records []domain.SalesRecord) domain.AggregateResult {
	seen := make(map[string]struct{}, len(records))
	var total float64
	for _, r := range records {
		total += r.LineTotal
		seen[r.OrderID] = struct{}{}
	}
	return domain.AggregateResult{
		TotalValue:         total,
		DistinctOrderCount: len(seen),
	}
}
