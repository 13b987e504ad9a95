package dataprocessing

import (
	"errors"
	"strings"

	"vendascli/pkg/contracts/domain"
)

// ErrInvalidDateRange reports a query whose date_from is after date_to. The
// query is refused outright instead of silently returning an empty set.
var ErrInvalidDateRange = errors.New("invalid date range: date_from is after date_to")

// Filter returns the subsequence of records satisfying every supplied
// predicate. Absent criteria impose no constraint; input order is preserved.
func Filter(records []domain.SalesRecord, c domain.FilterCriteria) ([]domain.SalesRecord, error) {
	if c.DateFrom != nil && c.DateTo != nil && truncateToDate(*c.DateFrom).After(truncateToDate(*c.DateTo)) {
		return nil, ErrInvalidDateRange
	}

	query := strings.ToLower(strings.TrimSpace(c.CustomerQuery))
	code := strings.TrimSpace(c.ProductCode)
	if code != "" {
		code = CanonicalKey(domain.TextCell(code))
	}

	out := make([]domain.SalesRecord, 0, len(records))
	for _, r := range records {
		if !matchesDateRange(r, c) {
			continue
		}
		if code != "" && r.ProductCode != code {
			continue
		}
		if !matchesCustomer(r, query) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// matchesDateRange compares by calendar date, inclusive on both ends.
func matchesDateRange(r domain.SalesRecord, c domain.FilterCriteria) bool {
	d := truncateToDate(r.Date)
	if c.DateFrom != nil && d.Before(truncateToDate(*c.DateFrom)) {
		return false
	}
	if c.DateTo != nil && d.After(truncateToDate(*c.DateTo)) {
		return false
	}
	return true
}

// matchesCustomer applies the case-insensitive substring predicate. Records
// without a customer never match a non-empty query.
func matchesCustomer(r domain.SalesRecord, query string) bool {
	if query == "" {
		return true
	}
	if r.Customer == "" {
		return false
	}
	return strings.Contains(strings.ToLower(r.Customer), query)
}
