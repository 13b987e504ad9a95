package http

import (
	"context"

	"vendascli/internal/services"
	"vendascli/pkg/contracts/domain"
)

// SalesServiceInterface defines the service surface the handlers consume.
// Kept as an interface so handler tests can stub the dataset cache.
type SalesServiceInterface interface {
	Dataset(ctx context.Context) (*domain.Dataset, error)
	Query(ctx context.Context, criteria domain.FilterCriteria) (*services.QueryResult, error)
	Invalidate()
}
