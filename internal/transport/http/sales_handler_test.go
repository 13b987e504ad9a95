package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "vendascli/internal/errors"
	"vendascli/internal/dataprocessing"
	"vendascli/internal/services"
	"vendascli/pkg/contracts/domain"
)

// stubSalesService serves a fixed dataset through the real filter and
// aggregation passes.
type stubSalesService struct {
	dataset     *domain.Dataset
	err         error
	invalidated int
}

func (s *stubSalesService) Dataset(ctx context.Context) (*domain.Dataset, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.dataset, nil
}

func (s *stubSalesService) Query(ctx context.Context, criteria domain.FilterCriteria) (*services.QueryResult, error) {
	ds, err := s.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	records, err := dataprocessing.Filter(ds.Records, criteria)
	if err != nil {
		return nil, err
	}
	return &services.QueryResult{Records: records, Aggregate: dataprocessing.Summarize(records)}, nil
}

func (s *stubSalesService) Invalidate() {
	s.invalidated++
}

func stubDataset() *domain.Dataset {
	return &domain.Dataset{
		Records: []domain.SalesRecord{
			{OrderID: "1", Customer: "Ana Silva", ProductCode: "100", ProductName: "Parafuso", Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Quantity: 2, UnitPrice: 10.5, LineTotal: 21},
			{OrderID: "2", Customer: "Beto", ProductCode: "200", ProductName: "Porca", Date: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), Quantity: 1, UnitPrice: 5, LineTotal: 5},
		},
		DroppedRows: 1,
		LoadedAt:    time.Now(),
	}
}

func newTestHandler(svc SalesServiceInterface) *SalesHandler {
	logger := slog.Default()
	return NewSalesHandler(svc, logger, apierrors.NewErrorHandler(logger, false))
}

func doRequest(t *testing.T, h *SalesHandler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestGetRecords(t *testing.T) {
	w := doRequest(t, newTestHandler(&stubSalesService{dataset: stubDataset()}), http.MethodGet, "/records")

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, float64(2), body["count"])
	assert.Equal(t, float64(1), body["dropped_rows"])
}

func TestQueryByCustomer(t *testing.T) {
	w := doRequest(t, newTestHandler(&stubSalesService{dataset: stubDataset()}), http.MethodGet, "/query?customer=ana")

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Count     int `json:"count"`
		Aggregate struct {
			TotalValue         float64 `json:"total_value"`
			DistinctOrderCount int     `json:"distinct_order_count"`
		} `json:"aggregate"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	assert.InDelta(t, 21.0, body.Aggregate.TotalValue, 1e-9)
	assert.Equal(t, 1, body.Aggregate.DistinctOrderCount)
}

func TestQueryDateRangeParsing(t *testing.T) {
	// Both ISO and day-first dates are accepted.
	for _, target := range []string{
		"/query?from=2024-03-01&to=2024-03-01",
		"/query?from=01/03/2024&to=01/03/2024",
	} {
		w := doRequest(t, newTestHandler(&stubSalesService{dataset: stubDataset()}), http.MethodGet, target)
		require.Equal(t, http.StatusOK, w.Code, target)

		var body struct {
			Count int `json:"count"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, 1, body.Count, target)
	}
}

func TestQueryInvalidDateRangeRejected(t *testing.T) {
	w := doRequest(t, newTestHandler(&stubSalesService{dataset: stubDataset()}), http.MethodGet, "/query?from=2024-03-10&to=2024-03-01")

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, apierrors.TypeFilterRange, body["type"])
}

func TestQueryMalformedDateRejected(t *testing.T) {
	w := doRequest(t, newTestHandler(&stubSalesService{dataset: stubDataset()}), http.MethodGet, "/query?from=notadate")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQuerySourceNotFound(t *testing.T) {
	svc := &stubSalesService{err: dataprocessing.ErrSourceNotFound}
	w := doRequest(t, newTestHandler(svc), http.MethodGet, "/query")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetSummaryFormatsCurrency(t *testing.T) {
	w := doRequest(t, newTestHandler(&stubSalesService{dataset: stubDataset()}), http.MethodGet, "/summary")

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			TotalValueDisplay  string  `json:"total_value_display"`
			TotalValue         float64 `json:"total_value"`
			DistinctOrderCount int     `json:"distinct_order_count"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "R$ 26,00", body.Data.TotalValueDisplay)
	assert.Equal(t, 2, body.Data.DistinctOrderCount)
}

func TestExportCSV(t *testing.T) {
	w := doRequest(t, newTestHandler(&stubSalesService{dataset: stubDataset()}), http.MethodGet, "/export/csv?customer=ana")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Body.String(), "Ana Silva")
	assert.Contains(t, w.Body.String(), "21,00")
	assert.NotContains(t, w.Body.String(), "Beto")
}

func TestReloadInvalidatesCache(t *testing.T) {
	svc := &stubSalesService{dataset: stubDataset()}
	w := doRequest(t, newTestHandler(svc), http.MethodPost, "/reload")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, svc.invalidated)
}
