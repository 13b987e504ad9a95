package errors

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vendascli/internal/dataprocessing"
)

func TestErrorToProblem(t *testing.T) {
	h := NewErrorHandler(slog.Default(), false)
	r := httptest.NewRequest(http.MethodGet, "/api/sales/query", nil)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{
			name:       "invalid date range",
			err:        dataprocessing.ErrInvalidDateRange,
			wantStatus: http.StatusBadRequest,
			wantType:   TypeFilterRange,
		},
		{
			name:       "wrapped source not found",
			err:        fmt.Errorf("load: %w", dataprocessing.ErrSourceNotFound),
			wantStatus: http.StatusNotFound,
			wantType:   TypeSourceMiss,
		},
		{
			name:       "schema error",
			err:        &dataprocessing.SchemaError{Missing: []string{"customer"}},
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeSourceBad,
		},
		{
			name:       "api error",
			err:        ErrInvalidFilterRange,
			wantStatus: http.StatusBadRequest,
			wantType:   TypeFilterRange,
		},
		{
			name:       "unknown error",
			err:        fmt.Errorf("boom"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problem := h.ErrorToProblem(tt.err, r)
			assert.Equal(t, tt.wantStatus, problem.Status)
			assert.Equal(t, tt.wantType, problem.Type)
		})
	}
}

func TestHandleErrorRendersProblemJSON(t *testing.T) {
	h := NewErrorHandler(slog.Default(), false)
	r := httptest.NewRequest(http.MethodGet, "/api/sales/query", nil)
	w := httptest.NewRecorder()

	h.HandleError(w, r, dataprocessing.ErrInvalidDateRange)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, TypeFilterRange, body["type"])
	assert.Equal(t, "Invalid Date Range", body["title"])
	assert.Contains(t, body, "trace_id")
}

func TestProblemDetailsMarshalIncludesExtensions(t *testing.T) {
	problem := NewProblemDetails(http.StatusUnprocessableEntity, TypeSourceBad, "Source Schema Error", "missing", "/load")
	problem.WithExtension("missing_columns", []string{"customer"})

	data, err := json.Marshal(problem)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, []interface{}{"customer"}, body["missing_columns"])
	assert.Equal(t, float64(http.StatusUnprocessableEntity), body["status"])
}
