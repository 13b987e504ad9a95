package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vendascli/pkg/contracts/domain"
)

func TestWriteRecordsCSV(t *testing.T) {
	records := []domain.SalesRecord{
		{
			OrderID:     "1",
			Customer:    "Ana Silva",
			ProductCode: "100",
			ProductName: "Parafuso",
			Date:        time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
			Quantity:    2,
			UnitPrice:   10.5,
			LineTotal:   21,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteRecordsCSV(&buf, records))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, displayHeader, rows[0])
	assert.Equal(t, []string{"1", "Ana Silva", "01/03/2024", "100", "Parafuso", "2,00", "10,50", "21,00"}, rows[1])
}

func TestWriteRecordsCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRecordsCSV(&buf, nil))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1, "header only")
}

func TestWriteRecordsCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "vendas.csv")
	require.NoError(t, WriteRecordsCSVFile(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
