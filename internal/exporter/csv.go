package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"vendascli/pkg/contracts/domain"
)

// displayHeader mirrors the column captions of the sales dashboard table.
var displayHeader = []string{
	"Nº Pedido",
	"Cliente",
	"Data da Compra",
	"Código",
	"Produto",
	"Qtd.",
	"Valor Unitário (R$)",
	"Valor Total (R$)",
}

// WriteRecordsCSV writes a filtered view as a display-formatted CSV.
func WriteRecordsCSV(w io.Writer, records []domain.SalesRecord) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(displayHeader); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}

	for _, r := range records {
		row := []string{
			r.OrderID,
			r.Customer,
			FormatDate(r.Date),
			r.ProductCode,
			r.ProductName,
			FormatNumberBR(r.Quantity),
			FormatNumberBR(r.UnitPrice),
			FormatNumberBR(r.LineTotal),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteRecordsCSVFile writes the filtered view to a file, creating parent
// directories as needed.
func WriteRecordsCSVFile(path string, records []domain.SalesRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create CSV file: %w", err)
	}
	defer file.Close()

	return WriteRecordsCSV(file, records)
}
