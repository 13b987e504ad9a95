package dataprocessing

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"vendascli/pkg/contracts/domain"
)

// ErrSourceNotFound reports that the source spreadsheet does not exist.
var ErrSourceNotFound = errors.New("source spreadsheet not found")

// SchemaError reports required columns missing from the source header.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("source is missing required columns: %s", strings.Join(e.Missing, ", "))
}

// columnRole identifies the logical meaning of a source column.
type columnRole string

const (
	colOrderID     columnRole = "order_id"
	colCustomer    columnRole = "customer"
	colProductCode columnRole = "product_code"
	colProductName columnRole = "product_name"
	colDate        columnRole = "date"
	colQuantity    columnRole = "quantity"
	colUnitPrice   columnRole = "unit_price"
)

var requiredColumns = []columnRole{
	colOrderID, colCustomer, colProductCode, colProductName,
	colDate, colQuantity, colUnitPrice,
}

// LoaderConfig holds the load-time policies of a Loader.
type LoaderConfig struct {
	// NumberFormat overrides separator disambiguation for sources known
	// to be US-formatted. Defaults to FormatBR.
	NumberFormat NumberFormat
}

// Loader reads a sales spreadsheet into an immutable Dataset. Numeric cell
// failures become zero, rows with unparseable dates are dropped and counted,
// and line totals are always recomputed from quantity and unit price.
type Loader struct {
	logger *slog.Logger
	format NumberFormat
}

// NewLoader creates a loader with the given configuration.
func NewLoader(logger *slog.Logger, cfg LoaderConfig) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger, format: cfg.NumberFormat}
}

// LoadFile reads the workbook at path and extracts the sales dataset.
func (l *Loader) LoadFile(path string) (*domain.Dataset, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("stat source file: %w", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open source file: %w", err)
	}
	defer f.Close()

	rows, err := l.findSalesRows(f)
	if err != nil {
		return nil, err
	}

	ds, err := l.LoadRows(rows)
	if err != nil {
		return nil, err
	}
	ds.SourcePath = path
	ds.SourceModTime = info.ModTime()
	return ds, nil
}

// findSalesRows locates the sheet carrying the sales table. The first sheet
// whose early rows look like a sales header wins; a single-sheet workbook is
// accepted as-is.
func (l *Loader) findSalesRows(f *excelize.File) ([][]string, error) {
	sheets := f.GetSheetList()
	for _, name := range sheets {
		rows, err := f.GetRows(name)
		if err != nil || len(rows) == 0 {
			continue
		}
		limit := len(rows)
		if limit > 10 {
			limit = 10
		}
		for _, row := range rows[:limit] {
			if headerRowRoles(row) != nil {
				l.logger.Debug("found sales sheet", slog.String("sheet", name))
				return rows, nil
			}
		}
	}

	// Fall back to the first sheet so schema validation can report which
	// columns are missing instead of a generic "no sheet" error.
	if len(sheets) > 0 {
		rows, err := f.GetRows(sheets[0])
		if err == nil {
			return rows, nil
		}
	}
	return nil, &SchemaError{Missing: columnNames(requiredColumns)}
}

// LoadRows builds the dataset from an already-extracted row table. The first
// row recognized as a header defines the column mapping; every row after it
// is a candidate record.
func (l *Loader) LoadRows(rows [][]string) (*domain.Dataset, error) {
	headerIdx := -1
	var roles map[columnRole]int
	for i, row := range rows {
		if m := headerRowRoles(row); m != nil {
			headerIdx = i
			roles = m
			break
		}
	}
	if headerIdx == -1 {
		return nil, &SchemaError{Missing: columnNames(requiredColumns)}
	}

	var missing []string
	for _, role := range requiredColumns {
		if _, ok := roles[role]; !ok {
			missing = append(missing, string(role))
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	ds := &domain.Dataset{LoadedAt: time.Now()}
	for _, row := range rows[headerIdx+1:] {
		if rowIsEmpty(row, roles) {
			continue
		}

		date, ok := ParseDate(cellAt(row, roles[colDate]))
		if !ok {
			ds.DroppedRows++
			continue
		}

		quantity := l.numericValue(cellAt(row, roles[colQuantity]))
		unitPrice := l.numericValue(cellAt(row, roles[colUnitPrice]))

		ds.Records = append(ds.Records, domain.SalesRecord{
			OrderID:     CanonicalKey(cellAt(row, roles[colOrderID])),
			Customer:    textValue(row, roles[colCustomer]),
			ProductCode: CanonicalKey(cellAt(row, roles[colProductCode])),
			ProductName: textValue(row, roles[colProductName]),
			Date:        date,
			Quantity:    quantity,
			UnitPrice:   unitPrice,
			LineTotal:   roundMoney(quantity * unitPrice),
		})
	}

	l.logger.Info("sales dataset loaded",
		slog.Int("records", len(ds.Records)),
		slog.Int("dropped_rows", ds.DroppedRows))

	return ds, nil
}

// numericValue applies the default-to-zero policy for numeric cells whose
// parse cleanly failed.
func (l *Loader) numericValue(cell domain.Cell) float64 {
	v, ok := ParseNumberFormat(cell, l.format)
	if !ok {
		return 0
	}
	return v
}

// roundMoney rounds to 2 decimal places, the monetary precision of the
// derived line total.
func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// headerRowRoles maps column roles to positions when the row looks like the
// sales table header, or returns nil. Header names follow the pt-BR source
// with a few tolerated variants.
func headerRowRoles(row []string) map[columnRole]int {
	roles := make(map[columnRole]int)
	for i, header := range row {
		h := normalizeHeader(header)
		switch {
		case h == "pedido" || h == "n pedido" || h == "num pedido" || h == "order" || h == "order id":
			setRole(roles, colOrderID, i)
		case h == "cliente" || h == "customer":
			setRole(roles, colCustomer, i)
		case h == "codigo" || h == "cod produto" || h == "codigo produto" || h == "sku" || h == "product code":
			setRole(roles, colProductCode, i)
		case h == "produto" || h == "descricao" || h == "product":
			setRole(roles, colProductName, i)
		case h == "emissao" || h == "data" || h == "data emissao" || h == "date":
			setRole(roles, colDate, i)
		case h == "quantidade" || h == "qtd" || h == "quantity":
			setRole(roles, colQuantity, i)
		case h == "vlr unitario" || h == "valor unitario" || h == "preco unitario" || h == "unit price":
			setRole(roles, colUnitPrice, i)
		}
	}
	// A header row must at least name the customer and one numeric column;
	// anything less is data or decoration.
	if _, ok := roles[colCustomer]; !ok {
		return nil
	}
	if len(roles) < 3 {
		return nil
	}
	return roles
}

// setRole keeps the first column seen for a role; duplicated headers in the
// source are ignored.
func setRole(roles map[columnRole]int, role columnRole, idx int) {
	if _, ok := roles[role]; !ok {
		roles[role] = idx
	}
}

// normalizeHeader lowercases a header and folds the accents and punctuation
// the pt-BR sources use inconsistently.
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	replacer := strings.NewReplacer(
		"á", "a", "ã", "a", "â", "a",
		"é", "e", "ê", "e",
		"í", "i",
		"ó", "o", "õ", "o", "ô", "o",
		"ú", "u", "ç", "c",
		"_", " ", "-", " ", ".", " ", "º", "", "°", "",
	)
	h = replacer.Replace(h)
	return strings.Join(strings.Fields(h), " ")
}

// cellAt wraps a raw row value into the Cell union. Rows extracted by
// excelize arrive as text; short rows yield the empty variant.
func cellAt(row []string, idx int) domain.Cell {
	if idx < 0 || idx >= len(row) {
		return domain.EmptyCell()
	}
	if strings.TrimSpace(row[idx]) == "" {
		return domain.EmptyCell()
	}
	return domain.TextCell(row[idx])
}

func textValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// rowIsEmpty reports whether every mapped column of the row is blank.
func rowIsEmpty(row []string, roles map[columnRole]int) bool {
	for _, idx := range roles {
		if idx < len(row) && strings.TrimSpace(row[idx]) != "" {
			return false
		}
	}
	return true
}

func columnNames(roles []columnRole) []string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return names
}
