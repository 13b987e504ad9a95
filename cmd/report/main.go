package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"vendascli/internal/dataprocessing"
	"vendascli/internal/exporter"
	"vendascli/pkg/contracts"
	"vendascli/pkg/contracts/domain"
)

// report loads the sales spreadsheet, applies the requested filters and
// prints a pt-BR summary, optionally exporting the matching rows as CSV.
func main() {
	source := flag.String("source", "vendas.xlsx", "path to the sales spreadsheet")
	customer := flag.String("customer", "", "case-insensitive customer name filter")
	code := flag.String("code", "", "exact product code filter")
	from := flag.String("from", "", "start date, inclusive (YYYY-MM-DD or DD/MM/YYYY)")
	to := flag.String("to", "", "end date, inclusive (YYYY-MM-DD or DD/MM/YYYY)")
	out := flag.String("out", "", "write matching rows to this CSV file")
	usFormat := flag.Bool("us", false, "treat lone commas as thousands separators")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.GetVersionString())
		return
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	format := dataprocessing.FormatBR
	if *usFormat {
		format = dataprocessing.FormatUS
	}

	loader := dataprocessing.NewLoader(logger, dataprocessing.LoaderConfig{NumberFormat: format})
	dataset, err := loader.LoadFile(*source)
	if err != nil {
		slog.Error("Failed to load spreadsheet", "path", *source, "error", err)
		os.Exit(1)
	}

	criteria := domain.FilterCriteria{
		ProductCode:   *code,
		CustomerQuery: *customer,
	}
	if criteria.DateFrom, err = parseDateFlag(*from); err != nil {
		slog.Error("Invalid -from date", "value", *from, "error", err)
		os.Exit(1)
	}
	if criteria.DateTo, err = parseDateFlag(*to); err != nil {
		slog.Error("Invalid -to date", "value", *to, "error", err)
		os.Exit(1)
	}

	records, err := dataprocessing.Filter(dataset.Records, criteria)
	if err != nil {
		slog.Error("Failed to filter records", "error", err)
		os.Exit(1)
	}
	aggregate := dataprocessing.Summarize(records)

	fmt.Printf("Fonte: %s\n", *source)
	fmt.Printf("Linhas carregadas: %d (descartadas: %d)\n", len(dataset.Records), dataset.DroppedRows)
	fmt.Printf("Linhas filtradas: %d\n", len(records))
	fmt.Printf("Valor total: %s\n", exporter.FormatBRL(aggregate.TotalValue))
	fmt.Printf("Pedidos distintos: %d\n", aggregate.DistinctOrderCount)

	if *out != "" {
		if err := exporter.WriteRecordsCSVFile(*out, records); err != nil {
			slog.Error("Failed to write CSV", "path", *out, "error", err)
			os.Exit(1)
		}
		fmt.Printf("CSV gravado em: %s\n", *out)
	}
}

var flagDateLayouts = []string{"2006-01-02", "02/01/2006"}

func parseDateFlag(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range flagDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("want YYYY-MM-DD or DD/MM/YYYY, got %q", s)
}
