package exporter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vendascli/internal/dataprocessing"
	"vendascli/pkg/contracts/domain"
)

func TestFormatNumberBR(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want string
	}{
		{name: "thousands grouping", in: 1234.56, want: "1.234,56"},
		{name: "millions grouping", in: 1234567.89, want: "1.234.567,89"},
		{name: "no grouping", in: 21, want: "21,00"},
		{name: "pads decimals", in: 13.4, want: "13,40"},
		{name: "zero", in: 0, want: "0,00"},
		{name: "negative", in: -1234.56, want: "-1.234,56"},
		{name: "rounds up across the integer boundary", in: 9.999, want: "10,00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatNumberBR(tt.in))
		})
	}
}

func TestFormatBRL(t *testing.T) {
	assert.Equal(t, "R$ 1.234,56", FormatBRL(1234.56))
	assert.Equal(t, "R$ 0,00", FormatBRL(0))
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "01/03/2024", FormatDate(d))
}

func TestFormatParseRoundTrip(t *testing.T) {
	// Formatting a value in the Brazilian display convention and re-parsing
	// it yields the original value within rounding tolerance.
	for _, v := range []float64{0, 0.01, 21, 1234.56, 1234567.89, -98765.43} {
		got, ok := dataprocessing.ParseNumber(domain.TextCell(FormatBRL(v)))
		require.True(t, ok, "value %v did not round-trip", v)
		assert.InDelta(t, v, got, 0.005)
	}
}
