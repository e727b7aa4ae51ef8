package pipeline

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = "Account,Date,Ref,Type,Description,Debit,Credit\n" +
	"1,01/15/2024,,,\"KROGER #123, NASHVILLE\",\"50.00\",\"100.00\"\n" +
	"1,01/16/2024,,,PAYROLL,,2500.00\n" +
	"\n" +
	"1,01/17/2024,,,NO AMOUNT,,\n" +
	"1,01/18/2024,,,ZERO DEBIT,0.00,\n" +
	"short,row\n" +
	"1,,,,MISSING DATE,5.00,\n" +
	"1,01/19/2024,,,BEST BUY,\"$1,234.50\",\n"

func TestParseCSV(t *testing.T) {
	result := ParseCSV(sampleCSV)

	require.Len(t, result.Transactions, 3)
	assert.Equal(t, 8, result.Lines)
	assert.Equal(t, 5, result.Skipped)

	first := result.Transactions[0]
	assert.Equal(t, "01/15/2024", first.Date)
	assert.Equal(t, "KROGER #123, NASHVILLE", first.Description)
	assert.Equal(t, -50.0, first.Amount)

	assert.Equal(t, "PAYROLL", result.Transactions[1].Description)
	assert.Equal(t, 2500.0, result.Transactions[1].Amount)

	assert.Equal(t, "BEST BUY", result.Transactions[2].Description)
	assert.Equal(t, -1234.5, result.Transactions[2].Amount)
}

func TestParseCSV_Empty(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty string", ""},
		{"header only", "Account,Date,Ref,Type,Description,Debit,Credit"},
		{"header and trailing newline", "Account,Date,Ref,Type,Description,Debit,Credit\n"},
		{"only invalid rows", "h\n1,01/01/2024,,,X,,\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseCSV(tt.text)
			assert.NotNil(t, result.Transactions)
			assert.Empty(t, result.Transactions)
		})
	}
}

func TestParseCSV_TrailingBlankLines(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantLines   int
		wantSkipped int
	}{
		{"no trailing newline", "h\n1,01/05/2024,,,KROGER,1.00,", 1, 0},
		{"one trailing newline", "h\n1,01/05/2024,,,KROGER,1.00,\n", 1, 0},
		{"several trailing newlines", "h\n1,01/05/2024,,,KROGER,1.00,\n\n\n", 1, 0},
		{"trailing whitespace lines", "h\r\n1,01/05/2024,,,KROGER,1.00,\r\n  \r\n\t\n", 1, 0},
		{"inner blank line still counted", "h\n1,01/05/2024,,,KROGER,1.00,\n\n1,01/06/2024,,,SHELL,2.00,\n\n", 3, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseCSV(tt.text)
			require.NotEmpty(t, result.Transactions)
			assert.Equal(t, "KROGER", result.Transactions[0].Description)
			assert.Equal(t, tt.wantLines, result.Lines)
			assert.Equal(t, tt.wantSkipped, result.Skipped)
			assert.Equal(t, result.Lines-result.Skipped, len(result.Transactions))
		})
	}
}

func TestParseCSV_NegativeMagnitudes(t *testing.T) {
	text := "h\n" +
		"1,02/01/2024,,,REFUND,,-20.00\n" +
		"1,02/02/2024,,,CHARGE,-30.00,\n"

	result := ParseCSV(text)
	require.Len(t, result.Transactions, 2)
	assert.Equal(t, 20.0, result.Transactions[0].Amount)
	assert.Equal(t, -30.0, result.Transactions[1].Amount)
}

func TestParseCSVReader_LogsSkippedRows(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	result, err := ParseCSVReader(strings.NewReader(sampleCSV), log)
	require.NoError(t, err)
	assert.Len(t, result.Transactions, 3)
	assert.Contains(t, buf.String(), "Some CSV rows were skipped")
}

func TestSplitCSVLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"plain", "a,b,c", []string{"a", "b", "c"}},
		{"quoted comma", `a,"b, c",d`, []string{"a", `"b, c"`, "d"}},
		{"empty fields", "a,,", []string{"a", "", ""}},
		{"trims", " a , b ", []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitCSVLine(tt.line))
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"12.34", 12.34, true},
		{"$1,000.00", 1000, true},
		{"-5", -5, true},
		{"abc", 0, false},
		{"NaN", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseAmount(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
