package normalize

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jinzhu/now"
	"github.com/pkg/errors"

	"max.ks1230/finance-dashboard/internal/entity/ledger"
)

// Format selects the parser for the uploaded transaction export.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

const (
	amountColumn   = "Amount"
	dateColumn     = "Date"
	categoryColumn = "Category"
)

// TabularParseError means the uploaded bytes could not be read as a
// transaction export at all: not parseable as delimited tabular data, or
// missing the required Amount/Date columns. Per-row coercion failures are
// not errors; those rows are dropped silently.
type TabularParseError struct {
	Err error
}

func (e *TabularParseError) Error() string {
	return "cannot parse transactions: " + e.Err.Error()
}

func (e *TabularParseError) Unwrap() error {
	return e.Err
}

// rawRow is one data row of the export, untyped, with empty strings for
// absent fields.
type rawRow struct {
	amount   string
	date     string
	category string
}

type columns struct {
	amount   int
	date     int
	category int
}

// Transactions parses a raw export into a ledger, applying, in order:
// presence checks on Amount and Date, numeric and date coercion (failures
// drop the row), month derivation, and the expense filter that keeps only
// strictly negative amounts and strips their sign. Residual source order is
// preserved. An export with no surviving rows yields an empty ledger.
func Transactions(raw []byte, format Format) (ledger.Ledger, error) {
	var rows []rawRow
	var err error

	switch format {
	case FormatCSV, "":
		rows, err = csvRows(raw)
	case FormatXLSX:
		rows, err = xlsxRows(raw)
	default:
		return nil, &TabularParseError{Err: fmt.Errorf("unsupported format %q", format)}
	}
	if err != nil {
		return nil, err
	}
	return buildLedger(rows), nil
}

func csvRows(raw []byte) ([]rawRow, error) {
	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, &TabularParseError{Err: errors.Wrap(err, "read csv")}
	}
	if len(records) == 0 {
		return nil, &TabularParseError{Err: errors.New("missing header row")}
	}

	cols, err := findColumns(records[0])
	if err != nil {
		return nil, err
	}

	rows := make([]rawRow, 0, len(records)-1)
	for _, record := range records[1:] {
		rows = append(rows, rawRow{
			amount:   field(record, cols.amount),
			date:     field(record, cols.date),
			category: field(record, cols.category),
		})
	}
	return rows, nil
}

func findColumns(header []string) (columns, error) {
	cols := columns{amount: -1, date: -1, category: -1}
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case amountColumn:
			cols.amount = i
		case dateColumn:
			cols.date = i
		case categoryColumn:
			cols.category = i
		}
	}
	if cols.amount < 0 || cols.date < 0 {
		return cols, &TabularParseError{
			Err: fmt.Errorf("required columns %s and %s not found", amountColumn, dateColumn),
		}
	}
	return cols, nil
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func buildLedger(rows []rawRow) ledger.Ledger {
	res := make(ledger.Ledger, 0, len(rows))
	for _, row := range rows {
		if row.amount == "" || row.date == "" {
			continue
		}
		amount, err := strconv.ParseFloat(row.amount, 64)
		if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
			// ParseFloat accepts NaN and infinities; a non-finite amount
			// is a failed coercion, not an expense
			continue
		}
		date, ok := parseDate(row.date)
		if !ok {
			continue
		}
		// credits and transfers-in never reach the ledger
		if amount >= 0 {
			continue
		}
		res = append(res, ledger.ExpenseRecord{
			Amount:   math.Abs(amount),
			Date:     date,
			Month:    now.New(date).BeginningOfMonth(),
			Category: row.category,
		})
	}
	return res
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"02.01.2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
