package normalize

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// xlsxRows reads the first sheet of an Excel export. The header contract is
// the same as for CSV: a first row naming Amount, Date and optionally
// Category.
func xlsxRows(raw []byte) ([]rawRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return nil, &TabularParseError{Err: errors.Wrap(err, "open workbook")}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &TabularParseError{Err: errors.New("workbook has no sheets")}
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &TabularParseError{Err: errors.Wrap(err, "read sheet")}
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
