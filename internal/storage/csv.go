package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/cleared-dev/pocket/internal/model"
)

// CSVHeader is the header row of exported ledgers.
const CSVHeader = "id,date,type,category,amount,note"

const (
	numFields   = 6
	colID       = 0
	colDate     = 1
	colType     = 2
	colCategory = 3
	colAmount   = 4
	colNote     = 5
)

// Row is one unvalidated CSV row. Imports run rows through input validation
// before they reach the ledger.
type Row struct {
	ID       string
	Date     string
	Type     string
	Category string
	Amount   string
	Note     string
}

// WriteCSV writes txns (including header).
func WriteCSV(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(CSVHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, t := range txns {
		if err := cw.Write(MarshalRow(t)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV reads rows written by WriteCSV, skipping the header.
func ReadCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading ledger CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		rows = append(rows, UnmarshalRow(rec))
	}
	return rows, nil
}

// MarshalRow converts a Transaction to a CSV row.
func MarshalRow(t model.Transaction) []string {
	row := make([]string, numFields)
	row[colID] = t.ID
	row[colDate] = t.DateString()
	row[colType] = string(t.Type)
	row[colCategory] = t.Category
	row[colAmount] = t.Amount.String()
	row[colNote] = t.Note
	return row
}

// UnmarshalRow converts a CSV record to a Row.
func UnmarshalRow(record []string) Row {
	return Row{
		ID:       record[colID],
		Date:     record[colDate],
		Type:     record[colType],
		Category: record[colCategory],
		Amount:   record[colAmount],
		Note:     record[colNote],
	}
}
