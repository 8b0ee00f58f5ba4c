package importer

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/budgetcsv-dev/budgetcsv/internal/model"
)

// CSVParser parses a 3-column date,payee,amount dump with a header row.
type CSVParser struct{}

const (
	csvNumFields = 3
	colDate      = 0
	colPayee     = 1
	colAmount    = 2
)

// Format returns the parser name.
func (p *CSVParser) Format() string { return "csv" }

// Parse reads a CSV dump and returns RawTransactions.
func (p *CSVParser) Parse(r io.Reader) ([]model.RawTransaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = csvNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading rows CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	rows := make([]model.RawTransaction, 0, len(records)-1)
	for _, rec := range records[1:] {
		rows = append(rows, model.RawTransaction{
			Date:   rec[colDate],
			Payee:  rec[colPayee],
			Amount: rec[colAmount],
		})
	}
	return rows, nil
}
