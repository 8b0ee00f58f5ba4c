package importer

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/budgetcsv-dev/budgetcsv/internal/model"
)

// JSONParser parses a JSON array of {date, payee, amount} objects, the
// shape the scraping side hands over.
type JSONParser struct{}

// Format returns the parser name.
func (p *JSONParser) Format() string { return "json" }

// Parse reads a JSON dump and returns RawTransactions.
func (p *JSONParser) Parse(r io.Reader) ([]model.RawTransaction, error) {
	var rows []model.RawTransaction
	dec := json.NewDecoder(r)
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("reading rows JSON: %w", err)
	}
	return rows, nil
}
