package export

import (
	"strings"

	"github.com/budgetcsv-dev/budgetcsv/internal/model"
)

// Header is the fixed 6-column budgeting-import header.
var Header = []string{"Date", "Payee", "Category", "Memo", "Outflow", "Inflow"}

// MarshalRow converts a NormalizedRow to its 6-field record.
func MarshalRow(row model.NormalizedRow) []string {
	return []string{row.Date, row.Payee, row.Category, row.Memo, row.Outflow, row.Inflow}
}

// Serialize renders the header plus rows as CSV text. Every field, header
// included, is wrapped in double quotes with internal quotes doubled; rows
// are joined by "\n" with no trailing newline and no BOM. encoding/csv only
// quotes fields that need it, so the always-quoted format is written by
// hand.
func Serialize(rows []model.NormalizedRow) string {
	var b strings.Builder
	writeRecord(&b, Header)
	for _, row := range rows {
		b.WriteByte('\n')
		writeRecord(&b, MarshalRow(row))
	}
	return b.String()
}

func writeRecord(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
}
