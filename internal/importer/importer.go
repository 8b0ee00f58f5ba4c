package importer

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/budgetcsv-dev/budgetcsv/internal/model"
)

// Parser converts a scraped-row dump into RawTransactions.
type Parser interface {
	Parse(r io.Reader) ([]model.RawTransaction, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&JSONParser{})
	r.Register(&CSVParser{})
	return r
}

// DetectFormat infers a dump format from a file name extension, defaulting
// to json, the native dump shape.
func DetectFormat(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return "csv"
	default:
		return "json"
	}
}
