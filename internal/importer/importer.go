// Package importer reads ledgers exported by pocket and by banks.
package importer

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/cleared-dev/pocket/internal/input"
	"github.com/cleared-dev/pocket/internal/storage"
)

// Parser converts a CSV file into unvalidated candidates.
type Parser interface {
	Parse(r io.Reader) ([]input.Candidate, error)
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

// Get returns the parser for format, or an error naming the known formats.
func (r *Registry) Get(format string) (Parser, error) {
	p, ok := r.parsers[strings.ToLower(format)]
	if !ok {
		return nil, fmt.Errorf("unknown import format %q (known: %s)", format, strings.Join(r.Formats(), ", "))
	}
	return p, nil
}

// Formats lists registered format names in sorted order.
func (r *Registry) Formats() []string {
	names := make([]string, 0, len(r.parsers))
	for k := range r.parsers {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&PocketParser{})
	r.Register(&ChaseParser{})
	return r
}

// PocketParser reads files written by `pocket export`.
type PocketParser struct{}

// Format returns the parser name.
func (p *PocketParser) Format() string { return "pocket" }

// Parse reads a pocket CSV export. IDs are carried over so re-importing
// the same file does not duplicate entries.
func (p *PocketParser) Parse(r io.Reader) ([]input.Candidate, error) {
	rows, err := storage.ReadCSV(r)
	if err != nil {
		return nil, err
	}

	var out []input.Candidate
	for _, row := range rows {
		out = append(out, input.Candidate{
			ID:       row.ID,
			Type:     row.Type,
			Category: row.Category,
			Amount:   row.Amount,
			Date:     row.Date,
			Note:     row.Note,
		})
	}
	return out, nil
}
