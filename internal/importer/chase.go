package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cleared-dev/pocket/internal/input"
	"github.com/cleared-dev/pocket/internal/model"
)

// ChaseParser parses Chase bank checking CSV exports. Debits become
// expenses and credits become income, categorized by description.
type ChaseParser struct{}

const (
	chaseDateFormat = "01/02/2006"
	chaseNumFields  = 7
	chaseColDate    = 1
	chaseColDesc    = 2
	chaseColAmount  = 3
	chaseColType    = 4
)

// Format returns the parser name.
func (p *ChaseParser) Format() string { return "chase" }

// Parse reads a Chase CSV and returns one candidate per non-zero row.
func (p *ChaseParser) Parse(r io.Reader) ([]input.Candidate, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = chaseNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading chase CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	seen := make(map[string]int)
	var out []input.Candidate
	for i, rec := range records[1:] {
		c, ok, err := parseChaseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if !ok {
			continue
		}
		seen[c.ID]++
		if n := seen[c.ID]; n > 1 {
			c.ID = fmt.Sprintf("%s_%d", c.ID, n)
		}
		out = append(out, c)
	}
	return out, nil
}

func parseChaseRow(rec []string) (input.Candidate, bool, error) {
	date, err := time.Parse(chaseDateFormat, rec[chaseColDate])
	if err != nil {
		return input.Candidate{}, false, fmt.Errorf("parsing date %q: %w", rec[chaseColDate], err)
	}

	amount, err := model.ParseAmount(rec[chaseColAmount])
	if err != nil {
		return input.Candidate{}, false, fmt.Errorf("parsing amount %q: %w", rec[chaseColAmount], err)
	}
	if amount.IsZero() {
		return input.Candidate{}, false, nil
	}

	typ := model.TypeIncome
	if amount.IsNegative() {
		typ = model.TypeExpense
	}

	desc := strings.TrimSpace(rec[chaseColDesc])
	return input.Candidate{
		ID:       makeChaseRef(date, desc),
		Type:     string(typ),
		Category: desc,
		Amount:   amount.Abs().String(),
		Date:     date.Format(model.DateFormat),
		Note:     rec[chaseColType],
	}, true, nil
}

// makeChaseRef creates a reference like chase_20250103_GITHUBPRO.
func makeChaseRef(date time.Time, desc string) string {
	prefix := strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, desc)
	if len(prefix) > 10 {
		prefix = prefix[:10]
	}
	return fmt.Sprintf("chase_%s_%s", date.Format("20060102"), prefix)
}
