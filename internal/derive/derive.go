// Package derive computes the views of a ledger snapshot: totals, the
// display-ordered table, the range-filtered running balance and its chart
// bounds. All functions are pure; the current date is passed in.
package derive

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/pocket/internal/model"
)

// Range selects the trailing window of the balance chart.
type Range string

const (
	Range3M  Range = "3m"
	Range6M  Range = "6m"
	Range12M Range = "12m"
	RangeAll Range = "all"
)

// Ranges lists the accepted ranges in selector order.
var Ranges = []Range{Range3M, Range6M, Range12M, RangeAll}

// ErrUnknownRange is returned by ParseRange.
var ErrUnknownRange = errors.New("unknown range")

// ParseRange parses "3m", "6m", "12m" or "all".
func ParseRange(s string) (Range, error) {
	r := Range(s)
	if slices.Contains(Ranges, r) {
		return r, nil
	}
	return "", fmt.Errorf("%w %q: must be one of 3m, 6m, 12m, all", ErrUnknownRange, s)
}

// Months returns the window length, 0 for RangeAll.
func (r Range) Months() int {
	switch r {
	case Range3M:
		return 3
	case Range6M:
		return 6
	case Range12M:
		return 12
	default:
		return 0
	}
}

// Totals sums amounts by type.
func Totals(txns []model.Transaction) model.Summary {
	income, expense := decimal.Zero, decimal.Zero
	for _, t := range txns {
		if t.Type == model.TypeIncome {
			income = income.Add(t.Amount)
		} else {
			expense = expense.Add(t.Amount)
		}
	}
	return model.Summary{
		Income:  income,
		Expense: expense,
		Balance: income.Sub(expense),
	}
}

// DisplayOrder returns a copy of txns, most recent first. Transactions on
// the same date keep their insertion order.
func DisplayOrder(txns []model.Transaction) []model.Transaction {
	out := slices.Clone(txns)
	slices.SortStableFunc(out, func(a, b model.Transaction) int {
		return b.Date.Compare(a.Date)
	})
	return out
}

// Cutoff returns the first day included in r as of today: today's date
// minus the range's calendar months. Month subtraction normalises like
// time.AddDate, so 31 May minus 3 months is 3 March.
func Cutoff(r Range, today time.Time) time.Time {
	return model.Day(today).AddDate(0, -r.Months(), 0)
}

// Filter returns the transactions dated on or after r's cutoff, in
// insertion order. RangeAll returns every transaction.
func Filter(txns []model.Transaction, r Range, today time.Time) []model.Transaction {
	if r == RangeAll {
		return slices.Clone(txns)
	}
	cutoff := Cutoff(r, today)
	out := make([]model.Transaction, 0, len(txns))
	for _, t := range txns {
		if !t.Date.Before(cutoff) {
			out = append(out, t)
		}
	}
	return out
}
