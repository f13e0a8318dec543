package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Summary holds the aggregate totals of a set of transactions.
type Summary struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal // Income - Expense
}

// Negative reports whether the balance is below zero.
func (s Summary) Negative() bool {
	return s.Balance.IsNegative()
}

// Point is one step of a running balance: the balance after every
// transaction up to and including Date.
type Point struct {
	Date    time.Time
	Balance decimal.Decimal
}

// Label returns the chart label of the point.
func (p Point) Label() string {
	return p.Date.Format(DateFormat)
}
